package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/san-kum/spinarena/internal/dynamo"
	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/physics"
	"github.com/san-kum/spinarena/internal/sim"
)

type bodyRequest struct {
	X       float64          `json:"x"`
	Y       float64          `json:"y"`
	Radius  float64          `json:"radius"`
	Mass    float64          `json:"mass"`
	Color   string           `json:"color"`
	VX      float64          `json:"vx"`
	VY      float64          `json:"vy"`
	Spin    float64          `json:"spin"`
	Pattern *pattern.Pattern `json:"pattern"`
}

type positionRequest struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type velocityRequest struct {
	ID int     `json:"id"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

type arenaRequest struct {
	Width  float64 `json:"width" binding:"required"`
	Height float64 `json:"height" binding:"required"`
}

// statusFor maps simulation errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dynamo.ErrUnknownBody):
		return http.StatusNotFound
	case errors.Is(err, dynamo.ErrInvalidBody),
		errors.Is(err, dynamo.ErrInvalidState),
		errors.Is(err, dynamo.ErrParameterBounds):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func bodyID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body id"})
		return 0, false
	}
	return id, true
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "spinarena",
		"uptime":  time.Since(s.started).String(),
		"clients": s.hub.Len(),
	})
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, s.driver.Snapshot())
}

func (s *Server) stats(c *gin.Context) {
	var energy float64
	var bodies int
	s.driver.Do(func(w *sim.World) error {
		energy, bodies = w.Energy(), w.Len()
		return nil
	})
	totals := s.driver.Totals()
	c.JSON(http.StatusOK, gin.H{
		"bodies":     bodies,
		"energy":     energy,
		"wall_hits":  totals.WallHits,
		"collisions": totals.Collisions,
	})
}

func (s *Server) getParams(c *gin.Context) {
	var params map[string]float64
	s.driver.Do(func(w *sim.World) error {
		params = w.Params().GetParams()
		return nil
	})
	c.JSON(http.StatusOK, params)
}

// putParams applies a partial update. Either every value is accepted or none.
func (s *Server) putParams(c *gin.Context) {
	var req map[string]float64
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected an object of parameter values"})
		return
	}

	var params map[string]float64
	err := s.driver.Do(func(w *sim.World) error {
		next := w.Params().Clone()
		for name, value := range req {
			if err := next.SetParam(name, value); err != nil {
				return err
			}
		}
		*w.Params() = *next
		params = next.GetParams()
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, params)
}

func (s *Server) putArena(c *gin.Context) {
	var req arenaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height required"})
		return
	}

	err := s.driver.Do(func(w *sim.World) error {
		next := w.Params().Clone()
		next.SetArena(req.Width, req.Height)
		if err := next.Validate(); err != nil {
			return err
		}
		w.Params().SetArena(req.Width, req.Height)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"width": req.Width, "height": req.Height})
}

func (s *Server) createBody(c *gin.Context) {
	var req bodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Pattern != nil {
		if err := req.Pattern.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var state sim.BodyState
	err := s.driver.Do(func(w *sim.World) error {
		color := req.Color
		if color == "" {
			color = s.driver.nextColor()
		}
		d, err := physics.NewDisk(req.X, req.Y, req.Radius, req.Mass, color, req.VX, req.VY)
		if err != nil {
			return err
		}
		if !dynamo.IsFinite(req.Spin) {
			return fmt.Errorf("%w: spin %v", dynamo.ErrInvalidBody, req.Spin)
		}
		d.AngularVelocity = req.Spin

		p := pattern.Choose(s.driver.rng)
		if req.Pattern != nil {
			p = *req.Pattern
		}
		state = w.Add(d, p).State()
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

func (s *Server) removeBody(c *gin.Context) {
	id, ok := bodyID(c)
	if !ok {
		return
	}
	var removed bool
	s.driver.Do(func(w *sim.World) error {
		removed = w.Remove(id)
		return nil
	})
	if !removed {
		fail(c, fmt.Errorf("%w: %d", dynamo.ErrUnknownBody, id))
		return
	}
	c.Status(http.StatusNoContent)
}

// withBody runs fn on one body and answers with its state afterwards.
func (s *Server) withBody(c *gin.Context, id int, fn func(w *sim.World) error) {
	var state sim.BodyState
	err := s.driver.Do(func(w *sim.World) error {
		if err := fn(w); err != nil {
			return err
		}
		b, _ := w.Body(id)
		state = b.State()
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) holdBody(c *gin.Context) {
	id, ok := bodyID(c)
	if !ok {
		return
	}
	s.withBody(c, id, func(w *sim.World) error { return w.Hold(id) })
}

func (s *Server) moveBody(c *gin.Context) {
	id, ok := bodyID(c)
	if !ok {
		return
	}
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x and y required"})
		return
	}
	s.withBody(c, id, func(w *sim.World) error { return w.MoveTo(id, req.X, req.Y) })
}

func (s *Server) releaseBody(c *gin.Context) {
	id, ok := bodyID(c)
	if !ok {
		return
	}
	var req velocityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vx and vy required"})
		return
	}
	s.withBody(c, id, func(w *sim.World) error { return w.Release(id, req.VX, req.VY) })
}

// handleMessage serves the drag commands a renderer sends over its websocket:
// hold, move and release carry a body id; state returns the current frame.
func (s *Server) handleMessage(msg Message) (any, error) {
	switch msg.Type {
	case "state":
		return s.driver.Snapshot(), nil
	case "hold":
		var req positionRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return nil, err
		}
		return nil, s.driver.Do(func(w *sim.World) error { return w.Hold(req.ID) })
	case "move":
		var req positionRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return nil, err
		}
		return nil, s.driver.Do(func(w *sim.World) error { return w.MoveTo(req.ID, req.X, req.Y) })
	case "release":
		var req velocityRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return nil, err
		}
		return nil, s.driver.Do(func(w *sim.World) error { return w.Release(req.ID, req.VX, req.VY) })
	}
	return nil, fmt.Errorf("unknown message type %q", msg.Type)
}
