package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/san-kum/spinarena/internal/sim"
)

// Server exposes a Driver over a REST API and a websocket frame stream.
type Server struct {
	driver  *Driver
	hub     *Hub
	router  *gin.Engine
	started time.Time
}

// New wires d's frames into the websocket hub and registers the routes.
func New(d *Driver) *Server {
	s := &Server{driver: d, started: time.Now()}
	s.hub = NewHub(s.handleMessage)
	d.OnFrame = func(f sim.Frame) {
		s.hub.Broadcast("frame", f)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), cors)
	s.routes()
	return s
}

func cors(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

func (s *Server) routes() {
	s.router.GET("/ws", func(c *gin.Context) {
		s.hub.Serve(c.Writer, c.Request)
	})

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.health)
		v1.GET("/state", s.state)
		v1.GET("/stats", s.stats)
		v1.GET("/params", s.getParams)
		v1.PUT("/params", s.putParams)
		v1.PUT("/arena", s.putArena)

		bodies := v1.Group("/bodies")
		{
			bodies.POST("", s.createBody)
			bodies.DELETE("/:id", s.removeBody)
			bodies.POST("/:id/hold", s.holdBody)
			bodies.POST("/:id/move", s.moveBody)
			bodies.POST("/:id/release", s.releaseBody)
		}
	}
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) Driver() *Driver { return s.driver }

// Run serves on addr and drives the world until ctx is done, then shuts the
// HTTP server down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.hub.Run(ctx)
	go s.driver.Run(ctx)

	srv := &http.Server{Addr: addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Printf("[serve] listening on %s", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		log.Printf("[serve] shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
