package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/physics"
	"github.com/san-kum/spinarena/internal/sim"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	p := physics.DefaultParams()
	p.Gravity = 0
	p.AirDensity = 0
	w := sim.NewWorld(p)
	d, err := physics.NewDisk(100, 100, 20, 2, "#ff0000", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Add(d, pattern.Pattern{Kind: pattern.Circle})
	return New(NewDriver(w, 1.0/120, 60, 1, []string{"#00ff00"}))
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decode[map[string]any](t, rec)
	if got["status"] != "ok" {
		t.Errorf("expected status ok, got %v", got["status"])
	}
}

func TestStateReflectsTicks(t *testing.T) {
	s := newTestServer(t)
	s.Driver().Tick()

	f := decode[sim.Frame](t, do(t, s, http.MethodGet, "/api/v1/state", ""))
	if f.Step != 2 {
		t.Errorf("expected step 2, got %d", f.Step)
	}
	if len(f.Bodies) != 1 || f.Bodies[0].X <= 100 {
		t.Errorf("expected the body to have moved right, got %+v", f.Bodies)
	}
}

func TestPutParams(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPut, "/api/v1/params", `{"gravity": 9.81, "drag": 0.1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	got := decode[map[string]float64](t, rec)
	if got["drag"] != 0.1 {
		t.Errorf("expected drag 0.1, got %v", got["drag"])
	}

	params := decode[map[string]float64](t, do(t, s, http.MethodGet, "/api/v1/params", ""))
	if params["drag"] != 0.1 {
		t.Errorf("expected stored drag 0.1, got %v", params["drag"])
	}
}

func TestPutParamsIsAtomic(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPut, "/api/v1/params", `{"drag": 0.3, "bogus": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	params := decode[map[string]float64](t, do(t, s, http.MethodGet, "/api/v1/params", ""))
	if params["drag"] != physics.DefaultDragCoefficient {
		t.Errorf("expected drag unchanged, got %v", params["drag"])
	}

	rec = do(t, s, http.MethodPut, "/api/v1/params", `{"air_density": -1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative density, got %d", rec.Code)
	}
}

func TestPutArena(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPut, "/api/v1/arena", `{"width": 1024, "height": 768}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	f := s.Driver().Snapshot()
	if f.Width != 1024 || f.Height != 768 {
		t.Errorf("expected 1024x768, got %vx%v", f.Width, f.Height)
	}

	for _, body := range []string{`{"width": -5, "height": 10}`, `{"width": 10}`, `nope`} {
		if rec := do(t, s, http.MethodPut, "/api/v1/arena", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestCreateBody(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/bodies", `{"x": 300, "y": 200, "radius": 15, "mass": 3, "vx": -10}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	b := decode[sim.BodyState](t, rec)
	if b.ID != 2 {
		t.Errorf("expected id 2, got %d", b.ID)
	}
	if b.Color != "#00ff00" {
		t.Errorf("expected palette colour, got %s", b.Color)
	}
	if err := b.Pattern.Validate(); err != nil {
		t.Errorf("expected a valid random pattern, got %v", err)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/bodies", `{"x": 1, "y": 1, "radius": 5, "mass": 1, "pattern": {"kind": "star", "count": 7, "outline": true}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	b = decode[sim.BodyState](t, rec)
	if b.Pattern.Kind != pattern.Star || b.Pattern.Count != 7 || !b.Pattern.Outline {
		t.Errorf("expected outlined 7-point star, got %v", b.Pattern)
	}
}

func TestCreateBodyRejectsInvalid(t *testing.T) {
	s := newTestServer(t)
	cases := []string{
		`{"x": 1, "y": 1, "radius": 0, "mass": 1}`,
		`{"x": 1, "y": 1, "radius": 5, "mass": -1}`,
		`{"x": 1, "y": 1, "radius": 5, "mass": 1, "pattern": {"kind": "star", "count": 50}}`,
		`[]`,
	}
	for _, body := range cases {
		if rec := do(t, s, http.MethodPost, "/api/v1/bodies", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestRemoveBody(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodDelete, "/api/v1/bodies/1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/bodies/1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/bodies/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHoldMoveRelease(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/bodies/1/hold", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	b := decode[sim.BodyState](t, rec)
	if !b.Held || b.VX != 0 {
		t.Errorf("expected held body at rest, got %+v", b)
	}

	b = decode[sim.BodyState](t, do(t, s, http.MethodPost, "/api/v1/bodies/1/move", `{"x": 250, "y": 260}`))
	if b.X != 250 || b.Y != 260 {
		t.Errorf("expected (250,260), got (%v,%v)", b.X, b.Y)
	}

	s.Driver().Tick()
	if got := s.Driver().Snapshot().Bodies[0]; got.X != 250 || got.Y != 260 {
		t.Errorf("expected held body to stay put, got (%v,%v)", got.X, got.Y)
	}

	b = decode[sim.BodyState](t, do(t, s, http.MethodPost, "/api/v1/bodies/1/release", `{"vx": 30, "vy": -40}`))
	if b.Held || b.VX != 30 || b.VY != -40 {
		t.Errorf("expected released with (30,-40), got %+v", b)
	}

	if rec := do(t, s, http.MethodPost, "/api/v1/bodies/9/hold", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	got := decode[map[string]float64](t, do(t, s, http.MethodGet, "/api/v1/stats", ""))
	if got["bodies"] != 1 {
		t.Errorf("expected 1 body, got %v", got["bodies"])
	}
	if got["energy"] <= 0 {
		t.Errorf("expected positive energy, got %v", got["energy"])
	}
}

func TestWebSocketStreamsFrames(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Hub().Run(ctx)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Hub().Len() != 1 {
		t.Fatalf("expected 1 client, got %d", s.Hub().Len())
	}

	s.Driver().Tick()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "frame" {
		t.Fatalf("expected frame, got %s", msg.Type)
	}
	var f sim.Frame
	if err := json.Unmarshal(msg.Data, &f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if f.Step != 2 || len(f.Bodies) != 1 {
		t.Errorf("expected step 2 with 1 body, got step %d with %d", f.Step, len(f.Bodies))
	}
}

func TestWebSocketCommands(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Hub().Run(ctx)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	send := func(msgType, data string) {
		t.Helper()
		msg := Message{Type: msgType}
		if data != "" {
			msg.Data = json.RawMessage(data)
		}
		if err := conn.WriteJSON(msg); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	send("hold", `{"id": 1}`)
	send("move", `{"id": 1, "x": 50, "y": 60}`)
	send("state", "")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var reply Message
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Type != "state" {
		t.Fatalf("expected state reply, got %s", reply.Type)
	}
	var f sim.Frame
	if err := json.Unmarshal(reply.Data, &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := f.Bodies[0]; !b.Held || b.X != 50 || b.Y != 60 {
		t.Errorf("expected held body at (50,60), got %+v", b)
	}

	send("explode", "")
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Type != "error" {
		t.Errorf("expected error reply, got %s", reply.Type)
	}
}
