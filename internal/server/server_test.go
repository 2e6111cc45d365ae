package server

import (
	"context"
	"encoding/json"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/folio/internal/config"
	"github.com/san-kum/folio/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 9
	log, _ := logging.NewObservedTestLogger(t)
	return New(cfg, log, append([]Option{WithLimit(1000, 1000)}, opts...)...)
}

func get(s *Server, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := get(newTestServer(t), "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPNGEndpoints(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/globe.png?w=64&h=48", "/rain.png?w=64&h=48&reduced=1"} {
		w := get(s, path)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d: %s", path, w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/png" {
			t.Fatalf("%s: content type %q", path, ct)
		}
		img, err := png.Decode(w.Body)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
			t.Fatalf("%s: bounds %v", path, b)
		}
	}
}

func TestGIFEndpoint(t *testing.T) {
	w := get(newTestServer(t), "/globe.gif?w=32&h=32&frames=4")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	g, err := gif.DecodeAll(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 4 {
		t.Fatalf("frames = %d", len(g.Image))
	}
}

func TestBadParams(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{
		"/globe.png?w=5",
		"/globe.png?h=99999",
		"/rain.gif?frames=0",
		"/rain.png?seed=abc",
		"/scramble?t=-1",
	} {
		if w := get(s, path); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d", path, w.Code)
		}
	}
}

func TestScrambleEndpoint(t *testing.T) {
	s := newTestServer(t)

	var f scrambleFrame
	w := get(s, "/scramble?text=HELLO+THERE&t=10000")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &f); err != nil {
		t.Fatal(err)
	}
	if !f.Done || f.Text != "HELLO THERE" || f.ElapsedMs != 10000 {
		t.Fatalf("frame = %+v", f)
	}

	w = get(s, "/scramble?text=HELLO+THERE&t=0")
	json.Unmarshal(w.Body.Bytes(), &f)
	if f.Done || f.Target != "HELLO THERE" || len([]rune(f.Text)) != 11 || f.Text == f.Target {
		t.Fatalf("frame at zero = %+v", f)
	}

	w = get(s, "/scramble?text=HI&reduced=true")
	json.Unmarshal(w.Body.Bytes(), &f)
	if !f.Done || f.Text != "HI" {
		t.Fatalf("reduced frame = %+v", f)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, WithLimit(0.001, 1))
	if w := get(s, "/scramble?text=A"); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	if w := get(s, "/scramble?text=A"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", w.Code)
	}
	if w := get(s, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("healthz is not limited: %d", w.Code)
	}
}

func TestRunShutsDown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
