// Package server serves rendered previews of the animations over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/config"
	"github.com/san-kum/folio/internal/export"
	"github.com/san-kum/folio/internal/globe"
	"github.com/san-kum/folio/internal/motion"
	"github.com/san-kum/folio/internal/rain"
	"github.com/san-kum/folio/internal/raster"
	"github.com/san-kum/folio/internal/scramble"
)

const (
	minSide       = 16
	maxSide       = 1024
	maxGIFFrames  = 120
	maxText       = 200
	maxScrambleMs = 60_000

	DefaultRate  = 5
	DefaultBurst = 10

	shutdownTimeout = 5 * time.Second
)

var errParam = errors.New("bad parameter")

type Server struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	limiter *rate.Limiter
	engine  *gin.Engine
}

type Option func(*Server)

// WithLimit sets the request rate (per second) and burst shared by all
// clients.
func WithLimit(perSecond float64, burst int) Option {
	return func(s *Server) { s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func New(cfg *config.Config, log *zap.SugaredLogger, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log,
		limiter: rate.NewLimiter(DefaultRate, DefaultBurst),
	}
	for _, o := range opts {
		o(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	preview := r.Group("/", s.rateLimit())
	preview.GET("/globe.png", s.image(s.newGlobe, false))
	preview.GET("/globe.gif", s.image(s.newGlobe, true))
	preview.GET("/rain.png", s.image(s.newRain, false))
	preview.GET("/rain.gif", s.image(s.newRain, true))
	preview.GET("/scramble", s.scramble)
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() {
		s.log.Infow("preview server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debugw("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start))
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limited"})
			return
		}
		c.Next()
	}
}

type params struct {
	w, h    int
	frames  int
	seed    int64
	reduced bool
}

func (s *Server) parse(c *gin.Context) (params, error) {
	p := params{
		w:       s.cfg.Width,
		h:       s.cfg.Height,
		frames:  30,
		seed:    s.cfg.Seed,
		reduced: s.cfg.ReducedMotion,
	}
	var err error
	if p.w, err = intParam(c, "w", p.w, minSide, maxSide); err != nil {
		return p, err
	}
	if p.h, err = intParam(c, "h", p.h, minSide, maxSide); err != nil {
		return p, err
	}
	if p.frames, err = intParam(c, "frames", p.frames, 1, maxGIFFrames); err != nil {
		return p, err
	}
	if v := c.Query("seed"); v != "" {
		if p.seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return p, fmt.Errorf("%w: seed %q", errParam, v)
		}
	}
	if v := c.Query("reduced"); v != "" {
		p.reduced = motion.Parse(v)
	}
	return p, nil
}

// intParam reads an integer query parameter. Absent means def, clamped to
// [lo, hi] so configured defaults larger than the preview limit still work.
func intParam(c *gin.Context, name string, def, lo, hi int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return min(max(def, lo), hi), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%w: %s must be an integer in [%d, %d]", errParam, name, lo, hi)
	}
	return n, nil
}

type builder func(p params, surf *raster.Surface) anim.Renderer

func (s *Server) newGlobe(p params, surf *raster.Surface) anim.Renderer {
	return globe.New(s.cfg.GlobeConfig(), surf, motion.Static(p.reduced), globe.WithSeed(p.seed))
}

func (s *Server) newRain(p params, surf *raster.Surface) anim.Renderer {
	return rain.New(s.cfg.RainConfig(), surf, motion.Static(p.reduced), rain.WithSeed(p.seed))
}

func (s *Server) image(build builder, animated bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := s.parse(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		surf := raster.New(p.w, p.h)
		r := build(p, surf)
		r.Resize(float64(p.w), float64(p.h))

		opts := export.DefaultOptions()
		opts.FPS = min(s.cfg.FPS, 50)
		opts.Frames = p.frames
		contentType := "image/gif"
		enc := export.GIF
		if !animated {
			contentType = "image/png"
			enc = export.PNG
		}

		var buf bytes.Buffer
		res, err := enc(&buf, r, surf, opts)
		if err != nil {
			s.log.Warnw("render failed", "path", c.Request.URL.Path, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		s.log.Debugw("rendered", "path", c.Request.URL.Path, "result", res.String())
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, contentType, buf.Bytes())
	}
}

type scrambleFrame struct {
	Text      string `json:"text"`
	Target    string `json:"target"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Done      bool   `json:"done"`
}

// scramble returns the text a reveal of ?text= shows ?t= milliseconds in.
func (s *Server) scramble(c *gin.Context) {
	p, err := s.parse(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text := c.Query("text")
	if text == "" {
		text = s.cfg.Scramble.Text
	}
	if !utf8.ValidString(text) || utf8.RuneCountInString(text) > maxText {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("text must be valid UTF-8 of at most %d characters", maxText)})
		return
	}
	ms, err := intParam(c, "t", 0, 0, maxScrambleMs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sc := scramble.New(s.cfg.ScrambleConfig(), text, motion.Static(p.reduced), scramble.WithSeed(p.seed))
	defer sc.Close()
	sc.Frame(time.Duration(ms) * time.Millisecond)

	c.JSON(http.StatusOK, scrambleFrame{
		Text:      sc.Text(),
		Target:    sc.Target(),
		ElapsedMs: sc.Elapsed().Milliseconds(),
		Done:      sc.Done(),
	})
}
