// Package web hosts one upload widget per browser session over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/preview"
)

// SessionCookie names the cookie carrying the session id
const SessionCookie = "detector_session"

// Options configures the Server
type Options struct {
	Listen    string
	Sessions  *Registry
	Spool     *Spool
	Previews  *preview.MemoryStore // nil when previews are served elsewhere
	Metrics   http.Handler
	NoticeTTL time.Duration
	Title     string
}

// Server is the HTTP host for the widget
type Server struct {
	opts   Options
	engine *gin.Engine
	http   *http.Server
	logw   io.Closer
}

// NewServer creates the gin engine and registers every route
func NewServer(opts Options) (*Server, error) {
	if opts.Sessions == nil {
		return nil, errors.New("server requires a session registry")
	}
	if opts.Spool == nil {
		return nil, errors.New("server requires an upload spool")
	}

	logw := logger.Writer()
	engine := gin.New()
	engine.Use(gin.LoggerWithWriter(logw, "/healthz", "/metrics"), gin.Recovery())

	s := &Server{
		opts:   opts,
		engine: engine,
		logw:   logw,
		http: &http.Server{
			Addr:              opts.Listen,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)
	if s.opts.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.opts.Metrics))
	}

	session := s.engine.Group("/", s.withSession)
	{
		session.GET("/", s.index)
		session.GET("/preview/:id", s.preview)

		w := session.Group("/widget")
		{
			w.POST("/kind", s.selectKind)
			w.POST("/file", s.selectFile)
			w.POST("/drag/:phase", s.drag)
			w.POST("/drop", s.drop)
			w.POST("/submit", s.submit)
			w.POST("/remove", s.remove)
			w.POST("/prompt/dismiss", s.dismissPrompt)
		}
	}
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until Shutdown is called
func (s *Server) ListenAndServe() error {
	logger.Info("Listening on %s", s.opts.Listen)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and closes every session
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server")
	err := s.http.Shutdown(ctx)
	s.opts.Sessions.Close(ctx)
	s.logw.Close()
	return err
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.opts.Sessions.Len()})
}
