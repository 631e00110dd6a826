// Package gateway serves the PWA: the page shells, the service worker and
// manifest, a cookie bridge for the session token, and a reverse proxy to
// the nutrition API. Route access is enforced here, before any page is
// rendered.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan/nutriscan/internal/config"
	"github.com/nutriscan/nutriscan/internal/logging"
	"github.com/nutriscan/nutriscan/internal/session"
)

// Server is the PWA gateway.
type Server struct {
	cfg    *config.Config
	log    logging.Logger
	engine *gin.Engine
	proxy  *httputil.ReverseProxy
}

// New builds the gateway from config. Fails if the API base URL does not
// parse.
func New(cfg *config.Config, log logging.Logger) (*Server, error) {
	apiURL, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &Server{
		cfg:    cfg,
		log:    log,
		engine: engine,
		proxy:  newAPIProxy(apiURL),
	}

	engine.Use(gin.Recovery(), s.requestLogger(), RouteGuard())
	s.routes()
	return s, nil
}

// Handler exposes the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.GatewayAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "gateway listening", "addr", s.cfg.GatewayAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	s.engine.POST("/session", s.createSession)
	s.engine.DELETE("/session", s.deleteSession)

	s.engine.GET("/manifest.webmanifest", s.manifest)
	s.engine.GET("/sw.js", s.serviceWorker)

	s.engine.Any("/api/*path", s.proxyAPI)

	s.engine.GET("/", s.page("NutriScan"))
	s.engine.GET("/login", s.page("Sign in"))
	s.engine.GET("/dashboard", s.page("Dashboard"))
	s.engine.GET("/journal", s.page("Journal"))
	s.engine.GET("/scan", s.page("Scan"))
	s.engine.GET("/trends", s.page("Trends"))
	s.engine.GET("/settings", s.page("Settings"))
	s.engine.GET("/onboarding-profile", s.page("Your profile"))
	s.engine.GET("/add", s.page("Add meal"))
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createSessionRequest struct {
	Token string `json:"token" binding:"required"`
}

// createSession mirrors a freshly obtained API token into the auth_token
// cookie so the route guard can see it.
func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "token is required"})
		return
	}
	http.SetCookie(c.Writer, session.NewCookie(req.Token))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// deleteSession clears the cookie. Idempotent.
func (s *Server) deleteSession(c *gin.Context) {
	http.SetCookie(c.Writer, session.ExpiredCookie())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// proxyAPI forwards /api/* to the nutrition backend. A session cookie is
// promoted to a bearer header when the client did not send one itself.
func (s *Server) proxyAPI(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
			c.Request.Header.Set("Authorization", "Bearer "+token)
		}
	}
	s.proxy.ServeHTTP(c.Writer, c.Request)
}

func newAPIProxy(apiURL *url.URL) *httputil.ReverseProxy {
	basePath := strings.TrimSuffix(apiURL.Path, "/")
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Scheme = apiURL.Scheme
			pr.Out.URL.Host = apiURL.Host
			pr.Out.URL.Path = basePath + strings.TrimPrefix(pr.In.URL.Path, "/api")
			pr.Out.Host = apiURL.Host
		},
	}
}
