package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/c9s/connectors/pkg/exchange"
	"github.com/c9s/connectors/pkg/types"
)

var log = logrus.WithField("component", "server")

// ExchangeConstructor creates the public exchange instance served for a name.
type ExchangeConstructor func(name types.ExchangeName) (types.Exchange, error)

// Server is a read-only HTTP gateway over the public unified methods.
// Exchange instances are created on first use and then shared, so market
// discovery runs once per exchange.
type Server struct {
	NewExchange ExchangeConstructor

	mu        sync.Mutex
	exchanges map[types.ExchangeName]types.Exchange
}

func New() *Server {
	return &Server{
		NewExchange: exchange.NewPublic,
		exchanges:   make(map[types.ExchangeName]types.Exchange),
	}
}

func (s *Server) exchange(name string) (types.Exchange, error) {
	n, err := types.ValidExchangeName(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ex, ok := s.exchanges[n]; ok {
		return ex, nil
	}

	ex, err := s.NewExchange(n)
	if err != nil {
		return nil, err
	}

	s.exchanges[n] = ex
	return ex, nil
}

// Handler builds the gin engine.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowMethods:     []string{"GET"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.routes(r.Group("/api"))
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	}
}

// Run serves on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		log.Infof("gateway listening on %s", addr)
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("gateway shutdown error")
			return err
		}
		return nil
	}
}
