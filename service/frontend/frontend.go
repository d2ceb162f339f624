/*
   Serves the url recommendation HTTP API
*/

package frontend

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Ahmed-Sermani/linkrec/graph"
	"github.com/Ahmed-Sermani/linkrec/recommend"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/Ahmed-Sermani/linkrec/service/frontend GraphAPI

const (
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// GraphAPI is implemented by objects that can list the urls related to a user
// and serve the lookups needed by the recommendation engine.
type GraphAPI interface {
	ListUrlsByRelation(ctx context.Context, user string, relation graph.Relation) ([]graph.Url, error)
	recommend.Graph
}

// IndexAPI is implemented by objects that can query the page index.
type IndexAPI interface {
	recommend.Searcher
}

// Config encapsulates the settings for configuring the front-end service.
type Config struct {
	// The address to listen for incoming HTTP requests.
	ListenAddr string

	GraphAPI GraphAPI
	IndexAPI IndexAPI

	// RequestTimeout bounds the time spent serving a single request.
	// Defaults to 30s.
	RequestTimeout time.Duration

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.ListenAddr == "" {
		err = multierror.Append(err, xerrors.Errorf("listen address has not been specified"))
	}
	if cfg.GraphAPI == nil {
		err = multierror.Append(err, xerrors.Errorf("graph API has not been provided"))
	}
	if cfg.IndexAPI == nil {
		err = multierror.Append(err, xerrors.Errorf("index API has not been provided"))
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = logrus.NewEntry(l)
	}
	return err
}

// Service implements the front-end component for the url recommender.
type Service struct {
	cfg     Config
	engine  *recommend.Engine
	router  chi.Router
	metrics *metrics
}

// NewService creates a new front-end service instance with the specified config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("front-end service: config validation failed: %w", err)
	}

	engine, err := recommend.NewEngine(recommend.Config{
		Graph:    cfg.GraphAPI,
		Searcher: cfg.IndexAPI,
		Logger:   cfg.Logger.WithField("component", "recommend"),
	})
	if err != nil {
		return nil, xerrors.Errorf("front-end service: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := &Service{
		cfg:     cfg,
		engine:  engine,
		metrics: newMetrics(reg),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(svc.logRequests)
	r.Use(svc.metrics.instrument)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
		r.Get("/ping", svc.renderPing)
		r.Route("/user/{user}", func(r chi.Router) {
			r.Get("/liked_urls", svc.renderLikedUrls)
			r.Get("/owned_urls", svc.renderOwnedUrls)
			r.Get("/search/{query}", svc.renderSearch)
			r.Get("/recommend", svc.renderRecommend)
		})
	})
	svc.router = r

	return svc, nil
}

// Name implements service.Service
func (svc *Service) Name() string { return "front-end" }

// ServeHTTP implements http.Handler.
func (svc *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

// Run implements service.Service
func (svc *Service) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", svc.cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	srv := &http.Server{
		Addr:              svc.cfg.ListenAddr,
		Handler:           svc,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	svc.cfg.Logger.WithField("addr", l.Addr().String()).Info("listening for incoming requests")
	if err = srv.Serve(l); err == http.ErrServerClosed {
		err = nil
	}
	return err
}
