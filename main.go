package main

import (
	"context"
	"flag"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Ahmed-Sermani/linkrec/graph/store/cdb"
	memgraph "github.com/Ahmed-Sermani/linkrec/graph/store/memory"
	"github.com/Ahmed-Sermani/linkrec/graph/store/neo4jdb"
	"github.com/Ahmed-Sermani/linkrec/indexer/store/es"
	memindexer "github.com/Ahmed-Sermani/linkrec/indexer/store/memory"
	"github.com/Ahmed-Sermani/linkrec/service"
	"github.com/Ahmed-Sermani/linkrec/service/frontend"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

var (
	appName = "linkrec"
	appSha  = ""
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	rootLogger.SetFormatter(new(logrus.JSONFormatter))
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := run(logger); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(logger *logrus.Entry) error {
	group, err := setupServices(logger)
	if err != nil {
		if relErr := group.Release(); relErr != nil {
			logger.WithField("err", relErr).Warn("unable to release backend resources")
		}
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	return group.Run(ctx)
}

type backendConfig struct {
	graphURI      string
	graphUser     string
	graphPass     string
	graphDatabase string

	indexURI  string
	indexUser string
	indexPass string

	queryTimeout time.Duration
	maxResults   int
}

// setupServices always returns a group so that backends attached before a
// failure can still be released.
func setupServices(logger *logrus.Entry) (*service.Group, error) {
	var (
		frontendCfg frontend.Config
		backendCfg  backendConfig
		group       = new(service.Group)
	)

	flag.StringVar(&frontendCfg.ListenAddr, "frontend-listen-addr", ":3000", "The address to listen for incoming front-end requests")
	flag.DurationVar(&frontendCfg.RequestTimeout, "frontend-request-timeout", 30*time.Second, "The maximum time spent serving a single request")

	flag.StringVar(&backendCfg.graphURI, "graph-uri", envOr("NEO4J_HOST", "in-memory://"), "The URI for connecting to the social graph (supported URIs: in-memory://, neo4j://host:7687, bolt://host:7687, postgresql://user@host:26257/linkrec?sslmode=disable)")
	flag.StringVar(&backendCfg.graphUser, "graph-user", os.Getenv("NEO4J_USER"), "The user for authenticating against neo4j")
	flag.StringVar(&backendCfg.graphPass, "graph-pass", os.Getenv("NEO4J_PASS"), "The password for authenticating against neo4j")
	flag.StringVar(&backendCfg.graphDatabase, "graph-database", "", "The neo4j database to query (defaults to the server default)")

	flag.StringVar(&backendCfg.indexURI, "index-uri", envOr("ES_HOST", "in-memory://"), "The URI for connecting to the page index (supported URIs: in-memory://, es://node1:9200,...,nodeN:9200, http(s)://node:9200)")
	flag.StringVar(&backendCfg.indexUser, "index-user", os.Getenv("ES_USER"), "The user for authenticating against elasticsearch")
	flag.StringVar(&backendCfg.indexPass, "index-pass", os.Getenv("ES_PASS"), "The password for authenticating against elasticsearch")

	flag.DurationVar(&backendCfg.queryTimeout, "backend-query-timeout", 10*time.Second, "The maximum duration of a single graph or index query")
	flag.IntVar(&backendCfg.maxResults, "index-max-results", 100, "The maximum number of hits returned by a single search")
	flag.Parse()

	graphAPI, closeGraph, err := getGraph(backendCfg, logger)
	if err != nil {
		return group, err
	}
	group.Attach("graph", closeGraph)

	indexAPI, closeIndex, err := getIndex(backendCfg, logger)
	if err != nil {
		return group, err
	}
	group.Attach("index", closeIndex)

	frontendCfg.GraphAPI = graphAPI
	frontendCfg.IndexAPI = indexAPI
	frontendCfg.Logger = logger.WithField("service", "front-end")
	svc, err := frontend.NewService(frontendCfg)
	if err != nil {
		return group, err
	}
	group.Add(svc)

	return group, nil
}

func getGraph(cfg backendConfig, logger *logrus.Entry) (frontend.GraphAPI, func() error, error) {
	if cfg.graphURI == "" {
		return nil, nil, xerrors.Errorf("graph URI must be specified with --graph-uri")
	}

	uri, err := url.Parse(cfg.graphURI)
	if err != nil {
		return nil, nil, xerrors.Errorf("could not parse graph URI: %w", err)
	}

	switch uri.Scheme {
	case "in-memory":
		logger.Info("using in-memory graph")
		return memgraph.NewInMemoryGraph(), nil, nil
	case "neo4j", "neo4j+s", "neo4j+ssc", "bolt", "bolt+s", "bolt+ssc":
		logger.Info("using neo4j graph")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.queryTimeout)
		defer cancel()
		g, err := neo4jdb.NewNeo4jGraph(ctx, neo4jdb.Config{
			URI:          cfg.graphURI,
			User:         cfg.graphUser,
			Password:     cfg.graphPass,
			Database:     cfg.graphDatabase,
			QueryTimeout: cfg.queryTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return g, func() error { return g.Close(context.Background()) }, nil
	case "postgresql":
		logger.Info("using CDB graph")
		g, err := cdb.NewCockroachDBGraph(cfg.graphURI, cfg.queryTimeout)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	default:
		return nil, nil, xerrors.Errorf("unsupported graph URI scheme: %q", uri.Scheme)
	}
}

func getIndex(cfg backendConfig, logger *logrus.Entry) (frontend.IndexAPI, func() error, error) {
	if cfg.indexURI == "" {
		return nil, nil, xerrors.Errorf("index URI must be specified with --index-uri")
	}

	uri, err := url.Parse(cfg.indexURI)
	if err != nil {
		return nil, nil, xerrors.Errorf("could not parse index URI: %w", err)
	}

	var nodes []string
	switch uri.Scheme {
	case "in-memory":
		logger.Info("using in-memory index")
		idx, err := memindexer.NewInMemoryBleveIndexer(cfg.maxResults)
		if err != nil {
			return nil, nil, err
		}
		return idx, idx.Close, nil
	case "es":
		nodes = strings.Split(uri.Host, ",")
		for i := 0; i < len(nodes); i++ {
			nodes[i] = "http://" + nodes[i]
		}
	case "http", "https":
		nodes = []string{strings.TrimSuffix(cfg.indexURI, "/")}
	default:
		return nil, nil, xerrors.Errorf("unsupported index URI scheme: %q", uri.Scheme)
	}

	logger.Info("using ES index")
	idx, err := es.NewESIndexer(es.Config{
		Nodes:        nodes,
		Username:     cfg.indexUser,
		Password:     cfg.indexPass,
		MaxResults:   cfg.maxResults,
		QueryTimeout: cfg.queryTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return idx, nil, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
