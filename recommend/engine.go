/*
   Recommends pages to a user by combining the user's social graph with the
   content similarity of the pages it reaches.
*/

package recommend

import (
	"context"
	"io"

	"github.com/Ahmed-Sermani/linkrec/graph"
	"github.com/Ahmed-Sermani/linkrec/indexer"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/Ahmed-Sermani/linkrec/recommend Graph,Searcher

// Graph is implemented by objects that can discover a user's network and
// look up the like counters of urls.
type Graph interface {
	ListUrlsByNetwork(ctx context.Context, user string) ([]graph.Url, error)
	UserNumLikes(ctx context.Context, urls []string, user string) (map[string]int64, error)
	TotalNumLikes(ctx context.Context, urls []string) (map[string]int64, error)
}

// Searcher is implemented by objects that can query the page index.
type Searcher interface {
	SearchByQuery(ctx context.Context, query string) (*indexer.UrlSearch, error)
	FindSimilar(ctx context.Context, keys []string) (*indexer.UrlSearch, error)
}

// Outcome describes how a recommendation request concluded.
type Outcome int

const (
	// Recommended means that the result carries at least one page.
	Recommended Outcome = iota
	// IsolatedUser means that the user shares no page with anyone.
	IsolatedUser
	// NoSimilarContent means that the user's network reached pages but
	// none of the indexed documents are similar to them.
	NoSimilarContent
)

func (o Outcome) String() string {
	switch o {
	case Recommended:
		return "recommended"
	case IsolatedUser:
		return "isolated-user"
	case NoSimilarContent:
		return "no-similar-content"
	default:
		return "unknown"
	}
}

// Result is returned by Engine.Recommend. Search is nil unless Outcome is
// Recommended.
type Result struct {
	Outcome Outcome
	Search  *indexer.UrlSearch
}

// Config encapsulates the settings for configuring the recommendation
// engine.
type Config struct {
	Graph    Graph
	Searcher Searcher
	Logger   *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Graph == nil {
		err = multierror.Append(err, xerrors.Errorf("graph has not been provided"))
	}
	if cfg.Searcher == nil {
		err = multierror.Append(err, xerrors.Errorf("searcher has not been provided"))
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = logrus.NewEntry(l)
	}
	return err
}

// Engine orchestrates network discovery, similarity search and enrichment.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine returns a new Engine instance using the provided config options.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("recommendation engine config validation failed: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Recommend returns the pages most similar to the ones reachable through the
// network of user, annotated with like counters. Running out of data along
// the way is reported through Result.Outcome, never as an error.
func (e *Engine) Recommend(ctx context.Context, user string) (*Result, error) {
	logger := e.cfg.Logger.WithField("user", user)

	network, err := e.cfg.Graph.ListUrlsByNetwork(ctx, user)
	if err != nil {
		return nil, xerrors.Errorf("recommend: %w", err)
	}
	if len(network) == 0 {
		logger.Debug("no network found")
		return &Result{Outcome: IsolatedUser}, nil
	}

	keys := make([]string, len(network))
	for i, u := range network {
		keys[i] = indexer.URLToKey(u.URL)
	}

	similar, err := e.cfg.Searcher.FindSimilar(ctx, keys)
	if err != nil {
		return nil, xerrors.Errorf("recommend: %w", err)
	}
	if similar.NumHits == 0 {
		logger.WithField("network_size", len(network)).Debug("no similar content found")
		return &Result{Outcome: NoSimilarContent}, nil
	}

	enriched, err := e.Enrich(ctx, user, similar)
	if err != nil {
		return nil, xerrors.Errorf("recommend: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"network_size": len(network),
		"num_hits":     enriched.NumHits,
	}).Debug("recommendation ready")
	return &Result{Outcome: Recommended, Search: enriched}, nil
}

// Search runs a keyword query against the page index and annotates the hits
// with the like counters of user.
func (e *Engine) Search(ctx context.Context, user, query string) (*indexer.UrlSearch, error) {
	res, err := e.cfg.Searcher.SearchByQuery(ctx, query)
	if err != nil {
		return nil, xerrors.Errorf("search: %w", err)
	}
	if res.NumHits == 0 {
		return res, nil
	}

	enriched, err := e.Enrich(ctx, user, res)
	if err != nil {
		return nil, xerrors.Errorf("search: %w", err)
	}
	return enriched, nil
}

// Enrich returns a copy of res where every hit carries the number of likes
// given by user and the total number of likes of its url. Both counters are
// looked up concurrently; if either lookup fails, Enrich fails.
func (e *Engine) Enrich(ctx context.Context, user string, res *indexer.UrlSearch) (*indexer.UrlSearch, error) {
	if res.Matches == nil {
		return res, nil
	}

	urls := res.URLs()
	var userLikes, totalLikes map[string]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		userLikes, err = e.cfg.Graph.UserNumLikes(gctx, urls, user)
		return err
	})
	g.Go(func() error {
		var err error
		totalLikes, err = e.cfg.Graph.TotalNumLikes(gctx, urls)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, xerrors.Errorf("enrich: %w", err)
	}

	hits := MergeCounts(res.Hits(), userLikes, UserLikes)
	hits = MergeCounts(hits, totalLikes, TotalLikes)
	return res.WithHits(hits), nil
}
