package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Ahmed-Sermani/linkrec/graph"
	"golang.org/x/xerrors"
)

var _ graph.Graph = (*InMemoryGraph)(nil)

// edge connects a user to a url. Edges are compared by pointer so that
// parallel edges between the same pair remain distinct.
type edge struct {
	user     string
	url      string
	relation graph.Relation
	numLikes int64
}

type edgeList []*edge

// InMemoryGraph implements graph.Graph on top of plain maps guarded by a
// RWMutex.
type InMemoryGraph struct {
	mu sync.RWMutex

	urls map[string]*graph.Url

	userEdges map[string]edgeList
	urlEdges  map[string]edgeList
}

// NewInMemoryGraph creates a new in-memory social graph.
func NewInMemoryGraph() *InMemoryGraph {
	return &InMemoryGraph{
		urls:      make(map[string]*graph.Url),
		userEdges: make(map[string]edgeList),
		urlEdges:  make(map[string]edgeList),
	}
}

// AddUrl creates a new url node or updates the like counter of an existing
// one.
func (s *InMemoryGraph) AddUrl(url string, numLikes int64) error {
	if url == "" {
		return xerrors.Errorf("add url: %w", graph.ErrMalformedRecord)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.urls[url]; existing != nil {
		existing.NumLikes = numLikes
		return nil
	}
	s.urls[url] = &graph.Url{URL: url, NumLikes: numLikes}
	return nil
}

// Relate adds an edge of the given relation from user to url. The url node is
// created with a zero counter if it does not exist yet.
func (s *InMemoryGraph) Relate(user, url string, relation graph.Relation, numLikes int64) error {
	if _, err := graph.ParseRelation(string(relation)); err != nil {
		return xerrors.Errorf("relate: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.urls[url] == nil {
		s.urls[url] = &graph.Url{URL: url}
	}
	e := &edge{user: user, url: url, relation: relation, numLikes: numLikes}
	s.userEdges[user] = append(s.userEdges[user], e)
	s.urlEdges[url] = append(s.urlEdges[url], e)
	return nil
}

func (s *InMemoryGraph) ListUrlsByRelation(ctx context.Context, user string, relation graph.Relation) ([]graph.Url, error) {
	relation, err := graph.ParseRelation(string(relation))
	if err != nil {
		return nil, xerrors.Errorf("list urls by relation: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, graph.NewQueryError("list urls by relation", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	list := make([]graph.Url, 0)
	for _, e := range s.userEdges[user] {
		if e.relation != relation || seen[e.url] {
			continue
		}
		seen[e.url] = true
		list = append(list, *s.urls[e.url])
	}
	return list, nil
}

// ListUrlsByNetwork walks user -> url1 <- other -> url2 where other is a
// different user.
func (s *InMemoryGraph) ListUrlsByNetwork(ctx context.Context, user string) ([]graph.Url, error) {
	if err := ctx.Err(); err != nil {
		return nil, graph.NewQueryError("list urls by network", err)
	}

	s.mu.RLock()
	seen := make(map[string]bool)
	list := make([]graph.Url, 0)
	for _, first := range s.userEdges[user] {
		for _, second := range s.urlEdges[first.url] {
			if second.user == user {
				continue
			}
			for _, third := range s.userEdges[second.user] {
				if third == second || seen[third.url] {
					continue
				}
				seen[third.url] = true
				list = append(list, *s.urls[third.url])
			}
		}
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].NumLikes != list[j].NumLikes {
			return list[i].NumLikes > list[j].NumLikes
		}
		return list[i].URL < list[j].URL
	})
	if len(list) > graph.NetworkLimit {
		list = list[:graph.NetworkLimit]
	}
	return list, nil
}

func (s *InMemoryGraph) UserNumLikes(ctx context.Context, urls []string, user string) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, graph.NewQueryError("user num likes", err)
	}

	wanted := toSet(urls)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []graph.CountRow
	for _, e := range s.userEdges[user] {
		if e.relation == graph.Likes && wanted[e.url] {
			rows = append(rows, graph.CountRow{URL: e.url, NumLikes: e.numLikes})
		}
	}
	return graph.CountsFromRows(rows), nil
}

func (s *InMemoryGraph) TotalNumLikes(ctx context.Context, urls []string) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, graph.NewQueryError("total num likes", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []graph.CountRow
	for url := range toSet(urls) {
		if u := s.urls[url]; u != nil {
			rows = append(rows, graph.CountRow{URL: u.URL, NumLikes: u.NumLikes})
		}
	}
	return graph.CountsFromRows(rows), nil
}

func toSet(urls []string) map[string]bool {
	set := make(map[string]bool, len(urls))
	for _, url := range urls {
		set[url] = true
	}
	return set
}
