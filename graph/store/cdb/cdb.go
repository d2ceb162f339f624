package cdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/Ahmed-Sermani/linkrec/graph"
	"github.com/lib/pq"
	"golang.org/x/xerrors"
)

// The schema is managed outside of this package:
//
//	urls(url TEXT PRIMARY KEY, num_likes INT8 NOT NULL DEFAULT 0)
//	relations(id UUID PRIMARY KEY, address TEXT, url TEXT REFERENCES urls, kind TEXT, num_likes INT8)
const (
	listUrlsByRelationQuery = `
  SELECT DISTINCT u.url, u.num_likes FROM relations r
  JOIN urls u ON u.url = r.url
  WHERE r.address = $1 AND r.kind = $2
  `
	listNetworkUrlsQuery = `
  SELECT u.url, u.num_likes FROM urls u
  WHERE u.url IN (
    SELECT r3.url FROM relations r1
    JOIN relations r2 ON r2.url = r1.url AND r2.address <> $1
    JOIN relations r3 ON r3.address = r2.address AND r3.id <> r2.id
    WHERE r1.address = $1
  )
  ORDER BY u.num_likes DESC, u.url ASC
  LIMIT $2
  `
	userNumLikesQuery = `
  SELECT url, num_likes FROM relations WHERE address = $1 AND kind = $2 AND url = ANY($3)
  `
	totalNumLikesQuery = `
  SELECT url, num_likes FROM urls WHERE url = ANY($1)
  `
)

var _ graph.Graph = (*CockroachDBGraph)(nil)

// CockroachDBGraph implements graph.Graph on top of a CockroachDB (or any
// PostgreSQL compatible) database.
type CockroachDBGraph struct {
	db      *sql.DB
	timeout time.Duration
}

// NewCockroachDBGraph opens a connection pool for dsn. Each query is bounded
// by queryTimeout.
func NewCockroachDBGraph(dsn string, queryTimeout time.Duration) (*CockroachDBGraph, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}

	return &CockroachDBGraph{db: db, timeout: queryTimeout}, nil
}

func (c *CockroachDBGraph) Close() error {
	return c.db.Close()
}

func (c *CockroachDBGraph) ListUrlsByRelation(ctx context.Context, user string, relation graph.Relation) ([]graph.Url, error) {
	relation, err := graph.ParseRelation(string(relation))
	if err != nil {
		return nil, xerrors.Errorf("list urls by relation: %w", err)
	}
	return c.queryUrls(ctx, "list urls by relation", listUrlsByRelationQuery, user, string(relation))
}

func (c *CockroachDBGraph) ListUrlsByNetwork(ctx context.Context, user string) ([]graph.Url, error) {
	return c.queryUrls(ctx, "list urls by network", listNetworkUrlsQuery, user, graph.NetworkLimit)
}

func (c *CockroachDBGraph) UserNumLikes(ctx context.Context, urls []string, user string) (map[string]int64, error) {
	if len(urls) == 0 {
		return map[string]int64{}, nil
	}
	return c.queryCounts(ctx, "user num likes", userNumLikesQuery, user, string(graph.Likes), pq.Array(urls))
}

func (c *CockroachDBGraph) TotalNumLikes(ctx context.Context, urls []string) (map[string]int64, error) {
	if len(urls) == 0 {
		return map[string]int64{}, nil
	}
	return c.queryCounts(ctx, "total num likes", totalNumLikesQuery, pq.Array(urls))
}

func (c *CockroachDBGraph) queryUrls(ctx context.Context, op, query string, args ...any) ([]graph.Url, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, graph.NewQueryError(op, err)
	}
	defer func() { _ = rows.Close() }()

	urls := make([]graph.Url, 0)
	for rows.Next() {
		var u graph.Url
		if err := rows.Scan(&u.URL, &u.NumLikes); err != nil {
			return nil, graph.NewQueryError(op, err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, graph.NewQueryError(op, err)
	}
	return urls, nil
}

func (c *CockroachDBGraph) queryCounts(ctx context.Context, op, query string, args ...any) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, graph.NewQueryError(op, err)
	}
	defer func() { _ = rows.Close() }()

	var list []graph.CountRow
	for rows.Next() {
		var row graph.CountRow
		if err := rows.Scan(&row.URL, &row.NumLikes); err != nil {
			return nil, graph.NewQueryError(op, err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, graph.NewQueryError(op, err)
	}
	return graph.CountsFromRows(list), nil
}
