package neo4jdb

import (
	"context"
	"time"

	"github.com/Ahmed-Sermani/linkrec/graph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/xerrors"
)

const (
	listLikedUrlsQuery = `
  MATCH (:User {address: $user})-[:LIKES]->(u:Url)
  RETURN DISTINCT u
  `
	listOwnedUrlsQuery = `
  MATCH (:User {address: $user})-[:OWNS]->(u:Url)
  RETURN DISTINCT u
  `
	listNetworkUrlsQuery = `
  MATCH (me:User {address: $user})-[]-(:Url)-[]-(other:User)-[]-(u:Url)
  WHERE other <> me
  WITH DISTINCT u
  RETURN u
  ORDER BY coalesce(u.numLikes, 0) DESC, u.url ASC
  LIMIT $limit
  `
	userNumLikesQuery = `
  MATCH (:User {address: $user})-[r:LIKES]->(u:Url)
  WHERE u.url IN $urls
  RETURN u.url AS url, coalesce(r.numLikes, 0) AS numLikes
  `
	totalNumLikesQuery = `
  MATCH (u:Url)
  WHERE u.url IN $urls
  RETURN u.url AS url, coalesce(u.numLikes, 0) AS numLikes
  `
)

// relationQueries maps each supported relation to its query. Relation names
// never reach the query text through string formatting.
var relationQueries = map[graph.Relation]string{
	graph.Likes: listLikedUrlsQuery,
	graph.Owns:  listOwnedUrlsQuery,
}

var _ graph.Graph = (*Neo4jGraph)(nil)

// Config encapsulates the settings for connecting to a neo4j server.
type Config struct {
	// URI of the server, e.g. neo4j://localhost:7687.
	URI      string
	User     string
	Password string

	// Database to run queries against; empty selects the server default.
	Database string

	// QueryTimeout bounds the duration of every query. Defaults to 10s.
	QueryTimeout time.Duration

	// MaxPoolSize is the maximum number of pooled connections. Defaults to 50.
	MaxPoolSize int
}

func (cfg *Config) validate() error {
	if cfg.URI == "" {
		return xerrors.New("neo4j URI has not been specified")
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 10 * time.Second
	}
	if cfg.MaxPoolSize <= 0 {
		cfg.MaxPoolSize = 50
	}
	return nil
}

// Neo4jGraph implements graph.Graph by running cypher queries against a neo4j
// server. Every query runs in its own read session.
type Neo4jGraph struct {
	driver   neo4j.DriverWithContext
	database string
	timeout  time.Duration
}

// NewNeo4jGraph connects to the server described by cfg and verifies that it
// is reachable.
func NewNeo4jGraph(ctx context.Context, cfg Config) (*Neo4jGraph, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("neo4j graph config validation failed: %w", err)
	}

	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.MaxPoolSize
		c.SocketConnectTimeout = cfg.QueryTimeout
	})
	if err != nil {
		return nil, xerrors.Errorf("init driver: %w", err)
	}

	vctx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, xerrors.Errorf("verify connectivity: %w", err)
	}

	return &Neo4jGraph{
		driver:   driver,
		database: cfg.Database,
		timeout:  cfg.QueryTimeout,
	}, nil
}

// Close releases the driver and all its pooled connections.
func (g *Neo4jGraph) Close(ctx context.Context) error {
	if g.driver == nil {
		return nil
	}
	err := g.driver.Close(ctx)
	g.driver = nil
	return err
}

// FetchRecords runs query with the given parameters and collects every
// returned row. The session is released before FetchRecords returns.
func (g *Neo4jGraph) FetchRecords(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: g.database,
	})
	defer func() { _ = session.Close(ctx) }()

	res, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, graph.NewQueryError("fetch records", err)
	}
	records, err := res.Collect(ctx)
	if err != nil {
		return nil, graph.NewQueryError("fetch records", err)
	}
	return records, nil
}

// FetchProperties runs query and returns the property map of the first
// field of every row.
func (g *Neo4jGraph) FetchProperties(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	records, err := g.FetchRecords(ctx, query, params)
	if err != nil {
		return nil, err
	}
	props, err := propertiesFromRecords(records)
	if err != nil {
		return nil, graph.NewQueryError("fetch properties", err)
	}
	return props, nil
}

// FetchAsUrls runs query and converts the first field of every row into a
// graph.Url.
func (g *Neo4jGraph) FetchAsUrls(ctx context.Context, query string, params map[string]any) ([]graph.Url, error) {
	props, err := g.FetchProperties(ctx, query, params)
	if err != nil {
		return nil, err
	}
	urls, err := urlsFromProperties(props)
	if err != nil {
		return nil, graph.NewQueryError("fetch as urls", err)
	}
	return urls, nil
}

func (g *Neo4jGraph) ListUrlsByRelation(ctx context.Context, user string, relation graph.Relation) ([]graph.Url, error) {
	query, ok := relationQueries[relation]
	if !ok {
		return nil, xerrors.Errorf("list urls by relation: %w", graph.ErrInvalidRelation)
	}
	return g.FetchAsUrls(ctx, query, map[string]any{"user": user})
}

// ListUrlsByLiker returns the urls liked by user.
func (g *Neo4jGraph) ListUrlsByLiker(ctx context.Context, user string) ([]graph.Url, error) {
	return g.ListUrlsByRelation(ctx, user, graph.Likes)
}

// ListUrlsByOwner returns the urls owned by user.
func (g *Neo4jGraph) ListUrlsByOwner(ctx context.Context, user string) ([]graph.Url, error) {
	return g.ListUrlsByRelation(ctx, user, graph.Owns)
}

func (g *Neo4jGraph) ListUrlsByNetwork(ctx context.Context, user string) ([]graph.Url, error) {
	return g.FetchAsUrls(ctx, listNetworkUrlsQuery, map[string]any{
		"user":  user,
		"limit": int64(graph.NetworkLimit),
	})
}

func (g *Neo4jGraph) UserNumLikes(ctx context.Context, urls []string, user string) (map[string]int64, error) {
	if len(urls) == 0 {
		return map[string]int64{}, nil
	}
	return g.fetchCounts(ctx, userNumLikesQuery, map[string]any{"user": user, "urls": urls})
}

func (g *Neo4jGraph) TotalNumLikes(ctx context.Context, urls []string) (map[string]int64, error) {
	if len(urls) == 0 {
		return map[string]int64{}, nil
	}
	return g.fetchCounts(ctx, totalNumLikesQuery, map[string]any{"urls": urls})
}

func (g *Neo4jGraph) fetchCounts(ctx context.Context, query string, params map[string]any) (map[string]int64, error) {
	records, err := g.FetchRecords(ctx, query, params)
	if err != nil {
		return nil, err
	}
	rows, err := countRowsFromRecords(records)
	if err != nil {
		return nil, graph.NewQueryError("fetch counts", err)
	}
	return graph.CountsFromRows(rows), nil
}
