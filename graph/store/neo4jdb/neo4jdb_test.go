package neo4jdb

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/Ahmed-Sermani/linkrec/graph"
	"github.com/Ahmed-Sermani/linkrec/graph/graphtest"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(Neo4jGraphTestSuite))
var _ = gc.Suite(new(RecordShapingTestSuite))

func Test(t *testing.T) {
	gc.TestingT(t)
}

type Neo4jGraphTestSuite struct {
	graphtest.SuiteBase
	g *Neo4jGraph
}

func (s *Neo4jGraphTestSuite) SetUpSuite(c *gc.C) {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		c.Skip("Missing NEO4J_URI env; skipping neo4j-based graph tests")
	}

	g, err := NewNeo4jGraph(context.TODO(), Config{
		URI:      uri,
		User:     os.Getenv("NEO4J_USER"),
		Password: os.Getenv("NEO4J_PASS"),
	})
	c.Assert(err, gc.IsNil)
	s.g = g
	s.SetGraph(g, &cypherSeeder{g: g})
}

func (s *Neo4jGraphTestSuite) TearDownSuite(c *gc.C) {
	if s.g != nil {
		s.flush(c)
		c.Assert(s.g.Close(context.TODO()), gc.IsNil)
	}
}

func (s *Neo4jGraphTestSuite) SetUpTest(c *gc.C) {
	s.flush(c)
}

func (s *Neo4jGraphTestSuite) TestFetchRecords(c *gc.C) {
	seed := &cypherSeeder{g: s.g}
	for i := 0; i < 6; i++ {
		c.Assert(seed.AddUrl(fmt.Sprintf("https://%d.example.com/", i), int64(i)), gc.IsNil)
	}

	rows, err := s.g.FetchRecords(context.TODO(), "MATCH (n) RETURN n LIMIT 5", nil)
	c.Assert(err, gc.IsNil)
	c.Assert(rows, gc.HasLen, 5)

	props, err := s.g.FetchProperties(context.TODO(), "MATCH (n) RETURN n LIMIT 5", nil)
	c.Assert(err, gc.IsNil)
	c.Assert(props, gc.HasLen, 5)
	c.Assert(props[0]["url"], gc.NotNil)

	urls, err := s.g.FetchAsUrls(context.TODO(), "MATCH (n) RETURN n LIMIT 5", nil)
	c.Assert(err, gc.IsNil)
	c.Assert(urls, gc.HasLen, 5)
}

func (s *Neo4jGraphTestSuite) TestFetchPropertiesNoMatch(c *gc.C) {
	props, err := s.g.FetchProperties(context.TODO(), "MATCH (n:Nothing) RETURN n", nil)
	c.Assert(err, gc.IsNil)
	c.Assert(props, gc.NotNil)
	c.Assert(props, gc.HasLen, 0)
}

func (s *Neo4jGraphTestSuite) TestFetchRecordsSyntaxError(c *gc.C) {
	_, err := s.g.FetchRecords(context.TODO(), "MATCH (n RETURN", nil)
	var qErr *graph.QueryError
	c.Assert(xerrors.As(err, &qErr), gc.Equals, true)
}

func (s *Neo4jGraphTestSuite) flush(c *gc.C) {
	_, err := runWrite(s.g, "MATCH (n) DETACH DELETE n", nil)
	c.Assert(err, gc.IsNil)
}

// cypherSeeder installs fixtures with write transactions.
type cypherSeeder struct {
	g *Neo4jGraph
}

func (s *cypherSeeder) AddUrl(url string, numLikes int64) error {
	_, err := runWrite(s.g, "MERGE (u:Url {url: $url}) SET u.numLikes = $numLikes", map[string]any{
		"url":      url,
		"numLikes": numLikes,
	})
	return err
}

func (s *cypherSeeder) Relate(user, url string, relation graph.Relation, numLikes int64) error {
	rel, err := graph.ParseRelation(string(relation))
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
  MERGE (a:User {address: $user})
  MERGE (u:Url {url: $url})
  ON CREATE SET u.numLikes = 0
  CREATE (a)-[:%s {numLikes: $numLikes}]->(u)
  `, rel)
	_, err = runWrite(s.g, query, map[string]any{"user": user, "url": url, "numLikes": numLikes})
	return err
}

func runWrite(g *Neo4jGraph, query string, params map[string]any) (any, error) {
	ctx := context.TODO()
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: g.database})
	defer func() { _ = session.Close(ctx) }()

	return session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
}

type RecordShapingTestSuite struct{}

func (s *RecordShapingTestSuite) TestInvalidRelationIssuesNoQuery(c *gc.C) {
	// A nil driver would panic if a session was ever opened.
	g := &Neo4jGraph{}

	urls, err := g.ListUrlsByRelation(context.TODO(), "aaaaaaaaaaaaaaa", graph.Relation("TEST"))
	c.Assert(xerrors.Is(err, graph.ErrInvalidRelation), gc.Equals, true)
	c.Assert(urls, gc.IsNil)
}

func (s *RecordShapingTestSuite) TestCountsWithoutUrlsIssueNoQuery(c *gc.C) {
	g := &Neo4jGraph{}

	likes, err := g.UserNumLikes(context.TODO(), nil, "aaaaaaaaaaaaaaa")
	c.Assert(err, gc.IsNil)
	c.Assert(likes, gc.HasLen, 0)

	likes, err = g.TotalNumLikes(context.TODO(), []string{})
	c.Assert(err, gc.IsNil)
	c.Assert(likes, gc.HasLen, 0)
}

func (s *RecordShapingTestSuite) TestPropertiesFromNodesAndMaps(c *gc.C) {
	records := []*neo4j.Record{
		{Keys: []string{"u"}, Values: []any{neo4j.Node{Props: map[string]any{"url": "https://a.com/", "numLikes": int64(3)}}}},
		{Keys: []string{"u"}, Values: []any{map[string]any{"url": "https://b.com/"}}},
	}

	props, err := propertiesFromRecords(records)
	c.Assert(err, gc.IsNil)
	c.Assert(props, gc.HasLen, 2)

	urls, err := urlsFromProperties(props)
	c.Assert(err, gc.IsNil)
	c.Assert(urls, gc.DeepEquals, []graph.Url{
		{URL: "https://a.com/", NumLikes: 3},
		{URL: "https://b.com/", NumLikes: 0},
	})
}

func (s *RecordShapingTestSuite) TestPropertiesFromEmptyResult(c *gc.C) {
	props, err := propertiesFromRecords(nil)
	c.Assert(err, gc.IsNil)
	c.Assert(props, gc.NotNil)
	c.Assert(props, gc.HasLen, 0)

	urls, err := urlsFromProperties(props)
	c.Assert(err, gc.IsNil)
	c.Assert(urls, gc.NotNil)
	c.Assert(urls, gc.HasLen, 0)
}

func (s *RecordShapingTestSuite) TestMalformedRecords(c *gc.C) {
	_, err := propertiesFromRecords([]*neo4j.Record{{Keys: []string{"n"}, Values: []any{int64(1)}}})
	c.Assert(xerrors.Is(err, graph.ErrMalformedRecord), gc.Equals, true)

	_, err = urlsFromProperties([]map[string]any{{"numLikes": int64(1)}})
	c.Assert(xerrors.Is(err, graph.ErrMalformedRecord), gc.Equals, true)

	_, err = urlsFromProperties([]map[string]any{{"url": "https://a.com/", "numLikes": "many"}})
	c.Assert(xerrors.Is(err, graph.ErrMalformedRecord), gc.Equals, true)
}

func (s *RecordShapingTestSuite) TestCountRows(c *gc.C) {
	records := []*neo4j.Record{
		{Keys: []string{"url", "numLikes"}, Values: []any{"https://a.com/", int64(20)}},
		{Keys: []string{"url", "numLikes"}, Values: []any{"https://b.com/", int64(0)}},
	}

	rows, err := countRowsFromRecords(records)
	c.Assert(err, gc.IsNil)
	c.Assert(graph.CountsFromRows(rows), gc.DeepEquals, map[string]int64{
		"https://a.com/": 20,
		"https://b.com/": 0,
	})

	_, err = countRowsFromRecords([]*neo4j.Record{{Keys: []string{"url", "numLikes"}, Values: []any{nil, int64(1)}}})
	c.Assert(xerrors.Is(err, graph.ErrMalformedRecord), gc.Equals, true)
}
