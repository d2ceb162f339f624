package graphtest

import (
	"context"
	"fmt"
	"sort"

	"github.com/Ahmed-Sermani/linkrec/graph"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

const (
	testUser  = "aaaaaaaaaaaaaaa"
	otherUser = "bbbbbbbbbbbbbbb"
	thirdUser = "ccccccccccccccc"

	wikaURL = "https://www.wika.network/"
	testURL = "https://www.test.com/"
)

// Seeder is implemented by graph stores that can be populated with test
// fixtures.
type Seeder interface {
	// AddUrl creates or updates a Url node and its total like counter.
	AddUrl(url string, numLikes int64) error

	// Relate creates a new edge of the given relation from user to url,
	// creating any missing nodes along the way.
	Relate(user, url string, relation graph.Relation, numLikes int64) error
}

// SuiteBase defines a re-usable set of graph-related tests that can
// be executed against any type that implements graph.Graph.
type SuiteBase struct {
	g    graph.Graph
	seed Seeder
}

// SetGraph configures the test-suite to run all tests against g, using s to
// install fixtures.
func (s *SuiteBase) SetGraph(g graph.Graph, seed Seeder) {
	s.g = g
	s.seed = seed
}

func (s *SuiteBase) TestListUrlsByRelation(c *gc.C) {
	s.seedTestUser(c)

	liked, err := s.g.ListUrlsByRelation(context.TODO(), testUser, graph.Likes)
	c.Assert(err, gc.IsNil)
	c.Assert(liked, gc.HasLen, 2)

	owned, err := s.g.ListUrlsByRelation(context.TODO(), testUser, graph.Owns)
	c.Assert(err, gc.IsNil)
	c.Assert(owned, gc.HasLen, 1)
	c.Assert(owned[0].URL, gc.Equals, "https://owned.example.com/")
}

func (s *SuiteBase) TestListUrlsByInvalidRelation(c *gc.C) {
	s.seedTestUser(c)

	for _, rel := range []string{"TEST", " LIKES ", "likes", "OWNS\n", ""} {
		urls, err := s.g.ListUrlsByRelation(context.TODO(), testUser, graph.Relation(rel))
		c.Assert(xerrors.Is(err, graph.ErrInvalidRelation), gc.Equals, true, gc.Commentf("relation %q: unexpected error: %v", rel, err))
		c.Assert(urls, gc.IsNil)
	}
}

func (s *SuiteBase) TestListUrlsByRelationUnknownUser(c *gc.C) {
	urls, err := s.g.ListUrlsByRelation(context.TODO(), "nobody", graph.Likes)
	c.Assert(err, gc.IsNil)
	c.Assert(urls, gc.NotNil)
	c.Assert(urls, gc.HasLen, 0)
}

func (s *SuiteBase) TestListUrlsByRelationSuppressesDuplicates(c *gc.C) {
	c.Assert(s.seed.AddUrl(wikaURL, 3), gc.IsNil)
	c.Assert(s.seed.Relate(testUser, wikaURL, graph.Likes, 1), gc.IsNil)
	c.Assert(s.seed.Relate(testUser, wikaURL, graph.Likes, 2), gc.IsNil)
	c.Assert(s.seed.Relate(testUser, wikaURL, graph.Owns, 0), gc.IsNil)

	for _, rel := range []graph.Relation{graph.Likes, graph.Owns} {
		urls, err := s.g.ListUrlsByRelation(context.TODO(), testUser, rel)
		c.Assert(err, gc.IsNil)
		c.Assert(urls, gc.HasLen, 1, gc.Commentf("relation %s", rel))
		c.Assert(urls[0], gc.DeepEquals, graph.Url{URL: wikaURL, NumLikes: 3})
	}
}

func (s *SuiteBase) TestListUrlsByNetwork(c *gc.C) {
	c.Assert(s.seed.AddUrl("https://u1.example.com/", 1), gc.IsNil)
	c.Assert(s.seed.AddUrl("https://u2.example.com/", 5), gc.IsNil)
	c.Assert(s.seed.AddUrl("https://u3.example.com/", 9), gc.IsNil)
	c.Assert(s.seed.AddUrl("https://u4.example.com/", 7), gc.IsNil)

	c.Assert(s.seed.Relate(testUser, "https://u1.example.com/", graph.Likes, 1), gc.IsNil)
	c.Assert(s.seed.Relate(otherUser, "https://u1.example.com/", graph.Likes, 1), gc.IsNil)
	c.Assert(s.seed.Relate(otherUser, "https://u2.example.com/", graph.Likes, 1), gc.IsNil)
	c.Assert(s.seed.Relate(otherUser, "https://u3.example.com/", graph.Owns, 0), gc.IsNil)
	// Three hops away from testUser; must not be discovered.
	c.Assert(s.seed.Relate(thirdUser, "https://u2.example.com/", graph.Owns, 0), gc.IsNil)
	c.Assert(s.seed.Relate(thirdUser, "https://u4.example.com/", graph.Likes, 1), gc.IsNil)

	urls, err := s.g.ListUrlsByNetwork(context.TODO(), testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(urls, gc.DeepEquals, []graph.Url{
		{URL: "https://u3.example.com/", NumLikes: 9},
		{URL: "https://u2.example.com/", NumLikes: 5},
	})
}

func (s *SuiteBase) TestListUrlsByNetworkIsSortedAndCapped(c *gc.C) {
	hub := "https://hub.example.com/"
	c.Assert(s.seed.AddUrl(hub, 0), gc.IsNil)
	c.Assert(s.seed.Relate(testUser, hub, graph.Likes, 1), gc.IsNil)
	c.Assert(s.seed.Relate(otherUser, hub, graph.Owns, 0), gc.IsNil)
	c.Assert(s.seed.Relate(thirdUser, hub, graph.Likes, 1), gc.IsNil)

	for i := 0; i < 150; i++ {
		url := fmt.Sprintf("https://%03d.example.com/", i)
		c.Assert(s.seed.AddUrl(url, int64(i)), gc.IsNil)
		c.Assert(s.seed.Relate(otherUser, url, graph.Likes, 1), gc.IsNil)
		// Both neighbours point to the same urls; results must stay unique.
		c.Assert(s.seed.Relate(thirdUser, url, graph.Likes, 1), gc.IsNil)
	}

	urls, err := s.g.ListUrlsByNetwork(context.TODO(), testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(urls, gc.HasLen, graph.NetworkLimit)
	c.Assert(urls[0].NumLikes, gc.Equals, int64(149))

	isSorted := sort.SliceIsSorted(urls, func(i, j int) bool { return urls[i].NumLikes > urls[j].NumLikes })
	c.Assert(isSorted, gc.Equals, true)

	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		c.Assert(seen[u.URL], gc.Equals, false, gc.Commentf("duplicate url %q", u.URL))
		seen[u.URL] = true
	}
}

func (s *SuiteBase) TestListUrlsByNetworkIsolatedUser(c *gc.C) {
	c.Assert(s.seed.Relate(testUser, wikaURL, graph.Likes, 1), gc.IsNil)

	urls, err := s.g.ListUrlsByNetwork(context.TODO(), testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(urls, gc.HasLen, 0)
}

func (s *SuiteBase) TestListUrlsByNetworkIgnoresOwnParallelEdges(c *gc.C) {
	liked := "https://a.example.com/"
	c.Assert(s.seed.AddUrl(liked, 1), gc.IsNil)
	c.Assert(s.seed.AddUrl("https://b.example.com/", 1), gc.IsNil)
	c.Assert(s.seed.Relate(testUser, liked, graph.Likes, 1), gc.IsNil)
	c.Assert(s.seed.Relate(testUser, liked, graph.Owns, 0), gc.IsNil)
	c.Assert(s.seed.Relate(testUser, "https://b.example.com/", graph.Likes, 1), gc.IsNil)

	// The only path back out of liked leads to testUser itself.
	urls, err := s.g.ListUrlsByNetwork(context.TODO(), testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(urls, gc.HasLen, 0)
}

func (s *SuiteBase) TestUserNumLikes(c *gc.C) {
	s.seedTestUser(c)

	likes, err := s.g.UserNumLikes(context.TODO(), []string{wikaURL, "https://owned.example.com/", "https://unknown.example.com/"}, testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(likes, gc.DeepEquals, map[string]int64{wikaURL: 20})
}

func (s *SuiteBase) TestTotalNumLikes(c *gc.C) {
	s.seedTestUser(c)

	likes, err := s.g.TotalNumLikes(context.TODO(), []string{wikaURL, testURL, "https://unknown.example.com/"})
	c.Assert(err, gc.IsNil)
	c.Assert(likes, gc.DeepEquals, map[string]int64{wikaURL: 20, testURL: 4})
}

func (s *SuiteBase) TestNumLikesWithNoUrls(c *gc.C) {
	s.seedTestUser(c)

	likes, err := s.g.UserNumLikes(context.TODO(), nil, testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(likes, gc.HasLen, 0)

	likes, err = s.g.TotalNumLikes(context.TODO(), nil)
	c.Assert(err, gc.IsNil)
	c.Assert(likes, gc.HasLen, 0)
}

// seedTestUser installs a user with two LIKES edges and one OWNS edge.
func (s *SuiteBase) seedTestUser(c *gc.C) {
	c.Assert(s.seed.AddUrl(wikaURL, 20), gc.IsNil)
	c.Assert(s.seed.AddUrl(testURL, 4), gc.IsNil)
	c.Assert(s.seed.AddUrl("https://owned.example.com/", 0), gc.IsNil)

	c.Assert(s.seed.Relate(testUser, wikaURL, graph.Likes, 20), gc.IsNil)
	c.Assert(s.seed.Relate(testUser, testURL, graph.Likes, 2), gc.IsNil)
	c.Assert(s.seed.Relate(testUser, "https://owned.example.com/", graph.Owns, 0), gc.IsNil)
}
