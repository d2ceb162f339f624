package recommend_test

import (
	"context"
	"testing"
	"time"

	"github.com/Ahmed-Sermani/linkrec/graph"
	memgraph "github.com/Ahmed-Sermani/linkrec/graph/store/memory"
	"github.com/Ahmed-Sermani/linkrec/indexer"
	memindexer "github.com/Ahmed-Sermani/linkrec/indexer/store/memory"
	"github.com/Ahmed-Sermani/linkrec/recommend"
	"github.com/Ahmed-Sermani/linkrec/recommend/mocks"
	"github.com/golang/mock/gomock"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(EngineTestSuite))
var _ = gc.Suite(new(EngineIntegrationTestSuite))

func Test(t *testing.T) {
	gc.TestingT(t)
}

const (
	testUser = "aaaaaaaaaaaaaaa"
	wikaURL  = "https://www.wika.network/"
	testURL  = "https://www.test.com/"
)

type EngineTestSuite struct{}

func (s *EngineTestSuite) TestNewEngineValidation(c *gc.C) {
	_, err := recommend.NewEngine(recommend.Config{})
	c.Assert(err, gc.ErrorMatches, "(?s).*graph has not been provided.*searcher has not been provided.*")
}

func (s *EngineTestSuite) TestRecommendIsolatedUser(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	g := mocks.NewMockGraph(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	g.EXPECT().ListUrlsByNetwork(gomock.Any(), testUser).Return([]graph.Url{}, nil)

	res, err := s.engine(c, g, searcher).Recommend(context.TODO(), testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(res.Outcome, gc.Equals, recommend.IsolatedUser)
	c.Assert(res.Search, gc.IsNil)
}

func (s *EngineTestSuite) TestRecommendNoSimilarContent(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	g := mocks.NewMockGraph(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	g.EXPECT().ListUrlsByNetwork(gomock.Any(), testUser).Return([]graph.Url{{URL: wikaURL, NumLikes: 3}}, nil)
	searcher.EXPECT().FindSimilar(gomock.Any(), []string{indexer.URLToKey(wikaURL)}).Return(indexer.NewUrlSearch(2, 0, nil), nil)

	res, err := s.engine(c, g, searcher).Recommend(context.TODO(), testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(res.Outcome, gc.Equals, recommend.NoSimilarContent)
	c.Assert(res.Search, gc.IsNil)
}

func (s *EngineTestSuite) TestRecommend(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	g := mocks.NewMockGraph(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	network := []graph.Url{{URL: wikaURL, NumLikes: 9}, {URL: testURL, NumLikes: 1}}
	similar := indexer.NewUrlSearch(5, 2, []indexer.UrlMetadata{
		{ID: indexer.URLToKey(testURL), URL: testURL, Score: 2},
		{ID: indexer.URLToKey(wikaURL), URL: wikaURL, Score: 1},
	})
	hitURLs := []string{testURL, wikaURL}

	g.EXPECT().ListUrlsByNetwork(gomock.Any(), testUser).Return(network, nil)
	searcher.EXPECT().FindSimilar(gomock.Any(), []string{indexer.URLToKey(wikaURL), indexer.URLToKey(testURL)}).Return(similar, nil)
	g.EXPECT().UserNumLikes(gomock.Any(), hitURLs, testUser).Return(map[string]int64{wikaURL: 20}, nil)
	g.EXPECT().TotalNumLikes(gomock.Any(), hitURLs).Return(map[string]int64{wikaURL: 25, testURL: 4}, nil)

	res, err := s.engine(c, g, searcher).Recommend(context.TODO(), testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(res.Outcome, gc.Equals, recommend.Recommended)
	c.Assert(res.Search.Took, gc.Equals, int64(5))
	c.Assert(res.Search.NumHits, gc.Equals, int64(2))
	c.Assert(res.Search.Matches.MaxScore, gc.Equals, 2.0)

	hits := res.Search.Hits()
	c.Assert(hits[0].URL, gc.Equals, testURL)
	c.Assert(hits[0].NumLikesUser, gc.Equals, int64(0))
	c.Assert(hits[0].NumLikesTotal, gc.Equals, int64(4))
	c.Assert(hits[1].URL, gc.Equals, wikaURL)
	c.Assert(hits[1].NumLikesUser, gc.Equals, int64(20))
	c.Assert(hits[1].NumLikesTotal, gc.Equals, int64(25))

	// The search result handed out by the index is left untouched.
	c.Assert(similar.Hits()[1].NumLikesUser, gc.Equals, int64(0))
}

func (s *EngineTestSuite) TestRecommendNetworkError(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	g := mocks.NewMockGraph(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	g.EXPECT().ListUrlsByNetwork(gomock.Any(), testUser).Return(nil, graph.NewQueryError("list urls by network", xerrors.New("connection refused")))

	_, err := s.engine(c, g, searcher).Recommend(context.TODO(), testUser)
	var qErr *graph.QueryError
	c.Assert(xerrors.As(err, &qErr), gc.Equals, true)
}

func (s *EngineTestSuite) TestRecommendEnrichmentFailureFailsRequest(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	g := mocks.NewMockGraph(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	similar := indexer.NewUrlSearch(1, 1, []indexer.UrlMetadata{{URL: wikaURL, Score: 1}})
	g.EXPECT().ListUrlsByNetwork(gomock.Any(), testUser).Return([]graph.Url{{URL: wikaURL}}, nil)
	searcher.EXPECT().FindSimilar(gomock.Any(), gomock.Any()).Return(similar, nil)
	g.EXPECT().UserNumLikes(gomock.Any(), []string{wikaURL}, testUser).Return(map[string]int64{wikaURL: 1}, nil)
	g.EXPECT().TotalNumLikes(gomock.Any(), []string{wikaURL}).Return(nil, graph.NewQueryError("total num likes", xerrors.New("timeout")))

	res, err := s.engine(c, g, searcher).Recommend(context.TODO(), testUser)
	c.Assert(res, gc.IsNil)
	var qErr *graph.QueryError
	c.Assert(xerrors.As(err, &qErr), gc.Equals, true)
	c.Assert(qErr.Op, gc.Equals, "total num likes")
}

func (s *EngineTestSuite) TestSearchWithoutHitsSkipsEnrichment(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	g := mocks.NewMockGraph(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	searcher.EXPECT().SearchByQuery(gomock.Any(), "zeppelin").Return(indexer.NewUrlSearch(1, 0, nil), nil)

	res, err := s.engine(c, g, searcher).Search(context.TODO(), testUser, "zeppelin")
	c.Assert(err, gc.IsNil)
	c.Assert(res.NumHits, gc.Equals, int64(0))
	c.Assert(res.Matches, gc.IsNil)
}

func (s *EngineTestSuite) TestSearchEnrichesHits(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	g := mocks.NewMockGraph(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	searcher.EXPECT().SearchByQuery(gomock.Any(), "test").Return(indexer.NewUrlSearch(1, 1, []indexer.UrlMetadata{{URL: testURL, Score: 1}}), nil)
	g.EXPECT().UserNumLikes(gomock.Any(), []string{testURL}, testUser).Return(map[string]int64{testURL: 2}, nil)
	g.EXPECT().TotalNumLikes(gomock.Any(), []string{testURL}).Return(map[string]int64{testURL: 4}, nil)

	res, err := s.engine(c, g, searcher).Search(context.TODO(), testUser, "test")
	c.Assert(err, gc.IsNil)
	c.Assert(res.Hits()[0].NumLikesUser, gc.Equals, int64(2))
	c.Assert(res.Hits()[0].NumLikesTotal, gc.Equals, int64(4))
}

func (s *EngineTestSuite) TestSearchInvalidQuery(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	g := mocks.NewMockGraph(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	searcher.EXPECT().SearchByQuery(gomock.Any(), "").Return(nil, xerrors.Errorf("search by query: %w", indexer.ErrEmptyQuery))

	_, err := s.engine(c, g, searcher).Search(context.TODO(), testUser, "")
	c.Assert(xerrors.Is(err, indexer.ErrEmptyQuery), gc.Equals, true)
}

func (s *EngineTestSuite) engine(c *gc.C, g recommend.Graph, searcher recommend.Searcher) *recommend.Engine {
	e, err := recommend.NewEngine(recommend.Config{Graph: g, Searcher: searcher})
	c.Assert(err, gc.IsNil)
	return e
}

// EngineIntegrationTestSuite wires the engine to the in-memory graph and
// index.
type EngineIntegrationTestSuite struct {
	g   *memgraph.InMemoryGraph
	idx *memindexer.InMemoryIndexer
	e   *recommend.Engine
}

func (s *EngineIntegrationTestSuite) SetUpTest(c *gc.C) {
	var err error
	s.g = memgraph.NewInMemoryGraph()
	s.idx, err = memindexer.NewInMemoryBleveIndexer(0)
	c.Assert(err, gc.IsNil)
	s.e, err = recommend.NewEngine(recommend.Config{Graph: s.g, Searcher: s.idx})
	c.Assert(err, gc.IsNil)
}

func (s *EngineIntegrationTestSuite) TearDownTest(c *gc.C) {
	c.Assert(s.idx.Close(), gc.IsNil)
}

func (s *EngineIntegrationTestSuite) TestRecommendThroughNetwork(c *gc.C) {
	mirrorURL := "https://mirror.test.com/"
	for _, doc := range []*indexer.Document{
		{URL: wikaURL, Title: "Wika Network", Description: "Decentralized likes for the web", UpdatedAt: time.Now()},
		{URL: testURL, Title: "Test page", Description: "A test website", UpdatedAt: time.Now()},
		{URL: mirrorURL, Title: "Test page mirror", Description: "Another test website", UpdatedAt: time.Now()},
	} {
		c.Assert(s.idx.Index(context.TODO(), doc), gc.IsNil)
	}

	c.Assert(s.g.AddUrl(wikaURL, 20), gc.IsNil)
	c.Assert(s.g.AddUrl(testURL, 4), gc.IsNil)
	c.Assert(s.g.AddUrl(mirrorURL, 1), gc.IsNil)
	c.Assert(s.g.Relate(testUser, wikaURL, graph.Likes, 20), gc.IsNil)
	c.Assert(s.g.Relate("bbbbbbbbbbbbbbb", wikaURL, graph.Likes, 1), gc.IsNil)
	c.Assert(s.g.Relate("bbbbbbbbbbbbbbb", testURL, graph.Owns, 0), gc.IsNil)
	c.Assert(s.g.Relate(testUser, mirrorURL, graph.Likes, 7), gc.IsNil)

	res, err := s.e.Recommend(context.TODO(), testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(res.Outcome, gc.Equals, recommend.Recommended)
	c.Assert(res.Search.NumHits, gc.Equals, int64(2))

	byURL := make(map[string]indexer.UrlMetadata)
	for _, hit := range res.Search.Hits() {
		byURL[hit.URL] = hit
	}
	c.Assert(byURL[testURL].NumLikesUser, gc.Equals, int64(0))
	c.Assert(byURL[testURL].NumLikesTotal, gc.Equals, int64(4))
	c.Assert(byURL[mirrorURL].NumLikesUser, gc.Equals, int64(7))
	c.Assert(byURL[mirrorURL].NumLikesTotal, gc.Equals, int64(1))
}

func (s *EngineIntegrationTestSuite) TestRecommendForIsolatedUser(c *gc.C) {
	c.Assert(s.g.Relate(testUser, wikaURL, graph.Likes, 1), gc.IsNil)

	res, err := s.e.Recommend(context.TODO(), testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(res.Outcome, gc.Equals, recommend.IsolatedUser)
}

func (s *EngineIntegrationTestSuite) TestRecommendWithoutIndexedContent(c *gc.C) {
	c.Assert(s.g.Relate(testUser, wikaURL, graph.Likes, 1), gc.IsNil)
	c.Assert(s.g.Relate("bbbbbbbbbbbbbbb", wikaURL, graph.Likes, 1), gc.IsNil)
	c.Assert(s.g.Relate("bbbbbbbbbbbbbbb", testURL, graph.Likes, 1), gc.IsNil)

	res, err := s.e.Recommend(context.TODO(), testUser)
	c.Assert(err, gc.IsNil)
	c.Assert(res.Outcome, gc.Equals, recommend.NoSimilarContent)
	c.Assert(res.Search, gc.IsNil)
}
