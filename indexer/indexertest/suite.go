package indexertest

import (
	"context"
	"time"

	"github.com/Ahmed-Sermani/linkrec/indexer"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

const (
	wikaURL = "https://www.wika.network/"
	testURL = "https://www.test.com/"
)

// SuiteBase defines a re-usable set of index-related tests that can
// be executed against any type that implements indexer.Searcher.
type SuiteBase struct {
	s   indexer.Searcher
	idx indexer.Indexer
}

// SetIndexer configures the test-suite to run all tests against s, using idx
// to install fixtures.
func (s *SuiteBase) SetIndexer(searcher indexer.Searcher, idx indexer.Indexer) {
	s.s = searcher
	s.idx = idx
}

func (s *SuiteBase) TestSearchByKeyword(c *gc.C) {
	s.seedDocuments(c)

	res, err := s.s.SearchByQuery(context.TODO(), "test")
	c.Assert(err, gc.IsNil)
	c.Assert(res.NumHits, gc.Equals, int64(1))
	c.Assert(res.Matches, gc.NotNil)
	c.Assert(res.Matches.Hits, gc.HasLen, 1)

	hit := res.Matches.Hits[0]
	c.Assert(hit.URL, gc.Equals, testURL)
	c.Assert(hit.ID, gc.Equals, indexer.URLToKey(testURL))
	c.Assert(hit.Title, gc.Equals, "Test page")
	c.Assert(hit.Score > 0, gc.Equals, true)
	c.Assert(res.Matches.MaxScore >= hit.Score, gc.Equals, true)
	c.Assert(hit.NumLikesUser, gc.Equals, int64(0))
	c.Assert(hit.NumLikesTotal, gc.Equals, int64(0))
}

func (s *SuiteBase) TestSearchByOrQuery(c *gc.C) {
	s.seedDocuments(c)

	single, err := s.s.SearchByQuery(context.TODO(), "test")
	c.Assert(err, gc.IsNil)
	either, err := s.s.SearchByQuery(context.TODO(), "(test) OR (wika)")
	c.Assert(err, gc.IsNil)

	c.Assert(either.NumHits, gc.Equals, int64(2))
	c.Assert(either.NumHits > single.NumHits, gc.Equals, true)
	c.Assert(either.Matches.Hits, gc.HasLen, 2)
}

func (s *SuiteBase) TestSearchWithoutMatches(c *gc.C) {
	s.seedDocuments(c)

	res, err := s.s.SearchByQuery(context.TODO(), "zeppelin")
	c.Assert(err, gc.IsNil)
	c.Assert(res.NumHits, gc.Equals, int64(0))
	c.Assert(res.Matches, gc.IsNil)
}

func (s *SuiteBase) TestSearchWithEmptyQuery(c *gc.C) {
	_, err := s.s.SearchByQuery(context.TODO(), "  ")
	c.Assert(xerrors.Is(err, indexer.ErrEmptyQuery), gc.Equals, true)
}

func (s *SuiteBase) TestFindSimilar(c *gc.C) {
	s.seedDocuments(c)

	res, err := s.s.FindSimilar(context.TODO(), []string{indexer.URLToKey(testURL)})
	c.Assert(err, gc.IsNil)
	c.Assert(res.NumHits, gc.Equals, int64(1))
	c.Assert(res.Matches.Hits[0].URL, gc.Equals, testURL)
}

func (s *SuiteBase) TestFindSimilarWithNearDuplicate(c *gc.C) {
	s.seedDocuments(c)
	c.Assert(s.idx.Index(context.TODO(), &indexer.Document{
		URL:         "https://mirror.test.com/",
		Title:       "Test page mirror",
		Description: "Another test website",
		UpdatedAt:   time.Now(),
	}), gc.IsNil)

	res, err := s.s.FindSimilar(context.TODO(), []string{indexer.URLToKey(testURL)})
	c.Assert(err, gc.IsNil)
	c.Assert(res.NumHits, gc.Equals, int64(2))

	var urls []string
	for _, hit := range res.Matches.Hits {
		urls = append(urls, hit.URL)
	}
	c.Assert(urls, gc.HasLen, 2)
	c.Assert(contains(urls, testURL), gc.Equals, true)
	c.Assert(contains(urls, "https://mirror.test.com/"), gc.Equals, true)
}

func (s *SuiteBase) TestFindSimilarUnknownKey(c *gc.C) {
	s.seedDocuments(c)

	res, err := s.s.FindSimilar(context.TODO(), []string{indexer.URLToKey("https://unknown.example.com/")})
	c.Assert(err, gc.IsNil)
	c.Assert(res.NumHits, gc.Equals, int64(0))
	c.Assert(res.Matches, gc.IsNil)
}

func (s *SuiteBase) TestFindSimilarWithoutKeys(c *gc.C) {
	_, err := s.s.FindSimilar(context.TODO(), nil)
	c.Assert(xerrors.Is(err, indexer.ErrMissingDocumentKeys), gc.Equals, true)
}

func (s *SuiteBase) TestIndexWithoutURL(c *gc.C) {
	err := s.idx.Index(context.TODO(), &indexer.Document{Title: "orphan"})
	c.Assert(xerrors.Is(err, indexer.ErrMissingURL), gc.Equals, true)
}

func (s *SuiteBase) seedDocuments(c *gc.C) {
	docs := []*indexer.Document{
		{
			URL:         wikaURL,
			Title:       "Wika Network",
			Description: "Decentralized likes for the web",
			Icon:        "https://www.wika.network/favicon.ico",
			UpdatedAt:   time.Now(),
		},
		{
			URL:         testURL,
			Title:       "Test page",
			Description: "A test website",
			Icon:        "https://www.test.com/favicon.ico",
			UpdatedAt:   time.Now(),
		},
	}
	for _, doc := range docs {
		c.Assert(s.idx.Index(context.TODO(), doc), gc.IsNil)
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
