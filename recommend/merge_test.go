package recommend_test

import (
	"github.com/Ahmed-Sermani/linkrec/indexer"
	"github.com/Ahmed-Sermani/linkrec/recommend"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(MergeCountsTestSuite))

type MergeCountsTestSuite struct{}

func (s *MergeCountsTestSuite) TestMergeUserLikes(c *gc.C) {
	hits := []indexer.UrlMetadata{
		{URL: testURL, Score: 2},
		{URL: wikaURL, Score: 1},
	}
	out := recommend.MergeCounts(hits, map[string]int64{wikaURL: 20}, recommend.UserLikes)

	c.Assert(out, gc.HasLen, 2)
	c.Assert(out[0].URL, gc.Equals, testURL)
	c.Assert(out[0].NumLikesUser, gc.Equals, int64(0))
	c.Assert(out[1].URL, gc.Equals, wikaURL)
	c.Assert(out[1].NumLikesUser, gc.Equals, int64(20))
	c.Assert(out[1].NumLikesTotal, gc.Equals, int64(0))

	// Inputs are never modified.
	c.Assert(hits[1].NumLikesUser, gc.Equals, int64(0))
}

func (s *MergeCountsTestSuite) TestMergeTotalLikesKeepsOtherCounter(c *gc.C) {
	hits := []indexer.UrlMetadata{{URL: wikaURL, NumLikesUser: 3}}
	out := recommend.MergeCounts(hits, map[string]int64{wikaURL: 25, testURL: 4}, recommend.TotalLikes)

	c.Assert(out, gc.HasLen, 1)
	c.Assert(out[0].NumLikesUser, gc.Equals, int64(3))
	c.Assert(out[0].NumLikesTotal, gc.Equals, int64(25))
}

func (s *MergeCountsTestSuite) TestMergeWithoutCounts(c *gc.C) {
	hits := []indexer.UrlMetadata{{URL: wikaURL, NumLikesTotal: 9}}
	out := recommend.MergeCounts(hits, nil, recommend.TotalLikes)
	c.Assert(out[0].NumLikesTotal, gc.Equals, int64(0))
}

func (s *MergeCountsTestSuite) TestMergeNilHits(c *gc.C) {
	c.Assert(recommend.MergeCounts(nil, map[string]int64{wikaURL: 1}, recommend.UserLikes), gc.IsNil)
}

func (s *MergeCountsTestSuite) TestOutcomeString(c *gc.C) {
	c.Assert(recommend.Recommended.String(), gc.Equals, "recommended")
	c.Assert(recommend.IsolatedUser.String(), gc.Equals, "isolated-user")
	c.Assert(recommend.NoSimilarContent.String(), gc.Equals, "no-similar-content")
}
