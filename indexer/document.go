package indexer

import (
	"context"
	"encoding/json"
	"time"
)

// Document is a page entry of the search index. Its key in the index is
// URLToKey(URL).
type Document struct {
	URL         string
	Title       string
	Description string
	Icon        string
	UpdatedAt   time.Time
}

// UrlMetadata is a single search hit. The like counters are left at zero
// until the hit goes through enrichment.
type UrlMetadata struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Score         float64   `json:"score"`
	NumLikesUser  int64     `json:"numLikesUser"`
	NumLikesTotal int64     `json:"numLikesTotal"`
}

// NewUrlMetadata maps an indexed document and its relevance score into a
// search hit. Title and description are reduced to plain text.
func NewUrlMetadata(id string, score float64, doc Document) UrlMetadata {
	return UrlMetadata{
		ID:          id,
		URL:         doc.URL,
		Title:       sanitize(doc.Title),
		Description: sanitize(doc.Description),
		Icon:        doc.Icon,
		UpdatedAt:   doc.UpdatedAt.UTC(),
		Score:       score,
	}
}

// HitSet holds the matches of a search that returned at least one hit.
type HitSet struct {
	MaxScore float64
	Hits     []UrlMetadata
}

// UrlSearch is the result of a search. Matches is nil when nothing matched;
// otherwise it holds exactly NumHits hits.
type UrlSearch struct {
	Took    int64
	NumHits int64
	Matches *HitSet
}

// NewUrlSearch builds a UrlSearch from the hits returned by the index. The
// hit count is always derived from hits.
func NewUrlSearch(took int64, maxScore float64, hits []UrlMetadata) *UrlSearch {
	res := &UrlSearch{Took: took, NumHits: int64(len(hits))}
	if len(hits) > 0 {
		res.Matches = &HitSet{MaxScore: maxScore, Hits: hits}
	}
	return res
}

// Hits returns the matched hits or nil if nothing matched.
func (s *UrlSearch) Hits() []UrlMetadata {
	if s == nil || s.Matches == nil {
		return nil
	}
	return s.Matches.Hits
}

// URLs returns the url of every hit, in hit order.
func (s *UrlSearch) URLs() []string {
	hits := s.Hits()
	urls := make([]string, len(hits))
	for i, hit := range hits {
		urls[i] = hit.URL
	}
	return urls
}

// WithHits returns a copy of s whose hits are replaced by hits. The score
// context of s is kept.
func (s *UrlSearch) WithHits(hits []UrlMetadata) *UrlSearch {
	var maxScore float64
	if s.Matches != nil {
		maxScore = s.Matches.MaxScore
	}
	return NewUrlSearch(s.Took, maxScore, hits)
}

type urlSearchJSON struct {
	Took     int64         `json:"took"`
	NumHits  int64         `json:"numHits"`
	MaxScore *float64      `json:"maxScore,omitempty"`
	Hits     []UrlMetadata `json:"hits,omitempty"`
}

// MarshalJSON flattens the matches into the response; maxScore and hits are
// omitted altogether when nothing matched.
func (s UrlSearch) MarshalJSON() ([]byte, error) {
	out := urlSearchJSON{Took: s.Took, NumHits: s.NumHits}
	if s.Matches != nil {
		maxScore := s.Matches.MaxScore
		out.MaxScore = &maxScore
		out.Hits = s.Matches.Hits
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *UrlSearch) UnmarshalJSON(data []byte) error {
	var in urlSearchJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var maxScore float64
	if in.MaxScore != nil {
		maxScore = *in.MaxScore
	}
	*s = *NewUrlSearch(in.Took, maxScore, in.Hits)
	return nil
}

// Searcher is implemented by search index backends.
type Searcher interface {
	// SearchByQuery runs a keyword query string against the page index.
	SearchByQuery(ctx context.Context, query string) (*UrlSearch, error)

	// FindSimilar returns documents whose content is similar to the
	// documents identified by keys, the reference documents included.
	FindSimilar(ctx context.Context, keys []string) (*UrlSearch, error)
}

// Indexer is implemented by backends that can store documents. It is only
// used to install fixtures.
type Indexer interface {
	Index(ctx context.Context, doc *Document) error
}
