package recommend

import "github.com/Ahmed-Sermani/linkrec/indexer"

// CountField selects the like counter of a hit that MergeCounts fills in.
type CountField int

const (
	// UserLikes targets UrlMetadata.NumLikesUser.
	UserLikes CountField = iota
	// TotalLikes targets UrlMetadata.NumLikesTotal.
	TotalLikes
)

// MergeCounts returns a copy of hits where the selected counter of each hit
// is set to counts[hit.URL], or zero when the url has no entry. Order and
// length are preserved and hits itself is left untouched.
func MergeCounts(hits []indexer.UrlMetadata, counts map[string]int64, field CountField) []indexer.UrlMetadata {
	if hits == nil {
		return nil
	}
	out := make([]indexer.UrlMetadata, len(hits))
	copy(out, hits)
	for i := range out {
		n := counts[out[i].URL]
		switch field {
		case UserLikes:
			out[i].NumLikesUser = n
		case TotalLikes:
			out[i].NumLikesTotal = n
		}
	}
	return out
}
