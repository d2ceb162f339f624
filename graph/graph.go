package graph

import "context"

// NetworkLimit caps the number of urls returned by a network discovery query.
const NetworkLimit = 100

// Relation is the type of edge that connects a User node to a Url node.
type Relation string

const (
	Likes Relation = "LIKES"
	Owns  Relation = "OWNS"
)

// ParseRelation maps s onto one of the supported relations. Matching is exact;
// any other value, including a padded or lowercase one, yields
// ErrInvalidRelation.
func ParseRelation(s string) (Relation, error) {
	switch r := Relation(s); r {
	case Likes, Owns:
		return r, nil
	default:
		return "", ErrInvalidRelation
	}
}

// Url is a page node of the social graph.
type Url struct {
	URL      string `json:"url"`
	NumLikes int64  `json:"numLikes"`
}

// CountRow is a single (url, counter) pair returned by the like counter
// queries.
type CountRow struct {
	URL      string
	NumLikes int64
}

// CountsFromRows collapses rows into a url -> counter lookup.
func CountsFromRows(rows []CountRow) map[string]int64 {
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.URL] = row.NumLikes
	}
	return counts
}

// Graph is implemented by the stores that can answer queries about users,
// the urls they are related to and the like counters attached to them.
type Graph interface {
	// ListUrlsByRelation returns the distinct urls the user is connected to
	// through an outgoing edge of the given relation.
	ListUrlsByRelation(ctx context.Context, user string, relation Relation) ([]Url, error)

	// ListUrlsByNetwork returns the distinct urls reachable through any user
	// that shares a url with the given user, most liked first and capped at
	// NetworkLimit entries.
	ListUrlsByNetwork(ctx context.Context, user string) ([]Url, error)

	// UserNumLikes returns the LIKES edge counter of user for each of the
	// given urls. Urls the user does not like are absent from the result.
	UserNumLikes(ctx context.Context, urls []string, user string) (map[string]int64, error)

	// TotalNumLikes returns the node level counter for each of the given
	// urls. Unknown urls are absent from the result.
	TotalNumLikes(ctx context.Context, urls []string) (map[string]int64, error)
}
