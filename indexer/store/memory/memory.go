package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Ahmed-Sermani/linkrec/indexer"
	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/search/query"
	"golang.org/x/xerrors"
)

const defaultMaxResults = 100

var (
	_ indexer.Searcher = (*InMemoryIndexer)(nil)
	_ indexer.Indexer  = (*InMemoryIndexer)(nil)
)

// similarityFields are compared when looking for similar documents.
var similarityFields = []string{"title", "description"}

// InMemoryIndexer implements indexer.Searcher on top of an in-memory bleve
// index.
type InMemoryIndexer struct {
	mu        sync.RWMutex
	documents map[string]*indexer.Document

	idx        bleve.Index
	maxResults int
}

type memDoc struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewInMemoryBleveIndexer creates a new in-memory index. Searches return at
// most maxResults hits; a non-positive value selects the default.
func NewInMemoryBleveIndexer(maxResults int) (*InMemoryIndexer, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &InMemoryIndexer{
		idx:        idx,
		documents:  make(map[string]*indexer.Document),
		maxResults: maxResults,
	}, nil
}

// Index inserts or replaces doc under the key derived from its url.
func (i *InMemoryIndexer) Index(_ context.Context, doc *indexer.Document) error {
	if doc.URL == "" {
		return xerrors.Errorf("index: %w", indexer.ErrMissingURL)
	}
	dcopy := new(indexer.Document)
	*dcopy = *doc
	k := indexer.URLToKey(dcopy.URL)

	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.idx.Index(k, memDoc{Title: dcopy.Title, Description: dcopy.Description}); err != nil {
		return xerrors.Errorf("index: %w", err)
	}
	i.documents[k] = dcopy
	return nil
}

func (i *InMemoryIndexer) SearchByQuery(ctx context.Context, q string) (*indexer.UrlSearch, error) {
	if strings.TrimSpace(q) == "" {
		return nil, xerrors.Errorf("search by query: %w", indexer.ErrEmptyQuery)
	}
	return i.search(ctx, "search by query", bleve.NewQueryStringQuery(toBleveQueryString(q)))
}

// FindSimilar matches the title and description of every reference document
// against the index. The reference documents themselves are always eligible.
func (i *InMemoryIndexer) FindSimilar(ctx context.Context, keys []string) (*indexer.UrlSearch, error) {
	if len(keys) == 0 {
		return nil, xerrors.Errorf("find similar: %w", indexer.ErrMissingDocumentKeys)
	}

	q := bleve.NewDisjunctionQuery(bleve.NewDocIDQuery(keys))
	i.mu.RLock()
	for _, k := range keys {
		doc, found := i.documents[k]
		if !found {
			continue
		}
		for _, field := range similarityFields {
			text := fieldText(doc, field)
			if strings.TrimSpace(text) == "" {
				continue
			}
			mq := bleve.NewMatchQuery(text)
			mq.SetField(field)
			q.AddQuery(mq)
		}
	}
	i.mu.RUnlock()

	return i.search(ctx, "find similar", q)
}

func fieldText(doc *indexer.Document, field string) string {
	switch field {
	case "title":
		return doc.Title
	case "description":
		return doc.Description
	default:
		return ""
	}
}

func (i *InMemoryIndexer) Close() error {
	return i.idx.Close()
}

func (i *InMemoryIndexer) search(ctx context.Context, op string, q query.Query) (*indexer.UrlSearch, error) {
	req := bleve.NewSearchRequestOptions(q, i.maxResults, 0, false)
	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, indexer.NewQueryError(op, err)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	hits := make([]indexer.UrlMetadata, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc, found := i.documents[hit.ID]
		if !found {
			continue
		}
		hits = append(hits, indexer.NewUrlMetadata(hit.ID, hit.Score, *doc))
	}
	return indexer.NewUrlSearch(res.Took.Milliseconds(), res.MaxScore, hits), nil
}

// toBleveQueryString rewrites a boolean query string into bleve's syntax,
// which has no OR keyword and no grouping. Terms are optional by default so
// OR and parentheses are dropped; AND marks both operands as required and
// NOT excludes the following term. Nested groups are flattened.
func toBleveQueryString(q string) string {
	tokens := strings.Fields(strings.NewReplacer("(", " ", ")", " ").Replace(q))
	out := make([]string, 0, len(tokens))
	prefix := ""
	for _, tok := range tokens {
		switch tok {
		case "OR":
			continue
		case "AND":
			if n := len(out); n > 0 && !strings.HasPrefix(out[n-1], "+") && !strings.HasPrefix(out[n-1], "-") {
				out[n-1] = "+" + out[n-1]
			}
			prefix = "+"
			continue
		case "NOT":
			prefix = "-"
			continue
		}
		out = append(out, prefix+tok)
		prefix = ""
	}
	return strings.Join(out, " ")
}
