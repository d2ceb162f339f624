package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Ahmed-Sermani/linkrec/indexer"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"golang.org/x/xerrors"
)

const indexName = "url"

const defaultMaxResults = 100

var (
	_ indexer.Searcher = (*ESIndexer)(nil)
	_ indexer.Indexer  = (*ESIndexer)(nil)
)

// errSearchTimedOut is reported when elasticsearch returns before every shard
// answered, leaving the hits incomplete.
var errSearchTimedOut = xerrors.New("search timed out before completing")

// similarityFields are compared by the more_like_this query.
var similarityFields = []string{"title", "description"}

type esErrorRes struct {
	Err struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func (e esErrorRes) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Type, e.Err.Reason)
}

type esDoc struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	UpdatedAt   esTime `json:"updatedAt"`
}

type esQueryStringQuery struct {
	Query struct {
		QueryString struct {
			Query   string `json:"query"`
			Lenient bool   `json:"lenient"`
		} `json:"query_string"`
	} `json:"query"`
	Size int `json:"size"`
}

type esLikeDoc struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

type esMoreLikeThisQuery struct {
	Query struct {
		MoreLikeThis struct {
			Fields      []string    `json:"fields"`
			Like        []esLikeDoc `json:"like"`
			Include     bool        `json:"include"`
			MinTermFreq int         `json:"min_term_freq"`
			MinDocFreq  int         `json:"min_doc_freq"`
		} `json:"more_like_this"`
	} `json:"query"`
	Size int `json:"size"`
}

type esSearchRes struct {
	Took     int64 `json:"took"`
	TimedOut bool  `json:"timed_out"`
	Hits     struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		HitList  []struct {
			ID        string  `json:"_id"`
			Score     float64 `json:"_score"`
			DocSource esDoc   `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Config encapsulates the settings for talking to an elasticsearch cluster.
type Config struct {
	Nodes    []string
	Username string
	Password string

	// MaxResults bounds the number of hits returned by a search. Defaults
	// to 100.
	MaxResults int

	// QueryTimeout bounds the duration of every request. Defaults to 10s.
	QueryTimeout time.Duration
}

// ESIndexer implements indexer.Searcher against the elasticsearch "url"
// index.
type ESIndexer struct {
	es         *elasticsearch.Client
	maxResults int
	timeout    time.Duration
}

// NewESIndexer creates a client for the configured cluster and makes sure the
// index exists. Credentials and content type are sent with every request.
func NewESIndexer(cfg Config) (*ESIndexer, error) {
	if len(cfg.Nodes) == 0 {
		return nil, xerrors.New("at least one elasticsearch node must be specified")
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 10 * time.Second
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Nodes,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Header:    http.Header{"Content-Type": []string{"application/json"}},
	})
	if err != nil {
		return nil, err
	}

	if err = ensureIndex(es); err != nil {
		return nil, err
	}
	return &ESIndexer{es: es, maxResults: cfg.MaxResults, timeout: cfg.QueryTimeout}, nil
}

func ensureIndex(es *elasticsearch.Client) error {
	const mapping = `
	{
		"mappings" : {
		  "properties": {
			"url": {"type": "keyword"},
			"title": {"type": "text"},
			"description": {"type": "text"},
			"icon": {"type": "keyword", "index": false},
			"updatedAt": {"type": "date"}
		  }
		}
	}`

	mappingReader := strings.NewReader(mapping)
	res, err := es.Indices.Create(indexName, es.Indices.Create.WithBody(mappingReader))
	if err != nil {
		return xerrors.Errorf("create index error: %w", err)
	} else if res.IsError() {
		defer res.Body.Close()
		var esErr esErrorRes
		if err := json.NewDecoder(res.Body).Decode(&esErr); err != nil {
			return err
		}
		if esErr.Err.Type == "resource_already_exists_exception" {
			return nil
		}
		return xerrors.Errorf("create index: %w", esErr)
	}
	return res.Body.Close()
}

// Index stores doc under the key derived from its url and refreshes the index
// so the document is immediately searchable.
func (i *ESIndexer) Index(ctx context.Context, doc *indexer.Document) error {
	if doc.URL == "" {
		return xerrors.Errorf("index: %w", indexer.ErrMissingURL)
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(makeESDoc(doc)); err != nil {
		return xerrors.Errorf("index: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	res, err := i.es.Index(
		indexName,
		&buf,
		i.es.Index.WithContext(ctx),
		i.es.Index.WithDocumentID(indexer.URLToKey(doc.URL)),
		i.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return indexer.NewQueryError("index", err)
	}

	var esIndexRes struct {
		Result string `json:"result"`
	}
	if err := unmarshalResponse(res, &esIndexRes); err != nil {
		return indexer.NewQueryError("index", err)
	}
	return nil
}

func (i *ESIndexer) SearchByQuery(ctx context.Context, q string) (*indexer.UrlSearch, error) {
	if strings.TrimSpace(q) == "" {
		return nil, xerrors.Errorf("search by query: %w", indexer.ErrEmptyQuery)
	}

	var esQuery esQueryStringQuery
	esQuery.Query.QueryString.Query = q
	esQuery.Query.QueryString.Lenient = true
	esQuery.Size = i.maxResults

	return i.search(ctx, "search by query", &esQuery)
}

// FindSimilar issues a more_like_this query using the documents identified by
// keys as the reference set.
func (i *ESIndexer) FindSimilar(ctx context.Context, keys []string) (*indexer.UrlSearch, error) {
	if len(keys) == 0 {
		return nil, xerrors.Errorf("find similar: %w", indexer.ErrMissingDocumentKeys)
	}

	var esQuery esMoreLikeThisQuery
	mlt := &esQuery.Query.MoreLikeThis
	mlt.Fields = similarityFields
	mlt.Include = true
	mlt.MinTermFreq = 1
	mlt.MinDocFreq = 1
	mlt.Like = make([]esLikeDoc, len(keys))
	for j, k := range keys {
		mlt.Like[j] = esLikeDoc{Index: indexName, ID: k}
	}
	esQuery.Size = i.maxResults

	return i.search(ctx, "find similar", &esQuery)
}

func (i *ESIndexer) search(ctx context.Context, op string, query any) (*indexer.UrlSearch, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	res, err := doSearch(ctx, i.es, query)
	if err != nil {
		return nil, indexer.NewQueryError(op, err)
	}

	var esRes esSearchRes
	if err = unmarshalResponse(res, &esRes); err != nil {
		return nil, indexer.NewQueryError(op, err)
	}
	if esRes.TimedOut {
		return nil, indexer.NewQueryError(op, errSearchTimedOut)
	}
	return mapSearchRes(&esRes), nil
}

func doSearch(ctx context.Context, es *elasticsearch.Client, query any) (*esapi.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, xerrors.Errorf("search: %w", err)
	}

	return es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(indexName),
		es.Search.WithBody(&buf),
	)
}

func makeESDoc(d *indexer.Document) esDoc {
	return esDoc{
		URL:         d.URL,
		Title:       d.Title,
		Description: d.Description,
		Icon:        d.Icon,
		UpdatedAt:   esTime{d.UpdatedAt.UTC()},
	}
}

func unmarshalResponse(res *esapi.Response, to interface{}) error {
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var esErr esErrorRes
		if err := json.NewDecoder(res.Body).Decode(&esErr); err != nil {
			return xerrors.Errorf("%s: %w", res.Status(), err)
		}
		return xerrors.Errorf("%s: %w", res.Status(), esErr)
	}
	return json.NewDecoder(res.Body).Decode(to)
}

func mapSearchRes(res *esSearchRes) *indexer.UrlSearch {
	hits := make([]indexer.UrlMetadata, 0, len(res.Hits.HitList))
	for _, hit := range res.Hits.HitList {
		hits = append(hits, indexer.NewUrlMetadata(hit.ID, hit.Score, mapESDoc(hit.DocSource)))
	}

	var maxScore float64
	if res.Hits.MaxScore != nil {
		maxScore = *res.Hits.MaxScore
	}
	return indexer.NewUrlSearch(res.Took, maxScore, hits)
}

func mapESDoc(doc esDoc) indexer.Document {
	return indexer.Document{
		URL:         doc.URL,
		Title:       doc.Title,
		Description: doc.Description,
		Icon:        doc.Icon,
		UpdatedAt:   doc.UpdatedAt.Time,
	}
}
