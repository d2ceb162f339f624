package neo4jdb

import (
	"github.com/Ahmed-Sermani/linkrec/graph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/xerrors"
)

// propertiesFromRecords extracts the property map held by the first field of
// each record. The field may either be a node or a plain map projection.
func propertiesFromRecords(records []*neo4j.Record) ([]map[string]any, error) {
	props := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		if rec == nil || len(rec.Values) == 0 {
			return nil, xerrors.Errorf("fetch properties: empty row: %w", graph.ErrMalformedRecord)
		}
		switch v := rec.Values[0].(type) {
		case neo4j.Node:
			props = append(props, v.Props)
		case map[string]any:
			props = append(props, v)
		default:
			return nil, xerrors.Errorf("fetch properties: unexpected value %T: %w", v, graph.ErrMalformedRecord)
		}
	}
	return props, nil
}

func urlsFromProperties(props []map[string]any) ([]graph.Url, error) {
	urls := make([]graph.Url, 0, len(props))
	for _, p := range props {
		url, ok := p["url"].(string)
		if !ok || url == "" {
			return nil, xerrors.Errorf("url node without url property: %w", graph.ErrMalformedRecord)
		}
		numLikes, err := asInt64(p["numLikes"])
		if err != nil {
			return nil, xerrors.Errorf("url %q: %w", url, err)
		}
		urls = append(urls, graph.Url{URL: url, NumLikes: numLikes})
	}
	return urls, nil
}

func countRowsFromRecords(records []*neo4j.Record) ([]graph.CountRow, error) {
	rows := make([]graph.CountRow, 0, len(records))
	for _, rec := range records {
		rawURL, _ := rec.Get("url")
		url, ok := rawURL.(string)
		if !ok {
			return nil, xerrors.Errorf("count row without url: %w", graph.ErrMalformedRecord)
		}
		rawLikes, _ := rec.Get("numLikes")
		numLikes, err := asInt64(rawLikes)
		if err != nil {
			return nil, xerrors.Errorf("count row %q: %w", url, err)
		}
		rows = append(rows, graph.CountRow{URL: url, NumLikes: numLikes})
	}
	return rows, nil
}

// asInt64 normalises a numeric property; a missing property counts as zero.
func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, xerrors.Errorf("numLikes has type %T: %w", v, graph.ErrMalformedRecord)
	}
}
