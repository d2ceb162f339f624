package indexer

import (
	"crypto/md5"
	"encoding/hex"
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// URLToKey returns the key of the index document for url: the hex encoded
// MD5 digest of the url.
func URLToKey(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// URLsToKeys maps URLToKey over urls.
func URLsToKeys(urls []string) []string {
	keys := make([]string, len(urls))
	for i, url := range urls {
		keys[i] = URLToKey(url)
	}
	return keys
}

// Index metadata is scraped from arbitrary pages and may carry markup.
var textPolicy = bluemonday.StrictPolicy()

func sanitize(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}
