package indexer

import (
	"fmt"

	"golang.org/x/xerrors"
)

var (
	// ErrMissingDocumentKeys is returned by FindSimilar when no reference
	// document was provided.
	ErrMissingDocumentKeys = xerrors.New("at least one document key is required")

	// ErrEmptyQuery is returned when searching with a blank query string.
	ErrEmptyQuery = xerrors.New("search query must not be empty")

	// ErrMissingURL is returned when indexing a document without a url.
	ErrMissingURL = xerrors.New("document url is required")
)

// QueryError is returned when the search index fails to serve a request.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("search %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// NewQueryError wraps err into a *QueryError for operation op.
func NewQueryError(op string, err error) error {
	return &QueryError{Op: op, Err: err}
}
