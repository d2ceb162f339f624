package graph

import (
	"fmt"

	"golang.org/x/xerrors"
)

var (
	// ErrInvalidRelation is returned when a relation other than LIKES or
	// OWNS is requested.
	ErrInvalidRelation = xerrors.New("relation must be LIKES or OWNS")

	// ErrMalformedRecord is returned when a row produced by the graph store
	// does not have the expected shape.
	ErrMalformedRecord = xerrors.New("malformed graph record")
)

// QueryError is returned when the graph store fails to execute a query.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("graph query %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// NewQueryError wraps err into a *QueryError for operation op.
func NewQueryError(op string, err error) error {
	return &QueryError{Op: op, Err: err}
}
