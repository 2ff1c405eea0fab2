package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidPagination = errors.New("invalid pagination")
)

// IngestionError - the seed dataset could not be fetched or was not a JSON array
type IngestionError struct {
	Reason string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Err == nil {
		return "ingestion failed: " + e.Reason
	}
	return fmt.Sprintf("ingestion failed: %s: %v", e.Reason, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// StoreError - an operation on the record store failed
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// WrapStore tags err with the store operation; nil stays nil.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
