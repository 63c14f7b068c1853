package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput signals a malformed caller request (empty text, bad K).
	ErrInvalidInput = errors.New("invalid input")
	// ErrDimensionMismatch signals a vector length that disagrees with the declared dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrProviderUnavailable signals an embedding/rerank provider network or auth failure.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrQueryFailed signals a search backend failure.
	ErrQueryFailed = errors.New("query failed")
	// ErrTimeout signals a deadline expiry on a network call.
	ErrTimeout = errors.New("timeout")
	// ErrSchemaInvalid signals an invalid index schema definition.
	ErrSchemaInvalid = errors.New("invalid schema")
	// ErrSemanticNotConfigured signals semantic directives against a schema without a semantic config.
	ErrSemanticNotConfigured = errors.New("semantic configuration not set on index")
	// ErrUnknownField signals a reference to a field absent from the schema.
	ErrUnknownField = errors.New("unknown field")
	// ErrIndexExists signals an index creation conflict.
	ErrIndexExists = errors.New("index already exists")
	// ErrIndexNotFound signals a missing index.
	ErrIndexNotFound = errors.New("index not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrPartialFailure signals mixed per-document outcomes in a batch upload.
	ErrPartialFailure = errors.New("partial batch failure")
	// ErrRateLimited signals a provider rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// PartialFailureError wraps ErrPartialFailure with the IDs of the documents
// that failed, so callers can retry just the failed subset.
type PartialFailureError struct {
	FailedIDs []string
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: %d document(s) failed: %s",
		ErrPartialFailure.Error(), len(e.FailedIDs), strings.Join(e.FailedIDs, ", "))
}

func (e *PartialFailureError) Unwrap() error { return ErrPartialFailure }

// NewPartialFailure creates a partial failure error for the given document IDs.
func NewPartialFailure(failedIDs []string) error {
	return &PartialFailureError{FailedIDs: failedIDs}
}
