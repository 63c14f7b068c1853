package lexivec

import "github.com/lexivec/lexivec/internal/domain"

// Sentinel errors surfaced by the SDK. Match with errors.Is.
var (
	// ErrInvalidInput is a malformed request: empty text, bad K, wrong field type.
	ErrInvalidInput = domain.ErrInvalidInput
	// ErrDimensionMismatch is a vector length that disagrees with the index dimension.
	ErrDimensionMismatch = domain.ErrDimensionMismatch
	// ErrProviderUnavailable is an embedding/rerank provider failure. Retryable by the caller.
	ErrProviderUnavailable = domain.ErrProviderUnavailable
	// ErrQueryFailed is a search backend failure. Retryable by the caller.
	ErrQueryFailed = domain.ErrQueryFailed
	// ErrTimeout is a context deadline expiry on a network call.
	ErrTimeout = domain.ErrTimeout
	// ErrSchemaInvalid is an invalid schema definition (key fields, dimensions, semantic refs).
	ErrSchemaInvalid = domain.ErrSchemaInvalid
	// ErrSemanticNotConfigured is a semantic query against an index without a semantic config.
	ErrSemanticNotConfigured = domain.ErrSemanticNotConfigured
	// ErrUnknownField is a filter or projection reference to an undeclared field.
	ErrUnknownField = domain.ErrUnknownField
	// ErrIndexExists is an index creation conflict.
	ErrIndexExists = domain.ErrIndexExists
	// ErrIndexNotFound is a missing index.
	ErrIndexNotFound = domain.ErrIndexNotFound
	// ErrDocumentNotFound is a missing document.
	ErrDocumentNotFound = domain.ErrDocumentNotFound
	// ErrPartialFailure is a mixed per-document batch outcome; see PartialFailureError.
	ErrPartialFailure = domain.ErrPartialFailure
	// ErrRateLimited is a provider rate limit hit. Retryable with backoff.
	ErrRateLimited = domain.ErrRateLimited
)

// PartialFailureError carries the IDs of failed documents in a batch.
type PartialFailureError = domain.PartialFailureError
