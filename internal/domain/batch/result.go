// Package batch holds per-document outcomes of batch upload and delete
// operations. Callers must inspect per-document statuses rather than
// assume all-or-nothing behavior.
package batch

import "github.com/lexivec/lexivec/internal/domain"

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one document in a batch.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the document identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the failure cause, nil on success.
func (r Result) Err() error { return r.err }

// IngestResult aggregates per-document outcomes plus embedding token usage
// for one batch upload, preserving input order.
type IngestResult struct {
	Results         []Result
	EmbeddingTokens int
}

// Succeeded counts documents that were uploaded.
func (ir IngestResult) Succeeded() int {
	n := 0
	for _, r := range ir.Results {
		if r.Status() == StatusOK {
			n++
		}
	}
	return n
}

// FailedIDs returns the IDs of documents that failed, in input order.
func (ir IngestResult) FailedIDs() []string {
	var out []string
	for _, r := range ir.Results {
		if r.Status() == StatusError {
			out = append(out, r.ID())
		}
	}
	return out
}

// Err returns nil when every document succeeded, otherwise a
// PartialFailureError carrying the failed IDs.
func (ir IngestResult) Err() error {
	failed := ir.FailedIDs()
	if len(failed) == 0 {
		return nil
	}
	return domain.NewPartialFailure(failed)
}
