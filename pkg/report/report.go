// Package report implements the Problem Report: an append-only,
// thread-safe diagnostic accumulator shared across decoders and the rule
// engine (spec §2-D, §5). Decoders and validators record findings here
// instead of aborting, so a single pass can surface every issue with a
// document or registration.
package report

import (
	"fmt"
	"sync"
)

// Kind classifies one problem-report entry (spec §6).
type Kind string

const (
	MissingField        Kind = "MissingField"
	UnknownField         Kind = "UnknownField"
	InvalidValue         Kind = "InvalidValue"
	InvalidEncoding      Kind = "InvalidEncoding"
	FunctionalValidation Kind = "FunctionalValidation"
	DuplicateField       Kind = "DuplicateField"
	ConversionError      Kind = "ConversionError"
	Other                Kind = "Other"
)

// Entry is one recorded finding.
type Entry struct {
	Kind    Kind
	Context string
	Detail  string
}

func (e Entry) String() string {
	if e.Context == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Context, e.Detail)
}

// Report is an append-only list of Entry values, safe for concurrent
// writers. Per spec §5, readers should only be considered stable once all
// writers (e.g. all rule-engine goroutines) have finished; a reader racing a
// writer simply observes a consistent prefix.
type Report struct {
	context string

	mu      sync.Mutex
	entries []Entry
}

// New creates a Report tagged with a top-level context string (e.g. a
// document id or transaction hash), matching the envelope shape from spec
// §6: `{ context: string, entries: [...] }`.
func New(context string) *Report {
	return &Report{context: context}
}

// Push appends a finding. Safe to call from any number of goroutines
// concurrently.
func (r *Report) Push(kind Kind, context, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Kind: kind, Context: context, Detail: detail})
}

// MissingField records a required-field-absent finding.
func (r *Report) MissingField(context, field string) {
	r.Push(MissingField, context, fmt.Sprintf("missing required field %q", field))
}

// DuplicateFieldFound records a duplicate-field finding.
func (r *Report) DuplicateFieldFound(context, field string) {
	r.Push(DuplicateField, context, fmt.Sprintf("duplicate field %q", field))
}

// Entries returns a snapshot copy of the recorded findings. Call only after
// all concurrent writers have finished, per the package-level contract.
func (r *Report) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// IsProblemFree reports whether the report currently has zero entries. A
// document or registration is "valid" iff this holds after validation
// completes (spec §7).
func (r *Report) IsProblemFree() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries) == 0
}

// Context returns the top-level context string this report was created with.
func (r *Report) Context() string { return r.context }

// Len returns the number of recorded findings.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
