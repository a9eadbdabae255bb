// Package rules implements the Signed-Document rule engine: a composable set
// of independent checks over a document's typed cross-references (ref,
// template, reply, parameters), evaluated concurrently against a pluggable
// DocumentProvider and enriching one shared problem report (spec §4.4).
package rules

import (
	"context"

	"github.com/input-output-hk/catalyst-libs-go/pkg/signeddoc"
)

// VerifyingKey is an opaque public key handed back by a DocumentProvider,
// kept untyped here since signature verification itself lives in
// pkg/signeddoc and treats the key as an ed25519.PublicKey.
type VerifyingKey []byte

// DocumentProvider is the only collaborator the rule engine needs. Document
// lookup and key lookup may consult storage, caches, or the registration
// chain; both are context-aware since they may do I/O.
type DocumentProvider interface {
	// TryGetDoc fetches a document by (id, ver). A nil, nil return means
	// "not found" rather than an error.
	TryGetDoc(ctx context.Context, ref signeddoc.DocumentRef) (*signeddoc.SignedDocument, error)
	// VerifyingKey looks up the public key for a Catalyst identity string.
	// A nil, nil return means "not found".
	VerifyingKey(ctx context.Context, catalystID string) (VerifyingKey, error)
}
