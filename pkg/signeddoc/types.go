// Package signeddoc implements the COSE-Sign-shaped signed document
// envelope and its typed Metadata header (spec §3, §4.4): proposals,
// comments, templates, and parameter documents all share this one envelope
// and field set.
package signeddoc

import "github.com/input-output-hk/catalyst-libs-go/pkg/hash"

// ContentType drives payload interpretation (spec §3).
type ContentType string

const (
	ContentJSON             ContentType = "json"
	ContentCBOR             ContentType = "cbor"
	ContentCDDL             ContentType = "cddl"
	ContentJSONSchema       ContentType = "json-schema"
	ContentCSS              ContentType = "css"
	ContentHTML             ContentType = "html"
	ContentMarkdown         ContentType = "markdown"
	ContentPlain            ContentType = "plain"
	ContentJSONHandlebars   ContentType = "json-handlebars"
	ContentHTMLHandlebars   ContentType = "html-handlebars"
	ContentMarkdownHandlebars ContentType = "markdown-handlebars"
)

// ContentEncoding names the payload compression, if any.
type ContentEncoding string

const ContentEncodingBrotli ContentEncoding = "brotli"

// DocumentRef is a typed cross-document reference. Equality is defined on
// (Id, Ver) alone; Locator is opaque retrieval-hint bytes that do not
// participate in equality (spec §3).
type DocumentRef struct {
	Id      hash.Uuid7
	Ver     hash.Uuid7
	Locator []byte
}

// Equal compares two references by (Id, Ver) only.
func (r DocumentRef) Equal(o DocumentRef) bool {
	return r.Id.Equal(o.Id) && r.Ver.Equal(o.Ver)
}

// Metadata is the typed protected-header content (spec §3's field table).
// ref/template/reply/parameters are conditional on the rules configured for
// a document type; the metadata codec itself accepts all of them and leaves
// "is this field allowed here" to the rule engine.
type Metadata struct {
	Type            []hash.Uuid4
	Id              hash.Uuid7
	Ver             hash.Uuid7
	ContentType     ContentType
	ContentEncoding ContentEncoding // "" if absent
	Ref             []DocumentRef
	Template        []DocumentRef
	Reply           []DocumentRef
	Parameters      []DocumentRef
	ParametersAlias string // which of parameters/brand_id/campaign_id/category_id was used, "" if none
	Section         string
	Collabs         []string
}

// Signature is one entry of a SignedDocument's signature list: a
// COSE-Sign-shaped (protected header, signature bytes) pair. The protected
// header here is the per-signature header (e.g. carrying the signer's
// Catalyst ID / key id), distinct from the document-level protected header
// that carries Metadata.
type Signature struct {
	Protected []byte // canonical-CBOR-encoded map, opaque to this layer
	Bytes     []byte
}

// SignedDocument is the COSE-Sign-shaped envelope (spec §3): a canonical-CBOR
// protected header (carrying Metadata), an optional payload, and one or more
// signatures.
type SignedDocument struct {
	ProtectedHeader []byte // canonical-CBOR-encoded map; decodes to Metadata
	Metadata        Metadata
	Payload         []byte // nil if detached/absent
	Signatures      []Signature
}
