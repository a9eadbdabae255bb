package rules

import (
	"context"
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
	"github.com/input-output-hk/catalyst-libs-go/pkg/signeddoc"
)

// ReplyRule is RefRule specialized to the `reply` field — the symmetric rule
// spec §4.4 names alongside `ref`/`template`/`parameters`.
type ReplyRule struct{ RefRule }

func (r ReplyRule) Validate(ctx context.Context, doc signeddoc.SignedDocument, provider DocumentProvider, rep *report.Report) bool {
	r.RefRule.Field = "reply"
	return r.RefRule.Validate(ctx, doc, provider, rep)
}

// SectionMode selects whether a document's `section` field is expected.
type SectionMode int

const (
	SectionNotSpecified SectionMode = iota
	SectionOptional
	SectionRequired
)

// SectionRule validates the presence (or absence) of the `section` field.
type SectionRule struct{ Mode SectionMode }

func (r SectionRule) Validate(doc signeddoc.SignedDocument, rep *report.Report) bool {
	present := doc.Metadata.Section != ""
	switch r.Mode {
	case SectionNotSpecified:
		if present {
			rep.Push(report.FunctionalValidation, "section", "field \"section\" must not be present")
			return false
		}
	case SectionRequired:
		if !present {
			rep.MissingField("section", "section")
			return false
		}
	}
	return true
}

// CollabsMode selects whether a document's `collabs` field is expected.
type CollabsMode int

const (
	CollabsNotSpecified CollabsMode = iota
	CollabsOptional
)

// CollabsRule validates the presence (or absence) of the `collabs` field.
type CollabsRule struct{ Mode CollabsMode }

func (r CollabsRule) Validate(doc signeddoc.SignedDocument, rep *report.Report) bool {
	if r.Mode == CollabsNotSpecified && len(doc.Metadata.Collabs) > 0 {
		rep.Push(report.FunctionalValidation, "collabs", fmt.Sprintf("field %q must not be present", "collabs"))
		return false
	}
	return true
}
