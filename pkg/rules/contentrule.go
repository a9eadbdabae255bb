package rules

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
	"github.com/input-output-hk/catalyst-libs-go/pkg/signeddoc"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ContentMode selects one of the three template/content modes spec §4.4 names.
type ContentMode int

const (
	// ContentTemplated requires a `template` reference whose type is
	// TemplateType; for content-type=json templates, the current
	// document's payload must validate against the template's payload
	// interpreted as a Draft-7 JSON Schema.
	ContentTemplated ContentMode = iota
	// ContentStatic validates against a fixed schema baked into the rule;
	// the document must not carry `template`.
	ContentStatic
	// ContentNotSpecified forbids `template` outright.
	ContentNotSpecified
)

// TemplateRule is spec §4.4's combined TemplateRule/ContentRule: it
// constrains whether/how a document may carry `template` and, in Templated
// and Static modes, validates the document's payload against a schema.
type TemplateRule struct {
	Mode         ContentMode
	TemplateType hash.Uuid4      // required template document type, Templated mode only
	StaticSchema []byte          // fixed Draft-7 JSON schema, Static mode only
}

// Validate implements the three-mode semantics from spec §4.4.
func (r TemplateRule) Validate(ctx context.Context, doc signeddoc.SignedDocument, provider DocumentProvider, rep *report.Report) bool {
	switch r.Mode {
	case ContentNotSpecified:
		if len(doc.Metadata.Template) > 0 {
			rep.Push(report.FunctionalValidation, "template", "field \"template\" must not be present")
			return false
		}
		return true

	case ContentStatic:
		if len(doc.Metadata.Template) > 0 {
			rep.Push(report.FunctionalValidation, "template", "field \"template\" must not be present in static-schema mode")
			return false
		}
		return validateJSONSchema(doc, r.StaticSchema, rep)

	case ContentTemplated:
		if len(doc.Metadata.Template) != 1 {
			rep.Push(report.FunctionalValidation, "template", "templated documents must carry exactly one template reference")
			return false
		}
		ref := doc.Metadata.Template[0]
		target, err := provider.TryGetDoc(ctx, ref)
		if err != nil {
			rep.Push(report.FunctionalValidation, "template", fmt.Sprintf("provider unavailable for template: %v", err))
			return false
		}
		if target == nil {
			rep.Push(report.FunctionalValidation, "template", "referenced template document not found")
			return false
		}
		if !typeAllowed(target.Metadata.Type, []hash.Uuid4{r.TemplateType}) {
			rep.Push(report.FunctionalValidation, "template", "referenced document is not of the required template type")
			return false
		}
		if target.Metadata.ContentType != signeddoc.ContentJSON {
			return true
		}
		return validateJSONSchema(doc, target.Payload, rep)

	default:
		rep.Push(report.Other, "template", "unrecognized TemplateRule mode")
		return false
	}
}

func validateJSONSchema(doc signeddoc.SignedDocument, schemaBytes []byte, rep *report.Report) bool {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	const resourceName = "schema.json"
	if err := compiler.AddResource(resourceName, bytes.NewReader(schemaBytes)); err != nil {
		rep.Push(report.FunctionalValidation, "content", fmt.Sprintf("invalid JSON schema: %v", err))
		return false
	}
	schema, err := compiler.Compile(resourceName)
	if err != nil {
		rep.Push(report.FunctionalValidation, "content", fmt.Sprintf("compile JSON schema: %v", err))
		return false
	}

	var payload interface{}
	if err := json.Unmarshal(doc.Payload, &payload); err != nil {
		rep.Push(report.FunctionalValidation, "content", fmt.Sprintf("payload is not valid JSON: %v", err))
		return false
	}
	if err := schema.Validate(payload); err != nil {
		rep.Push(report.FunctionalValidation, "content", fmt.Sprintf("payload does not validate against schema: %v", err))
		return false
	}
	return true
}
