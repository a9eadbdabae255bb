package signeddoc

import (
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/cbor"
	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
)

// Metadata field labels, spec §3.
const (
	fieldType            = "type"
	fieldId              = "id"
	fieldVer             = "ver"
	fieldContentType     = "content-type"
	fieldContentEncoding = "content-encoding"
	fieldRef             = "ref"
	fieldTemplate        = "template"
	fieldReply           = "reply"
	fieldSection         = "section"
	fieldCollabs         = "collabs"
	fieldParameters      = "parameters"
	fieldBrandId         = "brand_id"
	fieldCampaignId      = "campaign_id"
	fieldCategoryId      = "category_id"
)

var parameterAliases = []string{fieldParameters, fieldBrandId, fieldCampaignId, fieldCategoryId}

// docRefWire is the CBOR-visible shape of one DocumentRef.
type docRefWire struct {
	_       struct{} `cbor:",toarray"`
	Id      hash.Uuid7
	Ver     hash.Uuid7
	Locator []byte
}

func encodeRefs(refs []DocumentRef) []docRefWire {
	out := make([]docRefWire, 0, len(refs))
	for _, r := range refs {
		out = append(out, docRefWire{Id: r.Id, Ver: r.Ver, Locator: r.Locator})
	}
	return out
}

func decodeRefs(wire []docRefWire) []DocumentRef {
	out := make([]DocumentRef, 0, len(wire))
	for _, w := range wire {
		out = append(out, DocumentRef{Id: w.Id, Ver: w.Ver, Locator: w.Locator})
	}
	return out
}

// EncodeMetadata produces the canonical-CBOR protected-header map for m.
func EncodeMetadata(m Metadata) ([]byte, error) {
	fields := map[string]interface{}{
		fieldType:        m.Type,
		fieldId:          m.Id,
		fieldVer:         m.Ver,
		fieldContentType: string(m.ContentType),
	}
	if m.ContentEncoding != "" {
		fields[fieldContentEncoding] = string(m.ContentEncoding)
	}
	if len(m.Ref) > 0 {
		fields[fieldRef] = encodeRefs(m.Ref)
	}
	if len(m.Template) > 0 {
		fields[fieldTemplate] = encodeRefs(m.Template)
	}
	if len(m.Reply) > 0 {
		fields[fieldReply] = encodeRefs(m.Reply)
	}
	if len(m.Parameters) > 0 {
		label := m.ParametersAlias
		if label == "" {
			label = fieldParameters
		}
		fields[label] = encodeRefs(m.Parameters)
	}
	if m.Section != "" {
		fields[fieldSection] = m.Section
	}
	if len(m.Collabs) > 0 {
		fields[fieldCollabs] = m.Collabs
	}
	return cbor.Encode(fields)
}

// DecodeMetadata decodes a protected-header map into typed Metadata,
// reporting required-field absence, unknown labels, and duplicate parameter
// aliases to rep rather than aborting (spec §4.4).
func DecodeMetadata(data []byte, rep *report.Report) (Metadata, error) {
	d := cbor.NewDecoder(data, cbor.Strict)
	entries, err := d.DecodeMap()
	if err != nil {
		return Metadata{}, fmt.Errorf("signeddoc: decode metadata map: %w", err)
	}
	if d.Len() != 0 {
		return Metadata{}, fmt.Errorf("signeddoc: %d trailing bytes after metadata map", d.Len())
	}

	var m Metadata
	var sawType, sawId, sawVer, sawContentType bool
	var sawParamAlias string

	for _, e := range entries {
		var label string
		if err := cbor.Decode(e.KeyRaw, &label); err != nil {
			rep.Push(report.InvalidEncoding, "metadata", fmt.Sprintf("non-string field label: %v", err))
			continue
		}

		switch label {
		case fieldType:
			if err := cbor.Decode(e.ValRaw, &m.Type); err != nil {
				rep.Push(report.InvalidValue, "metadata", "type: "+err.Error())
				continue
			}
			sawType = true
		case fieldId:
			if err := cbor.Decode(e.ValRaw, &m.Id); err != nil {
				rep.Push(report.InvalidValue, "metadata", "id: "+err.Error())
				continue
			}
			sawId = true
		case fieldVer:
			if err := cbor.Decode(e.ValRaw, &m.Ver); err != nil {
				rep.Push(report.InvalidValue, "metadata", "ver: "+err.Error())
				continue
			}
			sawVer = true
		case fieldContentType:
			var s string
			if err := cbor.Decode(e.ValRaw, &s); err != nil {
				rep.Push(report.InvalidValue, "metadata", "content-type: "+err.Error())
				continue
			}
			m.ContentType = ContentType(s)
			sawContentType = true
		case fieldContentEncoding:
			var s string
			if err := cbor.Decode(e.ValRaw, &s); err != nil {
				rep.Push(report.InvalidValue, "metadata", "content-encoding: "+err.Error())
				continue
			}
			m.ContentEncoding = ContentEncoding(s)
		case fieldRef:
			m.Ref = decodeRefs(decodeWireRefs(e.ValRaw, rep, "ref"))
		case fieldTemplate:
			m.Template = decodeRefs(decodeWireRefs(e.ValRaw, rep, "template"))
		case fieldReply:
			m.Reply = decodeRefs(decodeWireRefs(e.ValRaw, rep, "reply"))
		case fieldSection:
			if err := cbor.Decode(e.ValRaw, &m.Section); err != nil {
				rep.Push(report.InvalidValue, "metadata", "section: "+err.Error())
			}
		case fieldCollabs:
			if err := cbor.Decode(e.ValRaw, &m.Collabs); err != nil {
				rep.Push(report.InvalidValue, "metadata", "collabs: "+err.Error())
			}
		case fieldParameters, fieldBrandId, fieldCampaignId, fieldCategoryId:
			if sawParamAlias != "" {
				rep.DuplicateFieldFound("metadata", fieldParameters)
				continue
			}
			sawParamAlias = label
			m.Parameters = decodeRefs(decodeWireRefs(e.ValRaw, rep, label))
			m.ParametersAlias = label
		default:
			rep.Push(report.UnknownField, "metadata", fmt.Sprintf("unknown field label %q", label))
		}
	}

	if !sawType {
		rep.MissingField("metadata", fieldType)
	}
	if !sawId {
		rep.MissingField("metadata", fieldId)
	}
	if !sawVer {
		rep.MissingField("metadata", fieldVer)
	}
	if !sawContentType {
		rep.MissingField("metadata", fieldContentType)
	}
	if sawId && sawVer && !m.Id.LessOrEqual(m.Ver) {
		rep.Push(report.InvalidValue, "metadata", "ver must be >= id")
	}

	return m, nil
}

func decodeWireRefs(raw []byte, rep *report.Report, field string) []docRefWire {
	var wire []docRefWire
	if err := cbor.Decode(raw, &wire); err != nil {
		rep.Push(report.InvalidValue, "metadata", fmt.Sprintf("%s: %v", field, err))
		return nil
	}
	return wire
}

// IsParameterAlias reports whether label is one of the four aliases that
// collapse to the single logical "parameters" field.
func IsParameterAlias(label string) bool {
	for _, a := range parameterAliases {
		if a == label {
			return true
		}
	}
	return false
}
