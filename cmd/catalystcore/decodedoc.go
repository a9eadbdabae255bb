package main

import (
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/signeddoc"
)

type docView struct {
	Id              string   `json:"id"`
	Ver             string   `json:"ver"`
	ContentType     string   `json:"content_type"`
	ContentEncoding string   `json:"content_encoding,omitempty"`
	Section         string   `json:"section,omitempty"`
	Collabs         []string `json:"collabs,omitempty"`
	SignatureCount  int      `json:"signature_count"`
	ProblemCount    int      `json:"problem_count"`
	Problems        []string `json:"problems,omitempty"`
}

func decodeDocCommand(args []string) error {
	data, err := readFileArg(args, "catalystcore decode-doc <file>")
	if err != nil {
		return err
	}

	doc, rep, err := signeddoc.DecodeSignedDocument(data)
	if err != nil {
		return fmt.Errorf("decode signed document: %w", err)
	}

	view := docView{
		Id:              doc.Metadata.Id.String(),
		Ver:             doc.Metadata.Ver.String(),
		ContentType:     string(doc.Metadata.ContentType),
		ContentEncoding: string(doc.Metadata.ContentEncoding),
		Section:         doc.Metadata.Section,
		Collabs:         doc.Metadata.Collabs,
		SignatureCount:  len(doc.Signatures),
		ProblemCount:    rep.Len(),
	}
	for _, e := range rep.Entries() {
		view.Problems = append(view.Problems, e.String())
	}
	return printJSON(view)
}
