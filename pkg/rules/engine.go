package rules

import (
	"context"

	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
	"github.com/input-output-hk/catalyst-libs-go/pkg/signeddoc"
	"golang.org/x/sync/errgroup"
)

// AsyncRule is anything the engine can fan out to a goroutine: a check over
// doc using provider, recording findings to rep and returning its own
// pass/fail verdict.
type AsyncRule interface {
	Validate(ctx context.Context, doc signeddoc.SignedDocument, provider DocumentProvider, rep *report.Report) bool
}

// Engine is a fixed, composable set of rules evaluated for every document it
// is handed (spec §4.4).
type Engine struct {
	Ref        RefRule
	Template   TemplateRule
	Parameters ParametersRule
	Reply      ReplyRule
	Section    SectionRule
	Collabs    CollabsRule
}

// Validate runs every configured rule concurrently against doc, using
// errgroup to fan out and to derive a context that the provider's I/O can
// observe cancellation on (spec §5 "dropping a task is safe at any await
// point"). Every rule always runs to completion — the engine never
// short-circuits on first failure, per spec §8's "always evaluate" default —
// and all findings land in one shared, concurrency-safe report.Report.
//
// The return value is the conjunction of every rule's verdict AND
// rep.IsProblemFree(), matching spec §4.4's "overall validity is the
// conjunction of rule verdicts and 'report not problematic'".
func (e Engine) Validate(ctx context.Context, doc signeddoc.SignedDocument, provider DocumentProvider, rep *report.Report) bool {
	g, gctx := errgroup.WithContext(ctx)

	verdicts := make([]bool, 6)
	asyncRules := []AsyncRule{e.Ref, e.Template, e.Parameters, e.Reply}
	for i, rule := range asyncRules {
		i, rule := i, rule
		g.Go(func() error {
			verdicts[i] = rule.Validate(gctx, doc, provider, rep)
			return nil
		})
	}

	// Section/Collabs are synchronous (pure metadata checks, no provider
	// I/O) but still run inside the group so their findings interleave
	// safely with the async rules on the shared report.
	g.Go(func() error {
		verdicts[4] = e.Section.Validate(doc, rep)
		return nil
	})
	g.Go(func() error {
		verdicts[5] = e.Collabs.Validate(doc, rep)
		return nil
	})

	_ = g.Wait() // rule Validate methods never return error; this always succeeds

	ok := rep.IsProblemFree()
	for _, v := range verdicts {
		ok = ok && v
	}
	return ok
}
