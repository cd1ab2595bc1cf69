// Package mock provides test doubles for relay interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/relay"
)

// Interface compliance checks.
var (
	_ relay.Generator  = (*Generator)(nil)
	_ relay.Dispatcher = (*Dispatcher)(nil)
)

// Generator is a test double for relay.Generator.
// Set GenerateFn before calling Generate.
type Generator struct {
	GenerateFn func(ctx context.Context, req relay.Request) (*relay.Response, error)
}

// Generate delegates to GenerateFn.
func (g *Generator) Generate(ctx context.Context, req relay.Request) (*relay.Response, error) {
	return g.GenerateFn(ctx, req)
}

// Dispatcher is a test double for relay.Dispatcher.
// When SubmitFn is nil, Submit runs invoke once on the caller's goroutine.
type Dispatcher struct {
	SubmitFn func(ctx context.Context, invoke relay.Invoke) (*relay.Response, error)
}

// Submit delegates to SubmitFn.
func (d *Dispatcher) Submit(ctx context.Context, invoke relay.Invoke) (*relay.Response, error) {
	if d.SubmitFn == nil {
		return invoke(ctx)
	}
	return d.SubmitFn(ctx, invoke)
}
