// Package gemini implements [relay.Generator] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between relay's
// domain types and the Gemini API types. Each call is a single
// non-streaming generateContent request; retries and pacing are left to the
// caller's [relay.Dispatcher].
package gemini

import "github.com/fwojciec/relay"

const defaultModel = relay.DefaultModel
