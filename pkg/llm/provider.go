// Package llm abstracts the text-generation backend behind period analyses.
// The journaling flow is single-shot: one prompt in, one completion out,
// no conversation state.
package llm

import (
	"context"
)

// Option sets optional generation parameters.
type Option func(*Options)

type Options struct {
	Temperature  float64
	MaxTokens    int
	Model        string // override the provider's configured model
	SystemPrompt string // instruction framing, sent out-of-band where the backend supports it
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

// LLMProvider is a single-shot text generator.
type LLMProvider interface {
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// ResolveOptions applies opts over the shared defaults.
func ResolveOptions(opts []Option) *Options {
	options := &Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
