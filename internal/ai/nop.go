package ai

import (
	"context"
	"errors"
)

// ErrDisabled is returned by NopCompleter. Callers treat it as "skip the AI step".
var ErrDisabled = errors.New("ai disabled")

// NopCompleter is used when ai.enabled is false. It never makes a network call.
type NopCompleter struct{}

// NewNopCompleter returns a NopCompleter.
func NewNopCompleter() *NopCompleter {
	return &NopCompleter{}
}

// Complete always fails with ErrDisabled.
func (n *NopCompleter) Complete(_ context.Context, _ string) (string, error) {
	return "", ErrDisabled
}
