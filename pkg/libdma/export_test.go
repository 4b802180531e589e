package libdma

import (
	"context"

	"google.golang.org/api/idtoken"
)

// This file is only for test purpose and is only loaded by test framework.

// StubValidator replaces the Google ID token validator and returns a function that restores it.
func StubValidator(fn func(ctx context.Context, token, audience string) (*idtoken.Payload, error)) func() {
	previous := validate
	validate = fn
	return func() {
		validate = previous
	}
}
