// Package service holds the business logic. Services validate input, enforce
// the domain rules, and orchestrate persistence, payments, and notifications.
package service

import (
	"context"

	"github.com/hollowaybooks/folio/internal/repository"
)

// Store is what services need from persistence: every query plus the ability
// to run a set of them atomically.
type Store interface {
	repository.Querier
	ExecTx(ctx context.Context, fn func(repository.Querier) error) error
}

// versionRetries bounds optimistic-concurrency retry loops. Conflicts beyond
// this surface to the caller as a conflict error.
const versionRetries = 3
