// Package store persists generation results by id.
package store

import (
	"context"
	"errors"

	"character-workers/internal/models"
)

var (
	ErrNotFound     = errors.New("GENERATION_NOT_FOUND")
	ErrStoreFailure = errors.New("STORE_FAILURE")
)

// Store is a key-value store of generation results. Put overwrites silently.
type Store interface {
	Put(ctx context.Context, id string, result *models.GenerationResult) error
	Get(ctx context.Context, id string) (*models.GenerationResult, error)
}
