// Package repository stores asynchronous analysis records.
package repository

import (
	"context"

	"github.com/okian/cvmatch/internal/domain/model"
)

// Store provides read/write access to analysis records.
type Store interface {
	// Save inserts or replaces the record with the same ID.
	Save(ctx context.Context, rec model.AnalysisRecord) error

	// Get returns the record by ID.
	// Returns ErrNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (model.AnalysisRecord, error)

	// LatestByUser returns the user's newest record by CreatedAt.
	// Returns ErrNotFound if the user has none.
	LatestByUser(ctx context.Context, userID string) (model.AnalysisRecord, error)

	// Delete removes a record. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Count returns the number of records held.
	Count(ctx context.Context) int
}
