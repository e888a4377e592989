package repository

import (
	"context"

	"github.com/m-mizutani/philosophia/pkg/model"
)

// Catalog defines the ordered collection of profiles shown in the grid
type Catalog interface {
	// FindByName returns the first profile whose name contains query case-insensitively, or nil
	FindByName(ctx context.Context, query string) (*model.Profile, error)

	// InsertAtFront prepends a profile so it is listed first
	InsertAtFront(ctx context.Context, profile *model.Profile) error

	// Get retrieves a profile by ID
	Get(ctx context.Context, id model.ProfileID) (*model.Profile, error)

	// List returns all profiles in display order
	List(ctx context.Context) ([]*model.Profile, error)

	// AppendComment appends a comment to the profile's thread
	AppendComment(ctx context.Context, id model.ProfileID, comment *model.Comment) error
}
