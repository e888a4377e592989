package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/m-mizutani/philosophia/pkg/utils/logging"
)

// Search selects the first profile whose name contains query. On a miss it synthesizes a new
// profile, prepends it to the catalog and selects it. A blank query does nothing and returns nil.
// When synthesis fails neither the catalog nor the selection changes.
func (c *Controller) Search(ctx context.Context, query string) (*model.Profile, error) {
	profile, err := c.FindOrCreate(ctx, query)
	if err != nil || profile == nil {
		return nil, err
	}

	c.open(profile)
	return profile, nil
}

// FindOrCreate is Search without touching the selection.
func (c *Controller) FindOrCreate(ctx context.Context, query string) (*model.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	existing, err := c.repo.FindByName(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find profile", goerr.V("query", query))
	}
	if existing != nil {
		return existing, nil
	}

	logger := logging.From(ctx)
	logger.Info("profile not found, synthesizing", "query", query)

	created, err := c.generator.Synthesize(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to synthesize profile", goerr.V("query", query))
	}

	if err := c.repo.InsertAtFront(ctx, created); err != nil {
		if !errors.Is(err, model.ErrDuplicateProfile) {
			return nil, goerr.Wrap(err, "failed to insert synthesized profile", goerr.V("id", created.ID))
		}

		// generated ID collides with a record whose name did not match the query
		logger.Info("synthesized profile already exists", "id", created.ID)
		return c.repo.Get(ctx, created.ID)
	}

	profile, err := c.repo.Get(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	logger.Info("profile synthesized", "id", profile.ID, "name", profile.Name)

	return profile, nil
}
