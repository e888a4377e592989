package catalog

import (
	"context"

	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/m-mizutani/philosophia/pkg/usecase/chat"
)

// Select opens the profile. Any chat of the previously open profile is discarded, including when
// the same profile is selected again.
func (c *Controller) Select(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	profile, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.open(profile)
	return profile, nil
}

// Close returns to the grid and discards the chat
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.Retire()
	}
	c.session = nil
	c.selected = ""
}

func (c *Controller) open(profile *model.Profile) {
	var opts []chat.Option
	if c.listener != nil {
		opts = append(opts, chat.WithListener(c.listener))
	}
	next := chat.New(c.generator, profile.ID, profile.Name, opts...)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.Retire()
	}
	c.session = next
	c.selected = profile.ID
}

// SelectedID returns the ID of the open profile, or "" on the grid
func (c *Controller) SelectedID() model.ProfileID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Selected resolves the open profile from the catalog. It returns nil when nothing is open.
func (c *Controller) Selected(ctx context.Context) (*model.Profile, error) {
	id := c.SelectedID()
	if id == "" {
		return nil, nil
	}
	return c.repo.Get(ctx, id)
}

// Chat returns the chat session of the open profile, or nil on the grid
func (c *Controller) Chat() *chat.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// List returns the grid in display order
func (c *Controller) List(ctx context.Context) ([]*model.Profile, error) {
	return c.repo.List(ctx)
}

// AddComment posts a comment. The open profile reflects it immediately since it is read from the catalog.
func (c *Controller) AddComment(ctx context.Context, id model.ProfileID, text, author string) (*model.Comment, error) {
	return c.ledger.AddComment(ctx, id, text, author)
}

// Get returns one profile by ID without changing the selection
func (c *Controller) Get(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	return c.repo.Get(ctx, id)
}
