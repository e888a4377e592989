package catalog

import (
	"sync"

	"github.com/m-mizutani/philosophia/pkg/interfaces"
	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/m-mizutani/philosophia/pkg/repository"
	"github.com/m-mizutani/philosophia/pkg/usecase/chat"
	"github.com/m-mizutani/philosophia/pkg/usecase/comment"
)

// Controller drives one browsing session: search, selection, comments and the chat of the open profile.
// The selection is held as an ID and resolved against the catalog on every read.
type Controller struct {
	repo      repository.Catalog
	generator interfaces.Generator
	ledger    *comment.Ledger
	listener  chat.Listener

	mu       sync.Mutex
	selected model.ProfileID
	session  *chat.Session
}

type Option func(*Controller)

// WithLedger replaces the default comment ledger, e.g. to attach a moderation policy
func WithLedger(l *comment.Ledger) Option {
	return func(c *Controller) {
		c.ledger = l
	}
}

// WithChatListener is attached to every chat session the controller opens
func WithChatListener(f chat.Listener) Option {
	return func(c *Controller) {
		c.listener = f
	}
}

// New creates a Controller over the catalog and generation backend
func New(repo repository.Catalog, generator interfaces.Generator, opts ...Option) *Controller {
	c := &Controller{
		repo:      repo,
		generator: generator,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.ledger == nil {
		c.ledger = comment.New(repo)
	}

	return c
}
