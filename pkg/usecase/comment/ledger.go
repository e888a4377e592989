package comment

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/m-mizutani/philosophia/pkg/policy"
	"github.com/m-mizutani/philosophia/pkg/repository"
	"github.com/m-mizutani/philosophia/pkg/utils/logging"
)

// Ledger appends reader comments to profiles. Comments are never edited or removed.
type Ledger struct {
	repo   repository.Catalog
	policy *policy.Policy
	now    func() time.Time
}

type Option func(*Ledger)

// WithPolicy sets the moderation policy evaluated before a comment is stored
func WithPolicy(p *policy.Policy) Option {
	return func(l *Ledger) {
		l.policy = p
	}
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func New(repo repository.Catalog, opts ...Option) *Ledger {
	l := &Ledger{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// AddComment validates and appends a comment to the profile, returning the stored entry.
// A rejected comment leaves the profile untouched.
func (l *Ledger) AddComment(ctx context.Context, profileID model.ProfileID, text, author string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	author = strings.TrimSpace(author)
	if text == "" {
		return nil, goerr.Wrap(model.ErrValidation, "comment text is empty", goerr.V("profile_id", profileID))
	}
	if author == "" {
		return nil, goerr.Wrap(model.ErrValidation, "comment author is empty", goerr.V("profile_id", profileID))
	}

	profile, err := l.repo.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	reasons, err := l.policy.EvaluateComment(ctx, policy.CommentInput{
		ProfileID:   string(profile.ID),
		ProfileName: profile.Name,
		Author:      author,
		Text:        text,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate comment policy", goerr.V("profile_id", profileID))
	}
	if len(reasons) > 0 {
		return nil, goerr.Wrap(model.ErrValidation, strings.Join(reasons, "; "),
			goerr.V("profile_id", profileID), goerr.V("reasons", reasons))
	}

	comment := &model.Comment{
		ID:        model.NewCommentID(),
		Author:    author,
		Text:      text,
		CreatedAt: l.now(),
	}

	if err := l.repo.AppendComment(ctx, profileID, comment); err != nil {
		return nil, goerr.Wrap(err, "failed to append comment")
	}

	logging.From(ctx).Debug("comment added", "profile_id", profileID, "comment_id", comment.ID)

	return comment, nil
}
