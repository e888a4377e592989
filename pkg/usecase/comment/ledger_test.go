package comment_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/m-mizutani/philosophia/pkg/policy"
	"github.com/m-mizutani/philosophia/pkg/repository"
	"github.com/m-mizutani/philosophia/pkg/usecase/comment"
)

func newCatalog(t *testing.T) *repository.Memory {
	profiles, err := repository.DefaultProfiles()
	gt.NoError(t, err)
	return repository.NewMemory(repository.WithProfiles(profiles...))
}

func TestAddCommentAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	repo := newCatalog(t)

	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	tick := 0
	ledger := comment.New(repo, comment.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))

	var created []*model.Comment
	for _, text := range []string{"one", "two", "three"} {
		c, err := ledger.AddComment(ctx, "nietzsche", text, "reader")
		gt.NoError(t, err)
		created = append(created, c)
	}

	p, err := repo.Get(ctx, "nietzsche")
	gt.NoError(t, err)
	gt.A(t, p.Comments).Length(3)
	for i, c := range created {
		gt.Equal(t, p.Comments[i].ID, c.ID)
		gt.Equal(t, p.Comments[i].Text, c.Text)
		gt.Equal(t, p.Comments[i].CreatedAt, base.Add(time.Duration(i+1)*time.Minute))
	}

	t.Run("earlier entries are unchanged by later additions", func(t *testing.T) {
		snapshot := *p.Comments[0]
		_, err := ledger.AddComment(ctx, "nietzsche", "four", "reader")
		gt.NoError(t, err)

		again, err := repo.Get(ctx, "nietzsche")
		gt.NoError(t, err)
		gt.A(t, again.Comments).Length(4)
		gt.Equal(t, *again.Comments[0], snapshot)
	})
}

func TestAddCommentKeepsSeededComments(t *testing.T) {
	ctx := context.Background()
	repo := newCatalog(t)
	ledger := comment.New(repo)

	_, err := ledger.AddComment(ctx, "socrates", "Gadfly of Athens", "Xenophon")
	gt.NoError(t, err)

	p, err := repo.Get(ctx, "socrates")
	gt.NoError(t, err)
	gt.A(t, p.Comments).Length(2)
	gt.Equal(t, p.Comments[0].Author, "PlatoFan")
	gt.Equal(t, p.Comments[1].Author, "Xenophon")
}

func TestAddCommentValidation(t *testing.T) {
	ctx := context.Background()
	repo := newCatalog(t)
	ledger := comment.New(repo)

	testCases := []struct {
		name   string
		text   string
		author string
	}{
		{"empty text", "", "reader"},
		{"blank text", "   ", "reader"},
		{"empty author", "hello", ""},
		{"blank author", "hello", "\t"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ledger.AddComment(ctx, "confucius", tc.text, tc.author)
			gt.Error(t, err).Is(model.ErrValidation)
			gt.V(t, c).Nil()

			p, err := repo.Get(ctx, "confucius")
			gt.NoError(t, err)
			gt.A(t, p.Comments).Length(0)
		})
	}
}

func TestAddCommentUnknownProfile(t *testing.T) {
	ledger := comment.New(newCatalog(t))
	_, err := ledger.AddComment(context.Background(), "nobody", "text", "author")
	gt.Error(t, err).Is(model.ErrProfileNotFound)
}

func TestAddCommentPolicyDenial(t *testing.T) {
	ctx := context.Background()
	repo := newCatalog(t)

	p, err := policy.New(ctx, map[string]string{
		"comment.rego": `package comment

deny contains "links are not allowed" if {
	contains(input.text, "http")
}
`,
	})
	gt.NoError(t, err)
	ledger := comment.New(repo, comment.WithPolicy(p))

	_, err = ledger.AddComment(ctx, "confucius", "see http://spam.example", "bot")
	gt.Error(t, err).Is(model.ErrValidation)

	_, err = ledger.AddComment(ctx, "confucius", "Filial piety matters", "reader")
	gt.NoError(t, err)

	profile, err := repo.Get(ctx, "confucius")
	gt.NoError(t, err)
	gt.A(t, profile.Comments).Length(1)
	gt.Equal(t, profile.Comments[0].Text, "Filial piety matters")
}
