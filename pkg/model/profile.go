package model

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

type ProfileID string

// NewProfileID derives a slug from a display name: lowercase, whitespace runs replaced by "-".
func NewProfileID(name string) ProfileID {
	fields := strings.Fields(strings.ToLower(name))
	return ProfileID(strings.Join(fields, "-"))
}

const (
	placeholderImageBase  = 1000
	placeholderImageRange = 50
)

// PlaceholderImageURL returns the fallback portrait for the n-th slot of the placeholder space.
func PlaceholderImageURL(n int) string {
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("https://picsum.photos/id/%d/400/400", placeholderImageBase+n%placeholderImageRange)
}

// Profile is one philosopher record of the catalog, including its comment thread.
type Profile struct {
	ID           ProfileID  `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	DateRange    string     `json:"dates" yaml:"dates"`
	School       string     `json:"school" yaml:"school"`
	ShortSummary string     `json:"shortBio" yaml:"shortBio"`
	LongSummary  string     `json:"fullBio,omitempty" yaml:"fullBio,omitempty"`
	KeyIdeas     []string   `json:"keyIdeas" yaml:"keyIdeas"`
	Quotes       []string   `json:"famousQuotes" yaml:"famousQuotes"`
	ImageURL     string     `json:"imageUrl" yaml:"imageUrl"`
	Comments     []*Comment `json:"comments" yaml:"comments"`
}

// Summary returns the long biography, or the short one when no long text exists.
func (p *Profile) Summary() string {
	if p.LongSummary != "" {
		return p.LongSummary
	}
	return p.ShortSummary
}

// Validate checks the fields every catalog entry must carry
func (p *Profile) Validate() error {
	if p.ID == "" {
		return goerr.New("profile id is empty")
	}
	if p.Name == "" {
		return goerr.New("profile name is empty", goerr.V("id", p.ID))
	}
	if p.DateRange == "" {
		return goerr.New("profile dates are empty", goerr.V("id", p.ID))
	}
	if p.School == "" {
		return goerr.New("profile school is empty", goerr.V("id", p.ID))
	}
	if p.ShortSummary == "" {
		return goerr.New("profile short summary is empty", goerr.V("id", p.ID))
	}
	if len(p.KeyIdeas) == 0 {
		return goerr.New("profile has no key ideas", goerr.V("id", p.ID))
	}
	if len(p.Quotes) == 0 {
		return goerr.New("profile has no quotes", goerr.V("id", p.ID))
	}
	return nil
}

// Clone returns a deep copy so callers never share slices with the catalog.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.KeyIdeas = append([]string(nil), p.KeyIdeas...)
	c.Quotes = append([]string(nil), p.Quotes...)
	c.Comments = make([]*Comment, 0, len(p.Comments))
	for _, cm := range p.Comments {
		if cm == nil {
			continue
		}
		copied := *cm
		c.Comments = append(c.Comments, &copied)
	}
	return &c
}
