package repository

import (
	"bytes"
	_ "embed"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/model"
	"gopkg.in/yaml.v3"
)

//go:embed seed/philosophers.yaml
var defaultSeed []byte

type seedFile struct {
	Profiles []*model.Profile `yaml:"profiles"`
}

// LoadSeed decodes a YAML seed document and validates every profile in it
func LoadSeed(r io.Reader) ([]*model.Profile, error) {
	var seed seedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode seed YAML")
	}

	seen := make(map[model.ProfileID]bool, len(seed.Profiles))
	for i, p := range seed.Profiles {
		if p == nil {
			return nil, goerr.New("seed profile is null", goerr.V("index", i))
		}
		for j, c := range p.Comments {
			if c == nil {
				return nil, goerr.New("seed comment is null", goerr.V("id", p.ID), goerr.V("index", j))
			}
		}
		if err := p.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid seed profile")
		}
		if seen[p.ID] {
			return nil, goerr.Wrap(model.ErrDuplicateProfile, "duplicated seed profile", goerr.V("id", p.ID))
		}
		seen[p.ID] = true
		if p.Comments == nil {
			p.Comments = []*model.Comment{}
		}
	}

	return seed.Profiles, nil
}

// DefaultProfiles returns the built-in catalog
func DefaultProfiles() ([]*model.Profile, error) {
	return LoadSeed(bytes.NewReader(defaultSeed))
}
