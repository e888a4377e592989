package cli

import (
	"context"
	"errors"
	"iter"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/adapter"
	"github.com/m-mizutani/philosophia/pkg/interfaces"
	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/m-mizutani/philosophia/pkg/policy"
	"github.com/m-mizutani/philosophia/pkg/repository"
	"github.com/m-mizutani/philosophia/pkg/service/generation"
	"github.com/m-mizutani/philosophia/pkg/usecase/catalog"
	"github.com/m-mizutani/philosophia/pkg/usecase/comment"
	"github.com/m-mizutani/philosophia/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Logging
	logLevel  string
	logFormat string

	// Catalog
	seedPath  string
	policyDir string

	// Adapters
	geminiAPIKey   string
	geminiProject  string
	geminiLocation string
	geminiModel    string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("PHILOSOPHIA_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       string(logging.FormatConsole),
			Sources:     cli.EnvVars("PHILOSOPHIA_LOG_FORMAT"),
			Destination: &cfg.logFormat,
		},
		&cli.StringFlag{
			Name:        "seed",
			Usage:       "Path to a YAML file replacing the built-in philosophers",
			Sources:     cli.EnvVars("PHILOSOPHIA_SEED"),
			Destination: &cfg.seedPath,
		},
		&cli.StringFlag{
			Name:        "policy-dir",
			Usage:       "Directory of Rego policies moderating comments",
			Sources:     cli.EnvVars("PHILOSOPHIA_POLICY_DIR"),
			Destination: &cfg.policyDir,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID to use Gemini on Vertex AI instead of an API key",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini on Vertex AI",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Value:       adapter.DefaultGenerativeModel,
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
	}
}

func allFlags(cfg *config) []cli.Flag {
	return append(globalFlags(cfg), llmFlags(cfg)...)
}

// setupLogger installs the configured logger as default and into ctx. Logs always go to stderr.
func (cfg *config) setupLogger(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, logging.Format(cfg.logFormat), os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	opts := []adapter.GeminiOption{
		adapter.WithGenerativeModel(cfg.geminiModel),
	}

	var (
		client *adapter.GeminiClient
		err    error
	)
	if cfg.geminiAPIKey == "" && cfg.geminiProject != "" {
		client, err = adapter.NewVertexGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
	} else {
		client, err = adapter.NewGemini(ctx, cfg.geminiAPIKey, opts...)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// newGenerator creates the synthesis and chat client
func (cfg *config) newGenerator(ctx context.Context) (interfaces.Generator, error) {
	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}

	client, err := generation.New(gemini)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create generation client")
	}
	return client, nil
}

// newGeneratorOrOffline falls back to a generator that reports the configuration error on every call,
// so the seeded catalog stays browsable without credentials.
func (cfg *config) newGeneratorOrOffline(ctx context.Context) (interfaces.Generator, error) {
	gen, err := cfg.newGenerator(ctx)
	if err == nil {
		return gen, nil
	}
	if !errors.Is(err, model.ErrConfiguration) {
		return nil, err
	}

	logging.From(ctx).Warn("Gemini is not configured, search for new philosophers and chat are disabled", "error", err)
	return &offlineGenerator{err: err}, nil
}

// newCatalog creates the in-memory catalog from the seed file or the built-in philosophers
func (cfg *config) newCatalog() (*repository.Memory, error) {
	if cfg.seedPath == "" {
		profiles, err := repository.DefaultProfiles()
		if err != nil {
			return nil, err
		}
		return repository.NewMemory(repository.WithProfiles(profiles...)), nil
	}

	f, err := os.Open(cfg.seedPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open seed file", goerr.V("path", cfg.seedPath))
	}
	defer f.Close()

	profiles, err := repository.LoadSeed(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load seed file", goerr.V("path", cfg.seedPath))
	}
	return repository.NewMemory(repository.WithProfiles(profiles...)), nil
}

// newPolicy loads comment policies. It returns a permissive policy when no directory is set.
func (cfg *config) newPolicy(ctx context.Context) (*policy.Policy, error) {
	return policy.Load(ctx, cfg.policyDir)
}

// newController wires the catalog, policy and generator into a controller
func (cfg *config) newController(ctx context.Context, gen interfaces.Generator, opts ...catalog.Option) (*catalog.Controller, error) {
	repo, err := cfg.newCatalog()
	if err != nil {
		return nil, err
	}

	p, err := cfg.newPolicy(ctx)
	if err != nil {
		return nil, err
	}

	opts = append([]catalog.Option{catalog.WithLedger(comment.New(repo, comment.WithPolicy(p)))}, opts...)
	return catalog.New(repo, gen, opts...), nil
}

type offlineGenerator struct {
	err error
}

func (g *offlineGenerator) Synthesize(ctx context.Context, name string) (*model.Profile, error) {
	return nil, g.err
}

func (g *offlineGenerator) StreamChat(ctx context.Context, persona string, prior []model.ChatTurn, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("", g.err)
	}
}
