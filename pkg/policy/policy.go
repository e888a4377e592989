package policy

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/utils/logging"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/topdown/print"
)

const commentQuery = "data.comment"

// regoPrintHook forwards Rego print() statements to the logger
type regoPrintHook struct {
	logger *slog.Logger
}

func (h *regoPrintHook) Print(ctx print.Context, message string) error {
	h.logger.Debug("[rego] "+message, "location", ctx.Location)
	return nil
}

// Policy holds the prepared moderation queries. A zero Policy accepts everything.
type Policy struct {
	comment *rego.PreparedEvalQuery
}

// CommentInput is the document exposed to the comment policy as `input`
type CommentInput struct {
	ProfileID   string `json:"profile_id"`
	ProfileName string `json:"profile_name"`
	Author      string `json:"author"`
	Text        string `json:"text"`
}

// Load reads every *.rego file in dir. An empty dir or a dir without policies yields a permissive Policy.
func Load(ctx context.Context, dir string) (*Policy, error) {
	if dir == "" {
		return &Policy{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.rego"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to glob policy files", goerr.V("dir", dir))
	}
	sort.Strings(files)

	modules := make(map[string]string, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", file))
		}
		modules[file] = string(data)
	}

	return New(ctx, modules)
}

// New prepares the policy from in-memory modules keyed by file name
func New(ctx context.Context, modules map[string]string) (*Policy, error) {
	if len(modules) == 0 {
		return &Policy{}, nil
	}

	options := []func(*rego.Rego){
		rego.Query(commentQuery),
		rego.EnablePrintStatements(true),
	}
	for name, src := range modules {
		options = append(options, rego.Module(name, src))
	}

	prepared, err := rego.New(options...).PrepareForEval(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare comment policy", goerr.V("query", commentQuery))
	}

	return &Policy{comment: &prepared}, nil
}

// EvaluateComment returns the deny reasons the policy produced for input, sorted. Empty means accepted.
func (p *Policy) EvaluateComment(ctx context.Context, input CommentInput) ([]string, error) {
	if p == nil || p.comment == nil {
		return nil, nil
	}

	doc := map[string]any{
		"profile_id":   input.ProfileID,
		"profile_name": input.ProfileName,
		"author":       input.Author,
		"text":         input.Text,
	}

	hook := &regoPrintHook{logger: logging.From(ctx)}
	rs, err := p.comment.Eval(ctx, rego.EvalInput(doc), rego.EvalPrintHook(hook))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate comment policy")
	}

	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil, nil
	}

	data, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return nil, goerr.New("invalid comment policy result: not an object")
	}

	denyData, ok := data["deny"]
	if !ok {
		return nil, nil
	}

	denies, ok := denyData.([]any)
	if !ok {
		return nil, goerr.New("invalid comment policy result: deny is not a set")
	}

	reasons := make([]string, 0, len(denies))
	for _, d := range denies {
		msg, ok := d.(string)
		if !ok {
			return nil, goerr.New("invalid comment policy result: deny entry is not a string", goerr.V("entry", d))
		}
		reasons = append(reasons, msg)
	}
	sort.Strings(reasons)

	return reasons, nil
}
