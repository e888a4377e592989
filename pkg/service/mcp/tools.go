package mcp

import (
	"context"
	"strings"

	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type profileEntry struct {
	ID       model.ProfileID `json:"id"`
	Name     string          `json:"name"`
	Dates    string          `json:"dates"`
	School   string          `json:"school"`
	ShortBio string          `json:"shortBio"`
	Comments int             `json:"comments"`
}

type listProfilesParams struct{}

func (s *Server) listProfiles(ctx context.Context, req *mcp.CallToolRequest, params *listProfilesParams) (*mcp.CallToolResult, any, error) {
	profiles, err := s.ctrl.List(ctx)
	if err != nil {
		return errorResult(ctx, "list_profiles", err)
	}

	entries := make([]profileEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, profileEntry{
			ID:       p.ID,
			Name:     p.Name,
			Dates:    p.DateRange,
			School:   p.School,
			ShortBio: p.ShortSummary,
			Comments: len(p.Comments),
		})
	}
	return jsonResult(entries)
}

type getProfileParams struct {
	ID string `json:"id" jsonschema:"Profile ID such as socrates"`
}

func (s *Server) getProfile(ctx context.Context, req *mcp.CallToolRequest, params *getProfileParams) (*mcp.CallToolResult, any, error) {
	profile, err := s.ctrl.Get(ctx, model.ProfileID(strings.TrimSpace(params.ID)))
	if err != nil {
		return errorResult(ctx, "get_profile", err)
	}
	return jsonResult(profile)
}

type findProfileParams struct {
	Name string `json:"name" jsonschema:"Full or partial name of the philosopher"`
}

func (s *Server) findProfile(ctx context.Context, req *mcp.CallToolRequest, params *findProfileParams) (*mcp.CallToolResult, any, error) {
	profile, err := s.ctrl.FindOrCreate(ctx, params.Name)
	if err != nil {
		return errorResult(ctx, "find_profile", err)
	}
	if profile == nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: "name is required"}},
		}, nil, nil
	}
	return jsonResult(profile)
}

type addCommentParams struct {
	ID     string `json:"id" jsonschema:"Profile ID to comment on"`
	Author string `json:"author" jsonschema:"Display name of the commenter"`
	Text   string `json:"text" jsonschema:"Comment body"`
}

func (s *Server) addComment(ctx context.Context, req *mcp.CallToolRequest, params *addCommentParams) (*mcp.CallToolResult, any, error) {
	comment, err := s.ctrl.AddComment(ctx, model.ProfileID(strings.TrimSpace(params.ID)), params.Text, params.Author)
	if err != nil {
		return errorResult(ctx, "add_comment", err)
	}
	return jsonResult(comment)
}
