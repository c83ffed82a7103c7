// Package tools exposes prompt and preset control to agent hosts as MCP tools.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/JaimeStill/promptdj/internal/composition"
	"github.com/JaimeStill/promptdj/internal/prompts"
	"github.com/JaimeStill/promptdj/pkg/failure"
)

// Tools is the MCP server over the prompt engine.
type Tools struct {
	server  *server.MCPServer
	prompts prompts.System
	view    *composition.View
	logger  *slog.Logger
}

// New registers every tool on a new MCP server.
func New(version string, sys prompts.System, view *composition.View, logger *slog.Logger) *Tools {
	t := &Tools{
		server: server.NewMCPServer(
			"PromptDJ",
			version,
			server.WithToolCapabilities(false),
		),
		prompts: sys,
		view:    view,
		logger:  logger.With("system", "tools"),
	}

	t.server.AddTool(mcp.NewTool("promptdj_list-prompts",
		mcp.WithDescription("Lists every prompt in order with its text, weight (0-2), MIDI CC, and color."),
	), t.listPrompts)

	t.server.AddTool(mcp.NewTool("promptdj_set-weight",
		mcp.WithDescription("Sets the weight of one prompt. Weights are clamped to 0-2."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The prompt id (e.g., prompt-0).")),
		mcp.WithNumber("weight", mcp.Required(), mcp.Description("The new weight (0-2).")),
	), t.setWeight)

	t.server.AddTool(mcp.NewTool("promptdj_list-presets",
		mcp.WithDescription("Lists saved preset names in stored order and the selected preset."),
	), t.listPresets)

	t.server.AddTool(mcp.NewTool("promptdj_save-preset",
		mcp.WithDescription("Saves the current prompts as a named preset, replacing any preset with the same name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The preset name.")),
	), t.savePreset)

	t.server.AddTool(mcp.NewTool("promptdj_load-preset",
		mcp.WithDescription("Replaces the current prompts with a saved preset."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The preset name.")),
	), t.loadPreset)

	t.server.AddTool(mcp.NewTool("promptdj_delete-preset",
		mcp.WithDescription("Deletes a saved preset."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The preset name.")),
	), t.deletePreset)

	t.server.AddTool(mcp.NewTool("promptdj_set-bpm",
		mcp.WithDescription("Sets the tempo. Values are clamped to 77-211."),
		mcp.WithNumber("bpm", mcp.Required(), mcp.Description("Beats per minute (77-211).")),
	), t.setBPM)

	return t
}

// Server returns the underlying MCP server.
func (t *Tools) Server() *server.MCPServer {
	return t.server
}

// Handler serves the tools over streamable HTTP.
func (t *Tools) Handler() http.Handler {
	return server.NewStreamableHTTPServer(t.server)
}

func (t *Tools) listPrompts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.prompts.Current())
}

func (t *Tools) setWeight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	w, err := request.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := t.prompts.SetWeight(id, w); err != nil {
		if errors.Is(err, prompts.ErrUnknownPrompt) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown prompt %q", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.logger.Info("weight set", "id", id, "weight", w)
	updated, _ := t.prompts.Current().Get(id)
	return jsonResult(updated)
}

func (t *Tools) listPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.prompts.ListPresets())
}

func (t *Tools) savePreset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.prompts.SavePreset(ctx, name); err != nil {
		return nil, fmt.Errorf("save preset: %w", err)
	}
	return jsonResult(t.prompts.ListPresets())
}

func (t *Tools) loadPreset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.prompts.LoadPreset(ctx, name); err != nil {
		_, message := failure.Describe(err)
		return mcp.NewToolResultError(message), nil
	}
	return jsonResult(t.prompts.Current())
}

func (t *Tools) deletePreset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.prompts.DeletePreset(ctx, name); err != nil {
		return nil, fmt.Errorf("delete preset: %w", err)
	}
	return jsonResult(t.prompts.ListPresets())
}

func (t *Tools) setBPM(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bpm, err := request.RequireInt("bpm")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	applied := t.view.SetBPM(bpm)
	return mcp.NewToolResultText(fmt.Sprintf("Tempo set to %d BPM.", applied)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
