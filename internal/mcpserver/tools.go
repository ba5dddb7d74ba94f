package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/locus/internal/config"
	"github.com/davetashner/locus/internal/detect"
	"github.com/davetashner/locus/internal/output"
	_ "github.com/davetashner/locus/internal/scanners"
	"github.com/davetashner/locus/internal/signal"
	"github.com/davetashner/locus/internal/validate"
)

// DetectInput is the input schema for the detect_structure MCP tool.
type DetectInput struct {
	Path         string `json:"path" jsonschema:"Project root to scan (defaults to current directory)"`
	Requirement  string `json:"requirement,omitempty" jsonschema:"Free-text hint describing the artifact to place; biases naming checks only"`
	BudgetMS     int    `json:"budget_ms,omitempty" jsonschema:"Scan time budget in milliseconds (default 100)"`
	MaxFallbacks int    `json:"max_fallbacks,omitempty" jsonschema:"Cap on fallback chain length (default 5)"`
	Format       string `json:"format,omitempty" jsonschema:"Output format: json or text (default: json)"`
}

// ValidateInput is the input schema for the validate_location MCP tool.
type ValidateInput struct {
	Path        string `json:"path" jsonschema:"Proposed target location to check (need not exist yet)"`
	Root        string `json:"root,omitempty" jsonschema:"Project root to detect against first; empty means walk up from the proposal"`
	Requirement string `json:"requirement,omitempty" jsonschema:"Free-text hint forwarded to the scan"`
	BudgetMS    int    `json:"budget_ms,omitempty" jsonschema:"Scan time budget in milliseconds (default 100)"`
}

// validateOutcome is the JSON document returned by validate_location.
type validateOutcome struct {
	Path      string `json:"path"`
	Valid     bool   `json:"valid"`
	Rationale string `json:"rationale"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// registerTools adds all locus tools to the MCP server.
func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_structure",
		Description: "Detect where new code belongs in a project: scans for stub markers, test layout, declared config, and naming conventions, returning a primary location with a confidence tier and a fallback chain.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, handleDetect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_location",
		Description: "Check whether a proposed target path is consistent with the project's detected structure, returning a verdict and a rationale.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, handleValidate)
}

func handleDetect(ctx context.Context, _ *mcp.CallToolRequest, input DetectInput) (*mcp.CallToolResult, any, error) {
	pathInfo, err := ResolvePath(input.Path)
	if err != nil {
		return nil, nil, err
	}

	// Determine format (default to json for MCP consumers).
	format := "json"
	if input.Format != "" {
		format = input.Format
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return nil, nil, fmt.Errorf("unsupported format %q", format)
	}

	if input.BudgetMS < 0 {
		return nil, nil, fmt.Errorf("budget_ms must be non-negative, got %d", input.BudgetMS)
	}

	// Load and merge config from the scanned root.
	fileCfg, err := config.Load(pathInfo.AbsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	opts := detect.Options{
		Requirement:  input.Requirement,
		Budget:       time.Duration(input.BudgetMS) * time.Millisecond,
		MaxFallbacks: input.MaxFallbacks,
	}
	opts = config.Merge(fileCfg, opts)

	d, err := detect.New(opts)
	if err != nil {
		return nil, nil, err
	}

	det, err := d.Detect(ctx, pathInfo.AbsPath)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := formatter.Format(det, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: buf.String()},
		},
	}, nil, nil
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input ValidateInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}
	if input.BudgetMS < 0 {
		return nil, nil, fmt.Errorf("budget_ms must be non-negative, got %d", input.BudgetMS)
	}

	budget := time.Duration(input.BudgetMS) * time.Millisecond

	// With an explicit root, detect there first and validate against the
	// result; otherwise the validator walks up from the proposal itself.
	var prior *signal.Detection
	if input.Root != "" {
		rootInfo, err := ResolvePath(input.Root)
		if err != nil {
			return nil, nil, err
		}
		d, err := detect.New(detect.Options{
			Requirement: input.Requirement,
			Budget:      budget,
		})
		if err != nil {
			return nil, nil, err
		}
		prior, err = d.Detect(ctx, rootInfo.AbsPath)
		if err != nil {
			return nil, nil, err
		}
	}

	valid, rationale := validate.TargetLocation(ctx, input.Path, prior, validate.Options{
		Budget:      budget,
		Requirement: input.Requirement,
	})

	data, err := json.MarshalIndent(validateOutcome{
		Path:      input.Path,
		Valid:     valid,
		Rationale: rationale,
	}, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal outcome: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}
