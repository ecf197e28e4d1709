package runtime

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Mr-xn/cfr-mcp-server/internal/audit"
	"github.com/Mr-xn/cfr-mcp-server/internal/cfr"
	"github.com/Mr-xn/cfr-mcp-server/internal/idempotency"
	"github.com/Mr-xn/cfr-mcp-server/internal/messages"
	"github.com/Mr-xn/cfr-mcp-server/internal/protocol"
	"github.com/Mr-xn/cfr-mcp-server/internal/ratelimit"
	"github.com/Mr-xn/cfr-mcp-server/internal/security"
	"github.com/Mr-xn/cfr-mcp-server/internal/settings"
)

// ToolName is the single capability this server exposes.
const ToolName = "decompile"

// Builder constructs an MCP server around the decompile service.
type Builder struct {
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Audit records tool events.
	Audit audit.Logger
	// Messages provides localized texts.
	Messages messages.Renderer
	// Cache stores decompiled output; nil disables caching.
	Cache *idempotency.Cache
	// Limiter caps decompile calls; nil disables limiting.
	Limiter *ratelimit.Limiter
	// Service runs the decompile flow.
	Service cfr.Service
}

// Build creates the MCP server with the decompile tool and the usage
// resource registered.
func (b Builder) Build(cfg *settings.Config) (*mcp.Server, error) {
	if cfg == nil {
		return nil, errors.New("settings are nil")
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)

	b.addUsageResource(server)
	b.addDecompileTool(server)
	return server, nil
}

func (b Builder) addDecompileTool(server *mcp.Server) {
	tool := &mcp.Tool{
		Name: ToolName,
		Description: "Decompile a Java class/JAR using CFR. " +
			"Use this to view the source code of compiled Java files.",
		InputSchema: decompileInputSchema(),
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:   true,
			IdempotentHint: true,
		},
	}

	mcp.AddTool(server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		correlationID := correlationID(args)
		if b.Logger != nil {
			b.Logger.Info("tool call", "tool", ToolName, "correlation_id", correlationID,
				"args", security.RedactArguments(args))
		}
		b.record(ctx, audit.Event{Type: "tool_call", Tool: ToolName, CorrelationID: correlationID})

		if ok, reason := b.Limiter.Allow(); !ok {
			b.record(ctx, audit.Event{Type: "limit_reject", Tool: ToolName, CorrelationID: correlationID, Detail: reason})
			return fault(reason), nil, nil
		}

		opts := parseOptions(args)

		cacheKey := ""
		if b.Cache != nil {
			key, err := buildCacheKey(ToolName, args, opts.FilePath)
			if err != nil {
				if b.Logger != nil {
					b.Logger.Warn("cache key build failed", "correlation_id", correlationID, "error", err)
				}
			} else {
				cacheKey = key
			}
		}
		if cacheKey != "" {
			if output, ok := b.Cache.Get(cacheKey); ok {
				if b.Logger != nil {
					b.Logger.Info("cache hit", "tool", ToolName, "correlation_id", correlationID)
				}
				b.record(ctx, audit.Event{Type: "cache_hit", Tool: ToolName, CorrelationID: correlationID, Status: protocol.StatusSuccess})
				return text(output), nil, nil
			}
		}

		result, err := b.Service.Decompile(ctx, opts)
		if err != nil {
			// Missing required argument indicates a malformed client; this is
			// the one failure surfaced on the protocol channel.
			reason := err.Error()
			if errors.Is(err, cfr.ErrMissingFilePath) {
				reason = messages.RenderOr(b.Messages, messages.KeyMissingFilePath, nil, "file_path is required")
			}
			b.record(ctx, audit.Event{Type: "tool_fault", Tool: ToolName, CorrelationID: correlationID, Detail: reason})
			return fault(reason), nil, nil
		}

		b.record(ctx, audit.Event{Type: "tool_result", Tool: ToolName, CorrelationID: correlationID, Status: result.Status})
		if cacheKey != "" && result.Status == protocol.StatusSuccess {
			b.Cache.Set(cacheKey, result.Output)
		}
		return text(result.Output), nil, nil
	})
}

func (b Builder) addUsageResource(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		Name:        "cfr-options",
		URI:         "cfr://options",
		Description: "Commonly useful advanced CFR options accepted by the decompile tool.",
		MIMEType:    "text/markdown",
	}, func(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: "cfr://options", MIMEType: "text/markdown", Text: usageText},
			},
		}, nil
	})
}

func (b Builder) record(ctx context.Context, event audit.Event) {
	if b.Audit != nil {
		b.Audit.Record(ctx, event)
	}
}

// text wraps output as a successful tool response. Domain failures travel on
// this channel too, as readable prose for the calling model.
func text(output string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}
}

// fault wraps a reason as a failed tool response.
func fault(reason string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: reason}},
	}
}

func correlationID(args map[string]any) string {
	if args != nil {
		if raw, ok := args["correlation_id"].(string); ok && raw != "" {
			return raw
		}
		if raw, ok := args["request_id"].(string); ok && raw != "" {
			return raw
		}
	}
	return uuid.NewString()
}

const usageText = "# CFR options\n\n" +
	"Pass advanced options via the `options` object; keys must be alphanumeric.\n\n" +
	"- `sugarboxing` (bool): show/hide boxing of primitives\n" +
	"- `decodelambdas` (bool): re-build lambda expressions\n" +
	"- `decodestringswitch` (bool): re-sugar string switches\n" +
	"- `innerclasses` (bool): decompile inner classes\n" +
	"- `renameillegalidents` (bool): rename identifiers that are not valid Java\n"
