package runtime

import "github.com/Mr-xn/cfr-mcp-server/internal/cfr"

// decompileInputSchema describes the tool input. The mapping mirrors the
// client-facing contract: one required path, optional filters, two boolean
// convenience flags and a free-form advanced-options object.
func decompileInputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "Absolute path to the .class or .jar file.",
			},
			"class_name": map[string]any{
				"type": "string",
				"description": "Class name to decompile from a JAR. Supports a simple name " +
					"(e.g. 'BusTypeServiceImpl') or a full path (e.g. 'nc.impl.fts.bustype.BusTypeServiceImpl').",
			},
			"method_name": map[string]any{
				"type": "string",
				"description": "Only decompile methods with this name (highly recommended for large classes). " +
					"For JARs, this triggers a smart search.",
			},
			"ignore_exceptions": map[string]any{
				"type":        "boolean",
				"description": "Drop try-catch blocks to make logic clearer (CFR --ignoreexceptions true). Default: false.",
			},
			"hide_utf": map[string]any{
				"type":        "boolean",
				"description": "Hide UTF-8 characters if encoding is messy (CFR --hideutf true). Default: false.",
			},
			"options": map[string]any{
				"type":        "object",
				"description": "Advanced CFR options (e.g. {'sugarboxing': false}). Keys must be alphanumeric.",
			},
		},
		"required": []string{"file_path"},
	}
}

// parseOptions lifts the raw argument mapping into the decompile option set.
// Unexpected value types degrade to zero values; the boolean flags follow
// present-and-true semantics.
func parseOptions(args map[string]any) cfr.Options {
	var opts cfr.Options
	if args == nil {
		return opts
	}
	opts.FilePath, _ = args["file_path"].(string)
	opts.ClassName, _ = args["class_name"].(string)
	opts.MethodName, _ = args["method_name"].(string)
	opts.IgnoreExceptions, _ = args["ignore_exceptions"].(bool)
	opts.HideUTF, _ = args["hide_utf"].(bool)
	if extra, ok := args["options"].(map[string]any); ok {
		opts.Extra = extra
	}
	return opts
}
