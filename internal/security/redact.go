package security

import "strings"

var sensitiveSubstrings = []string{
	"token",
	"password",
	"passwd",
	"secret",
	"apikey",
	"api_key",
	"credential",
	"authorization",
	"bearer",
	"cookie",
	"passphrase",
}

// RedactArguments returns a copy of tool arguments with sensitive-looking
// values replaced. File paths and decompiler options pass through untouched;
// the guard exists because the advanced-options object accepts arbitrary
// client keys.
func RedactArguments(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	redacted := make(map[string]any, len(values))
	for key, value := range values {
		if nested, ok := value.(map[string]any); ok {
			redacted[key] = RedactArguments(nested)
			continue
		}
		if isSensitiveKey(key) {
			redacted[key] = "***"
			continue
		}
		redacted[key] = value
	}
	return redacted
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	for _, part := range sensitiveSubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
