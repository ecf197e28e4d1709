package messages

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

//go:embed data/*.json
var files embed.FS

// Message keys.
const (
	KeyFileNotFound    = "file_not_found"
	KeyJarNotFound     = "jar_not_found"
	KeyTimeout         = "timeout"
	KeyExecError       = "exec_error"
	KeyClassNotFound   = "class_not_found"
	KeyMethodNotFound  = "method_not_found"
	KeyClassNoOutput   = "class_no_output"
	KeyMethodNoOutput  = "method_no_output"
	KeyLimitMaxTotal   = "limit_max_total"
	KeyLimitRate       = "limit_rate"
	KeyMissingFilePath = "missing_file_path"
)

// Renderer renders localized messages by key.
type Renderer interface {
	// Render returns a localized message by key.
	Render(key string, data any) (string, error)
}

// Bundle holds parsed message templates for a selected language.
type Bundle struct {
	lang      string
	templates map[string]*template.Template
}

// Load loads localized messages for the specified language (default: en).
func Load(lang string) (*Bundle, error) {
	if strings.TrimSpace(lang) == "" {
		lang = "en"
	}
	lang = strings.ToLower(lang)

	if lang != "zh" && lang != "en" {
		lang = "en"
	}

	path := fmt.Sprintf("data/%s.json", lang)
	raw, err := files.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}

	var texts map[string]string
	if err := json.Unmarshal(raw, &texts); err != nil {
		return nil, fmt.Errorf("parse messages: %w", err)
	}

	parsed := make(map[string]*template.Template, len(texts))
	for key, value := range texts {
		tmpl, err := template.New(key).Parse(value)
		if err != nil {
			return nil, fmt.Errorf("parse message %s: %w", key, err)
		}
		parsed[key] = tmpl
	}

	return &Bundle{lang: lang, templates: parsed}, nil
}

// Render renders a message by key with the supplied data.
func (b *Bundle) Render(key string, data any) (string, error) {
	if b == nil {
		return "", fmt.Errorf("messages bundle is nil")
	}
	tmpl, ok := b.templates[key]
	if !ok {
		return "", fmt.Errorf("message not found: %s", key)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render message %s: %w", key, err)
	}
	return out.String(), nil
}

// RenderOr renders a message and falls back to a fixed text when the
// renderer is nil or the key cannot be rendered.
func RenderOr(r Renderer, key string, data any, fallback string) string {
	if r == nil {
		return fallback
	}
	rendered, err := r.Render(key, data)
	if err != nil {
		return fallback
	}
	return rendered
}
