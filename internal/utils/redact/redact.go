package redact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Level defines how secrets in provider config are shown to API clients.
type Level string

const (
	// LevelRedacted replaces every secret with a fixed marker
	LevelRedacted Level = "redacted"
	// LevelHashed shows a salted fingerprint so two keys can be told apart
	LevelHashed Level = "hashed"
	// LevelPlain performs no redaction
	LevelPlain Level = "plain"
)

const redactedMarker = "[REDACTED]"

var sensitiveKeyParts = []string{"api_key", "apikey", "token", "secret", "password", "authorization", "credential"}

// Redactor masks secret values in opaque provider config maps.
type Redactor struct {
	level Level
	salt  string
}

// NewRedactor returns a redactor. Unknown levels fall back to LevelRedacted.
func NewRedactor(level Level, salt string) *Redactor {
	switch level {
	case LevelRedacted, LevelHashed, LevelPlain:
	default:
		level = LevelRedacted
	}
	return &Redactor{level: level, salt: salt}
}

func (r *Redactor) Level() Level {
	return r.level
}

// IsSensitiveKey reports whether a config key names a credential.
func IsSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(key, "-", "_"))
	for _, part := range sensitiveKeyParts {
		if strings.Contains(normalized, part) {
			return true
		}
	}
	return false
}

// Value masks a single secret string.
func (r *Redactor) Value(secret string) string {
	if secret == "" {
		return ""
	}
	switch r.level {
	case LevelPlain:
		return secret
	case LevelHashed:
		return fmt.Sprintf("[SECRET:%s]", r.hash(secret))
	default:
		return redactedMarker
	}
}

// Config returns a copy of cfg with sensitive values masked. Nested maps and
// arrays are walked; the input is never modified.
func (r *Redactor) Config(cfg map[string]any) map[string]any {
	if cfg == nil {
		return nil
	}
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		switch typed := v.(type) {
		case map[string]any:
			out[k] = r.Config(typed)
		case []any:
			out[k] = r.slice(typed)
		case string:
			if IsSensitiveKey(k) {
				out[k] = r.Value(typed)
			} else {
				out[k] = typed
			}
		default:
			if IsSensitiveKey(k) && v != nil && r.level != LevelPlain {
				out[k] = redactedMarker
			} else {
				out[k] = v
			}
		}
	}
	return out
}

func (r *Redactor) slice(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		if nested, ok := item.(map[string]any); ok {
			out[i] = r.Config(nested)
			continue
		}
		out[i] = item
	}
	return out
}

// hash creates a salted SHA-256 fingerprint
func (r *Redactor) hash(data string) string {
	h := sha256.New()
	h.Write([]byte(data + r.salt))
	return hex.EncodeToString(h.Sum(nil))[:8]
}
