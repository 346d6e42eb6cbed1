package provider

import (
	"context"
	"errors"
	"maps"
	"time"
)

var (
	ErrStorageCorrupt    = errors.New("provider store is corrupt")
	ErrDuplicateProvider = errors.New("provider id already exists")
	ErrNotFoundOrBuiltin = errors.New("provider not found or is built-in")
	ErrInvalidProvider   = errors.New("invalid provider")
)

// Provider is one configured AI backend, either shipped with the service
// (Builtin) or added by a user.
type Provider struct {
	ID        string         `json:"id" yaml:"id" jsonschema:"required"`
	Name      string         `json:"name" yaml:"name" jsonschema:"required"`
	Builtin   bool           `json:"builtin" yaml:"-"`
	Config    map[string]any `json:"config,omitempty" yaml:"config"`
	CreatedAt *time.Time     `json:"created_at,omitempty" yaml:"-"`
}

// Clone returns a copy that does not share the config map or timestamp.
func (p Provider) Clone() Provider {
	out := p
	if p.Config != nil {
		out.Config = maps.Clone(p.Config)
	}
	if p.CreatedAt != nil {
		ts := *p.CreatedAt
		out.CreatedAt = &ts
	}
	return out
}

// ConfigString reads a string value from the opaque config.
func (p Provider) ConfigString(key string) string {
	if p.Config == nil {
		return ""
	}
	if v, ok := p.Config[key].(string); ok {
		return v
	}
	return ""
}

// StoreFile is the persisted document. Only custom providers live here.
type StoreFile struct {
	Providers      []Provider          `json:"providers"`
	FilteredModels map[string][]string `json:"filtered_models"`
}

// NewStoreFile returns the empty default document.
func NewStoreFile() *StoreFile {
	return &StoreFile{
		Providers:      []Provider{},
		FilteredModels: map[string][]string{},
	}
}

// Normalize replaces nil collections with empty ones.
func (f *StoreFile) Normalize() {
	if f.Providers == nil {
		f.Providers = []Provider{}
	}
	if f.FilteredModels == nil {
		f.FilteredModels = map[string][]string{}
	}
}

func (f *StoreFile) indexOf(id string) int {
	for i, p := range f.Providers {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Store persists the StoreFile as a whole. Callers always read-modify-write
// the full document; concurrent writers are last-writer-wins.
type Store interface {
	EnsureInitialized(ctx context.Context) error
	Read(ctx context.Context) (*StoreFile, error)
	Write(ctx context.Context, doc *StoreFile) error
}
