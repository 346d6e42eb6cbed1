package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/metrics"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/platformerrors"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileStore keeps the provider document in a single JSON file. It does not
// serialize read-modify-write cycles across callers: the last Write wins.
type FileStore struct {
	path string
	log  zerolog.Logger
}

func New(path string, log zerolog.Logger) *FileStore {
	return &FileStore{
		path: filepath.Clean(path),
		log:  log.With().Str("component", "provider-filestore").Str("path", path).Logger(),
	}
}

func (s *FileStore) Path() string {
	return s.path
}

// EnsureInitialized creates the file with an empty document when it does not
// exist. An existing file, valid or not, is left untouched.
func (s *FileStore) EnsureInitialized(ctx context.Context) error {
	err := s.ensureInitialized(ctx)
	metrics.RecordStoreOperation("init", err)
	return err
}

func (s *FileStore) ensureInitialized(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat provider store %q: %w", s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("create provider store directory: %w", err)
	}

	data, err := encode(provider.NewStoreFile())
	if err != nil {
		return err
	}
	tmpName, err := s.writeTemp(data)
	if err != nil {
		return err
	}
	defer os.Remove(tmpName)

	// Link fails if another caller created the file first, which is fine.
	if err := os.Link(tmpName, s.path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("initialize provider store %q: %w", s.path, err)
	}
	s.log.Info().Msg("provider store initialized")
	return nil
}

// Read loads the document. A missing file is initialized and the default
// document returned; an unparseable file yields ErrStorageCorrupt.
func (s *FileStore) Read(ctx context.Context) (*provider.StoreFile, error) {
	doc, err := s.read(ctx)
	metrics.RecordStoreOperation("read", err)
	return doc, err
}

func (s *FileStore) read(ctx context.Context) (*provider.StoreFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read provider store %q: %w", s.path, err)
		}
		if err := s.ensureInitialized(ctx); err != nil {
			return nil, err
		}
		return provider.NewStoreFile(), nil
	}

	doc := &provider.StoreFile{}
	if err := json.Unmarshal(data, doc); err != nil {
		s.log.Error().Err(err).Msg("provider store is not valid JSON")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "provider store "+s.path+" cannot be parsed", fmt.Errorf("%w: %w", provider.ErrStorageCorrupt, err), "0f4e8b2a-6c1d-4a97-b3e5-71d2c9a8f604")
	}
	doc.Normalize()
	return doc, nil
}

// Write replaces the whole document. The new content is written to a temp
// file in the same directory and renamed over the old one.
func (s *FileStore) Write(ctx context.Context, doc *provider.StoreFile) error {
	err := s.write(ctx, doc)
	metrics.RecordStoreOperation("write", err)
	return err
}

func (s *FileStore) write(ctx context.Context, doc *provider.StoreFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		doc = provider.NewStoreFile()
	}
	doc.Normalize()

	data, err := encode(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("create provider store directory: %w", err)
	}

	tmpName, err := s.writeTemp(data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace provider store %q: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) writeTemp(data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".providers-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp provider store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write temp provider store: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("chmod temp provider store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close temp provider store: %w", err)
	}
	return tmpName, nil
}

func encode(doc *provider.StoreFile) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode provider store: %w", err)
	}
	return append(data, '\n'), nil
}
