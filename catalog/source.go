package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source produces catalog snapshots.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: Snapshot should honor cancellation when it performs I/O.
//   - Ownership: the returned snapshot belongs to the caller and is treated as immutable.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// SourceFunc adapts an ordinary function to a Source.
type SourceFunc func(ctx context.Context) (*Snapshot, error)

// Snapshot calls f(ctx).
func (f SourceFunc) Snapshot(ctx context.Context) (*Snapshot, error) {
	return f(ctx)
}

// StaticSource serves a fixed plugin list.
type StaticSource struct {
	plugins []PluginMeta
}

// NewStaticSource creates a source that always returns the given plugins.
func NewStaticSource(plugins ...PluginMeta) *StaticSource {
	return &StaticSource{plugins: plugins}
}

// Snapshot returns a normalized snapshot of the static plugin list.
func (s *StaticSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Normalize(&Snapshot{Plugins: s.plugins, LoadedAt: time.Now()}), nil
}

// FileSource reads a YAML catalog document from disk on every Snapshot call.
//
// The document shape is:
//
//	plugins:
//	  - name: 基础功能
//	    author: astrbot
//	    version: 1.0.0
//	    commands:
//	      - name: help
//	        usage: /help [plugin]
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the catalog file path.
func (s *FileSource) Path() string {
	return s.path
}

// Snapshot reads, decodes, and normalizes the catalog file.
func (s *FileSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", s.path, err)
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", s.path, err)
	}
	return snap, nil
}

// Decode parses a YAML catalog document and normalizes it.
func Decode(data []byte) (*Snapshot, error) {
	var doc Snapshot
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc.LoadedAt = time.Now()
	return Normalize(&doc), nil
}

var (
	_ Source = (*StaticSource)(nil)
	_ Source = (*FileSource)(nil)
	_ Source = SourceFunc(nil)
)
