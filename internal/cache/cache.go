package cache

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"

	"aircheck/internal/logging"
	"aircheck/internal/services"
)

// Fetcher retrieves a broadcast detail payload when the cache cannot
// serve it.
type Fetcher interface {
	Detail(ctx context.Context, href string) (json.RawMessage, error)
}

// Store provides thread-safe access to the detail payload cache.
type Store struct {
	path     string
	logger   *slog.Logger
	bypass   bool
	mu       sync.Mutex
	payloads map[string]json.RawMessage // keyed by detail URL
}

// Option adjusts store behavior.
type Option func(*Store)

// WithBypass makes every lookup miss so payloads are always re-fetched.
// Fetched payloads are still recorded and written back on Save.
func WithBypass() Option {
	return func(s *Store) {
		s.bypass = true
	}
}

// NewStore creates a cache backed by the gzip-compressed JSON file at
// path. If path is empty the cache is non-functional and all operations
// become no-ops. An unreadable or corrupt file is not fatal; the cache
// starts empty and is rewritten on Save.
func NewStore(path string, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "cache")

	s := &Store{
		path:     path,
		logger:   logger,
		payloads: make(map[string]json.RawMessage),
	}
	for _, opt := range opts {
		opt(s)
	}

	if path == "" {
		return s
	}

	if err := s.load(); err != nil {
		logger.Warn("failed to load payload cache",
			logging.String(logging.FieldEventType, "cache_load_failed"),
			logging.String("path", path),
			logging.Error(err))
	}

	return s
}

// GetOrFetch returns the payload for href, consulting the cache first.
// The second return value reports whether the cache served the payload.
// A payload carrying the station's "message" error indicator is reported
// as missing data and never stored.
func (s *Store) GetOrFetch(ctx context.Context, href string, fetcher Fetcher) (json.RawMessage, bool, error) {
	if payload, ok := s.lookup(href); ok {
		return payload, true, nil
	}

	payload, err := fetcher.Detail(ctx, href)
	if err != nil {
		return nil, false, err
	}
	if hasMessage(payload) {
		return nil, false, services.Wrap(services.ErrNoData, "fetch", "detail",
			fmt.Sprintf("no data available for %s", href), nil)
	}

	s.store(href, payload)
	return payload, false, nil
}

// Len returns the number of cached payloads.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

// Save writes the cache back to disk atomically. Nothing is written when
// the cache is empty or no path is configured.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.payloads) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return services.Wrap(services.ErrCache, "cache", "save", "create cache directory", err)
	}

	pending, err := renameio.NewPendingFile(s.path, renameio.WithPermissions(0o644))
	if err != nil {
		return services.Wrap(services.ErrCache, "cache", "save", "create temp file", err)
	}
	defer pending.Cleanup()

	zw, err := gzip.NewWriterLevel(pending, gzip.BestCompression)
	if err != nil {
		return services.Wrap(services.ErrCache, "cache", "save", "initialize compressor", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.payloads); err != nil {
		return services.Wrap(services.ErrCache, "cache", "save", "encode payloads", err)
	}
	if err := zw.Close(); err != nil {
		return services.Wrap(services.ErrCache, "cache", "save", "flush compressor", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return services.Wrap(services.ErrCache, "cache", "save", "replace cache file", err)
	}

	s.logger.Debug("saved payload cache",
		logging.Int("payload_count", len(s.payloads)),
		logging.String("path", s.path))
	return nil
}

func (s *Store) lookup(href string) (json.RawMessage, bool) {
	if s.path == "" || s.bypass {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payload, found := s.payloads[href]
	if !found || hasMessage(payload) {
		return nil, false
	}
	return payload, true
}

func (s *Store) store(href string, payload json.RawMessage) {
	if s.path == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[href] = payload
}

func (s *Store) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("open cache file: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("read cache header: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return fmt.Errorf("decompress cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	payloads := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &payloads); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}
	s.payloads = payloads

	s.logger.Debug("loaded payload cache",
		logging.Int("payload_count", len(payloads)),
		logging.String("path", s.path))
	return nil
}

// hasMessage reports whether a payload carries the station's top-level
// "message" error indicator. Payloads that do not parse as objects are
// never trusted either.
func hasMessage(payload json.RawMessage) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return true
	}
	_, found := probe["message"]
	return found
}
