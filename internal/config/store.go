package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/panelink/internal/config/loader"
	"github.com/dshills/panelink/internal/config/notify"
	"github.com/dshills/panelink/internal/logging"
)

// Change sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceCommand = "command"
	SourceScript  = "script"
)

// Store holds the current settings and persists changes to them.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	path     string
	fs       loader.FileSystem
	useEnv   bool
	settings Settings

	notifier *notify.Notifier
	logger   *logging.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEnv controls whether PANELINK_* variables overlay the file.
// Defaults to true.
func WithEnv(enable bool) Option {
	return func(s *Store) {
		s.useEnv = enable
	}
}

// WithFS sets the file system settings are read from.
func WithFS(fsys loader.FileSystem) Option {
	return func(s *Store) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// NewStore creates a store holding the defaults and no file.
func NewStore(opts ...Option) *Store {
	s := &Store{
		fs:       loader.DefaultFS(),
		useEnv:   true,
		settings: Defaults(),
		notifier: notify.New(),
		logger:   logging.Null(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("config")
	return s
}

// Open creates a store backed by path. An empty path means defaults plus
// environment. A missing file is not an error; a malformed one returns a
// *ParseError.
func Open(path string, opts ...Option) (*Store, error) {
	s := NewStore(opts...)
	if path != "" {
		if _, err := loader.FormatFor(path); err != nil {
			return nil, err
		}
	}
	s.path = path

	settings, err := s.read()
	if err != nil {
		return nil, err
	}
	s.settings = settings
	return s, nil
}

// DefaultPath returns the per-user settings file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "panelink", "settings.toml")
}

// read loads the file and the environment overlay.
func (s *Store) read() (Settings, error) {
	var merged map[string]any
	if s.path != "" {
		l, err := loader.ForPath(s.fs, s.path)
		if err != nil {
			return Settings{}, err
		}
		fileMap, err := l.Load()
		if err != nil {
			return Settings{}, err
		}
		merged = loader.DeepMerge(merged, fileMap)
	}
	if s.useEnv {
		envMap, err := loader.NewEnvLoader(loader.EnvPrefix).Load()
		if err != nil {
			return Settings{}, err
		}
		merged = loader.DeepMerge(merged, envMap)
	}

	settings, unknown, err := Decode(merged)
	if err != nil {
		return Settings{}, fmt.Errorf("loading %s: %w", s.displayPath(), err)
	}
	if len(unknown) > 0 {
		s.logger.Warn("ignoring unknown settings: %s", strings.Join(unknown, ", "))
	}
	return settings, nil
}

func (s *Store) displayPath() string {
	if s.path == "" {
		return "settings"
	}
	return s.path
}

// SetLogger replaces the store logger.
func (s *Store) SetLogger(l *logging.Logger) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l.WithComponent("config")
}

// Path returns the backing file, if any.
func (s *Store) Path() string {
	return s.path
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SyncEnabled reports whether linked panes follow each other's navigation.
func (s *Store) SyncEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Enabled
}

// Get returns the value at path.
func (s *Store) Get(path string) (any, error) {
	return s.Settings().Get(path)
}

// Set changes one setting, saves the file when there is one and notifies
// observers. Setting a value to what it already is does nothing.
func (s *Store) Set(path string, value any, source string) error {
	s.mu.Lock()
	old, err := s.settings.Get(path)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next := s.settings
	if err := next.Set(path, value); err != nil {
		s.mu.Unlock()
		return err
	}
	newValue, _ := next.Get(path)
	if newValue == old {
		s.mu.Unlock()
		return nil
	}
	s.settings = next
	var saveErr error
	if s.path != "" {
		saveErr = s.saveLocked()
	}
	s.mu.Unlock()

	s.logger.Info("%s set to %v (%s)", path, newValue, source)
	s.notifier.NotifySet(path, old, newValue, source)
	return saveErr
}

// SetEnabled is Set for the sync flag.
func (s *Store) SetEnabled(enabled bool, source string) error {
	return s.Set(PathEnabled, enabled, source)
}

// ToggleEnabled flips the sync flag and returns the value now in effect.
// A failed save still leaves the flag flipped.
func (s *Store) ToggleEnabled(source string) (bool, error) {
	err := s.SetEnabled(!s.SyncEnabled(), source)
	return s.SyncEnabled(), err
}

// Save writes the current settings to the backing file in its format,
// creating the directory if needed.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return ErrNoPath
	}
	format, err := loader.FormatFor(s.path)
	if err != nil {
		return err
	}
	data, err := format.Marshal(s.settings.Map())
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// Reload re-reads the file and environment, notifying observers of every
// changed setting. On error the current settings are kept.
func (s *Store) Reload() ([]string, error) {
	next, err := s.read()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	prev := s.settings
	s.settings = next
	s.mu.Unlock()

	changed := prev.Diff(next)
	for _, p := range changed {
		oldValue, _ := prev.Get(p)
		newValue, _ := next.Get(p)
		s.notifier.NotifySet(p, oldValue, newValue, SourceFile)
	}
	if len(changed) > 0 {
		s.logger.Info("reloaded %s: %s", s.displayPath(), strings.Join(changed, ", "))
	}
	return changed, nil
}

// Subscribe registers an observer for every change.
func (s *Store) Subscribe(observer notify.Observer) *notify.Subscription {
	return s.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or below path.
func (s *Store) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return s.notifier.SubscribePath(path, observer)
}

// Close drops all observers.
func (s *Store) Close() {
	s.notifier.Close()
}
