package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/panelink/internal/logging"
)

// Setting paths.
const (
	PathEnabled       = "enabled"
	PathLogLevel      = "log.level"
	PathLogFormat     = "log.format"
	PathSidebars      = "ui.sidebars"
	PathNoticeSeconds = "ui.noticeSeconds"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Settings is the complete set of panelink settings.
type Settings struct {
	// Enabled gates navigation sync between linked panes. Linking itself
	// works either way.
	Enabled bool
	Log     LogSettings
	UI      UISettings
}

// LogSettings controls logging.
type LogSettings struct {
	Level  string
	Format string
}

// UISettings controls the terminal front end.
type UISettings struct {
	Sidebars      bool
	NoticeSeconds int
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Enabled: true,
		Log: LogSettings{
			Level:  "info",
			Format: FormatConsole,
		},
		UI: UISettings{
			Sidebars:      true,
			NoticeSeconds: 4,
		},
	}
}

// Paths returns every recognized setting path, sorted.
func Paths() []string {
	paths := []string{PathEnabled, PathLogLevel, PathLogFormat, PathSidebars, PathNoticeSeconds}
	sort.Strings(paths)
	return paths
}

// Get returns the value at path.
func (s Settings) Get(path string) (any, error) {
	switch path {
	case PathEnabled:
		return s.Enabled, nil
	case PathLogLevel:
		return s.Log.Level, nil
	case PathLogFormat:
		return s.Log.Format, nil
	case PathSidebars:
		return s.UI.Sidebars, nil
	case PathNoticeSeconds:
		return s.UI.NoticeSeconds, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
}

// Set stores value at path after checking its type and range.
func (s *Settings) Set(path string, value any) error {
	switch path {
	case PathEnabled:
		v, err := asBool(path, value)
		if err != nil {
			return err
		}
		s.Enabled = v
	case PathLogLevel:
		v, err := asString(path, value)
		if err != nil {
			return err
		}
		v = strings.ToLower(v)
		if !logging.ValidLevel(v) {
			return &ValidationError{Path: path, Message: "unknown log level", Value: value}
		}
		s.Log.Level = v
	case PathLogFormat:
		v, err := asString(path, value)
		if err != nil {
			return err
		}
		if v != FormatConsole && v != FormatJSON {
			return &ValidationError{Path: path, Message: "must be console or json", Value: value}
		}
		s.Log.Format = v
	case PathSidebars:
		v, err := asBool(path, value)
		if err != nil {
			return err
		}
		s.UI.Sidebars = v
	case PathNoticeSeconds:
		v, err := asInt(path, value)
		if err != nil {
			return err
		}
		if v < 0 || v > 60 {
			return &ValidationError{Path: path, Message: "must be between 0 and 60", Value: value}
		}
		s.UI.NoticeSeconds = v
	default:
		return fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	return nil
}

// Decode overlays m onto the defaults. Unknown keys are returned so the
// caller can warn about them.
func Decode(m map[string]any) (Settings, []string, error) {
	s := Defaults()
	var unknown []string
	for _, entry := range flatten("", m) {
		if err := s.Set(entry.path, entry.value); err != nil {
			if isNotFound(err) {
				unknown = append(unknown, entry.path)
				continue
			}
			return Defaults(), nil, err
		}
	}
	sort.Strings(unknown)
	return s, unknown, nil
}

// Map returns s as a nested map suitable for encoding.
func (s Settings) Map() map[string]any {
	return map[string]any{
		"enabled": s.Enabled,
		"log": map[string]any{
			"level":  s.Log.Level,
			"format": s.Log.Format,
		},
		"ui": map[string]any{
			"sidebars":      s.UI.Sidebars,
			"noticeSeconds": s.UI.NoticeSeconds,
		},
	}
}

// Diff returns the paths whose values differ between s and other.
func (s Settings) Diff(other Settings) []string {
	var changed []string
	for _, p := range Paths() {
		a, _ := s.Get(p)
		b, _ := other.Get(p)
		if a != b {
			changed = append(changed, p)
		}
	}
	return changed
}

type flatEntry struct {
	path  string
	value any
}

// flatten walks nested maps into dot-separated paths.
func flatten(prefix string, m map[string]any) []flatEntry {
	var out []flatEntry
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			out = append(out, flatten(path, sub)...)
			continue
		}
		out = append(out, flatEntry{path: path, value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

func asBool(path string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

func asString(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

func asInt(path string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrSettingNotFound)
}
