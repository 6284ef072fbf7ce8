package events

import "github.com/dshills/panelink/internal/event/topic"

// Config event topics.
const (
	// TopicConfigChanged is published when a setting changes.
	TopicConfigChanged topic.Topic = "config.changed"

	// TopicConfigReloaded is published when the settings file was re-read.
	TopicConfigReloaded topic.Topic = "config.reloaded"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

// Configuration sources.
const (
	ConfigSourceDefault ConfigSource = "default"
	ConfigSourceFile    ConfigSource = "file"
	ConfigSourceEnv     ConfigSource = "env"
	ConfigSourceCommand ConfigSource = "command"
	ConfigSourceScript  ConfigSource = "script"
)

// ConfigChanged is published when a setting changes.
type ConfigChanged struct {
	// Path is the dot-notation path to the setting (e.g., "enabled").
	Path string

	// OldValue is the previous value.
	OldValue any

	// NewValue is the new value.
	NewValue any

	// Source indicates where the new value came from.
	Source ConfigSource
}

// ConfigReloaded is published when the settings file is reloaded.
type ConfigReloaded struct {
	// Path is the settings file path.
	Path string

	// Err is set when the reload failed and previous settings were kept.
	Err error
}
