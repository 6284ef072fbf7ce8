// Package config loads, stores and persists panelink settings.
//
// Settings are read from a single file whose format follows its extension
// (.toml, .yaml or .yml), then overlaid with PANELINK_* environment
// variables:
//
//	enabled = true          # linked panes follow each other's navigation
//
//	[log]
//	level = "info"          # debug, info, warn, error
//	format = "console"      # console or json
//
//	[ui]
//	sidebars = true
//	noticeSeconds = 4
//
// A missing file yields the defaults. Changes made through the Store are
// written back to the file and reported to observers; the watcher
// sub-package reports edits made to the file by other programs so the
// application can call Reload.
//
// # Sub-packages
//
//   - loader: file and environment loading
//   - notify: change observers
//   - watcher: fsnotify-based file watching
package config
