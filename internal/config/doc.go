// Package config loads the kiosk configuration.
//
// # Discovery
//
// Load reads the given path, or ~/.config/darsamo/config.toml when the path
// is empty. A missing file is not an error: the kiosk runs on defaults
// without any configuration. Empty values also fall back to defaults.
//
// # Format
//
//	language = "en"          # en | pt
//	tick = "1s"              # kitchen clock period
//
//	[kitchen]
//	kickoff_delay = "2s"
//	prep_single = "5s"       # drinks-only or snacks-only orders
//	prep_mixed = "20s"
//	cooldown = "30m"         # picked up -> removed
//	edit_window = "3m"
//
//	[storage]
//	backend = "file"         # file | sqlite
//	path = "~/.local/share/darsamo/state.json"
//
//	[log]
//	path = "~/.local/share/darsamo/darsamo.log"
//	level = "info"
//
// Durations use time.ParseDuration syntax and must be positive. When
// storage.path is empty the default follows the backend (state.json or
// state.db under ~/.local/share/darsamo).
//
// # Environment
//
// DARSAMO_LANGUAGE, DARSAMO_STORAGE_BACKEND, DARSAMO_STORAGE_PATH and
// DARSAMO_LOG_LEVEL override the file. cmd/darsamo loads a .env file into
// the environment before calling Load.
//
// # Errors
//
// Load fails when the home directory cannot be resolved, the file cannot
// be read, or a value does not parse. Parse failures mention "parse config".
package config
