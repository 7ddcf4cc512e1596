// Package config loads storekit's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/storekit/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/storekit/config.toml
//   - API base: https://jsonplaceholder.typicode.com
//   - Storage file: ~/.local/share/storekit/storage.toml
//   - Log file: ~/.local/state/storekit/storekit.log
//   - Log level: info
//   - Locale: en
//   - Username: $USER, or "guest"
//   - Theme: Dracula
//   - Transport: 150ms latency, 350ms jitter, 0.3 peer chance, random seed
//   - Auth: per-run secret, 60 minute tokens
//
// # TOML Format
//
//	api_base = "https://jsonplaceholder.typicode.com"
//	storage_path = "~/.local/share/storekit/storage.toml"
//	log_file = "~/.local/state/storekit/storekit.log"
//	log_level = "debug"
//	locale = "es"
//	username = "ada"
//	theme = "Nord"
//
//	[transport]
//	latency_ms = 150
//	jitter_ms = 350
//	peer_chance = 0.3
//	seed = 42          # fixed seed makes chat traffic reproducible
//
//	[auth]
//	secret = "at least thirty-two characters long!!"
//	token_minutes = 60
//
// Transport values are range-checked: latency must be positive, jitter not
// negative and peer_chance within [0, 1]. An out-of-range value is an error
// rather than a silent default, since it usually means a typo.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - Out-of-range transport values
//
// Missing config files are NOT an error. storekit runs out of the box.
package config
