// Package app is storekit's composition root.
//
// # Overview
//
// Run loads the configuration, builds every collaborator and hands them to
// the UI. Nothing is global: each store, the transport, the auth issuer and
// the HTTP client is created here and passed explicitly to whoever needs it.
//
// # Initialization
//
//  1. Load ~/.config/storekit/config.toml (defaults when absent)
//  2. Open the JSON log file through internal/logging
//  3. Open the TOML storage file, falling back to memory
//  4. Create the counter, settings, users and chat stores
//  5. Restore theme and locale from storage and keep them saved
//  6. Build the auth issuer, the mock transport and the chat session
//  7. Build the HTTP client for the users tab
//  8. Run the Bubble Tea program until the user quits
//
// Build performs steps 2 to 7 without touching the terminal, which is how
// the tests drive it.
//
// # Seeds and Secrets
//
// A transport seed of zero means "pick one": the current time is used and
// logged so that a run can be replayed with -seed. An empty auth secret
// makes Build generate a random one, so tokens never outlive the process.
//
// # Error Handling
//
// Config, auth and client errors abort startup. A log file that cannot be
// opened only disables logging, and unusable storage only disables
// persistence; both are reported and the UI still starts.
package app
