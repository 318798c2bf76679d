// Package cli provides the interactive HerbScan command-line client.
//
// It wires configuration, local storage, the REST transport and the
// identification orchestrator behind a REPL. A background watcher pings the
// server and switches between online and offline mode; catalog commands fall
// back to the local cache while offline.
//
// Key features:
//   - Register / Login / Logout / WhoAmI
//   - Browse the plant catalog, search loaded records, show a full record
//   - Select an image, identify it, inspect the result and scan history
//   - Import seed records from YAML
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
