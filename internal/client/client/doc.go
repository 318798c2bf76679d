// Package client talks to the HerbScan identification server and bootstraps
// the local database.
//
// # Overview
//
//  1. A transport contract (Client) covering identification, the plant
//     knowledge store, authentication and reachability checks.
//  2. HTTPClient, the REST/JSON implementation. It attaches the session's
//     bearer token, applies the request timeout and maps HTTP failures to
//     sentinel errors.
//  3. InitDatabase and RunMigrations, which open the SQLite file and apply the
//     embedded goose migrations.
//
// # Error Handling
//
// Every failed call returns a *TransportError that wraps one of
// ErrUnavailable, ErrUnauthorized, ErrNotFound or ErrRequestFailed, and keeps
// the server's "detail" message when the response carried one. Callers
// match with errors.Is and read the detail with errors.As.
//
// Nothing here retries. A failed identification is surfaced to the user, who
// decides whether to submit again.
package client
