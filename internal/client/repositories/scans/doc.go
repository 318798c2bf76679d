// Package scans provides the client-side persistence layer for scan history.
//
// # Overview
//
// SQLiteRepository stores one row per successful identification in the scans
// table: id, plant name, confidence label, matched plant id, creation time
// (unix nanoseconds) and the submitted image. It implements history.Store.
//
// # Ordering
//
// Page returns rows ordered by created_at descending, ties broken by id
// descending, so pages are stable for a given table state.
//
// Typical Usage
//
//	repo := scans.NewSQLiteRepository(db)
//	cache := history.NewCache(repo)
package scans
