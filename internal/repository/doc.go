// Package repository provides durable storage of build records: per software
// package/version, a configuration snapshot plus an append-only history of
// build statistics.
//
// A Repository binds local staging (plain file layout under a root and
// optional subdirectory) to one of three synchronization strategies selected
// at construction: none (plain filesystem), git (clone/pull to acquire,
// commit/push to publish) or svn (checkout-or-update to acquire, checkin to
// publish).
//
// Lifecycle: New runs strategy setup and working-copy acquisition; the
// caller then issues any number of AddRecord calls, optionally Commit, and
// finally Cleanup. A handle is single-session and not safe for concurrent
// use. Remote synchronization failures degrade to local-only operation with
// logged warnings; only configuration-class failures (invalid target,
// missing VCS client, unreachable centralized remote) are fatal.
package repository
