// Package store defines the persistence interfaces for the application's
// entities along with the sentinel errors all implementations share.
// The concrete ORM-backed implementation lives in internal/platform/sqlite.
package store
