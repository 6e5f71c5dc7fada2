// Package mocks provides in-memory implementations of the store
// interfaces for use in unit tests.
package mocks
