// Package api provides the HTTP handlers for the task tracker: account
// endpoints under /user and task endpoints under /task, plus the error
// mapping that keeps internal failures from leaking to clients.
package api
