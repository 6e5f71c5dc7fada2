// Package service contains the application's use cases: account
// management, the task lifecycle (including the recurrence reset pass),
// and the profile analytics aggregations.
package service
