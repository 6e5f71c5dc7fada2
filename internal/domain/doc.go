// Package domain defines the core business entities of the task tracker:
// users, tasks, and the errors their validation rules produce.
package domain
