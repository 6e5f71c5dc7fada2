// Package sqlite implements the store interfaces on top of gorm with the
// SQLite driver. Schema management is handled by gorm's AutoMigrate at
// startup.
package sqlite
