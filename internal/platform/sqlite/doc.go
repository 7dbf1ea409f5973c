// Package sqlite implements the store interfaces with GORM on an embedded
// SQLite database. It backs local development and the HTTP end-to-end
// tests, and is selected with database.driver=sqlite.
package sqlite
