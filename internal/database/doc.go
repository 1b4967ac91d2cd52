// Package database owns the gorm connection and schema migration.
//
// Table-specific operations live in subpackages, one repository per
// aggregate:
//
//   - internal/database/users: account rows (foreign key target)
//   - internal/database/imports: import batches and their child rows
package database
