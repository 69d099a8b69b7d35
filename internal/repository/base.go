// Package repository provides data access layer implementations for the application.
package repository

import "gorm.io/gorm"

// readDB prefers the replica for reads and falls back to the primary.
func readDB(primary, replica *gorm.DB) *gorm.DB {
	if replica != nil {
		return replica
	}
	return primary
}
