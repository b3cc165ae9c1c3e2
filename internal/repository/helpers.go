package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate applies a row-level write lock on dialects that support
// it. SQLite (used in tests) rejects FOR UPDATE; its writes serialize at
// the database level instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize
	return query.Offset(offset).Limit(pageSize)
}
