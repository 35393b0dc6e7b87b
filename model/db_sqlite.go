package model

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// sqliteDialector opens a database file with the pure Go SQLite driver.
// Foreign keys are off by default in SQLite.
func sqliteDialector(filename string) gorm.Dialector {
	return sqlite.Open(filename + "?_pragma=foreign_keys(1)")
}
