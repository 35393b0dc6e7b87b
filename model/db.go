package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Store is the persistence gateway for companies, clients and invoices.
type Store struct {
	db     *gorm.DB
	Config *Config
}

func (s *Store) autoMigrate() error {
	// Migrate the schema
	for _, m := range []any{&Company{}, &Client{}, &CompanyClient{}, &Invoice{}, &Item{}} {
		if err := s.db.AutoMigrate(m); err != nil {
			return err
		}
	}
	s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_invoice_position ON items(invoice_id, position)`)
	return nil
}

// InitDatabase opens the database named by cfg.DatabaseURL and migrates the
// schema. A postgres:// URL selects PostgreSQL, anything else is taken as the
// path of an SQLite file.
func InitDatabase(cfg *Config) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%w: no database configured", ErrStore)
	}
	var dialector gorm.Dialector
	if IsPostgresURL(cfg.DatabaseURL) {
		dialector = postgresDialector(cfg.DatabaseURL)
	} else {
		dialector = sqliteDialector(cfg.DatabaseURL)
	}
	db, err := gorm.Open(dialector, gormLoggerFor(cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStore, cfg.DatabaseURL, err)
	}
	s := &Store{db: db, Config: cfg}
	if err = s.autoMigrate(); err != nil {
		return nil, fmt.Errorf("%w: migrate: %w", ErrStore, err)
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// containsExpr returns a case-sensitive substring condition for column.
func (s *Store) containsExpr(column string) string {
	switch s.db.Dialector.Name() {
	case "postgres":
		return fmt.Sprintf("strpos(%s, ?) > 0", column)
	default: // sqlite
		return fmt.Sprintf("instr(%s, ?) > 0", column)
	}
}
