package database

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

var (
	// ErrIdentityMismatch means the file was written by a different schema
	// and destructive fallback is disabled.
	ErrIdentityMismatch = errors.New("database schema identity mismatch")
)

// Options tunes how the database is opened.
type Options struct {
	// DestructiveFallback drops and recreates every data table when the
	// stored schema identity does not match the declared one.
	DestructiveFallback bool
	// LogSQL logs every statement through gorm's logger.
	LogSQL bool
}

type Database struct {
	DB      *gorm.DB
	Tracker *live.Tracker

	path     string
	identity string
}

func NewDatabase(dbPath string, opts Options) (*Database, error) {
	logLevel := logger.Silent
	if opts.LogSQL {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" databases alive.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := registerUTCCallbacks(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to register callbacks: %w", err)
	}

	database := &Database{
		DB:      db,
		Tracker: live.NewTracker(),
		path:    dbPath,
	}

	if err := database.prepareSchema(opts.DestructiveFallback); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Printf("Database initialized successfully at %s (identity %s)", dbPath, database.identity)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Path() string {
	return d.path
}

// IdentityHash returns the hash of the declared schema this database was opened with.
func (d *Database) IdentityHash() string {
	return d.identity
}

// ClearAllTables deletes every row of every data table in one transaction.
func (d *Database) ClearAllTables() error {
	tables := entities.DataTables()
	err := d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("PRAGMA defer_foreign_keys = TRUE").Error; err != nil {
			return err
		}
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + quoteIdent(table)).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.Tracker.Notify(tables...)
	return nil
}

func (d *Database) prepareSchema(destructive bool) error {
	expected, err := ExpectedSchema(d.DB, entities.DataModels()...)
	if err != nil {
		return fmt.Errorf("failed to describe schema: %w", err)
	}
	d.identity = expected.IdentityHash()

	if err := d.DB.AutoMigrate(&schemaMaster{}); err != nil {
		return fmt.Errorf("failed to migrate schema master: %w", err)
	}

	stored, err := d.storedIdentity()
	if err != nil {
		return err
	}
	if stored != "" && stored != d.identity {
		if !destructive {
			return fmt.Errorf("%w: found %s, expected %s", ErrIdentityMismatch, stored, d.identity)
		}
		log.Printf("Schema identity changed (%s -> %s), recreating data tables", stored, d.identity)
		if err := d.dropDataTables(); err != nil {
			return err
		}
	}

	models := append(entities.DataModels(), entities.SupportModels()...)
	if err := d.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := expected.Validate(d.DB); err != nil {
		return err
	}

	return d.storeIdentity(d.identity)
}

func (d *Database) dropDataTables() error {
	models := entities.DataModels()
	for i := len(models) - 1; i >= 0; i-- {
		if err := d.DB.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return nil
}

func (d *Database) storedIdentity() (string, error) {
	var master schemaMaster
	err := d.DB.Where("id = ?", schemaMasterID).Limit(1).Find(&master).Error
	if err != nil {
		return "", fmt.Errorf("failed to read schema identity: %w", err)
	}
	return master.IdentityHash, nil
}

func (d *Database) storeIdentity(hash string) error {
	return d.DB.Save(&schemaMaster{
		ID:           schemaMasterID,
		IdentityHash: hash,
		Version:      SchemaVersion,
	}).Error
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	params := "_foreign_keys=on&_busy_timeout=5000"
	if !strings.Contains(path, ":memory:") {
		params += "&_journal_mode=WAL"
	}
	return path + sep + params
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
