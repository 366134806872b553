package database

import (
	"reflect"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// registerUTCCallbacks converts every time column to UTC before it is written.
// The driver stores times as text, so a single zone keeps comparisons in
// BETWEEN and ORDER BY chronological.
func registerUTCCallbacks(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register("eldercare:utc_create", normalizeTimes); err != nil {
		return err
	}
	return db.Callback().Update().Before("gorm:update").Register("eldercare:utc_update", normalizeTimes)
}

func normalizeTimes(tx *gorm.DB) {
	if tx.Error != nil || tx.Statement.Schema == nil {
		return
	}
	rv := tx.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			normalizeRow(tx, reflect.Indirect(rv.Index(i)))
		}
	case reflect.Struct:
		normalizeRow(tx, rv)
	}
}

func normalizeRow(tx *gorm.DB, row reflect.Value) {
	if row.Kind() != reflect.Struct {
		return
	}
	ctx := tx.Statement.Context
	for _, field := range tx.Statement.Schema.Fields {
		if field.DBName == "" || field.DataType != schema.Time {
			continue
		}
		value, zero := field.ValueOf(ctx, row)
		if zero {
			continue
		}
		switch v := value.(type) {
		case time.Time:
			if err := field.Set(ctx, row, v.UTC()); err != nil {
				tx.AddError(err)
			}
		case *time.Time:
			if v != nil {
				utc := v.UTC()
				if err := field.Set(ctx, row, &utc); err != nil {
					tx.AddError(err)
				}
			}
		}
	}
}
