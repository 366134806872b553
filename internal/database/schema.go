package database

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/mrlokans/eldercare/internal/entities"
)

// SchemaVersion is bumped whenever the declared entities change shape.
const SchemaVersion = 2

const schemaMasterID = 42

// ErrSchemaMismatch is returned when a table in the file does not match its
// declared entity.
var ErrSchemaMismatch = errors.New("database schema mismatch")

type schemaMaster struct {
	ID           int       `gorm:"primaryKey;autoIncrement:false"`
	IdentityHash string    `gorm:"type:text;not null"`
	Version      int       `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (schemaMaster) TableName() string {
	return "schema_master"
}

type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

func (c ColumnInfo) String() string {
	return fmt.Sprintf("%s %s notNull=%t pk=%t", c.Name, c.Type, c.NotNull, c.PrimaryKey)
}

type ForeignKeyInfo struct {
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
}

func (f ForeignKeyInfo) String() string {
	return fmt.Sprintf("%s -> %s(%s) onDelete=%s", f.Column, f.RefTable, f.RefColumn, f.OnDelete)
}

// TableInfo describes one table, columns and foreign keys sorted by name.
type TableInfo struct {
	Name        string
	Columns     []ColumnInfo
	ForeignKeys []ForeignKeyInfo
}

func (t TableInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TableInfo{name='%s', columns={", t.Name)
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	b.WriteString("}, foreignKeys={")
	for i, f := range t.ForeignKeys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteString("}}")
	return b.String()
}

func (t TableInfo) equal(other TableInfo) bool {
	return t.String() == other.String()
}

// Schema is the declared shape of a set of tables.
type Schema struct {
	Tables []TableInfo
}

// ExpectedSchema derives the declared table shapes from gorm models.
func ExpectedSchema(db *gorm.DB, models ...any) (Schema, error) {
	var out Schema
	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return Schema{}, fmt.Errorf("failed to parse %T: %w", model, err)
		}
		out.Tables = append(out.Tables, describeModel(db, stmt.Schema))
	}
	return out, nil
}

func describeModel(db *gorm.DB, sch *schema.Schema) TableInfo {
	info := TableInfo{Name: sch.Table}

	for _, name := range sch.DBNames {
		field := sch.FieldsByDBName[name]
		info.Columns = append(info.Columns, ColumnInfo{
			Name:       name,
			Type:       affinity(db.Dialector.DataTypeOf(field)),
			NotNull:    field.NotNull,
			PrimaryKey: field.PrimaryKey,
		})
	}
	sort.Slice(info.Columns, func(i, j int) bool { return info.Columns[i].Name < info.Columns[j].Name })

	for _, rel := range sch.Relationships.BelongsTo {
		constraint := rel.ParseConstraint()
		if constraint == nil {
			continue
		}
		for i, fk := range constraint.ForeignKeys {
			info.ForeignKeys = append(info.ForeignKeys, ForeignKeyInfo{
				Column:    fk.DBName,
				RefTable:  constraint.ReferenceSchema.Table,
				RefColumn: constraint.References[i].DBName,
				OnDelete:  normalizeAction(constraint.OnDelete),
			})
		}
	}
	sortForeignKeys(info.ForeignKeys)

	return info
}

// IdentityHash is a stable digest of the schema and SchemaVersion.
func (s Schema) IdentityHash() string {
	h := sha256.New()
	fmt.Fprintf(h, "version:%d\n", SchemaVersion)
	for _, t := range s.Tables {
		fmt.Fprintln(h, t.String())
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// Validate compares every declared table with what the database holds.
func (s Schema) Validate(db *gorm.DB) error {
	for _, expected := range s.Tables {
		found, err := ReadTableInfo(db, expected.Name)
		if err != nil {
			return err
		}
		if !expected.equal(found) {
			return fmt.Errorf("%w: %s\n Expected:\n%s\n Found:\n%s",
				ErrSchemaMismatch, expected.Name, expected, found)
		}
	}
	return nil
}

// ValidateSchema checks the open database against the declared entities.
func (d *Database) ValidateSchema() error {
	expected, err := ExpectedSchema(d.DB, entities.DataModels()...)
	if err != nil {
		return err
	}
	return expected.Validate(d.DB)
}

type pragmaColumn struct {
	CID          int     `gorm:"column:cid"`
	Name         string  `gorm:"column:name"`
	Type         string  `gorm:"column:type"`
	NotNull      int     `gorm:"column:notnull"`
	DefaultValue *string `gorm:"column:dflt_value"`
	PK           int     `gorm:"column:pk"`
}

type pragmaForeignKey struct {
	ID       int    `gorm:"column:id"`
	Seq      int    `gorm:"column:seq"`
	Table    string `gorm:"column:table"`
	From     string `gorm:"column:from"`
	To       string `gorm:"column:to"`
	OnUpdate string `gorm:"column:on_update"`
	OnDelete string `gorm:"column:on_delete"`
	Match    string `gorm:"column:match"`
}

// ReadTableInfo reads a table's shape from SQLite. A missing table yields
// an empty column list.
func ReadTableInfo(db *gorm.DB, table string) (TableInfo, error) {
	info := TableInfo{Name: table}

	var columns []pragmaColumn
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table))).Scan(&columns).Error; err != nil {
		return info, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	for _, c := range columns {
		info.Columns = append(info.Columns, ColumnInfo{
			Name:       c.Name,
			Type:       affinity(c.Type),
			NotNull:    c.NotNull != 0,
			PrimaryKey: c.PK > 0,
		})
	}
	sort.Slice(info.Columns, func(i, j int) bool { return info.Columns[i].Name < info.Columns[j].Name })

	var keys []pragmaForeignKey
	if err := db.Raw(fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(table))).Scan(&keys).Error; err != nil {
		return info, fmt.Errorf("failed to read foreign keys of %s: %w", table, err)
	}
	for _, k := range keys {
		info.ForeignKeys = append(info.ForeignKeys, ForeignKeyInfo{
			Column:    k.From,
			RefTable:  k.Table,
			RefColumn: k.To,
			OnDelete:  normalizeAction(k.OnDelete),
		})
	}
	sortForeignKeys(info.ForeignKeys)

	return info, nil
}

func affinity(declared string) string {
	fields := strings.Fields(strings.ToLower(declared))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func normalizeAction(action string) string {
	action = strings.ToUpper(strings.TrimSpace(action))
	if action == "" {
		return "NO ACTION"
	}
	return action
}

func sortForeignKeys(keys []ForeignKeyInfo) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Column != keys[j].Column {
			return keys[i].Column < keys[j].Column
		}
		return keys[i].RefTable < keys[j].RefTable
	})
}
