package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // Pointer because NULL default is possible
	Extra   string
}

// GetTableColumns retrieves the column definitions for a given table.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	if db.Dialector.Name() == "sqlite" {
		// SQLite uses PRAGMA table_info
		type SQLiteColumn struct {
			Cid        int
			Name       string
			Type       string
			Notnull    int
			DefaultVal *string
			Pk         int
		}
		var sqliteCols []SQLiteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			columns = append(columns, ColumnInfo{
				Field: strings.ToLower(col.Name),
				Type:  strings.ToLower(col.Type),
			})
		}
		return columns, nil
	}

	// Raw "SHOW COLUMNS" keeps the exact MySQL type strings, which the
	// Migrator abstraction would normalize away.
	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// HasUniqueIndex reports whether the given table carries a unique index on
// exactly the given column. The irrigation record store relies on a unique
// index over local_id to make concurrent syncs of the same key safe, so the
// dbcheck command uses this to verify the constraint actually exists in the
// schema rather than trusting application logic.
func HasUniqueIndex(db *gorm.DB, tableName, columnName string) (bool, error) {
	if db.Dialector.Name() == "sqlite" {
		type sqliteIndex struct {
			Seq    int
			Name   string
			Unique int
		}
		var indexes []sqliteIndex
		if err := db.Raw(fmt.Sprintf("PRAGMA index_list('%s')", tableName)).Scan(&indexes).Error; err != nil {
			return false, fmt.Errorf("failed to list indexes for table %s: %w", tableName, err)
		}
		for _, idx := range indexes {
			if idx.Unique != 1 {
				continue
			}
			type sqliteIndexColumn struct {
				Seqno int
				Cid   int
				Name  string
			}
			var cols []sqliteIndexColumn
			if err := db.Raw(fmt.Sprintf("PRAGMA index_info('%s')", idx.Name)).Scan(&cols).Error; err != nil {
				return false, fmt.Errorf("failed to inspect index %s: %w", idx.Name, err)
			}
			if len(cols) == 1 && strings.EqualFold(cols[0].Name, columnName) {
				return true, nil
			}
		}
		return false, nil
	}

	type mysqlIndex struct {
		KeyName    string `gorm:"column:Key_name"`
		NonUnique  int    `gorm:"column:Non_unique"`
		ColumnName string `gorm:"column:Column_name"`
		SeqInIndex int    `gorm:"column:Seq_in_index"`
	}
	var indexes []mysqlIndex
	if err := db.Raw(fmt.Sprintf("SHOW INDEX FROM `%s`", tableName)).Scan(&indexes).Error; err != nil {
		return false, fmt.Errorf("failed to list indexes for table %s: %w", tableName, err)
	}

	// Group by key name; a match is a single-column unique key on columnName.
	byKey := make(map[string][]mysqlIndex)
	for _, idx := range indexes {
		byKey[idx.KeyName] = append(byKey[idx.KeyName], idx)
	}
	for _, parts := range byKey {
		if len(parts) != 1 {
			continue
		}
		if parts[0].NonUnique == 0 && strings.EqualFold(parts[0].ColumnName, columnName) {
			return true, nil
		}
	}
	return false, nil
}
