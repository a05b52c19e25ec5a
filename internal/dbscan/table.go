// Package dbscan reads language elements straight out of table columns.
package dbscan

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteTable is returned for a table entry missing a required field.
var ErrIncompleteTable = errors.New("incomplete database configuration")

// TableNameCategory makes the category follow the table name.
const TableNameCategory = "tableName"

// Connection is a named database a table is read from.
type Connection struct {
	DSN string `yaml:"dsn"`
	// TablePrefix replaces "%" in table names such as "{{%language}}".
	TablePrefix string `yaml:"table_prefix"`
}

// Table names the columns whose values are language elements.
type Table struct {
	Connection string   `yaml:"connection"`
	Table      string   `yaml:"table"`
	Columns    []string `yaml:"columns"`
	Category   string   `yaml:"category"`
}

// Validate checks that connection, table and columns are set.
func (t Table) Validate() error {
	switch {
	case t.Connection == "":
		return fmt.Errorf("%w: connection", ErrIncompleteTable)
	case t.Table == "":
		return fmt.Errorf("%w: table", ErrIncompleteTable)
	case len(t.Columns) == 0:
		return fmt.Errorf("%w: columns", ErrIncompleteTable)
	}
	return nil
}

// CategoryFor returns the category of the table's values. The table's own
// category wins over fallback; either may be TableNameCategory.
func (t Table) CategoryFor(fallback string) string {
	category := t.Category
	if category == "" {
		category = fallback
	}
	if category == TableNameCategory {
		return NormalizeTableName(t.Table)
	}
	return category
}

// NormalizeTableName removes the "{", "%" and "}" quoting characters.
func NormalizeTableName(name string) string {
	return strings.NewReplacer("{", "", "%", "", "}", "").Replace(name)
}

// physicalName expands "{{%name}}" with prefix and returns the dotted parts.
func physicalName(name, prefix string) []string {
	if inner, ok := strings.CutPrefix(name, "{{"); ok {
		if inner, ok = strings.CutSuffix(inner, "}}"); ok {
			name = strings.ReplaceAll(inner, "%", prefix)
		}
	}
	return strings.Split(name, ".")
}
