package dialect

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
)

// TypeName returns the column DDL type for a semantic type. Primary-key
// columns may use a narrower type where the engine cannot index the default.
func (d *Dialect) TypeName(t core.SemanticType, primaryKey bool) (string, error) {
	d = d.orDefault()
	if primaryKey {
		if name, ok := d.pkTypeNames[t]; ok {
			return name, nil
		}
	}
	name, ok := d.typeNames[t]
	if !ok {
		return "", d.unsupported(t.String() + " columns")
	}
	return name, nil
}

// ColumnDefinition renders "name TYPE[ suffix]" for CREATE TABLE.
func (d *Dialect) ColumnDefinition(name string, t core.SemanticType, primaryKey, autoIncrement bool) (string, error) {
	d = d.orDefault()
	typ, err := d.TypeName(t, primaryKey)
	if err != nil {
		return "", err
	}
	if autoIncrement {
		if d.cfg.NoAutoIncrement {
			return "", d.unsupported("auto-increment columns")
		}
		if d.cfg.AutoIncrementType != "" {
			typ = d.cfg.AutoIncrementType
		}
		typ += d.cfg.AutoIncrementSuffix
	}
	return d.QuoteIdentifierIfNeeded(name) + " " + typ, nil
}

// AutoIncrementDeclaresKey reports whether an auto-increment column
// definition already declares the primary key.
func (d *Dialect) AutoIncrementDeclaresKey() bool {
	return d.orDefault().cfg.AutoIncrementDeclaresKey
}

// AutoIncrementSuffix returns the text that follows an auto-increment column's type.
func (d *Dialect) AutoIncrementSuffix() string {
	return d.orDefault().cfg.AutoIncrementSuffix
}
