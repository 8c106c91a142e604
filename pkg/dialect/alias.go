package dialect

import (
	"strconv"

	"github.com/zeebo/xxh3"
)

// ColumnAlias derives a stable, short, engine-safe alias for a selected column.
// The same table key and column always produce the same alias; collisions
// within one statement are resolved by the caller.
func (d *Dialect) ColumnAlias(tableKey, column string) string {
	return "DB" + strconv.FormatUint(xxh3.HashString(tableKey+"."+column), 36)
}
