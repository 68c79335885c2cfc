// Package keys defines the Redis key namespace used by the redpanda facade.
//
// A cell addressed by (column, row) lives under its own key, built by
// joining the two labels with Divider. The label index and the version
// marker occupy fixed reserved keys in the same flat namespace; cell keys
// cannot collide with them because every cell key contains the divider.
package keys

import "strings"

// Divider joins the column and row labels inside a cell key. A label that
// contains the divider would produce ambiguous cell keys, so Valid rejects
// it.
const Divider = "%x%"

const (
	// RowsKey is the set holding every row label ever written.
	RowsKey = "rows"
	// ColumnsKey is the set holding every column label ever written.
	ColumnsKey = "columns"
	// VersionKey marks a database as created by redpanda. Wrap refuses to
	// attach to a non-empty database that lacks it.
	VersionKey = "redpanda_version"
)

// Gen returns the storage key for the cell (column, row).
func Gen(column, row string) string {
	return column + Divider + row
}

// Valid reports whether label can serve as a row or column name.
func Valid(label string) bool {
	return !strings.Contains(label, Divider)
}

// Reserved reports whether key is one of the bookkeeping keys rather than a
// cell.
func Reserved(key string) bool {
	return key == RowsKey || key == ColumnsKey || key == VersionKey
}
