package redpanda

// Value is the content of a single cell. Valid is false when the cell is
// absent, which is distinct from a cell holding the empty string.
type Value struct {
	String string
	Valid  bool
}

// cellText renders a cell for tab-separated display, using the na token for
// absent cells.
func cellText(v Value) string {
	if !v.Valid {
		return "na"
	}
	return v.String
}
