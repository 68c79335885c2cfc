package redpanda

import (
	"fmt"
	"sort"
	"strings"
)

// Column is a single-column view of a DataFrame, the closest Go rendition
// of indexing a pandas frame by column name. It holds no state beyond the
// column label; every access goes straight to Redis.
type Column struct {
	frame *DataFrame
	name  string
}

// Col returns an accessor for one column. The column does not need to exist
// yet; the label is registered on first Set through it.
func (df *DataFrame) Col(name string) *Column {
	return &Column{frame: df, name: name}
}

// Name returns the column label.
func (c *Column) Name() string {
	return c.name
}

// Get reads the cell at row in this column.
func (c *Column) Get(row string) (Value, error) {
	return c.frame.Get(c.name, row)
}

// Set writes the cell at row in this column.
func (c *Column) Set(row, value string) error {
	return c.frame.Set(c.name, row, value)
}

// String renders the column as a tab-separated listing: the column label,
// then one "row\tvalue" line per sorted row with absent cells shown as
// "na".
func (c *Column) String() string {
	contents, err := c.frame.DumpColumn(c.name)
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}

	rows := make([]string, 0, len(contents))
	for row := range contents {
		rows = append(rows, row)
	}
	sort.Strings(rows)

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, "\t"+c.name)
	for _, row := range rows {
		lines = append(lines, row+"\t"+cellText(contents[row]))
	}
	return strings.Join(lines, "\n")
}
