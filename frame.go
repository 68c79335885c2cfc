package redpanda

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/redpanda-kv/redpanda/engine/keys"
)

// DataFrame is a two-dimensional table of string cells stored in Redis.
// Construct one with Wrap, Open or FromCSV.
//
// The table is never materialized: reads reconstruct it on demand from the
// label sets and per-cell lookups. Label-set updates and cell writes are
// separate commands, so concurrent writers against the same database can
// briefly observe a label without its value; conflicting writes to the same
// cell resolve last-write-wins at the server.
type DataFrame struct {
	redis Client
	ctx   context.Context
}

// SetContext sets the context used for subsequent Redis round trips. The
// default is context.Background().
func (df *DataFrame) SetContext(ctx context.Context) {
	df.ctx = ctx
}

// scan drains a Redis set through SSCAN, one cursor page per round trip.
func (df *DataFrame) scan(key string) ([]string, error) {
	var members []string
	var cursor uint64
	for {
		page, next, err := df.redis.SScan(df.ctx, key, cursor, "", 0).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", key, err)
		}
		members = append(members, page...)
		cursor = next
		if cursor == 0 {
			return members, nil
		}
	}
}

// Rows returns every row label, sorted lexicographically. The underlying
// set is unordered; the sort happens on every call.
func (df *DataFrame) Rows() ([]string, error) {
	rows, err := df.scan(keys.RowsKey)
	if err != nil {
		return nil, err
	}
	sort.Strings(rows)
	return rows, nil
}

// Columns returns every column label, sorted lexicographically.
func (df *DataFrame) Columns() ([]string, error) {
	columns, err := df.scan(keys.ColumnsKey)
	if err != nil {
		return nil, err
	}
	sort.Strings(columns)
	return columns, nil
}

// Set writes value under the cell (column, row) and registers both labels
// in the index sets. The three underlying writes are separate commands with
// no atomicity across them.
func (df *DataFrame) Set(column, row, value string) error {
	if !keys.Valid(column) || !keys.Valid(row) {
		return fmt.Errorf("%w: (%q, %q)", ErrInvalidLabel, column, row)
	}
	if err := df.redis.SAdd(df.ctx, keys.RowsKey, row).Err(); err != nil {
		return fmt.Errorf("registering row %q: %w", row, err)
	}
	if err := df.redis.SAdd(df.ctx, keys.ColumnsKey, column).Err(); err != nil {
		return fmt.Errorf("registering column %q: %w", column, err)
	}
	if err := df.redis.Set(df.ctx, keys.Gen(column, row), value, 0).Err(); err != nil {
		return fmt.Errorf("writing cell (%q, %q): %w", column, row, err)
	}
	return nil
}

// Get reads the cell (column, row). An absent cell is reported through
// Value.Valid, not through the error.
func (df *DataFrame) Get(column, row string) (Value, error) {
	v, err := df.redis.Get(df.ctx, keys.Gen(column, row)).Result()
	if errors.Is(err, redis.Nil) {
		return Value{}, nil
	}
	if err != nil {
		return Value{}, fmt.Errorf("reading cell (%q, %q): %w", column, row, err)
	}
	return Value{String: v, Valid: true}, nil
}

// mget fetches the named cell keys in one round trip and maps them back to
// their labels. Missing cells come back as invalid Values.
func (df *DataFrame) mget(labels, cellKeys []string) (map[string]Value, error) {
	out := make(map[string]Value, len(labels))
	if len(cellKeys) == 0 {
		return out, nil
	}
	raw, err := df.redis.MGet(df.ctx, cellKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("bulk read: %w", err)
	}
	for i, item := range raw {
		switch v := item.(type) {
		case nil:
			out[labels[i]] = Value{}
		case string:
			out[labels[i]] = Value{String: v, Valid: true}
		default:
			out[labels[i]] = Value{String: fmt.Sprint(v), Valid: true}
		}
	}
	return out, nil
}

// DumpRow returns one row keyed by column label, fetched with a single
// MGET. Every known column appears in the map; missing cells are invalid.
func (df *DataFrame) DumpRow(row string) (map[string]Value, error) {
	columns, err := df.Columns()
	if err != nil {
		return nil, err
	}
	cellKeys := make([]string, len(columns))
	for i, column := range columns {
		cellKeys[i] = keys.Gen(column, row)
	}
	return df.mget(columns, cellKeys)
}

// DumpColumn returns one column keyed by row label, fetched with a single
// MGET.
func (df *DataFrame) DumpColumn(column string) (map[string]Value, error) {
	rows, err := df.Rows()
	if err != nil {
		return nil, err
	}
	cellKeys := make([]string, len(rows))
	for i, row := range rows {
		cellKeys[i] = keys.Gen(column, row)
	}
	return df.mget(rows, cellKeys)
}

// Dump returns the whole table as dump[column][row], built from one bulk
// read per column.
func (df *DataFrame) Dump() (map[string]map[string]Value, error) {
	columns, err := df.Columns()
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]Value, len(columns))
	for _, column := range columns {
		contents, err := df.DumpColumn(column)
		if err != nil {
			return nil, err
		}
		out[column] = contents
	}
	return out, nil
}

// String renders the table as a tab-separated grid: a blank cell followed
// by the sorted column labels, then one line per sorted row with absent
// cells shown as "na".
func (df *DataFrame) String() string {
	s, err := df.render()
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}
	return s
}

func (df *DataFrame) render() (string, error) {
	columns, err := df.Columns()
	if err != nil {
		return "", err
	}
	rows, err := df.Rows()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(strings.Join(append([]string{""}, columns...), "\t"))
	for _, row := range rows {
		contents, err := df.DumpRow(row)
		if err != nil {
			return "", err
		}
		line := make([]string, 0, len(columns)+1)
		line = append(line, row)
		for _, column := range columns {
			line = append(line, cellText(contents[column]))
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(line, "\t"))
	}
	return b.String(), nil
}
