package redpanda

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/redpanda-kv/redpanda/engine/keys"
)

// FromCSV wraps client as a fresh DataFrame and loads csvPath into it. It
// is the constructor form of (*DataFrame).FromCSV and carries the same
// flush-first behavior.
func FromCSV(client Client, csvPath string, readIndex, perRow bool) (*DataFrame, error) {
	df, err := Wrap(client)
	if err != nil {
		return nil, err
	}
	if err := df.FromCSV(csvPath, readIndex, perRow); err != nil {
		return nil, err
	}
	return df, nil
}

// ToCSV writes the table to csvPath as comma-separated values.
//
// The header lists the sorted column labels, preceded by a blank index
// header when writeIndex is set; each body record covers one sorted row,
// preceded by its label when writeIndex is set. perRow selects one bulk
// read per row (bounded memory, one round trip per row) over a single full
// Dump; both modes produce identical bytes. Absent cells are written as
// empty fields, so an empty-string cell value is indistinguishable from an
// absent one in the CSV form.
func (df *DataFrame) ToCSV(csvPath string, writeIndex, perRow bool) error {
	columns, err := df.Columns()
	if err != nil {
		return err
	}
	rows, err := df.Rows()
	if err != nil {
		return err
	}

	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", csvPath, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)

	header := columns
	if writeIndex {
		header = append([]string{""}, columns...)
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing %s: %w", csvPath, err)
	}

	record := func(row string, contents map[string]Value) []string {
		out := make([]string, 0, len(columns)+1)
		if writeIndex {
			out = append(out, row)
		}
		for _, column := range columns {
			// Value zero has String "", which is the absent-cell form.
			out = append(out, contents[column].String)
		}
		return out
	}

	if perRow {
		for _, row := range rows {
			contents, err := df.DumpRow(row)
			if err != nil {
				return err
			}
			if err := w.Write(record(row, contents)); err != nil {
				return fmt.Errorf("writing %s: %w", csvPath, err)
			}
		}
	} else {
		dump, err := df.Dump()
		if err != nil {
			return err
		}
		for _, row := range rows {
			contents := make(map[string]Value, len(columns))
			for _, column := range columns {
				contents[column] = dump[column][row]
			}
			if err := w.Write(record(row, contents)); err != nil {
				return fmt.Errorf("writing %s: %w", csvPath, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", csvPath, err)
	}
	return f.Close()
}

// FromCSV replaces the table content with the records in csvPath, flushing
// the selected Redis database first (the version marker is re-stamped).
//
// The first record is the header naming the columns. With readIndex the
// first field of every record is the row label; otherwise rows are labeled
// with a counter starting at "0". perRow selects one bulk write per record
// over a single bulk write accumulated across the whole file. Empty fields
// are skipped rather than written, so a cell absent at export time stays
// absent after import. Records whose field count disagrees with the header
// surface the csv package's field-count error; by then the database has
// already been flushed and partially rewritten.
func (df *DataFrame) FromCSV(csvPath string, readIndex, perRow bool) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", csvPath, err)
	}
	defer f.Close()
	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading %s header: %w", csvPath, err)
	}
	columns := header
	if readIndex {
		columns = header[1:]
	}
	for _, column := range columns {
		if !keys.Valid(column) {
			return fmt.Errorf("%w: column %q", ErrInvalidLabel, column)
		}
	}

	if err := df.redis.FlushDB(df.ctx).Err(); err != nil {
		return fmt.Errorf("flushing database: %w", err)
	}
	// The flush took the version marker with it.
	if err := df.redis.Set(df.ctx, keys.VersionKey, Version, 0).Err(); err != nil {
		return fmt.Errorf("writing version marker: %w", err)
	}

	// all accumulates every cell of the file in the all-at-once mode; the
	// per-row mode builds a fresh chunk per record instead.
	var all map[string]string
	if !perRow {
		all = make(map[string]string)
	}

	counter := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", csvPath, err)
		}

		var row string
		fields := record
		if readIndex {
			row = record[0]
			fields = record[1:]
		} else {
			row = strconv.Itoa(counter)
			counter++
		}
		if !keys.Valid(row) {
			return fmt.Errorf("%w: row %q", ErrInvalidLabel, row)
		}

		chunk := all
		if perRow {
			chunk = make(map[string]string, len(fields))
		}
		for i, value := range fields {
			if value == "" {
				// An empty field marks an absent cell.
				continue
			}
			chunk[keys.Gen(columns[i], row)] = value
		}
		if perRow && len(chunk) > 0 {
			if err := df.redis.MSet(df.ctx, chunk).Err(); err != nil {
				return fmt.Errorf("importing row %q: %w", row, err)
			}
		}

		if err := df.redis.SAdd(df.ctx, keys.RowsKey, row).Err(); err != nil {
			return fmt.Errorf("registering row %q: %w", row, err)
		}
	}

	if !perRow && len(all) > 0 {
		if err := df.redis.MSet(df.ctx, all).Err(); err != nil {
			return fmt.Errorf("importing %s: %w", csvPath, err)
		}
	}

	if len(columns) > 0 {
		members := make([]interface{}, len(columns))
		for i, column := range columns {
			members[i] = column
		}
		if err := df.redis.SAdd(df.ctx, keys.ColumnsKey, members...).Err(); err != nil {
			return fmt.Errorf("registering columns: %w", err)
		}
	}
	return nil
}
