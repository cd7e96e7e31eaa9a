package tabular

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// memTable is a fully materialized, in-memory table. ReadCSV/ReadJSONL
// never produce one (they always return a lazyFileTable); Slice always
// returns one (per spec §4.8: "Slice... forces collection if lazy"),
// and so does Collect.
type memTable struct {
	rows []Row
}

func (t *memTable) NumRows() int { return len(t.rows) }

// lazyFileTable is a forward-only cursor over a local CSV or JSONL
// file. It only ever reads as far forward as it has been asked to
// slice, which is what makes the default engine's local-file path
// bounded-memory: spec §4.5 never asks for anything but strictly
// increasing offsets within one file.
type lazyFileTable struct {
	path   string
	format string // "csv" or "jsonl"

	f      *os.File
	reader interface {
		next() (Row, error) // io.EOF when exhausted
	}
	cursor int
}

func (t *lazyFileTable) NumRows() int { return -1 }

func (t *lazyFileTable) close() {
	if t.f != nil {
		_ = t.f.Close()
	}
}

type csvRowReader struct {
	cr     *csv.Reader
	header []string
}

func (r *csvRowReader) next() (Row, error) {
	record, err := r.cr.Read()
	if err != nil {
		return nil, err
	}
	row := make(Row, len(r.header))
	for i, h := range r.header {
		if i < len(record) {
			row[h] = record[i]
		}
	}
	return row, nil
}

type jsonlRowReader struct {
	scanner *bufio.Scanner
}

func (r *jsonlRowReader) next() (Row, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		var row Row
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, fmt.Errorf("tabular: decoding jsonl line: %w", err)
		}
		return row, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// defaultEngine implements Engine using only the standard library.
// There is no Parquet/Arrow library anywhere in this module's
// dependency corpus (see DESIGN.md), so ReadParquet is unimplemented
// here; callers needing it provide their own Engine.
type defaultEngine struct{}

// NewDefaultEngine returns the stdlib-backed Engine used when no other
// Engine is configured.
func NewDefaultEngine() Engine {
	return defaultEngine{}
}

func (defaultEngine) ReadCSV(ctx context.Context, path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return &lazyFileTable{path: path, format: "csv", f: f, reader: &csvRowReader{cr: cr, header: nil}}, nil
		}
		return nil, fmt.Errorf("tabular: reading csv header: %w", err)
	}

	return &lazyFileTable{
		path:   path,
		format: "csv",
		f:      f,
		reader: &csvRowReader{cr: cr, header: header},
	}, nil
}

func (defaultEngine) ReadJSONL(ctx context.Context, path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return &lazyFileTable{
		path:   path,
		format: "jsonl",
		f:      f,
		reader: &jsonlRowReader{scanner: scanner},
	}, nil
}

func (defaultEngine) ReadParquet(ctx context.Context, path string, lazy bool) (Table, error) {
	return nil, &ErrNotImplemented{Operation: "ReadParquet"}
}

func (defaultEngine) Slice(ctx context.Context, t Table, offset, length int) (Table, error) {
	switch table := t.(type) {
	case *memTable:
		end := offset + length
		if end > len(table.rows) {
			end = len(table.rows)
		}
		if offset > len(table.rows) {
			offset = len(table.rows)
		}
		return &memTable{rows: append([]Row{}, table.rows[offset:end]...)}, nil
	case *lazyFileTable:
		if offset < table.cursor {
			return nil, fmt.Errorf("tabular: lazy table only supports forward slicing (cursor=%d, requested offset=%d)", table.cursor, offset)
		}
		// Skip forward to offset.
		for table.cursor < offset {
			if _, err := table.reader.next(); err != nil {
				if err == io.EOF {
					table.close()
					return &memTable{rows: nil}, nil
				}
				return nil, err
			}
			table.cursor++
		}

		rows := make([]Row, 0, length)
		exhausted := false
		for len(rows) < length {
			row, err := table.reader.next()
			if err != nil {
				if err == io.EOF {
					exhausted = true
					break
				}
				return nil, err
			}
			rows = append(rows, row)
			table.cursor++
		}
		if exhausted {
			table.close()
		}
		return &memTable{rows: rows}, nil
	default:
		return nil, fmt.Errorf("tabular: unknown table type %T", t)
	}
}

func (defaultEngine) ToRows(ctx context.Context, t Table) ([]Row, error) {
	switch table := t.(type) {
	case *memTable:
		return table.rows, nil
	case *lazyFileTable:
		var rows []Row
		for {
			row, err := table.reader.next()
			if err != nil {
				if err == io.EOF {
					table.close()
					break
				}
				return nil, err
			}
			rows = append(rows, row)
			table.cursor++
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("tabular: unknown table type %T", t)
	}
}

func (defaultEngine) SupportsLazy(ext string) bool {
	switch ext {
	case "csv", "jsonl":
		return true
	default:
		return false
	}
}

func (defaultEngine) SupportsRemoteLazy(ext string) bool {
	// The default engine has no Parquet support, and spec §4.5.2 notes
	// that in practice only Parquet supports HTTP range-based lazy
	// reading, so this is always false here.
	return false
}
