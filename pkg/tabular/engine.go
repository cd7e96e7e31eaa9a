// Package tabular is the adapter boundary between this module's core
// (listing, caching, filtering, loading, streaming) and whatever
// dataframe/tabular library actually decodes file bytes into rows. The
// core never imports a CSV/Parquet/JSONL library directly; it calls
// through the Engine interface defined here.
package tabular

import (
	"context"
	"fmt"
)

// Table is an opaque handle to a decoded or lazily-opened tabular
// resource. What's inside is entirely up to the Engine implementation;
// the core only ever calls Engine methods on it.
type Table interface {
	// NumRows reports the row count if known without materializing the
	// whole table, or -1 if unknown (e.g. an unopened lazy parquet
	// reader before its first slice).
	NumRows() int
}

// Row is a single decoded record.
type Row = map[string]interface{}

// Engine is the contract the core depends on (spec §4.8). A default,
// stdlib-backed implementation is provided by NewDefaultEngine; callers
// needing real Parquet support link in their own Engine.
type Engine interface {
	ReadCSV(ctx context.Context, path string) (Table, error)
	ReadJSONL(ctx context.Context, path string) (Table, error)
	// ReadParquet opens path (a local path or an HTTP URL) either
	// eagerly or lazily depending on lazy. Lazy readers must support
	// Slice without materializing the whole file.
	ReadParquet(ctx context.Context, path string, lazy bool) (Table, error)

	// Slice returns length rows starting at offset, forcing collection
	// if the table is lazy.
	Slice(ctx context.Context, t Table, offset, length int) (Table, error)
	// ToRows materializes a table's rows in decoder-natural order.
	ToRows(ctx context.Context, t Table) ([]Row, error)

	// SupportsLazy reports whether this engine can open files of the
	// given lowercased extension lazily when the source is local.
	SupportsLazy(ext string) bool
	// SupportsRemoteLazy reports whether lazy opening also works when
	// the source is an HTTP URL rather than a local path (spec §4.5.2:
	// only Parquet supports this in practice).
	SupportsRemoteLazy(ext string) bool
}

// Collect forces full materialization of t through engine.ToRows and
// returns a table that reports a real NumRows, regardless of whether t
// was opened lazily. Callers that promise fully-loaded in-memory
// tables (the Loader's non-streaming path) should run every table
// through Collect before handing it to a caller.
func Collect(ctx context.Context, engine Engine, t Table) (Table, error) {
	rows, err := engine.ToRows(ctx, t)
	if err != nil {
		return nil, err
	}
	return &memTable{rows: rows}, nil
}

// ErrUnsupportedFormat is returned by an Engine for an extension it
// cannot decode.
type ErrUnsupportedFormat struct {
	Ext string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("tabular: unsupported format %q", e.Ext)
}

// ErrNotImplemented is returned by the default engine's ReadParquet: no
// Parquet/Arrow library exists anywhere in this module's dependency
// corpus, so the default engine only implements CSV and JSONL (see
// DESIGN.md). Callers who need Parquet supply their own Engine.
type ErrNotImplemented struct {
	Operation string
}

func (e *ErrNotImplemented) Error() string {
	return fmt.Sprintf("tabular: %s not implemented by the default engine", e.Operation)
}
