package dataset

import (
	"context"

	"github.com/go-hfdataset/hfdataset/pkg/tabular"
)

// RowStream is the lazy, restartable, finite row iterator described in
// spec §4.5. It owns its internal state exclusively; a new RowStream
// always starts at currentIndex 0 (spec §3's restart semantics — there
// is no cross-call resume).
//
// Known limitation (spec §9 Open Questions): remote CSV/JSONL files are
// not read lazily over HTTP. Each one is fetched whole into the local
// cache through the Repository before its first batch is sliced; the
// rows are then read from the cached file batch by batch. Only a remote
// Parquet file, with an Engine whose SupportsRemoteLazy reports true,
// is opened directly from its URL.
type RowStream struct {
	repo      Repository
	files     []filteredFile
	engine    tabular.Engine
	batchSize int
	total     int

	currentIndex  int
	hasTable      bool
	currentOffset int
	currentTable  tabular.Table
}

func newRowStream(repo Repository, files []filteredFile, engine tabular.Engine, batchSize int) *RowStream {
	return &RowStream{
		repo:      repo,
		files:     files,
		engine:    engine,
		batchSize: batchSize,
		total:     len(files),
	}
}

// Next advances the state machine by one pull (spec §4.5 transitions
// 1-6). The returned bool reports whether more rows may follow; when
// false, rows is always empty and the stream is terminal.
func (s *RowStream) Next(ctx context.Context) ([]tabular.Row, bool, error) {
	for {
		if s.currentIndex >= s.total {
			return nil, false, nil
		}

		if !s.hasTable {
			table, err := s.openCurrent(ctx)
			if err != nil {
				s.advanceFile()
				continue
			}
			s.currentTable = table
			s.hasTable = true
		}

		sliced, err := s.engine.Slice(ctx, s.currentTable, s.currentOffset, s.batchSize)
		if err != nil {
			return nil, false, newDecodeError(s.files[s.currentIndex].name, err)
		}
		rows, err := s.engine.ToRows(ctx, sliced)
		if err != nil {
			return nil, false, newDecodeError(s.files[s.currentIndex].name, err)
		}

		if len(rows) == 0 {
			s.advanceFile()
			continue
		}
		if len(rows) < s.batchSize {
			s.advanceFile()
			return rows, true, nil
		}

		s.currentOffset += s.batchSize
		return rows, true, nil
	}
}

func (s *RowStream) advanceFile() {
	s.currentIndex++
	s.hasTable = false
	s.currentOffset = 0
	s.currentTable = nil
}

// openCurrent opens the file at the current index lazily, dispatching
// on repository kind and extension per spec §4.5.1/§4.5.2.
func (s *RowStream) openCurrent(ctx context.Context) (tabular.Table, error) {
	f := s.files[s.currentIndex]

	switch repo := s.repo.(type) {
	case *RemoteRepository:
		if f.ext == "parquet" && s.engine.SupportsRemoteLazy(f.ext) {
			return s.engine.ReadParquet(ctx, repo.resolveURL(f.name), true)
		}
		path, err := repo.Download(ctx, f.name, f.etag)
		if err != nil {
			return nil, err
		}
		return openLocal(ctx, s.engine, path, f.ext)
	case *LocalRepository:
		path, err := repo.Download(ctx, f.name, f.etag)
		if err != nil {
			return nil, err
		}
		return openLocal(ctx, s.engine, path, f.ext)
	default:
		return nil, newArgumentError("dataset: unknown repository implementation %T", s.repo)
	}
}

func openLocal(ctx context.Context, engine tabular.Engine, path, ext string) (tabular.Table, error) {
	switch ext {
	case "csv":
		return engine.ReadCSV(ctx, path)
	case "jsonl":
		return engine.ReadJSONL(ctx, path)
	case "parquet":
		return engine.ReadParquet(ctx, path, true)
	default:
		return nil, &tabular.ErrUnsupportedFormat{Ext: ext}
	}
}
