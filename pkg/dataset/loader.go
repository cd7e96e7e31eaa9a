package dataset

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/go-hfdataset/hfdataset/internal/logging"
	"github.com/go-hfdataset/hfdataset/pkg/tabular"
)

// LoadResult is the outcome of Load: either a set of materialized
// tables (in filtered-listing order) or a lazy RowStream, never both
// (spec §4.4 step 4/5).
type LoadResult struct {
	Tables    []tabular.Table
	Stream    *RowStream
	Streaming bool
}

// Loader orchestrates list -> filter -> fetch -> decode over a
// Repository, the top-level pipeline in spec §4.4.
type Loader struct {
	engine tabular.Engine
	logger logging.Interface
}

// NewLoader builds a Loader around a tabular.Engine. If engine is nil,
// tabular.NewDefaultEngine() is used.
func NewLoader(engine tabular.Engine) *Loader {
	if engine == nil {
		engine = tabular.NewDefaultEngine()
	}
	return &Loader{engine: engine, logger: logging.Nop()}
}

type filteredFile struct {
	name string
	etag *string
	ext  string
}

// Load runs the pipeline described in spec §4.4.
func (l *Loader) Load(ctx context.Context, repo Repository, opts LoadOptions) (*LoadResult, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	listing, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}

	listing = ByConfigAndSplit(listing, opts.Name, opts.Split)

	files := sortedFiltered(listing)

	if opts.Streaming {
		stream := newRowStream(repo, files, l.engine, opts.BatchSize)
		return &LoadResult{Stream: stream, Streaming: true}, nil
	}

	var recognized []filteredFile
	for _, f := range files {
		if RecognizedExtensions[f.ext] {
			recognized = append(recognized, f)
		}
	}

	paths, err := fetchAll(ctx, repo, recognized, opts.NumProc)
	if err != nil {
		return nil, err
	}

	tables, err := decodeAll(ctx, l.engine, paths, recognized, opts.NumProc)
	if err != nil {
		return nil, err
	}

	return &LoadResult{Tables: tables}, nil
}

// MustLoad is the strict variant of Load: it panics on error instead of
// returning one, the Go idiom for the spec's load! (spec §4.4, §7).
func (l *Loader) MustLoad(ctx context.Context, repo Repository, opts LoadOptions) *LoadResult {
	result, err := l.Load(ctx, repo, opts)
	if err != nil {
		panic(err)
	}
	return result
}

// sortedFiltered returns the listing's entries in a stable,
// deterministic order (lexicographic by filename), satisfying the
// Concurrency Output Equivalence property in spec §8.
func sortedFiltered(listing RepoListing) []filteredFile {
	files := make([]filteredFile, 0, len(listing))
	for name, etag := range listing {
		files = append(files, filteredFile{name: name, etag: etag, ext: extensionOf(name)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files
}

// fetchAll fetches every file in files through repo.Download with
// bounded concurrency, preserving input order in the result regardless
// of completion order (spec §4.4 step 5b, §5's ordering guarantee).
// Grounded on the errgroup.WithContext + SetLimit pattern in
// gcs/parallel.go; the first error cancels the group's context so
// already-dispatched fetches observe cancellation promptly.
func fetchAll(ctx context.Context, repo Repository, files []filteredFile, numProc int) ([]string, error) {
	paths := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numProc)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			path, err := repo.Download(gctx, f.name, f.etag)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// decodeAll decodes each fetched path with the same concurrency bound
// and ordering guarantee as fetchAll (spec §4.4 step 5c).
func decodeAll(ctx context.Context, engine tabular.Engine, paths []string, files []filteredFile, numProc int) ([]tabular.Table, error) {
	tables := make([]tabular.Table, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numProc)

	for i := range paths {
		i := i
		g.Go(func() error {
			table, err := decodeOne(gctx, engine, paths[i], files[i].ext)
			if err != nil {
				return newDecodeError(paths[i], err)
			}
			tables[i] = table
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// decodeOne opens path and forces full materialization: the
// non-streaming Load path promises fully-loaded in-memory tables, so
// every table it returns must report a real NumRows rather than a
// lazy reader's -1 (the streaming RowStream is the only consumer that
// wants a still-lazy table).
func decodeOne(ctx context.Context, engine tabular.Engine, path, ext string) (tabular.Table, error) {
	var (
		table tabular.Table
		err   error
	)
	switch ext {
	case "csv":
		table, err = engine.ReadCSV(ctx, path)
	case "jsonl":
		table, err = engine.ReadJSONL(ctx, path)
	case "parquet":
		table, err = engine.ReadParquet(ctx, path, false)
	default:
		return nil, &tabular.ErrUnsupportedFormat{Ext: ext}
	}
	if err != nil {
		return nil, err
	}
	return tabular.Collect(ctx, engine, table)
}
