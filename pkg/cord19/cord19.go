// Package cord19 builds the articles database from a raw CORD-19 style
// corpus: a metadata table plus one JSON body text file per paper.
package cord19

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/cord19/internal/logger"
	"github.com/cognicore/cord19/internal/metadata"
	"github.com/cognicore/cord19/pkg/cord19/ingest"
	"github.com/cognicore/cord19/pkg/cord19/internalerr"
	"github.com/cognicore/cord19/pkg/cord19/store"
	"github.com/cognicore/cord19/pkg/cord19/store/sqlite"
)

// DefaultProgressEvery is how many articles pass between progress lines.
const DefaultProgressEvery = 1000

// DoiResolver prefixes a DOI to build the article reference link.
const DoiResolver = "https://doi.org/"

// WriterFactory creates the output store at path.
type WriterFactory func(ctx context.Context, path string) (store.Writer, error)

// Options configures a Builder
type Options struct {
	InputDir string
	// OutputDir defaults to DefaultOutputDir().
	OutputDir string
	Tagger    *ingest.Tagger
	Extractor *ingest.Extractor
	Logger    logger.Logger
	// ProgressEvery defaults to DefaultProgressEvery.
	ProgressEvery int
	// FirstSectionID is the id given to the first section of the run.
	FirstSectionID int64
	// NewWriter defaults to sqlite.Create.
	NewWriter WriterFactory
}

// Builder runs the transformation from input directory to database.
type Builder struct {
	opts    Options
	entropy *ulid.MonotonicEntropy
}

// Result summarizes a finished run.
type Result struct {
	RunID          string
	Path           string
	Articles       int64
	Sections       int64
	Skipped        int
	RowErrors      int
	DocumentErrors int
}

// run holds the state owned by a single Run call.
type run struct {
	log    logger.Logger
	writer store.Writer
	seen   ingest.GeneratedIDs

	articles    int64
	sections    int64
	nextSection int64

	skipped        int
	rowErrors      int
	documentErrors int
}

// New creates a Builder with the given dependencies
func New(opts Options) *Builder {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Tagger == nil {
		opts.Tagger = ingest.NewDefaultTagger()
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	if opts.NewWriter == nil {
		opts.NewWriter = func(ctx context.Context, path string) (store.Writer, error) {
			return sqlite.Create(ctx, path)
		}
	}
	return &Builder{
		opts:    opts,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// DefaultOutputDir returns ~/.cord19/models.
func DefaultOutputDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".cord19", "models"), nil
}

// Run reads the metadata table in order and writes every article and its
// sections. Row level failures are logged and counted; the run commits
// once at the end.
func (b *Builder) Run(ctx context.Context) (Result, error) {
	runID := ulid.MustNew(ulid.Now(), b.entropy).String()
	log := b.opts.Logger.With(logger.String("run_id", runID))

	if b.opts.Extractor == nil {
		return Result{}, fmt.Errorf("%w: extractor is required", internalerr.ErrInvalidConfig)
	}

	info, err := os.Stat(b.opts.InputDir)
	if err != nil {
		return Result{}, fmt.Errorf("%w: input directory %s: %v", internalerr.ErrInputMissing, b.opts.InputDir, err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("%w: %s is not a directory", internalerr.ErrInputMissing, b.opts.InputDir)
	}

	rows, err := metadata.Open(filepath.Join(b.opts.InputDir, metadata.FileName))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", internalerr.ErrInputMissing, err)
	}
	defer rows.Close()

	outputDir := b.opts.OutputDir
	if outputDir == "" {
		if outputDir, err = DefaultOutputDir(); err != nil {
			return Result{}, err
		}
	}
	path := filepath.Join(outputDir, sqlite.FileName)

	log.Info("Building articles.sqlite", logger.String("input", b.opts.InputDir), logger.String("output", path))

	writer, err := b.opts.NewWriter(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("initialize output store: %w", err)
	}
	defer writer.Close()

	r := &run{
		log:         log,
		writer:      writer,
		seen:        ingest.NewGeneratedIDs(),
		nextSection: b.opts.FirstSectionID,
	}

	for {
		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return r.result(runID, path), fmt.Errorf("read metadata: %w", err)
		}
		b.process(ctx, r, row)
	}

	log.Info(fmt.Sprintf("Total articles inserted: %d", r.articles),
		logger.Int64("articles", r.articles),
		logger.Int64("sections", r.sections),
		logger.Int("skipped", r.skipped),
		logger.Int("row_errors", r.rowErrors),
		logger.Int("document_errors", r.documentErrors))

	if err := writer.Commit(); err != nil {
		return r.result(runID, path), err
	}
	return r.result(runID, path), nil
}

// process writes one metadata row: the article followed by its sections.
func (b *Builder) process(ctx context.Context, r *run, row metadata.Row) {
	res, err := ingest.ResolveIDs(row.SHA, row.Title, r.seen)
	if err != nil {
		// Only a repeated generated id gets here; the row is dropped.
		r.skipped++
		return
	}
	uid := res.Canonical()

	var published any
	if t, ok := ingest.ParseDate(row.PublishTime); ok {
		published = t.Format(ingest.PublishedLayout)
	}

	extraction := b.opts.Extractor.Extract(res.Explicit(), row.FullTextFile)
	for _, failure := range extraction.Failures {
		r.documentErrors++
		r.log.Warn("Error processing text file", logger.String("path", failure.Path), logger.Err(failure.Err))
	}
	sections := ingest.Sections(row.Title, extraction.Sections)

	var tags any
	if tag, ok := b.opts.Tagger.Tag(sections); ok {
		tags = tag
	}

	var reference any
	if row.DOI != "" {
		reference = DoiResolver + row.DOI
	}

	article := []any{uid, row.Source, published, row.Journal, row.Authors, row.Title, tags, reference}
	r.insert(ctx, store.Articles, article)

	r.articles++
	if r.articles%int64(b.opts.ProgressEvery) == 0 {
		r.log.Info(fmt.Sprintf("Inserted %d articles", r.articles), logger.Int64("articles", r.articles))
	}

	for _, text := range sections {
		if r.insert(ctx, store.Sections, []any{r.nextSection, uid, text, tags}) {
			r.sections++
		}
		r.nextSection++
	}
}

// insert writes a row and logs the failure, if any. It reports success.
func (r *run) insert(ctx context.Context, table store.Table, row []any) bool {
	if err := r.writer.Insert(ctx, table, row); err != nil {
		r.rowErrors++
		r.log.Error("Error inserting row", logger.String("table", table.Name), logger.Any("row", row), logger.Err(err))
		return false
	}
	return true
}

func (r *run) result(runID, path string) Result {
	return Result{
		RunID:          runID,
		Path:           path,
		Articles:       r.articles,
		Sections:       r.sections,
		Skipped:        r.skipped,
		RowErrors:      r.rowErrors,
		DocumentErrors: r.documentErrors,
	}
}
