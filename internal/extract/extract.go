// Package extract runs the read, parse and aggregate pipeline over feature
// files, one worker per file.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/chriserin/reqtrace/internal/coverage"
	"github.com/chriserin/reqtrace/internal/parser"
	"github.com/chriserin/reqtrace/internal/source"
)

// Result is the outcome for one file. Err is set when the file could not be
// read or is not valid Gherkin; Document and Records are then empty.
type Result struct {
	Path     string
	Document *parser.Document
	Records  []coverage.Record
	Err      error
}

// Extractor turns feature files into coverage records.
type Extractor struct {
	reader  source.LineReader
	log     *slog.Logger
	workers int
}

// New returns an Extractor. workers <= 0 means one worker per CPU.
func New(reader source.LineReader, log *slog.Logger, workers int) *Extractor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{reader: reader, log: log, workers: workers}
}

// File extracts the records of one file.
func (e *Extractor) File(path string) (Result, error) {
	res := Result{Path: path}

	lines, err := e.reader.ReadLines(path)
	if err != nil {
		res.Err = err
		return res, err
	}

	doc, err := parser.Parse(lines)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res, res.Err
	}

	res.Document = doc
	res.Records = coverage.Aggregate(path, doc)
	return res, nil
}

// Run extracts every path concurrently. Results keep the order of paths. A
// failing file does not stop the others; the returned error joins all file
// errors. onDone, if set, is called once per finished file and may be called
// from several goroutines at once.
func (e *Extractor) Run(ctx context.Context, paths []string, onDone func(Result)) ([]Result, error) {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Path: path, Err: err}
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return err
			}
			log := e.log.With("file", path)
			res, err := e.File(path)
			if err != nil {
				log.Warn("extraction failed", "error", err)
			} else {
				log.Debug("extracted", "records", len(res.Records))
			}
			results[i] = res
			if onDone != nil {
				onDone(res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}

// Records flattens the records of all successful results.
func Records(results []Result) []coverage.Record {
	var out []coverage.Record
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Records...)
		}
	}
	return out
}
