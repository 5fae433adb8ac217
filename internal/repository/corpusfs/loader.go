// Package corpusfs loads the image corpus and the tag vocabulary from the filesystem.
package corpusfs

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/tagquery/internal/domain/corpus"
)

// progressEvery is the number of loaded entries between progress log lines.
const progressEvery = 50000

// Image list CSV columns.
const (
	colTitle   = 1
	colSource  = 4
	colNumber  = 5
	minColumns = colNumber + 1
)

// Config points the loader at the data files.
type Config struct {
	ImageList string
	TagDir    string
	Workers   int
}

// Loader reads the corpus from disk.
type Loader struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a loader. Workers <= 0 uses GOMAXPROCS.
func New(cfg Config, logger *zap.Logger) *Loader {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Loader{cfg: cfg, logger: logger}
}

type listRow struct {
	source string
	number string
}

// Load reads the image list and every tag file it references.
// Entries keep the order of the list; images without a tag file get a nil profile.
func (l *Loader) Load(ctx context.Context) (*corpus.Corpus, error) {
	start := time.Now()

	rows, titles, err := l.readImageList()
	if err != nil {
		return nil, err
	}

	entries := make([]corpus.Entry, len(rows))
	var loaded atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Workers)

	chunk := (len(rows) + l.cfg.Workers - 1) / l.cfg.Workers
	for lo := 0; lo < len(rows); lo += chunk {
		hi := min(lo+chunk, len(rows))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if i%1024 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				entries[i] = l.loadEntry(rows[i])
				if n := loaded.Add(1); n%progressEvery == 0 {
					l.logger.Info("Tag loading progress",
						zap.Int64("loaded", n),
						zap.Int("total", len(rows)),
					)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}

	c := corpus.New(entries, titles)
	l.logger.Info("Corpus loaded",
		zap.Int("entries", c.Len()),
		zap.Int("profiles", c.ProfileCount()),
		zap.Int("titles", len(titles)),
		zap.Duration("duration", time.Since(start)),
	)
	return c, nil
}

func (l *Loader) readImageList() ([]listRow, map[string]string, error) {
	f, err := os.Open(l.cfg.ImageList)
	if err != nil {
		return nil, nil, fmt.Errorf("open image list: %w", err)
	}
	defer f.Close()

	r := newCSVReader(f)
	var rows []listRow
	titles := make(map[string]string)
	skipped := 0

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read image list %s: %w", l.cfg.ImageList, err)
		}
		if len(rec) < minColumns || rec[colSource] == "" || rec[colNumber] == "" {
			skipped++
			continue
		}
		row := listRow{source: rec[colSource], number: rec[colNumber]}
		rows = append(rows, row)
		if title := rec[colTitle]; title != "" {
			if _, ok := titles[row.source]; !ok {
				titles[row.source] = title
			}
		}
	}

	if skipped > 0 {
		l.logger.Warn("Skipped malformed image list rows", zap.Int("rows", skipped))
	}
	return rows, titles, nil
}

func (l *Loader) loadEntry(row listRow) corpus.Entry {
	name := "image_" + row.number
	e := corpus.Entry{
		ID:     row.source + "/" + name + ".webp",
		Source: row.source,
	}

	p, err := ReadProfile(filepath.Join(l.cfg.TagDir, row.source, name))
	if err != nil {
		l.logger.Warn("Failed to read tag file", zap.String("image", e.ID), zap.Error(err))
		return e
	}
	e.Profile = p
	return e
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}
