package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"roadboard/internal/log"
	"roadboard/roadmap"
)

type Result struct {
	Source Source
	Table  *roadmap.Table
	Notes  Notes
}

// Load reads source and builds the canonical table. Every failure is a
// *LoadError; malformed cells never fail the load and are counted in Notes.
func Load(ctx context.Context, source Source) (*Result, error) {
	format, err := source.ResolveFormat()
	if err != nil {
		return nil, &LoadError{Path: source.Path, Err: err}
	}

	if format != FormatSheets {
		if _, err := os.Stat(source.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &LoadError{Path: source.Path, Err: fmt.Errorf("%w: %w", ErrSourceNotFound, err)}
			}
			return nil, &LoadError{Path: source.Path, Err: err}
		}
	}

	reader, err := ReaderForFormat(format)
	if err != nil {
		return nil, &LoadError{Path: source.Path, Err: err}
	}
	raw, err := reader.Read(ctx, source)
	if err != nil {
		return nil, &LoadError{Path: source.Path, Err: err}
	}

	table, notes := buildTable(raw)
	return &Result{Source: source, Table: table, Notes: notes}, nil
}

// Cached reads its source at most once. The result, or the load error, is
// published only after it is fully built, so concurrent callers always see
// a complete table.
type Cached struct {
	source Source
	logger *log.Logger

	once   sync.Once
	result *Result
	err    error
}

func NewCached(source Source, logger *log.Logger) *Cached {
	if logger == nil {
		logger = log.Discard()
	}
	return &Cached{source: source, logger: logger.WithComponent("loader")}
}

func (c *Cached) Source() Source {
	return c.source
}

// Result returns the cached load result, loading it on first use.
func (c *Cached) Result(ctx context.Context) (*Result, error) {
	c.once.Do(func() {
		c.result, c.err = Load(ctx, c.source)
		if c.err != nil {
			c.logger.Error("load source failed", "path", c.source.Path, "error", c.err)
			return
		}
		c.logger.Info("source loaded", "path", c.source.Path, "records", c.result.Table.Len())
		if !c.result.Notes.Empty() {
			c.logger.Warn("degraded cells while loading",
				"unparsed_dates", c.result.Notes.UnparsedDates,
				"dropped_group_tokens", c.result.Notes.DroppedGroupTokens,
				"unparsed_times", c.result.Notes.UnparsedTimes,
			)
		}
	})
	return c.result, c.err
}

// Table returns the canonical table.
func (c *Cached) Table(ctx context.Context) (*roadmap.Table, error) {
	result, err := c.Result(ctx)
	if err != nil {
		return nil, err
	}
	return result.Table, nil
}
