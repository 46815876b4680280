// Package export writes computed aggregate grids to local CSV files. It is
// the filesystem stand-in for a cloud export target: each Export call is one
// job, identified by the file it produced.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/geovale/cmip6-index-engine/internal/analysis"
)

// CellRow is one defined cell of an exported aggregate grid.
type CellRow struct {
	X     int     `csv:"x"`
	Y     int     `csv:"y"`
	Value float64 `csv:"value"`
}

// CSVSink implements analysis.ExportSink on a local directory.
type CSVSink struct {
	dir    string
	logger *slog.Logger
}

// NewCSVSink creates a sink rooted at dir.
func NewCSVSink(dir string, logger *slog.Logger) *CSVSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSink{dir: dir, logger: logger}
}

// Export writes the aggregate's defined cells as CSV and returns the file
// path as the job identifier. No-data cells are omitted.
func (s *CSVSink) Export(ctx context.Context, req analysis.ExportRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	folder := filepath.Join(s.dir, req.Folder)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("export: create folder: %w", err)
	}

	g := req.Aggregate.Grid
	rows := make([]CellRow, 0, g.Size())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := g.At(x, y)
			if math.IsNaN(v) {
				continue
			}
			rows = append(rows, CellRow{X: x, Y: y, Value: v})
		}
	}

	path := filepath.Join(folder, req.Description+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create file: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(rows, f); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}

	s.logger.Debug("aggregate exported",
		"index", req.Aggregate.Index, "year", req.Year, "cells", len(rows), "path", path)
	return path, nil
}
