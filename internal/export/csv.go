package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
)

// FeatureFrame builds the feature table as a dataframe: the region column
// followed by FeatureColumns, one row per profile in dataset order.
//
// Feature values are held as shortest round-trip strings because gota's
// float series writes only six decimals.
func FeatureFrame(profiles []domain.Profile) dataframe.DataFrame {
	cols := FeatureColumns()

	names := make([]string, len(profiles))
	values := make([][]string, len(cols))
	for j := range values {
		values[j] = make([]string, len(profiles))
	}
	for i, p := range profiles {
		names[i] = p.Name
		for j, v := range FeatureRow(p) {
			values[j][i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}

	ss := make([]series.Series, 0, len(cols)+1)
	ss = append(ss, series.New(names, series.String, domain.FieldRegion))
	for j, col := range cols {
		ss = append(ss, series.New(values[j], series.String, col))
	}
	return dataframe.New(ss...)
}

// CSVWriter writes the feature table to a delimited file, replacing any
// previous file, and reports the saved file name on out.
type CSVWriter struct {
	path   string
	out    io.Writer
	logger *slog.Logger
}

// NewCSVWriter creates a CSVWriter.
func NewCSVWriter(path string, out io.Writer, logger *slog.Logger) *CSVWriter {
	return &CSVWriter{path: path, out: out, logger: logger}
}

func (w *CSVWriter) Name() string { return "csv" }

func (w *CSVWriter) Load(_ context.Context, a *domain.Analysis) (int, error) {
	df := FeatureFrame(a.Profiles)
	if df.Err != nil {
		return 0, fmt.Errorf("build feature table: %w", df.Err)
	}

	f, err := os.Create(w.path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", w.path, err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return 0, fmt.Errorf("write %s: %w", w.path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", w.path, err)
	}

	w.logger.Info("features exported", "path", w.path, "rows", df.Nrow())
	fmt.Fprintf(w.out, "%s saved\n", filepath.Base(w.path))
	return df.Nrow(), nil
}
