// Package dataset embeds the cause-wise accident table and parses it into
// region records.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
)

//go:embed accidents.csv
var embedded []byte

// Load parses the embedded table.
func Load() ([]domain.Region, error) {
	return Parse(bytes.NewReader(embedded))
}

// Parse reads a cause-wise accident table. Every column except the region
// identifier is read as a float; empty or unparsable cells become 0. The
// identifier and the six accident-count columns are required; other measure
// columns default to 0 when absent.
func Parse(r io.Reader) ([]domain.Region, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(map[string]series.Type{
			domain.FieldRegion: series.String,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read dataset: %w", df.Err)
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	if err := requireColumns(present); err != nil {
		return nil, err
	}

	names := df.Col(domain.FieldRegion).Records()
	regions := make([]domain.Region, len(names))
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("dataset row %d: empty %s", i+1, domain.FieldRegion)
		}
		if seen[name] {
			return nil, fmt.Errorf("dataset row %d: duplicate region %q", i+1, name)
		}
		seen[name] = true
		regions[i].Name = name
	}

	for _, info := range domain.Causes {
		cols := info.Columns
		accidents := floats(df, present, cols.Accidents)
		killed := floats(df, present, cols.Killed)
		grievous := floats(df, present, cols.GrievouslyInjured)
		minor := floats(df, present, cols.MinorInjury)
		injured := floats(df, present, cols.TotalInjured)

		for i := range regions {
			regions[i].Causes[info.Cause] = domain.CauseStats{
				Accidents:         accidents[i],
				Killed:            killed[i],
				GrievouslyInjured: grievous[i],
				MinorInjury:       minor[i],
				TotalInjured:      injured[i],
			}
		}
	}

	return regions, nil
}

func requireColumns(present map[string]bool) error {
	var missing []string
	if !present[domain.FieldRegion] {
		missing = append(missing, domain.FieldRegion)
	}
	for _, info := range domain.Causes {
		if !present[info.Columns.Accidents] {
			missing = append(missing, info.Columns.Accidents)
		}
	}
	if len(missing) > 0 {
		return errors.New("dataset missing columns: " + strings.Join(missing, ", "))
	}
	return nil
}

// floats returns the named column as floats with NaN replaced by 0, or all
// zeros when the column is absent.
func floats(df dataframe.DataFrame, present map[string]bool, name string) []float64 {
	out := make([]float64, df.Nrow())
	if !present[name] {
		return out
	}
	for i, v := range df.Col(name).Float() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = v
	}
	return out
}

// Source implements pipeline.Extractor over the embedded table.
type Source struct{}

func (Source) Extract(_ context.Context) ([]domain.Region, error) {
	return Load()
}
