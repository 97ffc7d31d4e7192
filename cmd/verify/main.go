// Command verify checks an exported feature table: its shape, column names,
// value ranges, contribution sums, and agreement with a fresh derivation of
// the embedded dataset.
//
// Usage:
//
//	go run ./cmd/verify -features accident_cause_hotspots_features.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/road-accident-hotspots/internal/dataset"
	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
	"github.com/couchcryptid/road-accident-hotspots/internal/export"
)

// tolerance allows for float summation error; the export writes
// shortest round-trip values.
const tolerance = 1e-9

// phase tracks pass/fail for a verification phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	features := flag.String("features", "accident_cause_hotspots_features.csv", "path to the exported feature CSV")
	reference := flag.Bool("reference", true, "compare values against the embedded dataset")
	flag.Parse()

	os.Exit(run(*features, *reference, os.Stdout))
}

func run(path string, reference bool, out io.Writer) int {
	fmt.Fprintln(out, "=== Feature Table Verification ===")
	fmt.Fprintln(out)

	df, err := loadFeatures(path)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		verifyColumns(df),
		verifyRows(df),
		verifyValues(df),
		verifyContributions(df),
	}
	if reference {
		phases = append(phases, verifyReference(df))
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-32s %s\n", p.name, status)
	}
	fmt.Fprintf(out, "\nRows: %d, columns: %d\n", df.Nrow(), df.Ncol())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll checks passed.")
		return 0
	}
	fmt.Fprintln(out, "\nVerification FAILED.")
	return 1
}

func loadFeatures(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open features: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(map[string]series.Type{domain.FieldRegion: series.String}),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read features: %w", df.Err)
	}
	return df, nil
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// verifyColumns checks the identifier column, the expected feature columns
// in order, and that the risk category stays out of the export.
func verifyColumns(df dataframe.DataFrame) *phase {
	p := &phase{name: "Columns"}
	names := df.Names()
	want := append([]string{domain.FieldRegion}, export.FeatureColumns()...)

	if len(names) != len(want) {
		p.errorf("got %d columns, want %d", len(names), len(want))
	}
	for i := 0; i < len(names) && i < len(want); i++ {
		if names[i] != want[i] {
			p.errorf("column %d: got %q, want %q", i, names[i], want[i])
		}
	}
	for _, fragment := range []string{"_contribution_pct", "_fatality_rate", "_injury_rate"} {
		n := 0
		for _, name := range names {
			if strings.HasSuffix(name, fragment) {
				n++
			}
		}
		if n != domain.NumCauses {
			p.errorf("%d columns ending in %q, want %d", n, fragment, domain.NumCauses)
		}
	}
	if hasColumn(df, domain.FieldRiskCategory) {
		p.errorf("unexpected column %q", domain.FieldRiskCategory)
	}
	return p
}

// verifyRows checks that every row has a unique, non-empty region.
func verifyRows(df dataframe.DataFrame) *phase {
	p := &phase{name: "Rows"}
	if df.Nrow() == 0 {
		p.errorf("no rows")
		return p
	}
	if !hasColumn(df, domain.FieldRegion) {
		p.errorf("missing %q column", domain.FieldRegion)
		return p
	}
	seen := make(map[string]bool, df.Nrow())
	for i, name := range df.Col(domain.FieldRegion).Records() {
		switch {
		case strings.TrimSpace(name) == "":
			p.errorf("row %d: empty region", i+1)
		case seen[name]:
			p.errorf("row %d: duplicate region %q", i+1, name)
		}
		seen[name] = true
	}
	return p
}

// verifyValues checks every feature is finite and non-negative.
func verifyValues(df dataframe.DataFrame) *phase {
	p := &phase{name: "Values finite and non-negative"}
	regions := regionNames(df)
	for _, col := range export.FeatureColumns() {
		if !hasColumn(df, col) {
			continue
		}
		for i, v := range df.Col(col).Float() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				p.errorf("%s %s: not finite", regions[i], col)
			} else if v < 0 {
				p.errorf("%s %s: negative (%g)", regions[i], col, v)
			}
		}
	}
	return p
}

// verifyContributions checks each region's contribution percentages sum to
// 100, or are all zero for a region without accidents.
func verifyContributions(df dataframe.DataFrame) *phase {
	p := &phase{name: "Contribution sums"}
	regions := regionNames(df)
	sums := make([]float64, df.Nrow())
	for _, info := range domain.Causes {
		col := info.Cause.ContributionPctField()
		if !hasColumn(df, col) {
			p.errorf("missing %q", col)
			return p
		}
		for i, v := range df.Col(col).Float() {
			sums[i] += v
		}
	}
	for i, sum := range sums {
		if math.Abs(sum) > tolerance && math.Abs(sum-100) > tolerance*domain.NumCauses {
			p.errorf("%s: contributions sum to %.6f", regions[i], sum)
		}
	}
	return p
}

// verifyReference re-derives the embedded dataset and compares every value.
func verifyReference(df dataframe.DataFrame) *phase {
	p := &phase{name: "Matches embedded dataset"}
	regions, err := dataset.Load()
	if err != nil {
		p.errorf("load dataset: %v", err)
		return p
	}
	profiles := domain.DeriveAll(regions)
	if df.Nrow() != len(profiles) {
		p.errorf("got %d rows, dataset has %d regions", df.Nrow(), len(profiles))
	}

	names := regionNames(df)
	row := make(map[string]int, len(names))
	for i, n := range names {
		row[n] = i
	}
	cols := export.FeatureColumns()
	for _, prof := range profiles {
		i, ok := row[prof.Name]
		if !ok {
			p.errorf("region %q missing", prof.Name)
			continue
		}
		for j, want := range export.FeatureRow(prof) {
			if !hasColumn(df, cols[j]) {
				continue
			}
			got := df.Col(cols[j]).Elem(i).Float()
			if math.Abs(got-want) > tolerance {
				p.errorf("%s %s: got %g, want %g", prof.Name, cols[j], got, want)
			}
		}
	}
	return p
}

func regionNames(df dataframe.DataFrame) []string {
	if !hasColumn(df, domain.FieldRegion) {
		return make([]string, df.Nrow())
	}
	return df.Col(domain.FieldRegion).Records()
}
