package report

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
)

// RankingPrinter writes the hotspot ranking as an aligned table.
type RankingPrinter struct {
	out io.Writer
}

// NewRankingPrinter creates a RankingPrinter writing to out.
func NewRankingPrinter(out io.Writer) *RankingPrinter {
	return &RankingPrinter{out: out}
}

func (r *RankingPrinter) Name() string { return "ranking" }

func (r *RankingPrinter) Load(_ context.Context, a *domain.Analysis) (int, error) {
	if err := WriteRanking(r.out, a.Ranking); err != nil {
		return 0, fmt.Errorf("print ranking: %w", err)
	}
	return len(a.Ranking), nil
}

// WriteRanking prints the ranking with numbers rounded to two decimals.
func WriteRanking(w io.Writer, ranking []domain.RankEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		domain.FieldRegion, domain.FieldHotspotScore, domain.FieldRiskCategory, domain.FieldTotalAccidents)
	for _, e := range ranking {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%.2f\n", e.Region, e.HotspotScore, e.Category, e.TotalAccidents)
	}
	return tw.Flush()
}
