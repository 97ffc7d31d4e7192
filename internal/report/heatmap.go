package report

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
)

const heatmapTitle = "CAUSE-WISE ACCIDENT CONTRIBUTION (%)"

// contributionGrid exposes contribution percentages as a plotter.GridXYZ.
// Columns are causes; rows are regions with the first region at the top.
type contributionGrid struct {
	profiles []domain.Profile
}

func (g contributionGrid) Dims() (c, r int) { return domain.NumCauses, len(g.profiles) }

func (g contributionGrid) Z(c, r int) float64 {
	return g.profile(r).Metrics.Causes[c].ContributionPct
}

func (g contributionGrid) X(c int) float64 { return float64(c) }
func (g contributionGrid) Y(r int) float64 { return float64(r) }

// profile maps a grid row (0 at the bottom) to a profile (0 at the top).
func (g contributionGrid) profile(r int) domain.Profile {
	return g.profiles[len(g.profiles)-1-r]
}

// Heatmap renders the contribution heatmap to a file.
type Heatmap struct {
	path   string
	logger *slog.Logger
}

// NewHeatmap creates a heatmap renderer writing to path. The image format
// follows the file extension (png, svg, pdf, jpg).
func NewHeatmap(path string, logger *slog.Logger) *Heatmap {
	return &Heatmap{path: path, logger: logger}
}

func (h *Heatmap) Name() string { return "heatmap" }

func (h *Heatmap) Load(_ context.Context, a *domain.Analysis) (int, error) {
	if len(a.Profiles) == 0 {
		return 0, fmt.Errorf("no regions to plot")
	}

	p, err := HeatmapPlot(a)
	if err != nil {
		return 0, err
	}
	if err := p.Save(10*vg.Inch, vg.Length(1.5+0.6*float64(len(a.Profiles)))*vg.Inch, h.path); err != nil {
		return 0, fmt.Errorf("save heatmap: %w", err)
	}

	h.logger.Info("heatmap written", "path", h.path)
	return len(a.Profiles), nil
}

// HeatmapPlot builds the contribution heatmap.
func HeatmapPlot(a *domain.Analysis) (*plot.Plot, error) {
	grid := contributionGrid{profiles: a.Profiles}

	hm := plotter.NewHeatMap(grid, newReds(9))
	hm.Min = 0
	hm.Max = 100

	p := plot.New()
	p.Title.Text = heatmapTitle
	p.Add(hm)

	xys, labels := gridLabels(grid)
	cellLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("heatmap labels: %w", err)
	}
	for i := range cellLabels.TextStyle {
		cellLabels.TextStyle[i].XAlign = draw.XCenter
		cellLabels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(cellLabels)

	causes := make([]string, domain.NumCauses)
	for i, info := range domain.Causes {
		causes[i] = info.Label
	}
	_, rows := grid.Dims()
	regions := make([]string, rows)
	for r := 0; r < rows; r++ {
		regions[r] = grid.profile(r).Name
	}
	p.NominalX(causes...)
	p.NominalY(regions...)

	return p, nil
}

// gridLabels places a one-decimal percentage at the centre of every cell,
// row by row from the bottom.
func gridLabels(grid contributionGrid) (plotter.XYs, []string) {
	cols, rows := grid.Dims()
	xys := make(plotter.XYs, 0, cols*rows)
	labels := make([]string, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			xys = append(xys, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			labels = append(labels, fmt.Sprintf("%.1f", grid.Z(c, r)))
		}
	}
	return xys, labels
}
