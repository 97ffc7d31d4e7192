package report

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
)

const (
	dashboardTitle  = "ACCIDENT CAUSE HOTSPOT ANALYSIS DASHBOARD"
	dashboardWidth  = 16 * vg.Inch
	dashboardHeight = 11 * vg.Inch

	radarRings = 4
	pieSteps   = 90
)

// Dashboard renders the 2×2 composite report to a PNG file.
type Dashboard struct {
	path   string
	logger *slog.Logger
}

// NewDashboard creates a dashboard renderer writing to path.
func NewDashboard(path string, logger *slog.Logger) *Dashboard {
	return &Dashboard{path: path, logger: logger}
}

func (d *Dashboard) Name() string { return "dashboard" }

func (d *Dashboard) Load(_ context.Context, a *domain.Analysis) (int, error) {
	if len(a.Profiles) == 0 {
		return 0, fmt.Errorf("no regions to plot")
	}

	panels, err := DashboardPanels(a)
	if err != nil {
		return 0, err
	}

	img := vgimg.New(dashboardWidth, dashboardHeight)
	dc := draw.New(img)
	drawTitle(dc, panels[0][0].Title.TextStyle)

	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      vg.Millimeter * 10,
		PadY:      vg.Millimeter * 10,
		PadTop:    vg.Millimeter * 14,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}
	canvases := plot.Align(panels, tiles, dc)
	for j := range panels {
		for i := range panels[j] {
			panels[j][i].Draw(canvases[j][i])
		}
	}

	f, err := os.Create(d.path)
	if err != nil {
		return 0, fmt.Errorf("create dashboard: %w", err)
	}
	defer f.Close()

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return 0, fmt.Errorf("write dashboard: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close dashboard: %w", err)
	}

	d.logger.Info("dashboard written", "path", d.path)
	return len(a.Profiles), nil
}

func drawTitle(dc draw.Canvas, sty text.Style) {
	sty.Font.Size = vg.Points(20)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YTop
	pt := vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - vg.Millimeter*3}
	dc.FillText(sty, pt, dashboardTitle)
}

// DashboardPanels builds the four dashboard panels in row-major order:
// hotspot scores, focus radar, fatality comparison, category share.
func DashboardPanels(a *domain.Analysis) ([][]*plot.Plot, error) {
	hotspot, err := hotspotPanel(a)
	if err != nil {
		return nil, err
	}
	radar, err := radarPanel(a)
	if err != nil {
		return nil, err
	}
	fatality, err := fatalityPanel(a)
	if err != nil {
		return nil, err
	}
	share, err := categoryPanel(a)
	if err != nil {
		return nil, err
	}
	return [][]*plot.Plot{
		{hotspot, radar},
		{fatality, share},
	}, nil
}

func regionNames(a *domain.Analysis) []string {
	names := make([]string, len(a.Profiles))
	for i, prof := range a.Profiles {
		names[i] = prof.Name
	}
	return names
}

// hotspotPanel draws one bar per region, shaded by its score.
func hotspotPanel(a *domain.Analysis) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Hotspot Score"
	p.Y.Label.Text = "hotspot_score"

	maxScore := 0.0
	for _, prof := range a.Profiles {
		maxScore = math.Max(maxScore, prof.Metrics.HotspotScore)
	}
	shades := newReds(9)

	xys := make(plotter.XYs, len(a.Profiles))
	labels := make([]string, len(a.Profiles))
	for i, prof := range a.Profiles {
		score := prof.Metrics.HotspotScore
		bar, err := plotter.NewBarChart(plotter.Values{score}, vg.Points(28))
		if err != nil {
			return nil, fmt.Errorf("hotspot bar %s: %w", prof.Name, err)
		}
		bar.XMin = float64(i)
		bar.Color = shades.shade(score, maxScore)
		bar.LineStyle.Width = vg.Length(0)
		p.Add(bar)

		xys[i] = plotter.XY{X: float64(i), Y: score + maxScore*0.02}
		labels[i] = fmt.Sprintf("%.0f", score)
	}

	values, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("hotspot labels: %w", err)
	}
	for i := range values.TextStyle {
		values.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(values)

	p.NominalX(regionNames(a)...)
	p.Y.Min = 0
	if maxScore > 0 {
		p.Y.Max = maxScore * 1.15
	}
	p.Add(plotter.NewGrid())
	return p, nil
}

// radarVertex returns the position of spoke i of n at radius r. Spoke 0
// points straight up and spokes advance clockwise.
func radarVertex(i, n int, r float64) plotter.XY {
	theta := math.Pi/2 - 2*math.Pi*float64(i)/float64(n)
	return plotter.XY{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// radarPanel draws the focus region's accidents per cause, scaled to the
// largest cause. A missing focus region leaves only the frame.
func radarPanel(a *domain.Analysis) (*plot.Plot, error) {
	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = -1.5, 1.5
	p.Y.Min, p.Y.Max = -1.3, 1.3

	prof, found := a.Profile(a.FocusRegion)
	if found {
		p.Title.Text = fmt.Sprintf("%s Cause Profile", a.FocusRegion)
	} else {
		p.Title.Text = fmt.Sprintf("%s Cause Profile (no data)", a.FocusRegion)
	}

	grey := color.NRGBA{R: 190, G: 190, B: 190, A: 255}
	for ring := 1; ring <= radarRings; ring++ {
		r := float64(ring) / radarRings
		pts := make(plotter.XYs, domain.NumCauses)
		for i := range pts {
			pts[i] = radarVertex(i, domain.NumCauses, r)
		}
		outline, err := plotter.NewPolygon(pts)
		if err != nil {
			return nil, fmt.Errorf("radar ring: %w", err)
		}
		outline.Color = nil
		outline.LineStyle.Color = grey
		p.Add(outline)
	}

	spokeEnds := make(plotter.XYs, domain.NumCauses)
	axisLabels := make([]string, domain.NumCauses)
	for i, info := range domain.Causes {
		end := radarVertex(i, domain.NumCauses, 1)
		spoke, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, end})
		if err != nil {
			return nil, fmt.Errorf("radar spoke: %w", err)
		}
		spoke.LineStyle.Color = grey
		p.Add(spoke)

		spokeEnds[i] = radarVertex(i, domain.NumCauses, 1.15)
		axisLabels[i] = info.Label
		if found {
			axisLabels[i] = fmt.Sprintf("%s (%.0f)", info.Label, prof.Causes[i].Accidents)
		}
	}
	names, err := plotter.NewLabels(plotter.XYLabels{XYs: spokeEnds, Labels: axisLabels})
	if err != nil {
		return nil, fmt.Errorf("radar labels: %w", err)
	}
	for i := range names.TextStyle {
		names.TextStyle[i].XAlign = draw.XCenter
		names.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(names)

	if !found {
		return p, nil
	}

	maxAccidents := 0.0
	for _, cs := range prof.Causes {
		maxAccidents = math.Max(maxAccidents, cs.Accidents)
	}
	pts := make(plotter.XYs, domain.NumCauses)
	for i, cs := range prof.Causes {
		r := 0.0
		if maxAccidents > 0 {
			r = cs.Accidents / maxAccidents
		}
		pts[i] = radarVertex(i, domain.NumCauses, r)
	}
	area, err := plotter.NewPolygon(pts)
	if err != nil {
		return nil, fmt.Errorf("radar area: %w", err)
	}
	area.Color = color.NRGBA{R: 198, G: 40, B: 40, A: 90}
	area.LineStyle.Color = color.NRGBA{R: 198, G: 40, B: 40, A: 255}
	area.LineStyle.Width = vg.Points(1.5)
	p.Add(area)

	return p, nil
}

// fatalityPanel compares Over-Speeding and Drunken Driving fatality rates
// per region as grouped bars.
func fatalityPanel(a *domain.Analysis) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Fatality Rate Comparison"
	p.Y.Label.Text = "killed per accident"

	width := vg.Points(14)
	p.Legend.Top = true

	for i, c := range []domain.Cause{domain.OverSpeeding, domain.DrunkenDriving} {
		values := make(plotter.Values, len(a.Profiles))
		for j, prof := range a.Profiles {
			values[j] = prof.Metrics.Causes[c].FatalityRate
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, fmt.Errorf("fatality bars %s: %w", c, err)
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = width * vg.Length(2*i-1) / 2
		p.Add(bars)
		p.Legend.Add(c.Info().Label, bars)
	}

	p.NominalX(regionNames(a)...)
	p.Y.Min = 0
	p.Add(plotter.NewGrid())
	return p, nil
}

// wedge returns the outline of a circular sector of radius r between the
// angles a0 and a1, starting and ending at the origin.
func wedge(r, a0, a1 float64) plotter.XYs {
	steps := int(math.Ceil(pieSteps * (a1 - a0) / (2 * math.Pi)))
	if steps < 1 {
		steps = 1
	}
	pts := make(plotter.XYs, 0, steps+2)
	pts = append(pts, plotter.XY{})
	for s := 0; s <= steps; s++ {
		theta := a0 + (a1-a0)*float64(s)/float64(steps)
		pts = append(pts, plotter.XY{X: r * math.Cos(theta), Y: r * math.Sin(theta)})
	}
	return pts
}

// categoryPanel draws the share of regions in each risk category as a pie.
func categoryPanel(a *domain.Analysis) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Risk Category Distribution"
	p.HideAxes()
	p.X.Min, p.X.Max = -1.4, 1.4
	p.Y.Min, p.Y.Max = -1.2, 1.2

	counts := a.CategoryCounts()
	total := 0
	for _, cc := range counts {
		total += cc.Regions
	}
	if total == 0 {
		return p, nil
	}

	angle := math.Pi / 2
	var xys plotter.XYs
	var labels []string
	for _, cc := range counts {
		frac := float64(cc.Regions) / float64(total)
		next := angle - 2*math.Pi*frac

		slice, err := plotter.NewPolygon(wedge(1, next, angle))
		if err != nil {
			return nil, fmt.Errorf("pie slice %s: %w", cc.Category, err)
		}
		slice.Color = categoryColors[cc.Category]
		slice.LineStyle.Color = color.White
		p.Add(slice)

		mid := (angle + next) / 2
		xys = append(xys, plotter.XY{X: 0.6 * math.Cos(mid), Y: 0.6 * math.Sin(mid)})
		labels = append(labels, fmt.Sprintf("%s %d (%.0f%%)", cc.Category, cc.Regions, frac*100))
		angle = next
	}

	names, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("pie labels: %w", err)
	}
	for i := range names.TextStyle {
		names.TextStyle[i].XAlign = draw.XCenter
		names.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(names)
	return p, nil
}
