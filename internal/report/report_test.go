package report_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/road-accident-hotspots/internal/dataset"
	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
	"github.com/couchcryptid/road-accident-hotspots/internal/report"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func referenceAnalysis(t *testing.T, focus string) *domain.Analysis {
	t.Helper()
	regions, err := dataset.Load()
	require.NoError(t, err)
	return domain.Analyze(regions, focus)
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
	assert.Positive(t, img.Bounds().Dy())
}

func TestHeatmap_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heatmap.png")
	h := report.NewHeatmap(path, discardLogger())

	n, err := h.Load(context.Background(), referenceAnalysis(t, "Mumbai"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "heatmap", h.Name())
	requirePNG(t, path)
}

func TestHeatmap_EmptyAnalysis(t *testing.T) {
	h := report.NewHeatmap(filepath.Join(t.TempDir(), "heatmap.png"), discardLogger())
	_, err := h.Load(context.Background(), &domain.Analysis{})
	require.Error(t, err)
}

func TestHeatmap_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "heatmap.png")
	h := report.NewHeatmap(path, discardLogger())
	_, err := h.Load(context.Background(), referenceAnalysis(t, "Mumbai"))
	require.Error(t, err)
}

func TestHeatmapPlot_Title(t *testing.T) {
	p, err := report.HeatmapPlot(referenceAnalysis(t, "Mumbai"))
	require.NoError(t, err)
	assert.Equal(t, "CAUSE-WISE ACCIDENT CONTRIBUTION (%)", p.Title.Text)
}

func TestDashboard_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.png")
	d := report.NewDashboard(path, discardLogger())

	n, err := d.Load(context.Background(), referenceAnalysis(t, "Mumbai"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "dashboard", d.Name())
	requirePNG(t, path)
}

func TestDashboard_MissingFocusRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.png")
	d := report.NewDashboard(path, discardLogger())

	_, err := d.Load(context.Background(), referenceAnalysis(t, "Delhi"))
	require.NoError(t, err)
	requirePNG(t, path)
}

func TestDashboardPanels_Titles(t *testing.T) {
	panels, err := report.DashboardPanels(referenceAnalysis(t, "Mumbai"))
	require.NoError(t, err)
	require.Len(t, panels, 2)
	require.Len(t, panels[0], 2)
	require.Len(t, panels[1], 2)

	assert.Equal(t, "Hotspot Score", panels[0][0].Title.Text)
	assert.Equal(t, "Mumbai Cause Profile", panels[0][1].Title.Text)
	assert.Equal(t, "Fatality Rate Comparison", panels[1][0].Title.Text)
	assert.Equal(t, "Risk Category Distribution", panels[1][1].Title.Text)
}

func TestDashboardPanels_NoDataRadarTitle(t *testing.T) {
	panels, err := report.DashboardPanels(referenceAnalysis(t, "Delhi"))
	require.NoError(t, err)
	assert.Equal(t, "Delhi Cause Profile (no data)", panels[0][1].Title.Text)
}

func TestWriteRanking(t *testing.T) {
	a := referenceAnalysis(t, "Mumbai")

	var buf bytes.Buffer
	require.NoError(t, report.WriteRanking(&buf, a.Ranking))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"States/UTs", "hotspot_score", "risk_category", "total_caused_accidents"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Mumbai", "2266.51", "High", "2872.00"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Nagpur", "975.41", "Medium", "1007.00"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Aurangabad", "520.16", "Medium", "560.00"}, strings.Fields(lines[5]))
}

func TestRankingPrinter_Load(t *testing.T) {
	var buf bytes.Buffer
	rp := report.NewRankingPrinter(&buf)

	n, err := rp.Load(context.Background(), referenceAnalysis(t, "Mumbai"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "ranking", rp.Name())
	assert.Contains(t, buf.String(), "Pune")
}

func TestViewer_OpensEachReport(t *testing.T) {
	var opened []string
	v := report.NewViewer(discardLogger(), func(p string) error {
		opened = append(opened, p)
		if p == "b.png" {
			return errors.New("no display")
		}
		return nil
	}, "a.png", "b.png", "c.png")

	n, err := v.Load(context.Background(), &domain.Analysis{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, opened)
}

func TestViewer_ContextCancelled(t *testing.T) {
	calls := 0
	v := report.NewViewer(discardLogger(), func(string) error { calls++; return nil }, "a.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := v.Load(ctx, &domain.Analysis{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}
