package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
	"github.com/couchcryptid/road-accident-hotspots/internal/observability"
)

// Extractor reads the region records to analyze.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.Region, error)
}

// Transformer turns region records into an analysis.
type Transformer interface {
	Transform(ctx context.Context, regions []domain.Region, focusRegion string) (*domain.Analysis, error)
}

// Loader consumes a finished analysis: a chart, a file, a topic, a table.
// Load returns the number of region rows it wrote. Loaders must treat the
// analysis as read-only.
type Loader interface {
	Name() string
	Load(ctx context.Context, a *domain.Analysis) (int, error)
}

// Pipeline orchestrates one extract-transform-load run. Runs are serialized;
// the latest successful analysis is available to concurrent readers.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics

	mu     sync.Mutex
	ready  atomic.Bool
	latest atomic.Pointer[domain.Analysis]
}

// New creates a Pipeline. Loaders run in the order given.
func New(e Extractor, t Transformer, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Latest returns the analysis of the last successful run, or nil.
func (p *Pipeline) Latest() *domain.Analysis {
	return p.latest.Load()
}

// Run loads the dataset, derives every metric, and hands the analysis to each
// loader in turn. The first loader failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, focusRegion string) (*domain.Analysis, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	start := time.Now()
	a, err := p.run(ctx, focusRegion)
	if err != nil {
		p.metrics.PipelineRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	p.latest.Store(a)
	p.ready.Store(true)
	p.metrics.PipelineRuns.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("pipeline run complete",
		"regions", len(a.Profiles),
		"top_region", topRegion(a),
		"duration", time.Since(start),
	)
	return a, nil
}

func (p *Pipeline) run(ctx context.Context, focusRegion string) (*domain.Analysis, error) {
	regions, err := p.extractor.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	p.metrics.RegionsLoaded.Add(float64(len(regions)))

	a, err := p.transformer.Transform(ctx, regions, focusRegion)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	p.recordResults(a)

	for _, l := range p.loaders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := l.Load(ctx, a)
		if err != nil {
			p.metrics.LoaderErrors.WithLabelValues(l.Name()).Inc()
			return nil, fmt.Errorf("%s: %w", l.Name(), err)
		}
		p.metrics.RowsWritten.WithLabelValues(l.Name()).Add(float64(n))
		p.logger.Debug("loader finished", "loader", l.Name(), "rows", n)
	}
	return a, nil
}

// recordResults mirrors the analysis into the result gauges.
func (p *Pipeline) recordResults(a *domain.Analysis) {
	p.metrics.HotspotScore.Reset()
	for _, prof := range a.Profiles {
		p.metrics.HotspotScore.WithLabelValues(prof.Name).Set(prof.Metrics.HotspotScore)
	}

	p.metrics.CategoryRegions.Reset()
	for _, c := range domain.RiskCategories {
		p.metrics.CategoryRegions.WithLabelValues(string(c)).Set(0)
	}
	for _, cc := range a.CategoryCounts() {
		p.metrics.CategoryRegions.WithLabelValues(string(cc.Category)).Set(float64(cc.Regions))
	}
}

func topRegion(a *domain.Analysis) string {
	if len(a.Ranking) == 0 {
		return ""
	}
	return a.Ranking[0].Region
}
