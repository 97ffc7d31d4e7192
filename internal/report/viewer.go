package report

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
)

// Viewer opens rendered reports in the desktop's default viewer.
type Viewer struct {
	paths  []string
	open   func(string) error
	logger *slog.Logger
}

// NewViewer creates a Viewer that launches each of paths with open.
func NewViewer(logger *slog.Logger, open func(string) error, paths ...string) *Viewer {
	return &Viewer{paths: paths, open: open, logger: logger}
}

func (v *Viewer) Name() string { return "viewer" }

// Load opens each report. A report that cannot be opened is logged and
// skipped; headless hosts have no viewer.
func (v *Viewer) Load(ctx context.Context, _ *domain.Analysis) (int, error) {
	for _, path := range v.paths {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := v.open(path); err != nil {
			v.logger.Warn("could not open report", "path", path, "error", err)
			continue
		}
		v.logger.Debug("report opened", "path", path)
	}
	return 0, nil
}
