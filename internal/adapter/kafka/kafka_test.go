package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/road-accident-hotspots/internal/config"
	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
	"github.com/couchcryptid/road-accident-hotspots/internal/export"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testAnalysis() *domain.Analysis {
	var r domain.Region
	r.Name = "Mumbai"
	r.Causes[domain.OverSpeeding].Accidents = 2000
	r.Causes[domain.DrunkenDriving].Accidents = 100
	r.Causes[domain.DrunkenDriving].Killed = 20

	a := domain.Analyze([]domain.Region{r}, "Mumbai")
	a.GeneratedAt = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	return a
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	rec := export.Record{
		Region:       "Pune",
		Rank:         3,
		RiskCategory: domain.CategoryMedium,
		Features:     map[string]float64{"hotspot_score": 676.67},
		GeneratedAt:  now,
	}

	msg, err := serializeToMessage(rec)
	require.NoError(t, err)

	assert.Equal(t, []byte("Pune"), msg.Key)
	assert.Contains(t, string(msg.Value), `"risk_category":"Medium"`)
	assert.Contains(t, string(msg.Value), `"hotspot_score":676.67`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "risk_category", msg.Headers[0].Key)
	assert.Equal(t, []byte("Medium"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestWriter_Load(t *testing.T) {
	fw := &fakeWriter{}
	w := &Writer{writer: fw, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	n, err := w.Load(context.Background(), testAnalysis())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, fw.msgs, 1)

	var got export.Record
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &got))
	assert.Equal(t, "Mumbai", got.Region)
	assert.Equal(t, 1, got.Rank)
	assert.Equal(t, domain.CategoryHigh, got.RiskCategory)
	assert.InDelta(t, 0.2, got.Features["Drunken_Driving_fatality_rate"], 1e-9)

	require.NoError(t, w.Close())
	assert.True(t, fw.closed)
}

func TestWriter_Load_Empty(t *testing.T) {
	fw := &fakeWriter{}
	w := &Writer{writer: fw, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	n, err := w.Load(context.Background(), &domain.Analysis{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, fw.msgs)
}

func TestWriter_Load_PublishError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	w := &Writer{writer: fw, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	_, err := w.Load(context.Background(), testAnalysis())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka: publish features: broker down")
}

func TestNewWriter_UsesConfig(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "features"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	kw, ok := w.writer.(*kafkago.Writer)
	require.True(t, ok)
	assert.Equal(t, "features", kw.Topic)
	assert.Equal(t, "kafka", w.Name())
}
