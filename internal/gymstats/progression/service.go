package progression

import (
	"context"
	"time"

	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ExerciseSummary is the all-time view of one exercise across every window of a query.
type ExerciseSummary struct {
	BestReps             int     `json:"best_reps"`
	BestWeight           float64 `json:"best_weight"`
	ProgressionsInReps   int     `json:"progressions_in_reps"`
	ProgressionsInWeight int     `json:"progressions_in_weight"`
	PlateauInReps        int     `json:"plateau_in_reps"`
	PlateauInWeight      int     `json:"plateau_in_weight"`
	Windows              int     `json:"windows"`
}

type Service struct {
	source         SessionSource
	aggregator     *Aggregator
	metricsManager *metrics.Manager
}

func NewService(
	source SessionSource,
	metricsManager *metrics.Manager,
	opts ...AggregatorOption,
) *Service {
	if metricsManager != nil {
		opts = append(opts, WithObserver(&metricsObserver{m: metricsManager}))
	}
	return &Service{
		source:         source,
		aggregator:     NewAggregator(opts...),
		metricsManager: metricsManager,
	}
}

// All drains the whole window sequence for the query.
func (s *Service) All(ctx context.Context, query Query) (_ []MetricsWindow, err error) {
	ctx, span := s.startSpan(ctx, "service.progression.all", query)
	defer func(begin time.Time) {
		s.observeDuration("all", begin)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	windows, err := s.aggregator.ProduceWindows(ctx, s.source, query)
	if err != nil {
		return nil, err
	}

	result := make([]MetricsWindow, 0)
	for window, err := range windows {
		if err != nil {
			return nil, err
		}
		result = append(result, window)
	}

	span.SetAttributes(attribute.Int("windows", len(result)))
	log.Tracef("progression query [%s - %s]: %d windows",
		query.SessionStart.Format(time.DateOnly), query.SessionEnd.Format(time.DateOnly), len(result))

	return result, nil
}

// First returns only the first window and stops pulling sessions afterwards.
// A nil window with no error means no session matched the query.
func (s *Service) First(ctx context.Context, query Query) (_ *MetricsWindow, err error) {
	ctx, span := s.startSpan(ctx, "service.progression.first", query)
	defer func(begin time.Time) {
		s.observeDuration("first", begin)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	windows, err := s.aggregator.ProduceWindows(ctx, s.source, query)
	if err != nil {
		return nil, err
	}

	for window, err := range windows {
		if err != nil {
			return nil, err
		}
		return &window, nil
	}

	return nil, nil
}

// Containing returns the first window whose bounds contain at. The session
// stream is released as soon as the window is found.
func (s *Service) Containing(ctx context.Context, query Query, at time.Time) (_ *MetricsWindow, err error) {
	ctx, span := s.startSpan(ctx, "service.progression.containing", query)
	defer func(begin time.Time) {
		s.observeDuration("containing", begin)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())
	span.SetAttributes(attribute.String("at", at.String()))

	windows, err := s.aggregator.ProduceWindows(ctx, s.source, query)
	if err != nil {
		return nil, err
	}

	for window, err := range windows {
		if err != nil {
			return nil, err
		}
		if window.Contains(at) {
			return &window, nil
		}
		if window.From.After(at) {
			break
		}
	}

	return nil, nil
}

// Summary merges every window of the query into one all-time record per exercise.
func (s *Service) Summary(ctx context.Context, query Query) (_ map[string]ExerciseSummary, err error) {
	ctx, span := s.startSpan(ctx, "service.progression.summary", query)
	defer func(begin time.Time) {
		s.observeDuration("summary", begin)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	windows, err := s.aggregator.ProduceWindows(ctx, s.source, query)
	if err != nil {
		return nil, err
	}

	summary := make(map[string]ExerciseSummary)
	for window, err := range windows {
		if err != nil {
			return nil, err
		}
		for name, m := range window.Metrics {
			es := summary[name]
			es.BestReps = max(es.BestReps, m.NewMaxReps)
			es.BestWeight = max(es.BestWeight, m.NewMaxWeight)
			es.ProgressionsInReps += m.ProgressionsInReps
			es.ProgressionsInWeight += m.ProgressionsInWeight
			es.PlateauInReps += m.PlateauInReps
			es.PlateauInWeight += m.PlateauInWeight
			es.Windows++
			summary[name] = es
		}
	}

	span.SetAttributes(attribute.Int("exercises", len(summary)))
	return summary, nil
}

func (s *Service) startSpan(ctx context.Context, name string, query Query) (context.Context, trace.Span) {
	ctx, span := tracing.GlobalTracer.Start(ctx, name)
	span.SetAttributes(attribute.String("session_start", query.SessionStart.String()))
	span.SetAttributes(attribute.String("session_end", query.SessionEnd.String()))
	span.SetAttributes(attribute.StringSlice("exercise_names", query.ExerciseNames))
	return ctx, span
}

func (s *Service) observeDuration(mode string, begin time.Time) {
	if s.metricsManager == nil {
		return
	}
	s.metricsManager.HistProgressionQueryDuration.
		WithLabelValues(mode).
		Observe(time.Since(begin).Seconds())
}

type metricsObserver struct {
	m *metrics.Manager
}

func (o *metricsObserver) SessionFolded(exercises int) {
	o.m.CounterSessionsFolded.Inc()
	o.m.CounterExercisesFolded.Add(float64(exercises))
}

func (o *metricsObserver) WindowEmitted(window MetricsWindow) {
	o.m.CounterWindowsEmitted.Inc()
	o.m.HistWindowExercises.Observe(float64(len(window.Metrics)))
}

func (o *metricsObserver) SourceFailed(err error) {
	o.m.CounterSourceFailures.Inc()
	log.Errorf("progression session source failed: %s", err)
}
