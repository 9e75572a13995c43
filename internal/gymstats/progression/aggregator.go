package progression

import (
	"context"
	"iter"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progression_test

// SessionSource produces sessions in ascending PerformedAt order, restricted to
// the query range and exercise names. The sequence is one-shot; a consumer that
// stops ranging over it early makes the source release what it holds.
// A failure is yielded once, together with a zero Session, and ends the sequence.
type SessionSource interface {
	StreamInDateRange(ctx context.Context, query Query) iter.Seq2[Session, error]
}

// Observer gets notified about aggregation progress. Used for metrics.
type Observer interface {
	SessionFolded(exercises int)
	WindowEmitted(window MetricsWindow)
	SourceFailed(err error)
}

type nopObserver struct{}

func (nopObserver) SessionFolded(int)           {}
func (nopObserver) WindowEmitted(MetricsWindow) {}
func (nopObserver) SourceFailed(error)          {}

type AggregatorOption func(*Aggregator)

// WithWindowThreshold overrides MonthThreshold.
func WithWindowThreshold(threshold time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		if threshold > 0 {
			a.threshold = threshold
		}
	}
}

func WithObserver(observer Observer) AggregatorOption {
	return func(a *Aggregator) {
		if observer != nil {
			a.observer = observer
		}
	}
}

// Aggregator turns an ordered session stream into monthly metrics windows.
// It holds no per-run state, so one Aggregator can serve concurrent calls.
type Aggregator struct {
	threshold time.Duration
	observer  Observer
}

func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		threshold: MonthThreshold,
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ProduceWindows validates the query and returns a lazy sequence of windows.
// Sessions are pulled from the source only while the caller keeps asking for
// windows. A source failure is yielded as a *SourceError and ends the sequence,
// dropping the window under construction.
func (a *Aggregator) ProduceWindows(
	ctx context.Context,
	source SessionSource,
	query Query,
) (iter.Seq2[MetricsWindow, error], error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return func(yield func(MetricsWindow, error) bool) {
		acc := newAccumulator(query.SessionStart)

		for session, err := range source.StreamInDateRange(ctx, query) {
			if err != nil {
				a.observer.SourceFailed(err)
				yield(MetricsWindow{}, &SourceError{Err: err})
				return
			}

			if windowElapsed(acc.from, session.PerformedAt, a.threshold) {
				// an elapsed window without metrics is dropped, not emitted
				if !acc.empty() {
					window := acc.snapshot(session.PerformedAt)
					a.observer.WindowEmitted(window)
					if !yield(window, nil) {
						return
					}
				}
				acc = newAccumulator(session.PerformedAt)
			}

			for _, ep := range session.Exercises {
				acc.fold(ep)
			}
			a.observer.SessionFolded(len(session.Exercises))
		}

		if acc.empty() {
			return
		}

		window := acc.snapshot(query.SessionEnd)
		a.observer.WindowEmitted(window)
		yield(window, nil)
	}, nil
}
