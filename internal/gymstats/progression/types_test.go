package progression_test

import (
	"errors"
	"testing"
	"time"

	"github.com/2beens/gymprogress/internal/gymstats/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		session progression.Session
		wantErr bool
	}{
		{
			name: "valid",
			session: progression.Session{
				PerformedAt: day(time.January, 1),
				Exercises:   []progression.ExercisePerformance{{Name: "Squat", MaxReps: 5, MaxWeight: 100}},
			},
		},
		{
			name:    "no exercises",
			session: progression.Session{PerformedAt: day(time.January, 1)},
		},
		{
			name:    "zero time",
			session: progression.Session{},
			wantErr: true,
		},
		{
			name: "empty exercise name",
			session: progression.Session{
				PerformedAt: day(time.January, 1),
				Exercises:   []progression.ExercisePerformance{{MaxReps: 5}},
			},
			wantErr: true,
		},
		{
			name: "negative reps",
			session: progression.Session{
				PerformedAt: day(time.January, 1),
				Exercises:   []progression.ExercisePerformance{{Name: "Squat", MaxReps: -1}},
			},
			wantErr: true,
		},
		{
			name: "negative weight",
			session: progression.Session{
				PerformedAt: day(time.January, 1),
				Exercises:   []progression.ExercisePerformance{{Name: "Squat", MaxWeight: -2.5}},
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.session.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuery(t *testing.T) {
	q := progression.Query{
		SessionStart:  day(time.January, 1),
		SessionEnd:    day(time.January, 31),
		ExerciseNames: []string{"Push-up"},
	}
	require.NoError(t, q.Validate())

	assert.True(t, q.InRange(day(time.January, 1)))
	assert.True(t, q.InRange(day(time.January, 31)))
	assert.False(t, q.InRange(day(time.February, 1)))

	assert.True(t, q.Includes("Push-up"))
	assert.False(t, q.Includes("Pull-up"))
	assert.True(t, progression.Query{}.Includes("Pull-up"))

	filtered := q.FilterExercises(progression.Session{
		PerformedAt: day(time.January, 2),
		Exercises: []progression.ExercisePerformance{
			{Name: "Pull-up", MaxReps: 5},
			{Name: "Push-up", MaxReps: 20},
		},
	})
	assert.Equal(t, day(time.January, 2), filtered.PerformedAt)
	assert.Equal(t, []progression.ExercisePerformance{{Name: "Push-up", MaxReps: 20}}, filtered.Exercises)

	none := q.FilterExercises(progression.Session{
		PerformedAt: day(time.January, 3),
		Exercises:   []progression.ExercisePerformance{{Name: "Dip", MaxReps: 5}},
	})
	assert.NotNil(t, none.Exercises)
	assert.Empty(t, none.Exercises)

	// same instant is a valid range
	assert.NoError(t, progression.Query{SessionStart: day(time.May, 5), SessionEnd: day(time.May, 5)}.Validate())
	assert.ErrorIs(t,
		progression.Query{SessionStart: day(time.May, 6), SessionEnd: day(time.May, 5)}.Validate(),
		progression.ErrInvalidRange,
	)
}

func TestMetricsWindow(t *testing.T) {
	w := progression.MetricsWindow{
		From:    day(time.January, 1),
		To:      day(time.January, 31),
		Metrics: map[string]progression.ExerciseMetrics{"Squat": {NewMaxReps: 5}},
	}
	assert.True(t, w.Contains(day(time.January, 1)))
	assert.True(t, w.Contains(day(time.January, 31)))
	assert.False(t, w.Contains(day(time.February, 1)))
}

func TestThresholdFromDays(t *testing.T) {
	assert.Equal(t, progression.MonthThreshold, progression.ThresholdFromDays(0))
	assert.Equal(t, progression.MonthThreshold, progression.ThresholdFromDays(-3))
	assert.Equal(t, 7*24*time.Hour, progression.ThresholdFromDays(7))
}

func TestSourceError(t *testing.T) {
	cause := errors.New("broken pipe")
	err := &progression.SourceError{Err: cause}
	assert.Equal(t, "session source: broken pipe", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, progression.IsSourceError(err))
	assert.False(t, progression.IsSourceError(cause))
}
