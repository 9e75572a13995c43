//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/2beens/gymprogress/internal/gymstats/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) SetupTest() {
	_, err := s.DB.Exec("DELETE FROM workout_session")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) addSessionRequest(ctx context.Context, session progression.Session) progression.AddSessionResponse {
	sessionJson, err := json.Marshal(session)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/gymstats/sessions", serverEndpoint),
		bytes.NewReader(sessionJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	var added progression.AddSessionResponse
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&added))
	return added
}

func (s *IntegrationTestSuite) getRequest(ctx context.Context, path string, params url.Values) (int, []byte) {
	reqURL := fmt.Sprintf("%s%s?%s", serverEndpoint, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	require.NoError(s.T(), err)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp.StatusCode, body
}

// insertSession writes straight to the tables, the way an importer outside the service would.
func (s *IntegrationTestSuite) insertSession(session progression.Session) {
	var sessionID int
	err := s.DB.QueryRow(
		"INSERT INTO workout_session (performed_at) VALUES ($1) RETURNING id",
		session.PerformedAt,
	).Scan(&sessionID)
	require.NoError(s.T(), err)

	for i, ep := range session.Exercises {
		_, err := s.DB.Exec(
			"INSERT INTO workout_session_exercise (session_id, position, name, max_reps, max_weight) VALUES ($1, $2, $3, $4, $5)",
			sessionID, i, ep.Name, ep.MaxReps, ep.MaxWeight,
		)
		require.NoError(s.T(), err)
	}
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 18, 30, 0, 0, time.UTC)
}

func (s *IntegrationTestSuite) TestProgression_AddAndQuery() {
	ctx := context.Background()
	t := s.T()

	for _, session := range []progression.Session{
		{PerformedAt: at(2024, time.January, 1), Exercises: []progression.ExercisePerformance{
			{Name: "Push-up", MaxReps: 10}, {Name: "Squat", MaxReps: 5, MaxWeight: 80},
		}},
		{PerformedAt: at(2024, time.January, 3), Exercises: []progression.ExercisePerformance{
			{Name: "Push-up", MaxReps: 12},
		}},
		{PerformedAt: at(2024, time.January, 5), Exercises: []progression.ExercisePerformance{
			{Name: "Push-up", MaxReps: 12}, {Name: "Squat", MaxReps: 5, MaxWeight: 85},
		}},
		{PerformedAt: at(2024, time.February, 20), Exercises: []progression.ExercisePerformance{
			{Name: "Push-up", MaxReps: 11},
		}},
	} {
		added := s.addSessionRequest(ctx, session)
		assert.Equal(t, len(session.Exercises), added.Exercises)
	}

	status, body := s.getRequest(ctx, "/gymstats/progression", url.Values{
		"from": {"2024-01-01"},
		"to":   {"2024-03-31"},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp progression.WindowsResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Windows, 2)

	january := resp.Windows[0]
	assert.True(t, january.From.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, january.To.Equal(at(2024, time.February, 20)))
	assert.Equal(t, progression.ExerciseMetrics{
		NewMaxReps:         12,
		RepsProgressed:     2,
		ProgressionsInReps: 1,
		PlateauInReps:      1,
		PlateauInWeight:    2,
	}, january.Metrics["Push-up"])
	assert.Equal(t, 85.0, january.Metrics["Squat"].NewMaxWeight)
	assert.Equal(t, 1, january.Metrics["Squat"].ProgressionsInWeight)

	// fresh baseline in the second window
	assert.Equal(t, progression.ExerciseMetrics{NewMaxReps: 11}, resp.Windows[1].Metrics["Push-up"])

	status, body = s.getRequest(ctx, "/gymstats/progression", url.Values{
		"from":     {"2024-01-01"},
		"to":       {"2024-03-31"},
		"exercise": {"Squat"},
		"mode":     {"first"},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Windows, 1)
	assert.Len(t, resp.Windows[0].Metrics, 1)
	assert.Contains(t, resp.Windows[0].Metrics, "Squat")
}

func (s *IntegrationTestSuite) TestProgression_SummaryOfImportedSessions() {
	ctx := context.Background()
	t := s.T()

	s.insertSession(progression.Session{PerformedAt: at(2023, time.May, 2), Exercises: []progression.ExercisePerformance{
		{Name: "Deadlift", MaxReps: 3, MaxWeight: 120},
	}})
	s.insertSession(progression.Session{PerformedAt: at(2023, time.May, 9), Exercises: []progression.ExercisePerformance{
		{Name: "Deadlift", MaxReps: 3, MaxWeight: 125},
	}})
	s.insertSession(progression.Session{PerformedAt: at(2023, time.July, 1), Exercises: []progression.ExercisePerformance{
		{Name: "Deadlift", MaxReps: 2, MaxWeight: 130},
	}})

	status, body := s.getRequest(ctx, "/gymstats/progression/summary", url.Values{
		"from": {"2023-05-01"},
		"to":   {"2023-07-31"},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp progression.SummaryResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, progression.ExerciseSummary{
		BestReps:             3,
		BestWeight:           130,
		ProgressionsInWeight: 1,
		PlateauInReps:        1,
		Windows:              2,
	}, resp.Exercises["Deadlift"])
}

func (s *IntegrationTestSuite) TestProgression_BadRequests() {
	ctx := context.Background()
	t := s.T()

	status, _ := s.getRequest(ctx, "/gymstats/progression", url.Values{
		"from": {"2024-03-01"},
		"to":   {"2024-01-01"},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.getRequest(ctx, "/gymstats/progression", url.Values{
		"from": {"2024-01-01"},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/gymstats/sessions", serverEndpoint),
		bytes.NewReader([]byte(`{"performed_at":"2024-01-01T10:00:00Z","exercises":[{"name":"Squat","max_reps":-1}]}`)),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
