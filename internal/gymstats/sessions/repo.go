package sessions

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/2beens/gymprogress/internal/gymstats/progression"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ progression.SessionSource = (*Repo)(nil)
var _ SessionWriter = (*Repo)(nil)

// SessionWriter stores new sessions.
type SessionWriter interface {
	Add(ctx context.Context, session progression.Session) error
}

const Schema = `
CREATE TABLE IF NOT EXISTS workout_session (
	id           SERIAL PRIMARY KEY,
	performed_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS workout_session_performed_at_idx ON workout_session (performed_at);

CREATE TABLE IF NOT EXISTS workout_session_exercise (
	id         SERIAL PRIMARY KEY,
	session_id INTEGER NOT NULL REFERENCES workout_session (id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	max_reps   INTEGER NOT NULL CHECK (max_reps >= 0),
	max_weight DOUBLE PRECISION NOT NULL CHECK (max_weight >= 0)
);
CREATE INDEX IF NOT EXISTS workout_session_exercise_session_idx ON workout_session_exercise (session_id);
`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) EnsureSchema(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.ensureschema")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create sessions schema: %w", err)
	}
	return nil
}

// Add stores the session and its exercises in a single transaction.
func (r *Repo) Add(ctx context.Context, session progression.Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := session.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var sessionID int
	if err = tx.QueryRow(
		ctx,
		`INSERT INTO workout_session (performed_at) VALUES ($1) RETURNING id;`,
		session.PerformedAt,
	).Scan(&sessionID); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	span.SetAttributes(attribute.Int("session.id", sessionID))

	for i, ep := range session.Exercises {
		if _, err = tx.Exec(
			ctx,
			`INSERT INTO workout_session_exercise
				(session_id, position, name, max_reps, max_weight)
				VALUES ($1, $2, $3, $4, $5);`,
			sessionID, i, ep.Name, ep.MaxReps, ep.MaxWeight,
		); err != nil {
			return fmt.Errorf("insert exercise %s: %w", ep.Name, err)
		}
	}

	return nil
}

// DeleteBefore removes every session performed before t.
func (r *Repo) DeleteBefore(ctx context.Context, t time.Time) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.deletebefore")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_session WHERE performed_at < $1;`, t)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// StreamInDateRange streams sessions ordered by performed_at. Rows are grouped
// into sessions while reading, so only the session being assembled is held in memory.
// The query (and its connection) is released as soon as the consumer stops.
func (r *Repo) StreamInDateRange(
	ctx context.Context,
	query progression.Query,
) iter.Seq2[progression.Session, error] {
	return func(yield func(progression.Session, error) bool) {
		var err error
		ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.stream")
		defer func() {
			tracing.EndSpanWithErrCheck(span, err)
		}()
		span.SetAttributes(attribute.String("from", query.SessionStart.String()))
		span.SetAttributes(attribute.String("to", query.SessionEnd.String()))
		span.SetAttributes(attribute.StringSlice("exercise_names", query.ExerciseNames))

		var names []string
		if len(query.ExerciseNames) > 0 {
			names = query.ExerciseNames
		}

		rows, err := r.db.Query(
			ctx,
			`
			SELECT
				s.id, s.performed_at, e.name, e.max_reps, e.max_weight
			FROM workout_session s
			LEFT JOIN workout_session_exercise e
				ON e.session_id = s.id
				AND ($3::text[] IS NULL OR e.name = ANY($3))
			WHERE s.performed_at >= $1
				AND s.performed_at <= $2
			ORDER BY s.performed_at ASC, s.id ASC, e.position ASC;`,
			query.SessionStart, query.SessionEnd, names,
		)
		if err != nil {
			err = fmt.Errorf("query: %w", err)
			yield(progression.Session{}, err)
			return
		}
		defer rows.Close()

		streamed := 0
		for session, rowsErr := range groupRows(rows) {
			if rowsErr != nil {
				err = rowsErr
				yield(progression.Session{}, err)
				return
			}
			streamed++
			if !yield(session, nil) {
				span.SetAttributes(attribute.Bool("stopped_early", true))
				break
			}
		}
		span.SetAttributes(attribute.Int("sessions", streamed))
	}
}

// groupRows folds consecutive rows of the same session id into one session.
func groupRows(rows pgx.Rows) iter.Seq2[progression.Session, error] {
	return func(yield func(progression.Session, error) bool) {
		var current *progression.Session
		currentID := -1

		for rows.Next() {
			var (
				id          int
				performedAt time.Time
				name        *string
				maxReps     *int
				maxWeight   *float64
			)
			if err := rows.Scan(&id, &performedAt, &name, &maxReps, &maxWeight); err != nil {
				yield(progression.Session{}, fmt.Errorf("rows scan: %w", err))
				return
			}

			if current == nil || id != currentID {
				if current != nil && !yield(*current, nil) {
					return
				}
				current = &progression.Session{
					PerformedAt: performedAt,
					Exercises:   make([]progression.ExercisePerformance, 0),
				}
				currentID = id
			}

			// no matching exercise for this session in the LEFT JOIN
			if name == nil {
				continue
			}

			ep := progression.ExercisePerformance{Name: *name}
			if maxReps != nil {
				ep.MaxReps = *maxReps
			}
			if maxWeight != nil {
				ep.MaxWeight = *maxWeight
			}
			current.Exercises = append(current.Exercises, ep)
		}

		if err := rows.Err(); err != nil {
			yield(progression.Session{}, fmt.Errorf("rows: %w", err))
			return
		}

		if current != nil {
			yield(*current, nil)
		}
	}
}
