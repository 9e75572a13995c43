package sessions

import (
	"context"
	"iter"
	"slices"
	"sync"

	"github.com/2beens/gymprogress/internal/gymstats/progression"
)

var _ progression.SessionSource = (*MemoryStore)(nil)
var _ SessionWriter = (*MemoryStore)(nil)

// MemoryStore keeps sessions in memory. Used in tests and for local runs without postgres.
type MemoryStore struct {
	sessions []progression.Session
	mutex    sync.RWMutex
}

func NewMemoryStore(sessions ...progression.Session) *MemoryStore {
	return &MemoryStore{
		sessions: slices.Clone(sessions),
	}
}

func (ms *MemoryStore) Add(_ context.Context, session progression.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	session.Exercises = slices.Clone(session.Exercises)
	ms.sessions = append(ms.sessions, session)
	return nil
}

func (ms *MemoryStore) Len() int {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()
	return len(ms.sessions)
}

// StreamInDateRange sorts a private copy of the stored sessions and yields the
// ones in the query range, with exercises filtered by the query names.
func (ms *MemoryStore) StreamInDateRange(
	ctx context.Context,
	query progression.Query,
) iter.Seq2[progression.Session, error] {
	return func(yield func(progression.Session, error) bool) {
		ms.mutex.RLock()
		sorted := slices.Clone(ms.sessions)
		ms.mutex.RUnlock()

		slices.SortStableFunc(sorted, func(a, b progression.Session) int {
			return a.PerformedAt.Compare(b.PerformedAt)
		})

		for _, session := range sorted {
			if err := ctx.Err(); err != nil {
				yield(progression.Session{}, err)
				return
			}

			if !query.InRange(session.PerformedAt) {
				if session.PerformedAt.After(query.SessionEnd) {
					// sorted, nothing else can match
					return
				}
				continue
			}

			if !yield(query.FilterExercises(session), nil) {
				return
			}
		}
	}
}
