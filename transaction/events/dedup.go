package events

import (
	"context"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
)

var _ IDeduplicationStore = (*MemoryDeduplicationStore)(nil)

// MemoryDeduplicationStore keeps publication marks in process memory. Marks do not
// survive a restart, so pair it with a persistent backend when duplicate suppression
// must hold across deployments.
type MemoryDeduplicationStore struct {
	published *xsync.MapOf[string, time.Time]
}

func NewMemoryDeduplicationStore() *MemoryDeduplicationStore {
	return &MemoryDeduplicationStore{
		published: xsync.NewMapOf[string, time.Time](),
	}
}

func (s *MemoryDeduplicationStore) IsPublished(ctx context.Context, eventID string) (bool, error) {
	err := checkDeduplicationArguments(ctx, eventID)
	if err != nil {
		return false, err
	}
	_, found := s.published.Load(eventID)
	return found, nil
}

func (s *MemoryDeduplicationStore) MarkPublished(ctx context.Context, eventID string, at time.Time) error {
	err := checkDeduplicationArguments(ctx, eventID)
	if err != nil {
		return err
	}
	// The first mark wins so a re-mark cannot extend the retention of an old event.
	s.published.LoadOrStore(eventID, at)
	return nil
}

func (s *MemoryDeduplicationStore) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return 0, err
	}
	removed := int64(0)
	s.published.Range(func(eventID string, at time.Time) bool {
		if !at.Before(cutoff) {
			return true
		}
		s.published.Compute(eventID, func(current time.Time, loaded bool) (time.Time, bool) {
			if loaded && current.Before(cutoff) {
				removed++
				return current, true
			}
			return current, false
		})
		return true
	})
	return removed, nil
}

// Len returns how many publication marks the store currently holds.
func (s *MemoryDeduplicationStore) Len() int {
	return s.published.Size()
}

func checkDeduplicationArguments(ctx context.Context, eventID string) error {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(eventID) == "" {
		return commonerrors.New(commonerrors.ErrInvalid, "events must have an identifier")
	}
	return nil
}
