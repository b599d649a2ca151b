package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/parallelisation"
)

const defaultRedisDeduplicationKey = "txkit:events:published"

var _ IDeduplicationStore = (*RedisDeduplicationStore)(nil)

// RedisDeduplicationStore keeps publication marks in a Redis sorted set scored by the
// publication time in milliseconds, so pruning by age is a single range removal shared
// by every instance of the service.
type RedisDeduplicationStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisDeduplicationStore returns a store over client using key for the sorted set.
// A blank key selects a default shared by all txkit services on that database.
func NewRedisDeduplicationStore(client redis.UniversalClient, key string) (*RedisDeduplicationStore, error) {
	if client == nil {
		return nil, commonerrors.UndefinedVariable("redis client")
	}
	if strings.TrimSpace(key) == "" {
		key = defaultRedisDeduplicationKey
	}
	return &RedisDeduplicationStore{
		client: client,
		key:    key,
	}, nil
}

func (s *RedisDeduplicationStore) IsPublished(ctx context.Context, eventID string) (bool, error) {
	err := checkDeduplicationArguments(ctx, eventID)
	if err != nil {
		return false, err
	}
	err = s.client.ZScore(ctx, s.key, eventID).Err()
	switch {
	case commonerrors.Any(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, s.storeError(err, "could not query the publication marks")
	}
	return true, nil
}

func (s *RedisDeduplicationStore) MarkPublished(ctx context.Context, eventID string, at time.Time) error {
	err := checkDeduplicationArguments(ctx, eventID)
	if err != nil {
		return err
	}
	// NX keeps the original publication time on a re-mark, mirroring the in-memory
	// store semantics.
	err = s.client.ZAddNX(ctx, s.key, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: eventID,
	}).Err()
	if err != nil {
		return s.storeError(err, "could not record the publication mark")
	}
	return nil
}

func (s *RedisDeduplicationStore) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return 0, err
	}
	removed, err := s.client.ZRemRangeByScore(ctx, s.key, "-inf", fmt.Sprintf("(%v", cutoff.UnixMilli())).Result()
	if err != nil {
		return 0, s.storeError(err, "could not prune the publication marks")
	}
	return removed, nil
}

func (s *RedisDeduplicationStore) storeError(err error, message string) error {
	return commonerrors.WrapIfNotCommonError(commonerrors.ErrUnavailable, commonerrors.ConvertContextError(err), message)
}
