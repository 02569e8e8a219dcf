package cache

import (
	"context"
	"fmt"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Incr bumps an integer key and returns the new value. A missing key
	// counts from zero.
	Incr(ctx context.Context, key string) (int64, error)
	// GetInt64 reads an integer key; a missing key reads as zero.
	GetInt64(ctx context.Context, key string) (int64, error)
}

// MeetingResultsGen counts enrichment writes for a meeting. Replay lists are
// cached under the generation current when they were read, so a list built
// from a stale store snapshot lands under a generation no reader uses anymore.
func MeetingResultsGen(meetingID string) string {
	return "meeting:" + meetingID + ":results:gen"
}

// MeetingResultsKey holds the serialized result frames replayed to late
// joiners of a meeting, for one generation.
func MeetingResultsKey(meetingID string, gen int64) string {
	return fmt.Sprintf("meeting:%s:results:%d", meetingID, gen)
}
