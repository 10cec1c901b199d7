// Package deadline classifies due timestamps into urgency buckets for the
// dashboard's background coloring and sorting.
package deadline

import (
	"math"
	"time"
)

// Bucket is an urgency class derived from the whole days remaining until a
// task's due timestamp.
type Bucket string

const (
	// BucketUrgent covers anything due in under 3 days, including overdue.
	BucketUrgent Bucket = "urgent"
	// BucketSoon covers 3 to 6 whole days remaining.
	BucketSoon Bucket = "soon"
	// BucketModerate covers 7 to 14 whole days remaining.
	BucketModerate Bucket = "moderate"
	// BucketRelaxed covers 15 or more whole days remaining.
	BucketRelaxed Bucket = "relaxed"
	// BucketNeutral is returned when there is no due timestamp.
	BucketNeutral Bucket = "neutral"
)

// Classify maps a due timestamp to an urgency bucket relative to now. The day
// count floors toward negative infinity, so a task due 2.5 days out has 2 whole
// days remaining and one overdue by an hour has -1. A nil due date is neutral.
// Classify is total: it never panics and has no side effects.
func Classify(due *time.Time, now time.Time) Bucket {
	if due == nil {
		return BucketNeutral
	}

	days := int(math.Floor(due.Sub(now).Hours() / 24))

	switch {
	case days < 3:
		return BucketUrgent
	case days < 7:
		return BucketSoon
	case days < 15:
		return BucketModerate
	default:
		return BucketRelaxed
	}
}
