// Package thread derives the per-viewer read state of a task's discussion
// thread. The derivation is pure: the stored state is only the (user, task)
// last-read timestamp, and everything else is computed per render.
package thread

import "time"

// Status is the viewer-facing state of a discussion thread.
type Status string

const (
	// StatusNone means the thread has no comments yet.
	StatusNone Status = ""
	// StatusUnread means there is activity the viewer has not acknowledged.
	// This is the only state that exposes a mark-as-read affordance.
	StatusUnread Status = "unread"
	// StatusSeen means the viewer acknowledged everything currently in the thread.
	StatusSeen Status = "seen"
	// StatusAnswered means the viewer wrote the latest comment; nothing to do.
	StatusAnswered Status = "answered"
)

// Input carries the facts needed to derive a thread status. LatestCommentAt
// and LatestCommentBy are zero-valued when the thread has no comments.
// LastReadAt is the zero time (treated as the Unix epoch) when the viewer has
// never marked the task read.
type Input struct {
	ViewerID        uint64
	TaskCreatedAt   time.Time
	LastReadAt      time.Time
	CommentCount    int
	LatestCommentAt time.Time
	LatestCommentBy uint64
}

// Derive computes the thread status for a viewer.
//
// A thread with no comments is always StatusNone: task creation alone is not
// discussion activity. Otherwise the viewer speaking last wins over everything,
// then unacknowledged activity (the later of task creation and the newest
// comment, compared against the last explicit mark-as-read) makes the thread
// unread, and an acknowledged thread is seen.
func Derive(in Input) Status {
	if in.CommentCount == 0 {
		return StatusNone
	}

	if in.LatestCommentBy == in.ViewerID {
		return StatusAnswered
	}

	lastEventAt := in.TaskCreatedAt
	if in.LatestCommentAt.After(lastEventAt) {
		lastEventAt = in.LatestCommentAt
	}

	if lastEventAt.After(in.LastReadAt) {
		return StatusUnread
	}

	return StatusSeen
}
