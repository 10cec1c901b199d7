package cache

import "fmt"

// Query-signature keys. Every cached read and every mutation's invalidation
// set is built from these, so a new query only needs a new builder here.

func KeyTasksAll() string {
	return "tasks:all"
}

func KeyTasksByAssignee(profileID uint64) string {
	return fmt.Sprintf("tasks:assignee:%d", profileID)
}

func KeyComments(taskID uint64) string {
	return fmt.Sprintf("comments:task:%d", taskID)
}

func KeyProjects() string {
	return "projects:all"
}

func KeyProfiles() string {
	return "profiles:all"
}

// TaskMutationKeys is the invalidation set for a mutation touching a task
// assigned to assigneeID.
func TaskMutationKeys(assigneeID uint64) []string {
	return []string{KeyTasksAll(), KeyTasksByAssignee(assigneeID)}
}

// CommentMutationKeys is the invalidation set for a new comment on a task:
// the thread itself plus the task lists whose unread badges it changes.
func CommentMutationKeys(taskID, assigneeID uint64) []string {
	return []string{KeyComments(taskID), KeyTasksAll(), KeyTasksByAssignee(assigneeID)}
}
