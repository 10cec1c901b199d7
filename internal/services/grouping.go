package services

import (
	"sort"
	"time"

	"github.com/minhtran-dev/taskdesk/internal/models"
)

// GroupMode selects how the task list is partitioned.
type GroupMode string

const (
	GroupByProject  GroupMode = "project"
	GroupByAssignee GroupMode = "assignee"
)

// UngroupedKey is the bucket for tasks with no project reference.
const UngroupedKey = "General tasks"

// TaskGroup is one section of the grouped task list.
type TaskGroup struct {
	Key       string        `json:"key"`
	LegacyRef *string       `json:"legacy_ref,omitempty"`
	Tasks     []models.Task `json:"tasks"`
}

// GroupTasks partitions tasks by project (name plus legacy code) or by
// assignee display name. Within each group tasks sort ascending by due date
// with null due dates last; groups sort by their minimum member due date, with
// all-undated groups last and lexicographic key order breaking ties.
func GroupTasks(tasks []models.Task, mode GroupMode) []TaskGroup {
	type bucket struct {
		legacyRef *string
		tasks     []models.Task
	}

	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, task := range tasks {
		var key string
		var legacyRef *string

		switch mode {
		case GroupByAssignee:
			key = task.Assignee.FullName
		default:
			if task.Project != nil {
				key = task.Project.Name
				legacyRef = task.Project.LegacyRef
			} else {
				key = UngroupedKey
			}
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{legacyRef: legacyRef}
			buckets[key] = b
			order = append(order, key)
		}
		b.tasks = append(b.tasks, task)
	}

	groups := make([]TaskGroup, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		sortTasksByDue(b.tasks)
		groups = append(groups, TaskGroup{
			Key:       key,
			LegacyRef: b.legacyRef,
			Tasks:     b.tasks,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		di, iOK := minDue(groups[i].Tasks)
		dj, jOK := minDue(groups[j].Tasks)
		switch {
		case iOK && jOK && !di.Equal(dj):
			return di.Before(dj)
		case iOK != jOK:
			return iOK // dated groups before all-undated ones
		default:
			return groups[i].Key < groups[j].Key
		}
	})

	return groups
}

// FilterGroups narrows the grouped list to exactly one group by key. An
// unknown key yields an empty list.
func FilterGroups(groups []TaskGroup, key string) []TaskGroup {
	for _, g := range groups {
		if g.Key == key {
			return []TaskGroup{g}
		}
	}
	return []TaskGroup{}
}

// sortTasksByDue orders tasks ascending by due date, null due dates last.
func sortTasksByDue(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		di, dj := tasks[i].DueDate, tasks[j].DueDate
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
}

// minDue returns the earliest due date in tasks; ok is false when every task
// is undated. Tasks are already due-sorted, so the first dated entry wins.
func minDue(tasks []models.Task) (time.Time, bool) {
	for _, task := range tasks {
		if task.DueDate != nil {
			return *task.DueDate, true
		}
	}
	return time.Time{}, false
}
