// Package auth centralizes the employee/manager/admin permission matrix so
// role checks are not scattered through handlers as string comparisons.
package auth

import "github.com/minhtran-dev/taskdesk/internal/models"

// Action is a capability that can be granted to a role.
type Action string

const (
	ActionViewTasks      Action = "tasks.view"
	ActionUpdateStatus   Action = "tasks.update_status"
	ActionComment        Action = "tasks.comment"
	ActionMarkRead       Action = "tasks.mark_read"
	ActionCreateTask     Action = "tasks.create"
	ActionEditTask       Action = "tasks.edit"
	ActionReassignTask   Action = "tasks.reassign"
	ActionDeleteTask     Action = "tasks.delete"
	ActionCompleteTask   Action = "tasks.complete"
	ActionManageProjects Action = "projects.manage"
	ActionViewUsers      Action = "users.view"
	ActionCreateUser     Action = "users.create"
	ActionBanUser        Action = "users.ban"
	ActionResetPassword  Action = "users.reset_password"
	ActionDeleteUser     Action = "users.delete"
	ActionChangePassword Action = "self.change_password"
)

var employeeActions = map[Action]bool{
	ActionViewTasks:      true,
	ActionUpdateStatus:   true,
	ActionComment:        true,
	ActionMarkRead:       true,
	ActionChangePassword: true,
}

var managerActions = map[Action]bool{
	ActionCreateTask:     true,
	ActionEditTask:       true,
	ActionReassignTask:   true,
	ActionDeleteTask:     true,
	ActionCompleteTask:   true,
	ActionManageProjects: true,
	ActionViewUsers:      true,
	ActionCreateUser:     true,
}

var adminActions = map[Action]bool{
	ActionBanUser:       true,
	ActionResetPassword: true,
	ActionDeleteUser:    true,
}

// Can reports whether a role is allowed to perform an action. Managers hold
// every employee capability, and admins hold every manager capability.
func Can(role models.Role, action Action) bool {
	switch role {
	case models.RoleAdmin:
		if adminActions[action] {
			return true
		}
		fallthrough
	case models.RoleManager:
		if managerActions[action] {
			return true
		}
		fallthrough
	case models.RoleEmployee:
		return employeeActions[action]
	}
	return false
}
