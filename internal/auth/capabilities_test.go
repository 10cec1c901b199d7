package auth

import (
	"testing"

	"github.com/minhtran-dev/taskdesk/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	// Employees hold only their own capabilities.
	assert.True(t, Can(models.RoleEmployee, ActionUpdateStatus))
	assert.True(t, Can(models.RoleEmployee, ActionComment))
	assert.True(t, Can(models.RoleEmployee, ActionMarkRead))
	assert.False(t, Can(models.RoleEmployee, ActionCreateTask))
	assert.False(t, Can(models.RoleEmployee, ActionDeleteTask))
	assert.False(t, Can(models.RoleEmployee, ActionBanUser))

	// Managers inherit employee capabilities and add task/project/user management.
	assert.True(t, Can(models.RoleManager, ActionComment))
	assert.True(t, Can(models.RoleManager, ActionCreateTask))
	assert.True(t, Can(models.RoleManager, ActionCompleteTask))
	assert.True(t, Can(models.RoleManager, ActionManageProjects))
	assert.False(t, Can(models.RoleManager, ActionBanUser))
	assert.False(t, Can(models.RoleManager, ActionDeleteUser))

	// Admins inherit everything and add account administration.
	assert.True(t, Can(models.RoleAdmin, ActionComment))
	assert.True(t, Can(models.RoleAdmin, ActionCreateTask))
	assert.True(t, Can(models.RoleAdmin, ActionBanUser))
	assert.True(t, Can(models.RoleAdmin, ActionResetPassword))
	assert.True(t, Can(models.RoleAdmin, ActionDeleteUser))

	// Unknown roles hold nothing.
	assert.False(t, Can(models.Role("guest"), ActionViewTasks))
}
