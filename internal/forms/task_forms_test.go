package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpulse/daily-task-tracker/internal/models"
)

func validCreateRequest() CreateTaskRequest {
	return CreateTaskRequest{
		Title:                      "Prepare quarterly report",
		Description:                "Collect figures and draft the summary",
		IsForDirectSupervisorTasks: true,
	}
}

func TestCreateTaskRequestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := validCreateRequest()
		route, errs := req.Validate()
		assert.True(t, errs.Empty(), "unexpected errors: %v", errs)
		assert.Equal(t, models.ReviewRouteSupervisor, route.Kind)
	})

	t.Run("MissingRequiredFields", func(t *testing.T) {
		req := CreateTaskRequest{IsForDirectSupervisorTasks: true}
		_, errs := req.Validate()
		assert.Contains(t, errs, "title")
		assert.Contains(t, errs, "description")
	})

	t.Run("BothRouteFlagsRejected", func(t *testing.T) {
		req := validCreateRequest()
		req.IsTeamTask = true
		_, errs := req.Validate()
		assert.Contains(t, errs, "review_route")
	})

	t.Run("NeitherRouteFlagRejected", func(t *testing.T) {
		req := validCreateRequest()
		req.IsForDirectSupervisorTasks = false
		_, errs := req.Validate()
		assert.Contains(t, errs, "review_route")
	})

	t.Run("TeamRouteRequiresTeamID", func(t *testing.T) {
		req := validCreateRequest()
		req.IsForDirectSupervisorTasks = false
		req.IsTeamTask = true
		_, errs := req.Validate()
		assert.Contains(t, errs, "review_team_id")

		teamID := uint(3)
		req.ReviewTeamID = &teamID
		route, errs := req.Validate()
		assert.True(t, errs.Empty())
		assert.Equal(t, models.ReviewRouteTeam, route.Kind)
		assert.Equal(t, teamID, route.TeamID)
	})

	t.Run("LegacyStatusRejected", func(t *testing.T) {
		req := validCreateRequest()
		req.Status = "delayed"
		_, errs := req.Validate()
		assert.Contains(t, errs, "status")
	})

	t.Run("MalformedDueDateRejected", func(t *testing.T) {
		req := validCreateRequest()
		req.DueDate = "15/03/2024"
		_, errs := req.Validate()
		assert.Contains(t, errs, "duedate")
	})
}

func TestCreateTaskRequestToTask(t *testing.T) {
	req := validCreateRequest()
	route, errs := req.Validate()
	require.True(t, errs.Empty())

	task := req.ToTask(route, 42, "2024-03-15")
	assert.Equal(t, uint(42), task.CreatedBy)
	assert.Equal(t, "2024-03-15", task.DueDate, "due date defaults to today")
	assert.Equal(t, models.TaskStatusInProgress, task.Status)
	assert.Equal(t, models.ReviewStatusPending, task.ReviewStatus)
	assert.Equal(t, 1, task.WorkDaysCount)
	assert.Nil(t, task.ReviewTeamID)
}

func TestReworkApplyTo(t *testing.T) {
	t.Run("ShiftedReworkKeepsHistory", func(t *testing.T) {
		req := ReworkTaskRequest{
			CreateTaskRequest: validCreateRequest(),
			OriginalDueDate:   "2024-01-01",
			IsShifted:         true,
			ShiftedRework:     true,
		}
		route, errs := req.Validate()
		require.True(t, errs.Empty())

		task := models.Task{
			Status:       models.TaskStatusInProgress,
			ReviewStatus: models.ReviewStatusRejected,
			DueDate:      "2024-01-05",
		}
		req.ApplyTo(&task, route)

		assert.True(t, task.IsShifted)
		assert.Equal(t, "2024-01-01", task.OriginalDueDate)
		assert.Equal(t, models.ReviewStatusPending, task.ReviewStatus)
		assert.Empty(t, task.ReviewComment)
	})

	t.Run("PlainReworkFallsBackToDueDate", func(t *testing.T) {
		req := ReworkTaskRequest{CreateTaskRequest: validCreateRequest()}
		route, errs := req.Validate()
		require.True(t, errs.Empty())

		task := models.Task{DueDate: "2024-02-02", ReviewStatus: models.ReviewStatusRejected}
		req.ApplyTo(&task, route)

		assert.False(t, task.IsShifted)
		assert.Equal(t, "2024-02-02", task.OriginalDueDate)
	})

	t.Run("RouteCanChangeOnRework", func(t *testing.T) {
		teamID := uint(9)
		req := ReworkTaskRequest{CreateTaskRequest: validCreateRequest()}
		req.IsForDirectSupervisorTasks = false
		req.IsTeamTask = true
		req.ReviewTeamID = &teamID
		route, errs := req.Validate()
		require.True(t, errs.Empty())

		task := models.Task{ReviewRoute: models.ReviewRouteSupervisor}
		req.ApplyTo(&task, route)
		assert.Equal(t, models.ReviewRouteTeam, task.ReviewRoute)
		require.NotNil(t, task.ReviewTeamID)
		assert.Equal(t, teamID, *task.ReviewTeamID)
	})
}

func TestStatusAndReviewRequests(t *testing.T) {
	t.Run("StatusOneOf", func(t *testing.T) {
		assert.True(t, (&StatusUpdateRequest{Status: "completed"}).Validate().Empty())
		assert.False(t, (&StatusUpdateRequest{Status: "pending"}).Validate().Empty())
		assert.False(t, (&StatusUpdateRequest{}).Validate().Empty())
	})

	t.Run("ReviewOneOf", func(t *testing.T) {
		assert.True(t, (&ReviewRequest{ReviewStatus: "approved"}).Validate().Empty())
		assert.True(t, (&ReviewRequest{ReviewStatus: "rejected"}).Validate().Empty())
		assert.False(t, (&ReviewRequest{ReviewStatus: "pending"}).Validate().Empty())
	})
}
