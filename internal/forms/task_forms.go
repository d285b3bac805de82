// Package forms holds the typed request bodies of the task endpoints
// and their validation. Validation failures are local: they are
// surfaced as field-level errors and never reach the database.
package forms

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/workpulse/daily-task-tracker/internal/lifecycle"
	"github.com/workpulse/daily-task-tracker/internal/models"
)

var validate = validator.New()

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

func (e FieldErrors) Empty() bool { return len(e) == 0 }

func collectValidatorErrors(err error, out FieldErrors) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["request"] = err.Error()
		return
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "missed value"
		case "oneof":
			out[field] = "must be one of: " + fe.Param()
		case "datetime":
			out[field] = "must be a date in the form " + fe.Param()
		default:
			out[field] = "invalid value"
		}
	}
}

// CreateTaskRequest is the body of POST /task/tasks. It binds from
// JSON or from multipart form fields when attachments ride along.
type CreateTaskRequest struct {
	Title                      string `json:"title" form:"title" validate:"required"`
	Description                string `json:"description" form:"description" validate:"required"`
	Contribution               string `json:"contribution" form:"contribution"`
	RelatedProject             string `json:"related_project" form:"related_project"`
	AchievedDeliverables       string `json:"achieved_deliverables" form:"achieved_deliverables"`
	LocationName               string `json:"location_name" form:"location_name"`
	Status                     string `json:"status" form:"status" validate:"omitempty,oneof=in_progress completed"`
	DueDate                    string `json:"due_date" form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	IsTeamTask                 bool   `json:"isTeamTask" form:"isTeamTask"`
	IsForDirectSupervisorTasks bool   `json:"isForDirectSupervisorTasks" form:"isForDirectSupervisorTasks"`
	ReviewTeamID               *uint  `json:"review_team_id" form:"review_team_id"`
	TaskTypeID                 *uint  `json:"task_type_id" form:"task_type_id"`
	DepartmentID               *uint  `json:"department_id" form:"department_id"`
	CompanyServedID            *uint  `json:"company_served_id" form:"company_served_id"`
	CompanyServedName          string `json:"company_served_name" form:"company_served_name"`
}

// Validate checks field constraints and the review-route exclusivity
// invariant: exactly one of isTeamTask / isForDirectSupervisorTasks,
// with a team id whenever the team route is chosen.
func (r *CreateTaskRequest) Validate() (lifecycle.ReviewRoute, FieldErrors) {
	errs := FieldErrors{}
	if err := validate.Struct(r); err != nil {
		collectValidatorErrors(err, errs)
	}

	route, err := lifecycle.RouteFromFlags(r.IsTeamTask, r.IsForDirectSupervisorTasks, r.ReviewTeamID)
	if err != nil {
		switch err {
		case lifecycle.ErrMissingReviewTeam:
			errs["review_team_id"] = err.Error()
		default:
			errs["review_route"] = err.Error()
		}
	}
	return route, errs
}

// ToTask builds the task entity. The due date defaults to today when
// the client leaves it out.
func (r *CreateTaskRequest) ToTask(route lifecycle.ReviewRoute, createdBy uint, today string) *models.Task {
	status := models.TaskStatus(r.Status)
	if status == "" {
		status = models.TaskStatusInProgress
	}
	dueDate := r.DueDate
	if dueDate == "" {
		dueDate = today
	}

	task := &models.Task{
		Title:                r.Title,
		Description:          r.Description,
		Contribution:         r.Contribution,
		RelatedProject:       r.RelatedProject,
		AchievedDeliverables: r.AchievedDeliverables,
		LocationName:         r.LocationName,
		Status:               status,
		ReviewStatus:         models.ReviewStatusPending,
		DueDate:              dueDate,
		ReviewRoute:          route.Kind,
		TaskTypeID:           r.TaskTypeID,
		DepartmentID:         r.DepartmentID,
		CompanyServedID:      r.CompanyServedID,
		CompanyServedName:    r.CompanyServedName,
		CreatedBy:            createdBy,
		WorkDaysCount:        1,
	}
	if route.Kind == models.ReviewRouteTeam {
		teamID := route.TeamID
		task.ReviewTeamID = &teamID
	}
	return task
}

// ReworkTaskRequest is the body of PUT /task/tasks/:id/rework. The
// same endpoint serves "resubmit after rejection" and "continue a
// shifted task"; the shift flags disambiguate. Bound from multipart
// form fields, so the booleans arrive as strings.
type ReworkTaskRequest struct {
	CreateTaskRequest
	OriginalDueDate string `json:"originalDueDate" form:"originalDueDate" validate:"omitempty,datetime=2006-01-02"`
	IsShifted       bool   `json:"isShifted" form:"isShifted"`
	ShiftedRework   bool   `json:"shiftedRework" form:"shiftedRework"`
}

// Validate extends the create-request checks with the rework-only
// fields.
func (r *ReworkTaskRequest) Validate() (lifecycle.ReviewRoute, FieldErrors) {
	route, errs := r.CreateTaskRequest.Validate()
	if r.OriginalDueDate != "" {
		if err := validate.Var(r.OriginalDueDate, "datetime=2006-01-02"); err != nil {
			errs["originalduedate"] = "must be a date in the form 2006-01-02"
		}
	}
	return route, errs
}

// ApplyTo rewrites the reworked task in place: content fields are
// replaced, review goes back to pending, and shift history is carried
// forward per the payload flags.
func (r *ReworkTaskRequest) ApplyTo(task *models.Task, route lifecycle.ReviewRoute) {
	task.Title = r.Title
	task.Description = r.Description
	task.Contribution = r.Contribution
	task.RelatedProject = r.RelatedProject
	task.AchievedDeliverables = r.AchievedDeliverables
	task.LocationName = r.LocationName
	if r.Status != "" {
		task.Status = models.TaskStatus(r.Status)
	}
	task.ReviewStatus = models.ReviewStatusPending
	task.ReviewComment = ""
	task.ReviewRoute = route.Kind
	task.ReviewTeamID = nil
	if route.Kind == models.ReviewRouteTeam {
		teamID := route.TeamID
		task.ReviewTeamID = &teamID
	}
	if r.IsShifted || r.ShiftedRework {
		task.IsShifted = true
	}
	if r.OriginalDueDate != "" {
		task.OriginalDueDate = r.OriginalDueDate
	} else if task.OriginalDueDate == "" {
		task.OriginalDueDate = task.DueDate
	}
}

// UpdateTaskRequest is the body of PUT /task/tasks/:id.
type UpdateTaskRequest struct {
	Title                string `json:"title" validate:"required"`
	Description          string `json:"description" validate:"required"`
	Contribution         string `json:"contribution"`
	RelatedProject       string `json:"related_project"`
	AchievedDeliverables string `json:"achieved_deliverables"`
	LocationName         string `json:"location_name"`
	Status               string `json:"status" validate:"omitempty,oneof=in_progress completed"`
	TaskTypeID           *uint  `json:"task_type_id"`
}

func (r *UpdateTaskRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if err := validate.Struct(r); err != nil {
		collectValidatorErrors(err, errs)
	}
	return errs
}

// StatusUpdateRequest is the body of PATCH /task/tasks/:id/status.
// Only the two writable statuses are accepted; pending and delayed are
// legacy values this service never writes.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required" validate:"required,oneof=in_progress completed"`
}

func (r *StatusUpdateRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if err := validate.Struct(r); err != nil {
		collectValidatorErrors(err, errs)
	}
	return errs
}

// ReviewRequest is the body of PATCH /task/tasks/:id/review.
type ReviewRequest struct {
	ReviewStatus string `json:"review_status" binding:"required" validate:"required,oneof=approved rejected"`
	Comment      string `json:"comment"`
}

func (r *ReviewRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if err := validate.Struct(r); err != nil {
		collectValidatorErrors(err, errs)
	}
	return errs
}

// TaskTypeRequest is the body of task-type create/update.
type TaskTypeRequest struct {
	Name        string `json:"name" binding:"required" validate:"required"`
	Description string `json:"description"`
}

func (r *TaskTypeRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if err := validate.Struct(r); err != nil {
		collectValidatorErrors(err, errs)
	}
	return errs
}
