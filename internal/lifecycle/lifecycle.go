// Package lifecycle holds the pure projection rules for daily tasks:
// which tasks are still active, whether a day group should be shown,
// what actions a task currently admits, and how a rework request is
// built from a shifted or rejected task. Nothing here touches the
// database or the wall clock; callers supply "today".
package lifecycle

import (
	"errors"
	"log"
	"time"

	"github.com/workpulse/daily-task-tracker/internal/models"
)

var (
	ErrNoReviewRoute        = errors.New("a review route must be selected")
	ErrAmbiguousReviewRoute = errors.New("only one review route may be selected")
	ErrMissingReviewTeam    = errors.New("a review team is required for team review")
)

// Diagnostic receives reports about malformed data encountered during
// projection. Defaults to log.Printf; tests swap it out.
type Diagnostic func(format string, args ...interface{})

// IsClosed reports whether a task is fully closed out: completed,
// contained in a submitted group, and approved. Only such tasks drop
// out of the active view; anything still awaiting submission or still
// awaiting or failing review stays visible.
//
// A missing review status counts as not approved, so the task stays
// active rather than silently disappearing.
func IsClosed(t models.Task, submitted bool) bool {
	return t.Status == models.TaskStatusCompleted &&
		submitted &&
		t.ReviewStatus == models.ReviewStatusApproved
}

// IsActive is the complement of IsClosed for a task inside dt.
func IsActive(t models.Task, submitted bool) bool {
	return !IsClosed(t, submitted)
}

// ActiveTasks returns the tasks of dt that should still appear in the
// owning user's actionable list. An empty group yields an empty slice.
func ActiveTasks(dt models.DailyTask) []models.Task {
	active := make([]models.Task, 0, len(dt.Tasks))
	for _, t := range dt.Tasks {
		if IsActive(t, dt.Submitted) {
			active = append(active, t)
		}
	}
	return active
}

// ParseDay parses a calendar-day string in models.DayLayout. A value
// that fails to parse is treated as today and reported through diag;
// masking a bad date silently would hide data-integrity problems.
func ParseDay(raw string, today time.Time, diag Diagnostic) time.Time {
	if diag == nil {
		diag = log.Printf
	}
	d, err := time.Parse(models.DayLayout, raw)
	if err != nil {
		diag("lifecycle: unparseable day %q, treating as today: %v", raw, err)
		return truncateDay(today)
	}
	return d
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// BeforeDay reports whether a falls on a calendar day strictly before b.
func BeforeDay(a, b time.Time) bool {
	return truncateDay(a).Before(truncateDay(b))
}

// ShouldDisplay decides whether a day group is rendered at all: only
// when it still has active tasks, and never for past-dated groups.
// Today's group is always evaluated by activity alone, regardless of
// how the date comparison behaves at the boundary.
func ShouldDisplay(dt models.DailyTask, today time.Time, diag Diagnostic) bool {
	if len(ActiveTasks(dt)) == 0 {
		return false
	}
	day := ParseDay(dt.SubmissionDate, today, diag)
	return SameDay(day, today) || !BeforeDay(day, today)
}

// CanEdit gates the edit action. The capability flag is decided by the
// caller (creator identity, review state); completed tasks are never
// editable regardless of capability.
func CanEdit(t models.Task, capability bool) bool {
	return capability && t.Status != models.TaskStatusCompleted
}

// CanRework gates the universal "redo" action. Three independent
// triggers: a rejected review, a shifted task, or work still in
// progress.
func CanRework(t models.Task) bool {
	return t.ReviewStatus == models.ReviewStatusRejected ||
		t.IsShifted ||
		t.Status == models.TaskStatusInProgress
}

// CanReview gates approve/reject by caller role alone; task state does
// not enter into it.
func CanReview(role models.UserRole) bool {
	for _, r := range models.ReviewerRoles {
		if role == r {
			return true
		}
	}
	return false
}

// CanSubmit gates the submit action on a day group: not yet submitted,
// and at least one task completed.
func CanSubmit(dt models.DailyTask) bool {
	if dt.Submitted {
		return false
	}
	for _, t := range dt.Tasks {
		if t.Status == models.TaskStatusCompleted {
			return true
		}
	}
	return false
}

// ReviewRoute is the explicit routing of a task's review: either to a
// named team or to the creator's direct supervisor. It replaces the
// legacy pair of mutually exclusive booleans, validated at
// construction instead of ad hoc at submit time.
type ReviewRoute struct {
	Kind   models.ReviewRouteKind
	TeamID uint // set iff Kind == ReviewRouteTeam
}

// RouteFromFlags builds a ReviewRoute from the legacy wire flags,
// enforcing the exactly-one invariant and the team-id requirement.
func RouteFromFlags(isTeamTask, isForDirectSupervisor bool, teamID *uint) (ReviewRoute, error) {
	switch {
	case isTeamTask && isForDirectSupervisor:
		return ReviewRoute{}, ErrAmbiguousReviewRoute
	case !isTeamTask && !isForDirectSupervisor:
		return ReviewRoute{}, ErrNoReviewRoute
	case isTeamTask:
		if teamID == nil || *teamID == 0 {
			return ReviewRoute{}, ErrMissingReviewTeam
		}
		return ReviewRoute{Kind: models.ReviewRouteTeam, TeamID: *teamID}, nil
	default:
		return ReviewRoute{Kind: models.ReviewRouteSupervisor}, nil
	}
}

// ReworkPayload is the request body a rework submission carries. The
// rework endpoint serves both "resubmit a rejected task" and "continue
// a shifted task"; the flags disambiguate the two for the server.
type ReworkPayload struct {
	OriginalDueDate string
	IsShifted       bool
	ShiftedRework   bool
}

// BuildReworkPayload derives the rework payload from the task being
// reworked. The original due date carries forward when present and
// falls back to the task's own due date; a shifted source task must be
// flagged explicitly so the shift history survives the rework.
func BuildReworkPayload(t models.Task) ReworkPayload {
	p := ReworkPayload{OriginalDueDate: t.OriginalDueDate}
	if p.OriginalDueDate == "" {
		p.OriginalDueDate = t.DueDate
	}
	if t.IsShifted {
		p.IsShifted = true
		p.ShiftedRework = true
	}
	return p
}

// FormFields renders the payload as multipart form values, matching
// the string encoding the rework endpoint accepts.
func (p ReworkPayload) FormFields() map[string]string {
	fields := map[string]string{
		"originalDueDate": p.OriginalDueDate,
	}
	if p.IsShifted {
		fields["isShifted"] = "true"
	}
	if p.ShiftedRework {
		fields["shiftedRework"] = "true"
	}
	return fields
}
