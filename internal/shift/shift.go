// Package shift moves unfinished tasks out of past, unsubmitted day
// groups into today's group. The shift runs server-side: once when a
// user's daily tasks are fetched, and nightly as a safety net.
package shift

import (
	"fmt"
	"log"
	"time"

	"github.com/workpulse/daily-task-tracker/internal/database"
	"github.com/workpulse/daily-task-tracker/internal/models"
)

type Engine struct {
	db  *database.Database
	now func() time.Time
}

// NewEngine builds an engine on the given database. now supplies the
// clock and may be nil for time.Now; tests inject a fixed clock.
func NewEngine(db *database.Database, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{db: db, now: now}
}

// ShiftedTask reports one shifted task, with the work-day counter
// before and after the shift.
type ShiftedTask struct {
	TaskID       uint   `json:"task_id"`
	Title        string `json:"title"`
	FromWorkDays int    `json:"from_work_days"`
	ToWorkDays   int    `json:"to_work_days"`
}

// ShiftUser carries every incomplete task in the user's unsubmitted
// past groups forward into today's group. The first shift of a task
// records its original due date; every shift advances the work-day
// counter, at most once per calendar day (the last-shifted-date guard
// makes repeated fetches on the same day idempotent).
//
// Completed-but-unapproved tasks are not moved: they stay in their
// original group, where the active-task filter keeps them visible
// until they are submitted and approved. Nothing is ever moved into a
// group that was already submitted.
func (e *Engine) ShiftUser(userID uint) ([]ShiftedTask, error) {
	today := database.Today(e.now())

	groups, err := e.db.ListOpenPastGroups(userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift candidates: %w", err)
	}

	var shifted []ShiftedTask
	for _, group := range groups {
		for i := range group.Tasks {
			task := group.Tasks[i]
			if task.Status == models.TaskStatusCompleted {
				continue
			}
			if task.LastShiftedDate == today {
				continue
			}

			dest, err := e.db.GetOrCreateDailyTask(userID, today)
			if err != nil {
				return shifted, fmt.Errorf("failed to open today's group: %w", err)
			}
			if dest.Submitted {
				// Today's group is closed; the task stays in its
				// original group until an open day comes around.
				continue
			}

			from := task.WorkDaysCount
			if !task.IsShifted {
				task.IsShifted = true
				task.OriginalDueDate = task.DueDate
			}
			task.LastShiftedDate = today
			task.WorkDaysCount++
			task.DueDate = today
			task.DailyTaskID = dest.ID

			if err := e.db.UpdateTask(&task); err != nil {
				return shifted, fmt.Errorf("failed to shift task %d: %w", task.ID, err)
			}

			shifted = append(shifted, ShiftedTask{
				TaskID:       task.ID,
				Title:        task.Title,
				FromWorkDays: from,
				ToWorkDays:   task.WorkDaysCount,
			})
		}
	}
	return shifted, nil
}

// ShiftAll runs the shift for every user with open past groups.
func (e *Engine) ShiftAll() error {
	today := database.Today(e.now())
	userIDs, err := e.db.UsersWithOpenPastGroups(today)
	if err != nil {
		return fmt.Errorf("failed to list users with open groups: %w", err)
	}

	for _, id := range userIDs {
		if _, err := e.ShiftUser(id); err != nil {
			// One user's failure must not block the rest of the run.
			log.Printf("auto-shift failed for user %d: %v", id, err)
		}
	}
	return nil
}
