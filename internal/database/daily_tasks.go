package database

import (
	"time"

	"github.com/workpulse/daily-task-tracker/internal/lifecycle"
	"github.com/workpulse/daily-task-tracker/internal/models"
	"gorm.io/gorm"
)

// GetOrCreateDailyTask returns the user's day group for the given day,
// creating it if this is the day's first task. One group per user per
// day is enforced by a unique index, so concurrent creates collapse to
// a retry read.
func (db *Database) GetOrCreateDailyTask(userID uint, day string) (*models.DailyTask, error) {
	var group models.DailyTask
	err := db.Where("user_id = ? AND submission_date = ?", userID, day).First(&group).Error
	if err == nil {
		return &group, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	group = models.DailyTask{UserID: userID, SubmissionDate: day}
	if err := db.Create(&group).Error; err != nil {
		// Lost a race on the unique index; read the winner.
		var existing models.DailyTask
		if readErr := db.Where("user_id = ? AND submission_date = ?", userID, day).
			First(&existing).Error; readErr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &group, nil
}

func (db *Database) GetDailyTask(id uint) (*models.DailyTask, error) {
	var group models.DailyTask
	err := db.Preload("Tasks").
		Preload("Tasks.Comments").
		Preload("Tasks.Attachments").
		Preload("Tasks.ReviewTeam").
		Preload("User").
		First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ListUserDailyTasks returns a user's day groups, newest first.
func (db *Database) ListUserDailyTasks(userID uint) ([]models.DailyTask, error) {
	var groups []models.DailyTask
	err := db.Where("user_id = ?", userID).
		Preload("Tasks").
		Preload("Tasks.Comments").
		Preload("Tasks.Attachments").
		Preload("Tasks.ReviewTeam").
		Preload("User").
		Order("submission_date DESC").
		Find(&groups).Error
	return groups, err
}

// ListOpenPastGroups returns a user's unsubmitted groups dated before
// the given day. These are the shift candidates.
func (db *Database) ListOpenPastGroups(userID uint, before string) ([]models.DailyTask, error) {
	var groups []models.DailyTask
	err := db.Where("user_id = ? AND submitted = ? AND submission_date < ?", userID, false, before).
		Preload("Tasks").
		Order("submission_date ASC").
		Find(&groups).Error
	return groups, err
}

// UsersWithOpenPastGroups lists the ids of users who still have
// unsubmitted groups dated before the given day.
func (db *Database) UsersWithOpenPastGroups(before string) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.DailyTask{}).
		Distinct("user_id").
		Where("submitted = ? AND submission_date < ?", false, before).
		Pluck("user_id", &ids).Error
	return ids, err
}

// SubmitDailyTask flips the group's submitted flag. The flag is
// monotonic: once submitted the group can never be submitted again,
// and submission requires at least one completed task.
func (db *Database) SubmitDailyTask(id uint) (*models.DailyTask, error) {
	group, err := db.GetDailyTask(id)
	if err != nil {
		return nil, err
	}
	if group.Submitted {
		return nil, ErrAlreadySubmitted
	}
	if !lifecycle.CanSubmit(*group) {
		return nil, ErrNoCompletedTask
	}

	now := time.Now()
	if err := db.Model(group).Updates(map[string]interface{}{
		"submitted":    true,
		"submitted_at": now,
	}).Error; err != nil {
		return nil, err
	}
	group.Submitted = true
	group.SubmittedAt = &now
	return group, nil
}
