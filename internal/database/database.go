package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/workpulse/daily-task-tracker/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrAlreadySubmitted = errors.New("daily task group already submitted")
	ErrNoCompletedTask  = errors.New("daily task group has no completed task")
)

type Database struct {
	*gorm.DB
}

func NewDatabase(dataDir string) (*Database, error) {
	dbPath := filepath.Join(dataDir, "db", "tasks.db")

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		// Core entities
		&models.User{},
		&models.Department{},
		&models.Company{},
		&models.Team{},
		&models.TaskType{},
		&models.DailyTask{},
		&models.Task{},
		&models.Comment{},
		&models.Attachment{},

		// Auth entities
		&models.RefreshToken{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

// CreateTask stores a task inside the creator's day group for the
// task's due date. The group is created on first use; clients never
// create one explicitly.
func (db *Database) CreateTask(task *models.Task) error {
	if task.DailyTaskID == 0 {
		group, err := db.GetOrCreateDailyTask(task.CreatedBy, task.DueDate)
		if err != nil {
			return err
		}
		if group.Submitted {
			return ErrAlreadySubmitted
		}
		task.DailyTaskID = group.ID
	}
	task.Reviewed = task.ReviewStatus != models.ReviewStatusPending && task.ReviewStatus != ""
	return db.Create(task).Error
}

func (db *Database) GetTask(id uint) (*models.Task, error) {
	var task models.Task
	err := db.Preload("Comments").
		Preload("Attachments").
		Preload("ReviewTeam").
		Preload("TaskType").
		Preload("Department").
		Preload("CompanyServed").
		First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (db *Database) UpdateTask(task *models.Task) error {
	task.Reviewed = task.ReviewStatus != models.ReviewStatusPending && task.ReviewStatus != ""
	return db.Save(task).Error
}

// UpdateTaskStatus applies a status-only transition. Only the writable
// statuses are accepted at this layer too, so no code path can write
// the legacy values back.
func (db *Database) UpdateTaskStatus(id uint, status models.TaskStatus) (*models.Task, error) {
	if !status.Writable() {
		return nil, fmt.Errorf("status %q is not writable", status)
	}
	if err := db.Model(&models.Task{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return nil, err
	}
	return db.GetTask(id)
}

// ReviewTask records an approve/reject decision. The redundant
// reviewed flag is derived from review_status on every write.
func (db *Database) ReviewTask(id uint, status models.ReviewStatus, comment string) (*models.Task, error) {
	reviewed := status != models.ReviewStatusPending
	if err := db.Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"review_status":  status,
		"reviewed":       reviewed,
		"review_comment": comment,
	}).Error; err != nil {
		return nil, err
	}
	return db.GetTask(id)
}

func (db *Database) AddComment(comment *models.Comment) error {
	return db.Create(comment).Error
}

func (db *Database) AddAttachment(attachment *models.Attachment) error {
	return db.Create(attachment).Error
}

func (db *Database) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := db.Preload("Department").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Database) ListTeams() ([]models.Team, error) {
	var teams []models.Team
	err := db.Preload("Lead").Find(&teams).Error
	return teams, err
}

func (db *Database) GetTeam(id uint) (*models.Team, error) {
	var team models.Team
	if err := db.Preload("Members").Preload("Lead").First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// Today renders t as a calendar-day string in the wire format.
func Today(t time.Time) string {
	return t.Format(models.DayLayout)
}
