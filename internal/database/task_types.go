package database

import (
	"github.com/workpulse/daily-task-tracker/internal/models"
)

func (db *Database) CreateTaskType(taskType *models.TaskType) error {
	return db.Create(taskType).Error
}

func (db *Database) GetTaskType(id uint) (*models.TaskType, error) {
	var taskType models.TaskType
	if err := db.First(&taskType, id).Error; err != nil {
		return nil, err
	}
	return &taskType, nil
}

func (db *Database) ListTaskTypes() ([]models.TaskType, error) {
	var taskTypes []models.TaskType
	err := db.Order("name ASC").Find(&taskTypes).Error
	return taskTypes, err
}

func (db *Database) UpdateTaskType(taskType *models.TaskType) error {
	return db.Save(taskType).Error
}

func (db *Database) DeleteTaskType(id uint) error {
	return db.Delete(&models.TaskType{}, id).Error
}
