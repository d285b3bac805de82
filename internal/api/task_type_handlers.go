package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/workpulse/daily-task-tracker/internal/forms"
	"github.com/workpulse/daily-task-tracker/internal/models"
)

func (h *Handler) ListTaskTypes(c *gin.Context) {
	taskTypes, err := h.db.ListTaskTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list task types"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": taskTypes})
}

func (h *Handler) CreateTaskType(c *gin.Context) {
	var req forms.TaskTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fieldErrs := req.Validate(); !fieldErrs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fieldErrs})
		return
	}

	taskType := &models.TaskType{Name: req.Name, Description: req.Description}
	if err := h.db.CreateTaskType(taskType); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Task type already exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": taskType})
}

func (h *Handler) UpdateTaskType(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task type ID"})
		return
	}

	taskType, err := h.db.GetTaskType(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task type not found"})
		return
	}

	var req forms.TaskTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fieldErrs := req.Validate(); !fieldErrs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fieldErrs})
		return
	}

	taskType.Name = req.Name
	taskType.Description = req.Description
	if err := h.db.UpdateTaskType(taskType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task type"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": taskType})
}

func (h *Handler) DeleteTaskType(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task type ID"})
		return
	}

	if err := h.db.DeleteTaskType(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task type"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
