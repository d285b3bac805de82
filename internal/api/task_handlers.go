package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workpulse/daily-task-tracker/internal/auth"
	"github.com/workpulse/daily-task-tracker/internal/database"
	"github.com/workpulse/daily-task-tracker/internal/forms"
	"github.com/workpulse/daily-task-tracker/internal/lifecycle"
	"github.com/workpulse/daily-task-tracker/internal/models"
	"github.com/workpulse/daily-task-tracker/internal/shift"
	"github.com/workpulse/daily-task-tracker/internal/storage"
)

type Handler struct {
	db      *database.Database
	storage *storage.FileStorage
	shifter *shift.Engine
	now     func() time.Time
}

// NewHandler wires the task endpoints. now supplies the clock and may
// be nil for time.Now; tests inject a fixed clock.
func NewHandler(db *database.Database, fileStorage *storage.FileStorage, shifter *shift.Engine, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		db:      db,
		storage: fileStorage,
		shifter: shifter,
		now:     now,
	}
}

func taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return 0, false
	}
	return uint(id), true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// verifyReviewTeam checks that a team-routed task names a team that
// actually exists.
func (h *Handler) verifyReviewTeam(route lifecycle.ReviewRoute) bool {
	if route.Kind != models.ReviewRouteTeam {
		return true
	}
	_, err := h.db.GetTeam(route.TeamID)
	return err == nil
}

// withCapabilities fills the response-only action flags on a task.
func (h *Handler) withCapabilities(task *models.Task, callerID uint) {
	task.CanEdit = lifecycle.CanEdit(*task, task.CreatedBy == callerID)
}

// CreateTask handles POST /task/tasks. The body is JSON, or multipart
// form data when attachments ride along.
func (h *Handler) CreateTask(c *gin.Context) {
	var req forms.CreateTaskRequest
	var err error
	if isMultipart(c) {
		err = c.ShouldBind(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route, fieldErrs := req.Validate()
	if !fieldErrs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fieldErrs})
		return
	}

	if !h.verifyReviewTeam(route) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": gin.H{"review_team_id": "team not found"}})
		return
	}

	callerID := auth.CallerID(c)
	task := req.ToTask(route, callerID, database.Today(h.now()))

	if err := h.db.CreateTask(task); err != nil {
		if err == database.ErrAlreadySubmitted {
			c.JSON(http.StatusConflict, gin.H{"error": "Daily tasks for this date are already submitted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	if isMultipart(c) {
		if err := h.saveAttachments(c, task); err != nil {
			// Roll the row back so a failed upload leaves nothing behind.
			h.db.Delete(&models.Task{}, task.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attachments"})
			return
		}
	}

	created, err := h.db.GetTask(task.ID)
	if err != nil {
		c.JSON(http.StatusCreated, gin.H{"data": task})
		return
	}
	h.withCapabilities(created, callerID)
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (h *Handler) saveAttachments(c *gin.Context, task *models.Task) error {
	form, err := c.MultipartForm()
	if err != nil {
		return err
	}
	for _, fileHeader := range form.File["attachments"] {
		path, err := h.storage.SaveFile(fileHeader, task.CreatedBy, task.ID)
		if err != nil {
			return err
		}
		attachment := &models.Attachment{
			TaskID:   task.ID,
			Filename: fileHeader.Filename,
			Path:     path,
			Size:     fileHeader.Size,
			MimeType: fileHeader.Header.Get("Content-Type"),
		}
		if err := h.db.AddAttachment(attachment); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.db.GetTask(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	h.withCapabilities(task, auth.CallerID(c))
	c.JSON(http.StatusOK, gin.H{"data": task})
}

// UpdateTask handles PUT /task/tasks/:id. Editing is restricted to the
// creator and refused once the task is completed.
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.db.GetTask(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	callerID := auth.CallerID(c)
	if !lifecycle.CanEdit(*task, task.CreatedBy == callerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Task can no longer be edited"})
		return
	}

	var req forms.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fieldErrs := req.Validate(); !fieldErrs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fieldErrs})
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Contribution = req.Contribution
	task.RelatedProject = req.RelatedProject
	task.AchievedDeliverables = req.AchievedDeliverables
	task.LocationName = req.LocationName
	if req.Status != "" {
		task.Status = models.TaskStatus(req.Status)
	}
	if req.TaskTypeID != nil {
		task.TaskTypeID = req.TaskTypeID
	}

	if err := h.db.UpdateTask(task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	h.withCapabilities(task, callerID)
	c.JSON(http.StatusOK, gin.H{"data": task})
}

// UpdateTaskStatus handles PATCH /task/tasks/:id/status.
func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req forms.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fieldErrs := req.Validate(); !fieldErrs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fieldErrs})
		return
	}

	task, err := h.db.UpdateTaskStatus(id, models.TaskStatus(req.Status))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	h.withCapabilities(task, auth.CallerID(c))
	c.JSON(http.StatusOK, gin.H{"data": task})
}

// ReworkTask handles PUT /task/tasks/:id/rework. The same endpoint
// serves a rejected task's resubmission and a shifted task's
// continuation; payload flags disambiguate.
func (h *Handler) ReworkTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.db.GetTask(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !lifecycle.CanRework(*task) {
		c.JSON(http.StatusConflict, gin.H{"error": "Task is not eligible for rework"})
		return
	}

	var req forms.ReworkTaskRequest
	if isMultipart(c) {
		err = c.ShouldBind(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route, fieldErrs := req.Validate()
	if !fieldErrs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fieldErrs})
		return
	}
	if !h.verifyReviewTeam(route) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": gin.H{"review_team_id": "team not found"}})
		return
	}

	req.ApplyTo(task, route)

	if err := h.db.UpdateTask(task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rework task"})
		return
	}

	if isMultipart(c) {
		if err := h.saveAttachments(c, task); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attachments"})
			return
		}
	}

	reworked, err := h.db.GetTask(task.ID)
	if err != nil {
		reworked = task
	}
	h.withCapabilities(reworked, auth.CallerID(c))
	c.JSON(http.StatusOK, gin.H{"data": reworked})
}

// ReviewTask handles PATCH /task/tasks/:id/review. The route is gated
// to reviewer roles by middleware.
func (h *Handler) ReviewTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req forms.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fieldErrs := req.Validate(); !fieldErrs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fieldErrs})
		return
	}

	task, err := h.db.ReviewTask(id, models.ReviewStatus(req.ReviewStatus), req.Comment)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

// AddComment handles POST /task/tasks/:id/comments.
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if _, err := h.db.GetTask(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	var comment models.Comment
	if err := c.ShouldBindJSON(&comment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if comment.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": gin.H{"content": "missed value"}})
		return
	}

	comment.TaskID = id
	comment.AuthorID = auth.CallerID(c)
	if comment.Author == "" {
		if username, exists := c.Get("username"); exists {
			comment.Author, _ = username.(string)
		}
	}

	if err := h.db.AddComment(&comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

// UploadAttachment handles POST /task/tasks/:id/attachments.
func (h *Handler) UploadAttachment(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	task, err := h.db.GetTask(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	path, err := h.storage.SaveFile(file, task.CreatedBy, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	attachment := models.Attachment{
		TaskID:   id,
		Filename: file.Filename,
		Path:     path,
		Size:     file.Size,
		MimeType: file.Header.Get("Content-Type"),
	}

	if err := h.db.AddAttachment(&attachment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attachment record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": attachment})
}

// DownloadAttachment handles GET /task/attachments/:id.
func (h *Handler) DownloadAttachment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment ID"})
		return
	}

	var attachment models.Attachment
	if err := h.db.First(&attachment, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
		return
	}

	c.FileAttachment(h.storage.GetFilePath(attachment.Path), attachment.Filename)
}
