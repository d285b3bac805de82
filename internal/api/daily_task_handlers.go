package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/workpulse/daily-task-tracker/internal/auth"
	"github.com/workpulse/daily-task-tracker/internal/database"
	"github.com/workpulse/daily-task-tracker/internal/lifecycle"
	"github.com/workpulse/daily-task-tracker/internal/models"
	"github.com/workpulse/daily-task-tracker/internal/shift"
)

// DailyTaskView is a day group plus its derived projection: the
// active sublist and the render decision, computed server-side so
// every dashboard shares one rule set.
type DailyTaskView struct {
	models.DailyTask
	ActiveTasks   []models.Task `json:"active_tasks"`
	ShouldDisplay bool          `json:"should_display"`
	CanSubmit     bool          `json:"can_submit"`
}

// ListUserDailyTasks handles GET /task/user/:userId/daily-tasks.
// Fetching runs the auto-shift first, so the returned groups already
// reflect today's carried-over tasks.
func (h *Handler) ListUserDailyTasks(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	shifted, err := h.shifter.ShiftUser(uint(userID))
	if err != nil {
		// The fetch still proceeds; the nightly run will retry the
		// shift. Silent loss would be worse than stale groups.
		log.Printf("auto-shift on fetch failed for user %d: %v", userID, err)
	}

	groups, err := h.db.ListUserDailyTasks(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load daily tasks"})
		return
	}

	today := h.now()
	callerID := auth.CallerID(c)
	views := make([]DailyTaskView, 0, len(groups))
	for _, group := range groups {
		for i := range group.Tasks {
			h.withCapabilities(&group.Tasks[i], callerID)
		}
		views = append(views, DailyTaskView{
			DailyTask:     group,
			ActiveTasks:   lifecycle.ActiveTasks(group),
			ShouldDisplay: lifecycle.ShouldDisplay(group, today, nil),
			CanSubmit:     lifecycle.CanSubmit(group),
		})
	}

	if shifted == nil {
		shifted = []shift.ShiftedTask{}
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"daily_tasks": views,
		"shifted":     shifted,
		"stats":       lifecycle.Aggregate(groups),
	}})
}

// SubmitDailyTasks handles POST /task/daily-tasks/:id/submit. The
// submitted flag is monotonic; resubmission is refused, as is
// submitting a group with no completed task.
func (h *Handler) SubmitDailyTasks(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid daily task ID"})
		return
	}

	group, err := h.db.SubmitDailyTask(uint(id))
	if err != nil {
		switch err {
		case database.ErrAlreadySubmitted:
			c.JSON(http.StatusConflict, gin.H{"error": "Daily tasks already submitted"})
		case database.ErrNoCompletedTask:
			c.JSON(http.StatusConflict, gin.H{"error": "At least one task must be completed before submitting"})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "Daily task group not found"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": group})
}

// GetUserStats handles GET /task/user/:userId/stats.
func (h *Handler) GetUserStats(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	groups, err := h.db.ListUserDailyTasks(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load daily tasks"})
		return
	}

	stats := lifecycle.Aggregate(groups)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"counters":        stats,
		"completion_rate": stats.CompletionRate(),
		"review_rate":     stats.ReviewRate(),
	}})
}

// ListTeams handles GET /task/teams, the team picker behind the team
// review route.
func (h *Handler) ListTeams(c *gin.Context) {
	teams, err := h.db.ListTeams()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list teams"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": teams})
}
