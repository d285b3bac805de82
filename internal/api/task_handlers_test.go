package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpulse/daily-task-tracker/internal/database"
	"github.com/workpulse/daily-task-tracker/internal/models"
	"github.com/workpulse/daily-task-tracker/internal/shift"
	"github.com/workpulse/daily-task-tracker/internal/storage"
	pkgauth "github.com/workpulse/daily-task-tracker/pkg/auth"
)

var testClock = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type testServer struct {
	router     *gin.Engine
	db         *database.Database
	jwtManager *pkgauth.JWTManager
	uploadDir  string
}

func setupTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(t.TempDir())
	require.NoError(t, err)

	uploadDir := t.TempDir()
	fileStorage, err := storage.NewFileStorage(uploadDir)
	require.NoError(t, err)

	now := func() time.Time { return testClock }
	jwtManager := pkgauth.NewJWTManager("test-secret", time.Hour)
	handler := NewHandler(db, fileStorage, shift.NewEngine(db, now), now)
	authHandler := NewAuthHandler(db, jwtManager)

	router := gin.New()
	SetupRouter(router, handler, authHandler, jwtManager)

	return &testServer{router: router, db: db, jwtManager: jwtManager, uploadDir: uploadDir}
}

func (s *testServer) createUser(t *testing.T, username string, role models.UserRole) (*models.User, string) {
	user := &models.User{
		Email:    username + "@example.com",
		Username: username,
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, s.db.Create(user).Error)

	token, err := s.jwtManager.Generate(user.ID, user.Username, user.Role)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func validTaskBody() map[string]interface{} {
	return map[string]interface{}{
		"title":                      "Prepare quarterly report",
		"description":                "Collect figures and draft the summary",
		"isForDirectSupervisorTasks": true,
	}
}

func TestCreateTask(t *testing.T) {
	s := setupTestServer(t)
	_, token := s.createUser(t, "worker", models.UserRoleEmployee)

	t.Run("RequiresAuth", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/task/tasks", "", validTaskBody())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("CreatesTaskInTodaysGroup", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/task/tasks", token, validTaskBody())
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		data := decodeData(t, w)
		assert.Equal(t, "2024-03-15", data["due_date"])
		assert.Equal(t, "in_progress", data["status"])
		assert.Equal(t, "pending", data["review_status"])
		assert.Equal(t, true, data["canEdit"])
		assert.NotZero(t, data["daily_task_id"])
	})

	t.Run("RejectsAmbiguousReviewRoute", func(t *testing.T) {
		body := validTaskBody()
		body["isTeamTask"] = true
		w := s.request(t, http.MethodPost, "/task/tasks", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "review_route")
	})

	t.Run("RejectsTeamRouteWithoutTeam", func(t *testing.T) {
		body := validTaskBody()
		body["isForDirectSupervisorTasks"] = false
		body["isTeamTask"] = true
		w := s.request(t, http.MethodPost, "/task/tasks", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "review_team_id")
	})

	t.Run("TeamRoute", func(t *testing.T) {
		team := &models.Team{Name: "Platform"}
		require.NoError(t, s.db.Create(team).Error)

		body := validTaskBody()
		body["isForDirectSupervisorTasks"] = false
		body["isTeamTask"] = true
		body["review_team_id"] = team.ID
		w := s.request(t, http.MethodPost, "/task/tasks", token, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "team", decodeData(t, w)["review_route"])

		body["review_team_id"] = team.ID + 100
		w = s.request(t, http.MethodPost, "/task/tasks", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "unknown team refused")
	})
}

func (s *testServer) multipartTaskRequest(t *testing.T, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Prepare quarterly report"))
	require.NoError(t, mw.WriteField("description", "Collect figures and draft the summary"))
	require.NoError(t, mw.WriteField("isForDirectSupervisorTasks", "true"))
	fw, err := mw.CreateFormFile("attachments", "figures.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("q1 figures"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/task/tasks", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestCreateTaskWithAttachments(t *testing.T) {
	s := setupTestServer(t)
	_, token := s.createUser(t, "worker", models.UserRoleEmployee)

	t.Run("AttachmentStoredWithTask", func(t *testing.T) {
		w := s.multipartTaskRequest(t, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		attachments := decodeData(t, w)["attached_documents"].([]interface{})
		require.Len(t, attachments, 1)
	})

	t.Run("SaveFailureLeavesNoTask", func(t *testing.T) {
		var before int64
		require.NoError(t, s.db.Model(&models.Task{}).Count(&before).Error)

		// Turn the upload root into a plain file so the write fails.
		require.NoError(t, os.RemoveAll(s.uploadDir))
		require.NoError(t, os.WriteFile(s.uploadDir, []byte("x"), 0644))

		w := s.multipartTaskRequest(t, token)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var after int64
		require.NoError(t, s.db.Model(&models.Task{}).Count(&after).Error)
		assert.Equal(t, before, after, "failed upload must not leave a task behind")
	})
}

func TestStatusAndReview(t *testing.T) {
	s := setupTestServer(t)
	_, workerToken := s.createUser(t, "worker", models.UserRoleEmployee)
	_, supToken := s.createUser(t, "boss", models.UserRoleSupervisor)

	w := s.request(t, http.MethodPost, "/task/tasks", workerToken, validTaskBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decodeData(t, w)["id"].(float64))

	t.Run("StatusPatch", func(t *testing.T) {
		w := s.request(t, http.MethodPatch, fmt.Sprintf("/task/tasks/%d/status", id), workerToken,
			map[string]string{"status": "completed"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "completed", decodeData(t, w)["status"])
	})

	t.Run("LegacyStatusRejected", func(t *testing.T) {
		w := s.request(t, http.MethodPatch, fmt.Sprintf("/task/tasks/%d/status", id), workerToken,
			map[string]string{"status": "delayed"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("EmployeeCannotReview", func(t *testing.T) {
		w := s.request(t, http.MethodPatch, fmt.Sprintf("/task/tasks/%d/review", id), workerToken,
			map[string]string{"review_status": "approved"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("SupervisorApproves", func(t *testing.T) {
		w := s.request(t, http.MethodPatch, fmt.Sprintf("/task/tasks/%d/review", id), supToken,
			map[string]string{"review_status": "approved", "comment": "well done"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decodeData(t, w)
		assert.Equal(t, "approved", data["review_status"])
		assert.Equal(t, true, data["reviewed"])
	})

	t.Run("CompletedTaskNotEditable", func(t *testing.T) {
		body := validTaskBody()
		w := s.request(t, http.MethodPut, fmt.Sprintf("/task/tasks/%d", id), workerToken, body)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestReworkFlow(t *testing.T) {
	s := setupTestServer(t)
	_, workerToken := s.createUser(t, "worker", models.UserRoleEmployee)
	_, supToken := s.createUser(t, "boss", models.UserRoleSupervisor)

	w := s.request(t, http.MethodPost, "/task/tasks", workerToken, validTaskBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decodeData(t, w)["id"].(float64))

	// Complete, then reject, then rework.
	w = s.request(t, http.MethodPatch, fmt.Sprintf("/task/tasks/%d/status", id), workerToken,
		map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.request(t, http.MethodPatch, fmt.Sprintf("/task/tasks/%d/review", id), supToken,
		map[string]string{"review_status": "rejected", "comment": "missing numbers"})
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("ReworkRejectedTask", func(t *testing.T) {
		body := validTaskBody()
		body["status"] = "in_progress"
		w := s.request(t, http.MethodPut, fmt.Sprintf("/task/tasks/%d/rework", id), workerToken, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		data := decodeData(t, w)
		assert.Equal(t, "pending", data["review_status"])
		assert.Equal(t, "in_progress", data["status"])
	})

	t.Run("ApprovedTaskNotReworkable", func(t *testing.T) {
		w = s.request(t, http.MethodPatch, fmt.Sprintf("/task/tasks/%d/status", id), workerToken,
			map[string]string{"status": "completed"})
		require.Equal(t, http.StatusOK, w.Code)
		w = s.request(t, http.MethodPatch, fmt.Sprintf("/task/tasks/%d/review", id), supToken,
			map[string]string{"review_status": "approved"})
		require.Equal(t, http.StatusOK, w.Code)

		w := s.request(t, http.MethodPut, fmt.Sprintf("/task/tasks/%d/rework", id), workerToken, validTaskBody())
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestDailyTaskFetchAndSubmit(t *testing.T) {
	s := setupTestServer(t)
	worker, token := s.createUser(t, "worker", models.UserRoleEmployee)

	// A leftover in-progress task from yesterday should shift on fetch.
	leftover := &models.Task{
		Title:       "Yesterday's task",
		Status:      models.TaskStatusInProgress,
		ReviewRoute: models.ReviewRouteSupervisor,
		DueDate:     "2024-03-14",
		CreatedBy:   worker.ID,
	}
	require.NoError(t, s.db.CreateTask(leftover))

	t.Run("FetchRunsAutoShift", func(t *testing.T) {
		w := s.request(t, http.MethodGet, fmt.Sprintf("/task/user/%d/daily-tasks", worker.ID), token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		data := decodeData(t, w)
		shifted := data["shifted"].([]interface{})
		require.Len(t, shifted, 1)
		first := shifted[0].(map[string]interface{})
		assert.Equal(t, float64(1), first["from_work_days"])
		assert.Equal(t, float64(2), first["to_work_days"])

		stats := data["stats"].(map[string]interface{})
		assert.Equal(t, float64(1), stats["shifted"])
	})

	t.Run("SubmitGating", func(t *testing.T) {
		task, err := s.db.GetTask(leftover.ID)
		require.NoError(t, err)

		w := s.request(t, http.MethodPost, fmt.Sprintf("/task/daily-tasks/%d/submit", task.DailyTaskID), token, nil)
		assert.Equal(t, http.StatusConflict, w.Code, "no completed task yet")

		_, err = s.db.UpdateTaskStatus(task.ID, models.TaskStatusCompleted)
		require.NoError(t, err)

		w = s.request(t, http.MethodPost, fmt.Sprintf("/task/daily-tasks/%d/submit", task.DailyTaskID), token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, true, decodeData(t, w)["submitted"])

		w = s.request(t, http.MethodPost, fmt.Sprintf("/task/daily-tasks/%d/submit", task.DailyTaskID), token, nil)
		assert.Equal(t, http.StatusConflict, w.Code, "submit is one-shot")
	})

	t.Run("StatsEndpoint", func(t *testing.T) {
		w := s.request(t, http.MethodGet, fmt.Sprintf("/task/user/%d/stats", worker.ID), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		counters := data["counters"].(map[string]interface{})
		assert.Equal(t, float64(1), counters["total"])
		assert.Equal(t, float64(1), counters["completed"])
	})
}

func TestTaskTypeEndpoints(t *testing.T) {
	s := setupTestServer(t)
	_, adminToken := s.createUser(t, "admin", models.UserRoleAdmin)
	_, workerToken := s.createUser(t, "worker", models.UserRoleEmployee)

	t.Run("NonAdminCannotCreate", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/task/task-types", workerToken,
			map[string]string{"name": "Reporting"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("AdminCRUD", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/task/task-types", adminToken,
			map[string]string{"name": "Reporting", "description": "Periodic reports"})
		require.Equal(t, http.StatusCreated, w.Code)
		id := uint(decodeData(t, w)["id"].(float64))

		w = s.request(t, http.MethodGet, "/task/task-types", workerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Reporting")

		w = s.request(t, http.MethodPut, fmt.Sprintf("/task/task-types/%d", id), adminToken,
			map[string]string{"name": "Reports", "description": "Renamed"})
		require.Equal(t, http.StatusOK, w.Code)

		w = s.request(t, http.MethodDelete, fmt.Sprintf("/task/task-types/%d", id), adminToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
