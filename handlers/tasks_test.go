package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"taskflow/app"
	"taskflow/handlers"
	"taskflow/models"
	"taskflow/notifier"
	"taskflow/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ==================== FAKE STORE ====================

// fakeStore is an in-memory stand-in for the MongoDB repository with the
// same observable semantics: generated IDs, field-merge updates, and
// modified/deleted counts.
type fakeStore struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]models.Task
	users map[string]models.User
}

var (
	_ services.TaskRepository = (*fakeStore)(nil)
	_ services.UserRepository = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks: make(map[primitive.ObjectID]models.Task),
		users: make(map[string]models.User),
	}
}

func (s *fakeStore) InsertTask(_ context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = primitive.NewObjectID()
	s.tasks[task.ID] = *task
	return task, nil
}

func (s *fakeStore) UpdateTask(_ context.Context, id primitive.ObjectID, fields bson.M) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "email":
			task.Email = v.(string)
		case "category":
			task.Category = v.(string)
		case "title":
			task.Title = v.(string)
		case "description":
			task.Description = v.(string)
		case "updatedAt":
			stamp := v.(time.Time)
			task.UpdatedAt = &stamp
		}
	}
	s.tasks[id] = task
	return 1, nil
}

func (s *fakeStore) DeleteTask(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return 0, nil
	}
	delete(s.tasks, id)
	return 1, nil
}

func (s *fakeStore) AllTasks(_ context.Context) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *fakeStore) TasksByOwner(_ context.Context, email string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]models.Task, 0)
	for _, task := range s.tasks {
		if task.Email == email {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (s *fakeStore) TasksByOwnerAndCategory(_ context.Context, email, category string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]models.Task, 0)
	for _, task := range s.tasks {
		if task.Email == email && task.Category == category {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (s *fakeStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[email]; ok {
		return &user, nil
	}
	return nil, nil
}

func (s *fakeStore) InsertUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = primitive.NewObjectID()
	s.users[user.Email] = *user
	return user, nil
}

// recordingBroadcaster counts broadcasts for the exactly-once assertions.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) Broadcast(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// ==================== SETUP ====================

func setupTestApp(t *testing.T) (*fiber.App, *fakeStore, *recordingBroadcaster) {
	t.Helper()

	store := newFakeStore()
	broadcaster := &recordingBroadcaster{}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	application := app.New(
		services.NewUserService(store),
		services.NewTaskService(store, broadcaster),
		notifier.New(logger),
		logger,
	)

	fiberApp := fiber.New()
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Task management server is running..")
	})
	fiberApp.Post("/users/:email", handlers.UpsertUser(application))
	fiberApp.Post("/tasks", handlers.CreateTask(application))
	fiberApp.Post("/tasks/update", handlers.UpdateTask(application))
	fiberApp.Post("/tasks/update-category", handlers.UpdateTaskCategory(application))
	fiberApp.Get("/tasks", handlers.GetTasks(application))
	fiberApp.Get("/tasks/todo/:email", handlers.GetTasksByOwnerAndCategory(application, models.CategoryToDo))
	fiberApp.Get("/tasks/inprogress/:email", handlers.GetTasksByOwnerAndCategory(application, models.CategoryInProgress))
	fiberApp.Get("/tasks/done/:email", handlers.GetTasksByOwnerAndCategory(application, models.CategoryDone))
	fiberApp.Get("/tasks/:email", handlers.GetTasksByOwner(application))
	fiberApp.Delete("/tasks/:id", handlers.DeleteTask(application))

	return fiberApp, store, broadcaster
}

func doJSON(t *testing.T, fiberApp *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func decodeTasks(t *testing.T, resp *http.Response) []models.Task {
	t.Helper()
	var tasks []models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	return tasks
}

// ==================== TESTS ====================

func TestHealthRoute(t *testing.T) {
	fiberApp, _, _ := setupTestApp(t)

	resp := doJSON(t, fiberApp, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateTask(t *testing.T) {
	tests := []struct {
		name               string
		body               map[string]interface{}
		expectedStatus     int
		expectedBroadcasts int
	}{
		{
			name: "Valid task",
			body: map[string]interface{}{
				"email":    "a@x.com",
				"category": "To-Do",
				"title":    "t1",
			},
			expectedStatus:     http.StatusCreated,
			expectedBroadcasts: 1,
		},
		{
			name:           "Missing email",
			body:           map[string]interface{}{"category": "To-Do"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing category",
			body:           map[string]interface{}{"email": "a@x.com"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Category outside the enum",
			body: map[string]interface{}{
				"email":    "a@x.com",
				"category": "Backlog",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fiberApp, _, broadcaster := setupTestApp(t)

			resp := doJSON(t, fiberApp, http.MethodPost, "/tasks", tt.body)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedBroadcasts, broadcaster.count())

			if tt.expectedStatus == http.StatusCreated {
				body := decodeBody(t, resp)
				assert.NotEmpty(t, body["_id"])
				assert.NotEmpty(t, body["createdAt"])
				assert.Nil(t, body["updatedAt"])
			}
		})
	}
}

func TestUpdateTask(t *testing.T) {
	fiberApp, _, broadcaster := setupTestApp(t)

	resp := doJSON(t, fiberApp, http.MethodPost, "/tasks", map[string]interface{}{
		"email":    "a@x.com",
		"category": "To-Do",
		"title":    "t1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	taskID := decodeBody(t, resp)["_id"].(string)
	require.Equal(t, 1, broadcaster.count())

	t.Run("Missing fields", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodPost, "/tasks/update", map[string]interface{}{
			"taskId": taskID,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Contains(t, body["message"], "required")
	})

	t.Run("Malformed task ID", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodPost, "/tasks/update", map[string]interface{}{
			"taskId":      "nothex",
			"updatedTask": map[string]interface{}{"title": "x"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unknown task ID", func(t *testing.T) {
		resp := doJSON(t, fiberApp, http.MethodPost, "/tasks/update", map[string]interface{}{
			"taskId":      primitive.NewObjectID().Hex(),
			"updatedTask": map[string]interface{}{"title": "x"},
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Successful merge keeps untouched fields", func(t *testing.T) {
		before := broadcaster.count()

		resp := doJSON(t, fiberApp, http.MethodPost, "/tasks/update", map[string]interface{}{
			"taskId":      taskID,
			"updatedTask": map[string]interface{}{"description": "details"},
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, before+1, broadcaster.count())

		listResp := doJSON(t, fiberApp, http.MethodGet, "/tasks/a@x.com", nil)
		tasks := decodeTasks(t, listResp)
		require.Len(t, tasks, 1)
		assert.Equal(t, "t1", tasks[0].Title, "unspecified field must be unchanged")
		assert.Equal(t, "details", tasks[0].Description)
		require.NotNil(t, tasks[0].UpdatedAt)
		assert.False(t, tasks[0].UpdatedAt.Before(tasks[0].CreatedAt))
	})
}

func TestUpdateTaskCategoryScenario(t *testing.T) {
	fiberApp, _, broadcaster := setupTestApp(t)

	// create task {email:"a@x.com", category:"To-Do", title:"t1"}
	resp := doJSON(t, fiberApp, http.MethodPost, "/tasks", map[string]interface{}{
		"email":    "a@x.com",
		"category": "To-Do",
		"title":    "t1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	taskID := decodeBody(t, resp)["_id"].(string)

	// listTasksByOwner returns exactly that task
	listResp := doJSON(t, fiberApp, http.MethodGet, "/tasks/a@x.com", nil)
	tasks := decodeTasks(t, listResp)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].Title)
	assert.Equal(t, models.CategoryToDo, tasks[0].Category)

	// move it to Done
	resp = doJSON(t, fiberApp, http.MethodPost, "/tasks/update-category", map[string]interface{}{
		"taskId":          taskID,
		"updatedCategory": "Done",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, broadcaster.count())

	// Done filter now returns it, To-Do filter is empty
	doneResp := doJSON(t, fiberApp, http.MethodGet, "/tasks/done/a@x.com", nil)
	assert.Len(t, decodeTasks(t, doneResp), 1)

	todoResp := doJSON(t, fiberApp, http.MethodGet, "/tasks/todo/a@x.com", nil)
	assert.Empty(t, decodeTasks(t, todoResp))

	// other owners see nothing
	otherResp := doJSON(t, fiberApp, http.MethodGet, "/tasks/done/b@x.com", nil)
	assert.Empty(t, decodeTasks(t, otherResp))
}

func TestUpdateTaskCategoryValidation(t *testing.T) {
	fiberApp, _, broadcaster := setupTestApp(t)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
	}{
		{
			name:           "Missing category",
			body:           map[string]interface{}{"taskId": primitive.NewObjectID().Hex()},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Category outside the enum",
			body: map[string]interface{}{
				"taskId":          primitive.NewObjectID().Hex(),
				"updatedCategory": "Archived",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown task",
			body: map[string]interface{}{
				"taskId":          primitive.NewObjectID().Hex(),
				"updatedCategory": "Done",
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, fiberApp, http.MethodPost, "/tasks/update-category", tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	// Failed mutations never notify.
	assert.Equal(t, 0, broadcaster.count())
}

func TestDeleteTask(t *testing.T) {
	fiberApp, _, broadcaster := setupTestApp(t)

	resp := doJSON(t, fiberApp, http.MethodPost, "/tasks", map[string]interface{}{
		"email":    "a@x.com",
		"category": "To-Do",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	taskID := decodeBody(t, resp)["_id"].(string)

	t.Run("Unknown ID - not found, no broadcast", func(t *testing.T) {
		before := broadcaster.count()
		resp := doJSON(t, fiberApp, http.MethodDelete, "/tasks/"+primitive.NewObjectID().Hex(), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, before, broadcaster.count())
	})

	t.Run("Existing task - deleted with one broadcast", func(t *testing.T) {
		before := broadcaster.count()
		resp := doJSON(t, fiberApp, http.MethodDelete, "/tasks/"+taskID, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, before+1, broadcaster.count())

		listResp := doJSON(t, fiberApp, http.MethodGet, "/tasks", nil)
		assert.Empty(t, decodeTasks(t, listResp))
	})
}

func TestUpsertUser(t *testing.T) {
	fiberApp, store, broadcaster := setupTestApp(t)

	resp := doJSON(t, fiberApp, http.MethodPost, "/users/a@x.com", map[string]interface{}{
		"name": "Ada",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decodeBody(t, resp)
	assert.Equal(t, "a@x.com", first["email"])
	assert.NotEmpty(t, first["timestamp"])

	// Second call with a different profile is a no-op returning the
	// original record.
	resp = doJSON(t, fiberApp, http.MethodPost, "/users/a@x.com", map[string]interface{}{
		"name": "Someone Else",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decodeBody(t, resp)
	assert.Equal(t, first["_id"], second["_id"])
	assert.Equal(t, "Ada", second["name"])

	assert.Len(t, store.users, 1)

	// User writes never notify the task channel.
	assert.Equal(t, 0, broadcaster.count())
}
