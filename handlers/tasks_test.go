package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskData struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Done               bool   `json:"done"`
	ProgressPercentage int64  `json:"progress_percentage"`
	GroupTodoID        int64  `json:"group_todo_id"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

func createTask(t *testing.T, router http.Handler, token string, groupID int64, name string, progress int64) taskData {
	t.Helper()

	rr, env := doJSON(t, router, http.MethodPost, itemsPath(groupID), token, map[string]any{
		"name":                name,
		"progress_percentage": progress,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var task taskData
	require.NoError(t, json.Unmarshal(env.Data, &task))
	require.NotZero(t, task.ID)
	return task
}

func listTasks(t *testing.T, router http.Handler, token string, groupID int64) []taskData {
	t.Helper()

	rr, env := doJSON(t, router, http.MethodGet, itemsPath(groupID), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var tasks []taskData
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	return tasks
}

func TestCreateTaskDefaultsDoneFalse(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signupAndLogin(t, router, "alice@example.com")
	groupID := createGroup(t, router, token, "Chores", "")

	task := createTask(t, router, token, groupID, "sweep", 25)
	assert.Equal(t, "sweep", task.Name)
	assert.False(t, task.Done)
	assert.Equal(t, int64(25), task.ProgressPercentage)
	assert.Equal(t, groupID, task.GroupTodoID)
}

func TestCreateTaskMissingGroup(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signupAndLogin(t, router, "alice@example.com")

	rr, env := doJSON(t, router, http.MethodPost, itemsPath(9999), token, map[string]any{
		"name":                "orphan",
		"progress_percentage": 0,
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Todo group not found", env.Message)

	// Nothing was persisted anywhere.
	groupID := createGroup(t, router, token, "Real", "")
	assert.Empty(t, listTasks(t, router, token, groupID))
}

func TestListTasksOldestFirst(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signupAndLogin(t, router, "alice@example.com")
	groupID := createGroup(t, router, token, "Chores", "")

	names := []string{"sweep", "mop", "dust"}
	for _, name := range names {
		createTask(t, router, token, groupID, name, 0)
	}

	tasks := listTasks(t, router, token, groupID)
	require.Len(t, tasks, len(names))
	for i, task := range tasks {
		assert.Equal(t, names[i], task.Name)
	}

	// Creating one more and re-listing puts the new item last.
	latest := createTask(t, router, token, groupID, "vacuum", 0)
	tasks = listTasks(t, router, token, groupID)
	require.Len(t, tasks, len(names)+1)
	assert.Equal(t, latest.ID, tasks[len(tasks)-1].ID)
}

func TestUpdateTaskReparents(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signupAndLogin(t, router, "alice@example.com")
	sourceID := createGroup(t, router, token, "Source", "")
	targetID := createGroup(t, router, token, "Target", "")

	task := createTask(t, router, token, sourceID, "move me", 10)

	rr, env := doJSON(t, router, http.MethodPatch,
		fmt.Sprintf("/api/todos/%d/items/%d", sourceID, task.ID), token, map[string]any{
			"name":                "moved",
			"progress_percentage": 90,
			"target_todo_id":      targetID,
		})
	require.Equal(t, http.StatusOK, rr.Code)

	var updated taskData
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "moved", updated.Name)
	assert.Equal(t, int64(90), updated.ProgressPercentage)
	assert.Equal(t, targetID, updated.GroupTodoID)

	assert.Empty(t, listTasks(t, router, token, sourceID))
	require.Len(t, listTasks(t, router, token, targetID), 1)
}

func TestUpdateTaskForeignTargetGroup(t *testing.T) {
	router, _ := newTestRouter(t)
	aliceToken := signupAndLogin(t, router, "alice@example.com")
	bobToken := signupAndLogin(t, router, "bob@example.com")

	aliceGroup := createGroup(t, router, aliceToken, "Mine", "")
	bobGroup := createGroup(t, router, bobToken, "Theirs", "")
	task := createTask(t, router, aliceToken, aliceGroup, "stay put", 0)

	// Re-parenting into someone else's group answers 404.
	rr, env := doJSON(t, router, http.MethodPatch,
		fmt.Sprintf("/api/todos/%d/items/%d", aliceGroup, task.ID), aliceToken, map[string]any{
			"name":                "stay put",
			"progress_percentage": 0,
			"target_todo_id":      bobGroup,
		})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Target todo group not found", env.Message)

	require.Len(t, listTasks(t, router, aliceToken, aliceGroup), 1)
}

func TestDeleteTaskTwice(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signupAndLogin(t, router, "alice@example.com")
	groupID := createGroup(t, router, token, "Chores", "")
	task := createTask(t, router, token, groupID, "sweep", 0)

	path := fmt.Sprintf("/api/todos/%d/items/%d", groupID, task.ID)

	rr, env := doJSON(t, router, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Task deleted successfully", env.Message)

	assert.Empty(t, listTasks(t, router, token, groupID))

	rr, env = doJSON(t, router, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Task not found", env.Message)
}
