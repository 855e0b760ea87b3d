package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/CrowderSoup/todo-group-api/database"
	"github.com/CrowderSoup/todo-group-api/services"
)

// TaskHandler handles task item CRUD under a todo group. The parent group
// must exist and belong to the caller before any task operation runs.
type TaskHandler struct {
	store *database.Store
	hub   *services.Hub
}

func NewTaskHandler(store *database.Store, hub *services.Hub) *TaskHandler {
	return &TaskHandler{
		store: store,
		hub:   hub,
	}
}

func taskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["task_id"], 10, 64)
}

// resolveGroup checks that the group in the path exists and belongs to the
// caller. It writes the error response itself and reports success.
func (h *TaskHandler) resolveGroup(w http.ResponseWriter, r *http.Request) (*database.TodoGroup, int64, bool) {
	claims, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authenticated")
		return nil, 0, false
	}

	id, err := groupID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Todo group not found")
		return nil, 0, false
	}

	group, err := h.store.GetTodoGroup(r.Context(), id, claims.ID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Todo group not found")
		return nil, 0, false
	}
	if err != nil {
		serverError(w, r, err)
		return nil, 0, false
	}

	return group, claims.ID, true
}

// List returns all tasks in the group, oldest first.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	group, _, ok := h.resolveGroup(w, r)
	if !ok {
		return
	}

	tasks, err := h.store.ListTaskItems(r.Context(), group.ID)
	if err != nil {
		serverError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Success", tasks)
}

// Create inserts a new task under the group with done defaulting to false.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	group, _, ok := h.resolveGroup(w, r)
	if !ok {
		return
	}

	var body TaskItemRequest
	if err := decodeJSON(r, &body); err != nil {
		respondValidation(w, []fieldError{decodeError(err)})
		return
	}

	task, err := h.store.CreateTaskItem(r.Context(), group.ID, body.Name, body.ProgressPercentage)
	if err != nil {
		serverError(w, r, err)
		return
	}

	h.hub.Publish("task_created", task)
	respond(w, http.StatusCreated, "Task created successfully", task)
}

// Update changes a task's name and progress and, when target_todo_id is
// present, re-parents it to another group owned by the caller.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	group, callerID, ok := h.resolveGroup(w, r)
	if !ok {
		return
	}

	id, err := taskID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}

	var body TaskItemRequest
	if err := decodeJSON(r, &body); err != nil {
		respondValidation(w, []fieldError{decodeError(err)})
		return
	}

	targetGroupID := group.ID
	if body.TargetTodoID != nil && *body.TargetTodoID != group.ID {
		// Re-parenting is only allowed into another group the caller owns.
		target, err := h.store.GetTodoGroup(r.Context(), *body.TargetTodoID, callerID)
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Target todo group not found")
			return
		}
		if err != nil {
			serverError(w, r, err)
			return
		}
		targetGroupID = target.ID
	}

	task, err := h.store.UpdateTaskItem(r.Context(), id, group.ID, body.Name, body.ProgressPercentage, targetGroupID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	h.hub.Publish("task_updated", task)
	respond(w, http.StatusOK, "Task updated successfully", task)
}

// Delete removes a task. A second delete of the same task answers 404.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	group, _, ok := h.resolveGroup(w, r)
	if !ok {
		return
	}

	id, err := taskID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}

	err = h.store.DeleteTaskItem(r.Context(), id, group.ID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	h.hub.Publish("task_deleted", map[string]int64{"id": id, "group_todo_id": group.ID})
	respond(w, http.StatusOK, "Task deleted successfully", nil)
}
