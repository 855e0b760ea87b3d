package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/CrowderSoup/todo-group-api/database"
	"github.com/CrowderSoup/todo-group-api/services"
)

// TodoHandler handles todo group CRUD. Every route is scoped to the
// authenticated caller's own groups; a group owned by someone else answers
// the same 404 as a missing one.
type TodoHandler struct {
	store *database.Store
	hub   *services.Hub
}

func NewTodoHandler(store *database.Store, hub *services.Hub) *TodoHandler {
	return &TodoHandler{
		store: store,
		hub:   hub,
	}
}

// groupID reads the group_id path variable. The route pattern restricts it
// to digits, so a parse failure can only mean an out-of-range value.
func groupID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["group_id"], 10, 64)
}

// List returns all groups created by the caller, newest first.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	groups, err := h.store.ListTodoGroups(r.Context(), claims.ID)
	if err != nil {
		serverError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Success", groups)
}

// Get returns a single group by id.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := groupID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Todo group not found")
		return
	}

	group, err := h.store.GetTodoGroup(r.Context(), id, claims.ID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Todo group not found")
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Success", group)
}

// Create makes a new group owned by the caller.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	body, ok := requestBody[TodoGroupRequest](r)
	if !ok {
		serverError(w, r, errors.New("todo group body missing from context"))
		return
	}

	description := ""
	if body.Description != nil {
		description = *body.Description
	}

	group, err := h.store.CreateTodoGroup(r.Context(), body.Title, description, claims.ID)
	if err != nil {
		serverError(w, r, err)
		return
	}

	h.hub.Publish("todo_created", group)
	respond(w, http.StatusCreated, "Todo group created successfully", group)
}

// Update replaces title and description of the caller's group.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := groupID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Todo group not found")
		return
	}

	body, ok := requestBody[TodoGroupRequest](r)
	if !ok {
		serverError(w, r, errors.New("todo group body missing from context"))
		return
	}

	description := ""
	if body.Description != nil {
		description = *body.Description
	}

	group, err := h.store.UpdateTodoGroup(r.Context(), id, claims.ID, body.Title, description)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Todo group not found")
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	h.hub.Publish("todo_updated", group)
	respond(w, http.StatusOK, "Todo group updated successfully", group)
}

// Delete removes the caller's group and, via the cascading foreign key, all
// task items under it.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := groupID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Todo group not found")
		return
	}

	err = h.store.DeleteTodoGroup(r.Context(), id, claims.ID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Todo group not found")
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	h.hub.Publish("todo_deleted", map[string]int64{"id": id})
	respond(w, http.StatusOK, "Todo group deleted successfully", nil)
}
