package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/CrowderSoup/todo-group-api/database"
	"github.com/CrowderSoup/todo-group-api/services"
)

// NewRouter wires global middleware, per-route validation, auth and all
// handlers into a router.
func NewRouter(store *database.Store, authService *services.AuthService, hub *services.Hub) *mux.Router {
	authHandler := NewAuthHandler(authService, store)
	todoHandler := NewTodoHandler(store, hub)
	taskHandler := NewTaskHandler(store, hub)
	eventsHandler := NewEventsHandler(authService, hub)
	authMiddleware := NewAuthMiddleware(authService)

	r := mux.NewRouter()
	r.Use(Recover, RequestLogger, SecureHeaders)
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(notFound)

	r.HandleFunc("/healthz", health(store)).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// User routes (public)
	users := api.PathPrefix("/users").Subrouter()
	users.Handle("/signup", ValidateBody[SignupRequest]()(http.HandlerFunc(authHandler.Signup))).Methods("POST")
	users.Handle("/login", ValidateBody[LoginRequest]()(http.HandlerFunc(authHandler.Login))).Methods("POST")

	// Event feed; authenticates inside the handler to allow ?token=
	api.HandleFunc("/events", eventsHandler.Serve).Methods("GET")

	// Todo group and task routes (protected)
	todos := api.PathPrefix("/todos").Subrouter()
	todos.Use(authMiddleware.Auth)
	todos.HandleFunc("", todoHandler.List).Methods("GET")
	todos.Handle("", ValidateBody[TodoGroupRequest]()(http.HandlerFunc(todoHandler.Create))).Methods("POST")
	todos.HandleFunc("/{group_id:[0-9]+}", todoHandler.Get).Methods("GET")
	todos.Handle("/{group_id:[0-9]+}", ValidateBody[TodoGroupRequest]()(http.HandlerFunc(todoHandler.Update))).Methods("PATCH")
	todos.HandleFunc("/{group_id:[0-9]+}", todoHandler.Delete).Methods("DELETE")

	todos.HandleFunc("/{group_id:[0-9]+}/items", taskHandler.List).Methods("GET")
	todos.HandleFunc("/{group_id:[0-9]+}/items", taskHandler.Create).Methods("POST")
	todos.HandleFunc("/{group_id:[0-9]+}/items/{task_id:[0-9]+}", taskHandler.Update).Methods("PATCH")
	todos.HandleFunc("/{group_id:[0-9]+}/items/{task_id:[0-9]+}", taskHandler.Delete).Methods("DELETE")

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "Not Found")
}

func health(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			serverError(w, r, errors.Join(errors.New("health check failed"), err))
			return
		}
		respond(w, http.StatusOK, "OK", nil)
	}
}
