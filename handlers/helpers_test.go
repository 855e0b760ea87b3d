package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/CrowderSoup/todo-group-api/database"
	"github.com/CrowderSoup/todo-group-api/services"
)

const testSecret = "test-secret"

type testEnvelope struct {
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     []fieldError    `json:"errors"`
}

func newTestRouter(t *testing.T) (*mux.Router, *services.AuthService) {
	t.Helper()

	db, err := database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := database.NewStore(db)
	authService := services.NewAuthService(testSecret)
	hub := services.NewHub()
	go hub.Run()

	return NewRouter(store, authService, hub), authService
}

// doJSON performs a request against the router and decodes the envelope.
func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	return rr, env
}

// signupAndLogin registers a fresh user and returns a valid token.
func signupAndLogin(t *testing.T, router http.Handler, email string) string {
	t.Helper()

	rr, _ := doJSON(t, router, http.MethodPost, "/api/users/signup", "", map[string]string{
		"name":                  "Test User",
		"email":                 email,
		"password":              "secret1",
		"password_confirmation": "secret1",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, env := doJSON(t, router, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

// createGroup creates a todo group and returns its id.
func createGroup(t *testing.T, router http.Handler, token, title, description string) int64 {
	t.Helper()

	rr, env := doJSON(t, router, http.MethodPost, "/api/todos", token, map[string]string{
		"title":       title,
		"description": description,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var data struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotZero(t, data.ID)
	return data.ID
}

func itemsPath(groupID int64) string {
	return fmt.Sprintf("/api/todos/%d/items", groupID)
}
