package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFeedBroadcastsMutations(t *testing.T) {
	router, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	token := signupAndLogin(t, router, "alice@example.com")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub a moment to register the client before mutating.
	time.Sleep(100 * time.Millisecond)

	createGroup(t, router, token, "Live", "")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type string `json:"type"`
		Data struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(message, &event))
	assert.Equal(t, "todo_created", event.Type)
	assert.Equal(t, "Live", event.Data.Title)
}

func TestEventFeedRejectsAnonymous(t *testing.T) {
	router, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL+"?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
