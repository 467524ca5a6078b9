package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomvoice/feedback_backend/apiclient"
)

func TestIsAuthorized(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/feedback/admin/is_authorized/12345", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"authorized": true}`))
	}))
	defer server.Close()

	client := apiclient.New(server.URL, "svc-token")
	ok, err := client.IsAuthorized(context.Background(), "12345")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bearer svc-token", gotAuth)
}

func TestIsAuthorized_Denied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"authorized": false}`))
	}))
	defer server.Close()

	ok, err := apiclient.New(server.URL, "t").IsAuthorized(context.Background(), "12345")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAuthorized_OutageIsUnavailableNotDenial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "Service temporarily unavailable", "kind": "unavailable"}`))
	}))
	defer server.Close()

	_, err := apiclient.New(server.URL, "t").IsAuthorized(context.Background(), "12345")
	assert.ErrorIs(t, err, apiclient.ErrUnavailable)
}

func TestIsAuthorized_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := apiclient.New(server.URL, "t").IsAuthorized(context.Background(), "12345")
	assert.ErrorIs(t, err, apiclient.ErrUnavailable)
}

func TestAddLocation_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Main St", r.PostForm.Get("address"))
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "address already exists", "kind": "conflict"}`))
	}))
	defer server.Close()

	err := apiclient.New(server.URL, "t").AddLocation(context.Background(), "Main St")
	assert.ErrorIs(t, err, apiclient.ErrConflict)
}

func TestCreateRoom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Lobby", r.PostForm.Get("name"))
		assert.Equal(t, "-555", r.PostForm.Get("tg_group_id"))
		w.Write([]byte(`{"qr_token": "a1b2c3d4", "qr_link": "https://forms.example.com/room/a1b2c3d4"}`))
	}))
	defer server.Close()

	created, err := apiclient.New(server.URL, "t").CreateRoom(context.Background(), "Main St", "Lobby", -555)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4", created.QRToken)
	assert.Contains(t, created.QRLink, "a1b2c3d4")
}

func TestRoomInfo_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "room not found", "kind": "not_found"}`))
	}))
	defer server.Close()

	_, err := apiclient.New(server.URL, "t").RoomInfo(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
}

func TestRoomsByLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Main St", r.URL.Query().Get("address"))
		w.Write([]byte(`[{"name": "Lobby", "qr_token": "a1b2c3d4"}]`))
	}))
	defer server.Close()

	rooms, err := apiclient.New(server.URL, "t").RoomsByLocation(context.Background(), "Main St")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Lobby", rooms[0].Name)
	assert.Equal(t, "a1b2c3d4", rooms[0].QRToken)
}
