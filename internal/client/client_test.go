package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratoexpress/delivery/pkg/models"
)

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/users/login", r.URL.Path)

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "maria@example.com", req.Email)

		json.NewEncoder(w).Encode(models.LoginResponse{
			User:  models.User{ID: 7, Name: "Maria", Email: req.Email},
			Token: "token-abc",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Login("maria@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Maria", resp.User.Name)
	assert.Equal(t, "token-abc", c.Token(), "the client remembers the session token")
}

func TestProfileSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "GET", r.Method)
		require.Equal(t, "/profile", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]int{"userId": 7})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("token-abc")

	userID, err := c.Profile()
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
}

func TestProfileSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Token não fornecido"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Profile()
	require.Error(t, err)
	assert.Equal(t, "Token não fornecido", err.Error())
}
