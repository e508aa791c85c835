package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostJSON(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	resp, err := c.PostJSON(context.Background(), srv.URL, map[string]string{"Authorization": "Bearer re_x"}, map[string]string{"hello": "world"})
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"abc"}`, string(resp.Body))
	assert.Equal(t, "Bearer re_x", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "world", gotBody["hello"])
}

func TestClient_PostJSON_ErrorStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"nope"}`))
	}))
	defer srv.Close()

	resp, err := NewClientFrom(srv.Client()).PostJSON(context.Background(), srv.URL, nil, struct{}{})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestClient_PostJSON_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(time.Second).PostJSON(context.Background(), url, nil, struct{}{})
	require.Error(t, err)
}

func TestClient_PostJSON_EncodeError(t *testing.T) {
	_, err := NewClient(time.Second).PostJSON(context.Background(), "http://127.0.0.1", nil, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode request body")
}
