package dispatcher

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gridfeed/gridfeed/model"
	"github.com/stretchr/testify/assert"
)

func TestEndpointPostsCommandAsJson(t *testing.T) {
	var gotMethod, gotAuth, gotContentType string
	var gotPayload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := ioutil.ReadAll(r.Body)
		assert.Nil(t, json.Unmarshal(raw, &gotPayload))
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	endpoint := NewHTTPEndpoint(server.URL, "secret-token")
	post := &model.Post{
		Id:        "p1",
		AuthorId:  "u1",
		Content:   "hello #world",
		CreatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}
	err := endpoint.Execute(context.Background(), CreatePost(post))

	assert.Nil(t, err)
	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "create_post", gotPayload["action"])
	assert.Equal(t, "p1", gotPayload["client_ref"])
	assert.Equal(t, "u1", gotPayload["author_id"])
	assert.Equal(t, "hello #world", gotPayload["content"])
	assert.Equal(t, "2026-08-20T12:00:00Z", gotPayload["created_at"])
}

func TestEndpointOmitsAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	endpoint := NewHTTPEndpoint(server.URL, "")
	err := endpoint.Execute(context.Background(), LikePost("u1", "p1", true))

	assert.Nil(t, err)
	assert.Equal(t, "", gotAuth)
}

func TestEndpointDecodesBusinessRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","error":"account is banned","code":"banned"}`))
	}))
	defer server.Close()

	endpoint := NewHTTPEndpoint(server.URL, "")
	err := endpoint.Execute(context.Background(), DeletePost("u1", "p1"))

	rejection, ok := err.(*BusinessRejection)
	assert.True(t, ok)
	assert.Equal(t, "delete_post", rejection.Action)
	assert.Equal(t, "account is banned", rejection.Reason)
	assert.Equal(t, RejectionCodeBanned, rejection.Code)
}

func TestEndpointServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	endpoint := NewHTTPEndpoint(server.URL, "")
	err := endpoint.Execute(context.Background(), FollowUser("u1", "u2", true))

	assert.NotNil(t, err)
	_, isTerminal := err.(*WriteError)
	assert.False(t, isTerminal)
	_, isRejected := err.(*BusinessRejection)
	assert.False(t, isRejected)
}

func TestEndpointClientErrorIsTerminal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	endpoint := NewHTTPEndpoint(server.URL, "")
	err := endpoint.Execute(context.Background(), BlockUser("u1", "u2", true))

	terminal, ok := err.(*WriteError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, terminal.StatusCode)
	assert.Equal(t, "block_user", terminal.Action)
}

func TestEndpointGarbledResponseIsTerminal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>moved</html>"))
	}))
	defer server.Close()

	endpoint := NewHTTPEndpoint(server.URL, "")
	err := endpoint.Execute(context.Background(), MarkNotificationsRead("u1"))

	_, ok := err.(*WriteError)
	assert.True(t, ok)
}

func TestEndpointConnectionFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	endpoint := NewHTTPEndpoint(server.URL, "")
	err := endpoint.Execute(context.Background(), MarkConversationRead("u1", "u2"))

	assert.NotNil(t, err)
	_, isTerminal := err.(*WriteError)
	assert.False(t, isTerminal)
}
