package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectsV2_AddIssue(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotBody   projectItemRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	p := &projectsV2{client: client}
	_, err = p.AddIssue(context.Background(), "childrens-bti", 7, 9001)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/orgs/childrens-bti/projectsV2/7/items", gotPath)
	assert.Equal(t, projectItemRequest{Type: "Issue", ID: 9001}, gotBody)
}

func TestProjectsV2_AddIssueFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	client := github.NewClient(nil)
	base, _ := url.Parse(server.URL + "/")
	client.BaseURL = base

	resp, err := (&projectsV2{client: client}).AddIssue(context.Background(), "childrens-bti", 99, 1)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
