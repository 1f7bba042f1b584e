package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PierrickMartos/slub/internal/entities"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token(_ context.Context) (string, error) { return string(s), nil }

func newTestClient(baseURL string) *Client {
	return &Client{
		log:        zap.NewNop().Sugar(),
		httpClient: &http.Client{},
		baseURL:    baseURL,
		tokens:     staticToken("installation-token"),
	}
}

func TestClient_GetCheckResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/akeneo/pim-community-dev/commits/abc123/status", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer installation-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"statuses":[
			{"context":"travis","state":"success","target_url":"https://travis.example.com/1"},
			{"context":"codecov","state":"error","target_url":"https://codecov.example.com/1"}
		]}`))
	})
	mux.HandleFunc("/repos/akeneo/pim-community-dev/commits/abc123/check-runs", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"check_runs":[
			{"name":"unit tests","status":"completed","conclusion":"success","details_url":"https://ci.example.com/2"},
			{"name":"lint","status":"in_progress","conclusion":"","details_url":""},
			{"name":"docs","status":"completed","conclusion":"skipped","details_url":""}
		]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv.URL)
	results, err := c.GetCheckResults(context.Background(), "akeneo/pim-community-dev", "abc123")
	require.NoError(t, err)
	require.Equal(t, []entities.CheckResult{
		{Context: "travis", State: entities.CheckSuccess, DetailsURL: "https://travis.example.com/1"},
		{Context: "codecov", State: entities.CheckFailure, DetailsURL: "https://codecov.example.com/1"},
		{Context: "unit tests", State: entities.CheckSuccess, DetailsURL: "https://ci.example.com/2"},
		{Context: "lint", State: entities.CheckPending, DetailsURL: ""},
		{Context: "docs", State: entities.CheckNeutral, DetailsURL: ""},
	}, results)
}

func TestClient_GetCheckResultsUnparseableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.GetCheckResults(context.Background(), "akeneo/pim-community-dev", "abc123")
	require.ErrorContains(t, err, "parse response")
}

func TestClient_GetCheckResultsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.GetCheckResults(context.Background(), "akeneo/pim-community-dev", "abc123")
	require.ErrorContains(t, err, "status 502")
}

func TestClient_FindPRNumberForCommit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/akeneo/pim-community-dev/commits/abc123/pulls", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"number":1111}]`))
	})
	mux.HandleFunc("/repos/akeneo/pim-community-dev/commits/orphan/pulls", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv.URL)

	number, ok, err := c.FindPRNumberForCommit(context.Background(), "akeneo/pim-community-dev", "abc123")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1111, number)

	_, ok, err = c.FindPRNumberForCommit(context.Background(), "akeneo/pim-community-dev", "orphan")
	require.NoError(t, err)
	require.False(t, ok)
}
