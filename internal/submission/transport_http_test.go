package submission

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, h http.HandlerFunc) *HTTPTransport {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	tr, err := NewHTTPTransport(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return tr
}

func TestHTTPTransportPostsMultipartForm(t *testing.T) {
	var got map[string]string
	tr := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, DefaultPath, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		got = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			got[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"response":"# Plan\n","plan_id":12}`)
	})

	reply, err := tr.Send(context.Background(), Request{
		Goal:                "learn rust",
		ProjectType:         "coding",
		ReferencePreference: "youtube, video, text, book",
		Timeframe:           "1 month",
		TimeConstraint:      "3 hours",
		IsPublic:            true,
		Model:               "google/gemini-2.0-flash-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "# Plan\n", reply.Response)
	assert.Equal(t, int64(12), reply.PlanID)
	assert.Equal(t, map[string]string{
		"goal":                 "learn rust",
		"project_type":         "coding",
		"reference_preference": "youtube, video, text, book",
		"timeframe":            "1 month",
		"time_constraint":      "3 hours",
		"is_public":            "on",
		"model":                "google/gemini-2.0-flash-001",
	}, got)
}

func TestHTTPTransportOmitsOptionalFields(t *testing.T) {
	tr := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, public := r.MultipartForm.Value["is_public"]
		_, model := r.MultipartForm.Value["model"]
		assert.False(t, public)
		assert.False(t, model)
		_, _ = io.WriteString(w, `{"response":""}`)
	})

	reply, err := tr.Send(context.Background(), Request{Goal: "x"})
	require.NoError(t, err)
	assert.Equal(t, "", reply.Response)
}

func TestHTTPTransportErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    ErrorKind
		message string
	}{
		{name: "non-2xx without body", status: http.StatusBadGateway, body: "<html>bad gateway</html>", kind: KindStatus, message: "Something went wrong"},
		{name: "non-2xx with error", status: http.StatusBadRequest, body: `{"error":"Missing required fields"}`, kind: KindStatus, message: "Missing required fields"},
		{name: "2xx with error", status: http.StatusOK, body: `{"error":"No AI client configured"}`, kind: KindStatus, message: "No AI client configured"},
		{name: "malformed json", status: http.StatusOK, body: `{"response":`, kind: KindPayload, message: "Unexpected response from the study plan creator"},
		{name: "missing response", status: http.StatusOK, body: `{"plan_id":3}`, kind: KindPayload, message: "Unexpected response from the study plan creator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := tr.Send(context.Background(), Request{Goal: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.kind, Kind(err))
			assert.Equal(t, tt.message, Message(err))
		})
	}
}

func TestHTTPTransportNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tr, err := NewHTTPTransport(url)
	require.NoError(t, err)
	_, err = tr.Send(context.Background(), Request{Goal: "x"})
	assert.Equal(t, KindTransport, Kind(err))
}

func TestNewHTTPTransportEndpoint(t *testing.T) {
	tr, err := NewHTTPTransport("https://plans.example.com/app/", WithPath("study_plan_creator"))
	require.NoError(t, err)
	assert.Equal(t, "https://plans.example.com/app/study_plan_creator", tr.Endpoint())

	_, err = NewHTTPTransport("")
	assert.Error(t, err)
	_, err = NewHTTPTransport("ftp://x")
	assert.Error(t, err)
}

func TestFormRequest(t *testing.T) {
	v := map[string][]string{
		"goal":      {"piano"},
		"timeframe": {"2 months"},
		"is_public": {"on"},
		"model":     {"  gpt-4o  "},
	}
	r := FormRequest(v)
	assert.Equal(t, "piano", r.Goal)
	assert.Equal(t, "2 months", r.Timeframe)
	assert.True(t, r.IsPublic)
	assert.Equal(t, "gpt-4o", r.Model)
}
