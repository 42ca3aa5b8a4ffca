package status

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatusServer(t *testing.T, code int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != StatusPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const twoServers = `{"servers":[
	{"id":"server-2","host":"localhost","port":9002,"healthy":true,"requests":1234567,"active_connections":4,"cpu_usage":42.5,"mem_usage":61.25},
	{"id":1,"host":"localhost","port":9001,"healthy":false,"requests":0,"active_connections":0,"cpu_usage":0,"mem_usage":0}
]}`

// okRecord returns a complete server record with the given string id.
func okRecord(id string) string {
	return `{"id":"` + id + `","host":"localhost","port":9001,"healthy":true,` +
		`"requests":0,"active_connections":0,"cpu_usage":0,"mem_usage":0}`
}

func TestClient_FetchSuccess(t *testing.T) {
	srv := newStatusServer(t, http.StatusOK, twoServers)
	c := NewClient(srv.URL)

	snap, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 2)

	// Order is preserved as delivered.
	assert.Equal(t, ServerID("server-2"), snap[0].ID)
	assert.Equal(t, ServerID("1"), snap[1].ID)

	assert.Equal(t, "localhost", snap[0].Host)
	assert.Equal(t, 9002, snap[0].Port)
	assert.True(t, snap[0].Healthy)
	assert.Equal(t, int64(1234567), snap[0].Requests)
	assert.Equal(t, int64(4), snap[0].ActiveConnections)
	assert.InDelta(t, 42.5, snap[0].CPUUsage, 1e-9)
	assert.InDelta(t, 61.25, snap[0].MemUsage, 1e-9)
	assert.False(t, snap[1].Healthy)
}

func TestClient_FetchEmptyList(t *testing.T) {
	srv := newStatusServer(t, http.StatusOK, `{"servers":[]}`)

	snap, err := NewClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap)
	assert.Empty(t, snap)
}

func TestClient_FetchOutOfRangeMetricsAccepted(t *testing.T) {
	srv := newStatusServer(t, http.StatusOK,
		`{"servers":[{"id":"a","host":"h","port":1,"healthy":true,"requests":1,"active_connections":0,"cpu_usage":140,"mem_usage":-3}]}`)

	snap, err := NewClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 140.0, snap[0].CPUUsage, 1e-9)
	assert.InDelta(t, -3.0, snap[0].MemUsage, 1e-9)
}

func TestClient_FetchFailures(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		body       string
		wantStatus int
		wantCause  error
	}{
		{
			name:       "server error",
			code:       http.StatusInternalServerError,
			body:       `{"error":"boom"}`,
			wantStatus: http.StatusInternalServerError,
			wantCause:  ErrUnexpectedStatus,
		},
		{
			name:       "not found",
			code:       http.StatusNotFound,
			body:       ``,
			wantStatus: http.StatusNotFound,
			wantCause:  ErrUnexpectedStatus,
		},
		{
			name:       "invalid json",
			code:       http.StatusOK,
			body:       `{"servers": [`,
			wantStatus: http.StatusOK,
			wantCause:  ErrMalformedPayload,
		},
		{
			name:       "missing servers key",
			code:       http.StatusOK,
			body:       `{"hosts":[]}`,
			wantStatus: http.StatusOK,
			wantCause:  ErrMalformedPayload,
		},
		{
			name:       "servers is null",
			code:       http.StatusOK,
			body:       `{"servers":null}`,
			wantStatus: http.StatusOK,
			wantCause:  ErrMalformedPayload,
		},
		{
			name:       "duplicate ids",
			code:       http.StatusOK,
			body:       `{"servers":[`+okRecord("a")+`,`+okRecord("a")+`]}`,
			wantStatus: http.StatusOK,
			wantCause:  ErrMalformedPayload,
		},
		{
			name:       "empty id",
			code:       http.StatusOK,
			body:       `{"servers":[`+okRecord("")+`]}`,
			wantStatus: http.StatusOK,
			wantCause:  ErrMalformedPayload,
		},
		{
			name:       "missing field",
			code:       http.StatusOK,
			body:       `{"servers":[{"id":1}]}`,
			wantStatus: http.StatusOK,
			wantCause:  ErrMalformedPayload,
		},
		{
			name:       "null field",
			code:       http.StatusOK,
			body:       strings.Replace(`{"servers":[`+okRecord("a")+`]}`, `"healthy":true`, `"healthy":null`, 1),
			wantStatus: http.StatusOK,
			wantCause:  ErrMalformedPayload,
		},
		{
			name:       "trailing data",
			code:       http.StatusOK,
			body:       `{"servers":[]} garbage`,
			wantStatus: http.StatusOK,
			wantCause:  ErrMalformedPayload,
		},
		{
			name:       "second object",
			code:       http.StatusOK,
			body:       `{"servers":[]}{"servers":[]}`,
			wantStatus: http.StatusOK,
			wantCause:  ErrMalformedPayload,
		},
		{
			name:       "wrong field type",
			code:       http.StatusOK,
			body:       strings.Replace(`{"servers":[`+okRecord("a")+`]}`, `"cpu_usage":0`, `"cpu_usage":"high"`, 1),
			wantStatus: http.StatusOK,
			wantCause:  ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newStatusServer(t, tt.code, tt.body)

			snap, err := NewClient(srv.URL).Fetch(context.Background())
			require.Error(t, err)
			assert.Nil(t, snap)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantStatus, fe.StatusCode)
			assert.Equal(t, srv.URL+StatusPath, fe.URL)
			assert.ErrorIs(t, err, tt.wantCause)
		})
	}
}

func TestClient_FetchAcceptsTrailingWhitespace(t *testing.T) {
	srv := newStatusServer(t, http.StatusOK, `{"servers":[`+okRecord("a")+`]}`+"\n\n")

	snap, err := NewClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, ServerID("a"), snap[0].ID)
}

func TestClient_FetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Fetch(context.Background())

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Zero(t, fe.StatusCode)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClient_FetchRecoversPanic(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		panic("transport exploded")
	})}

	var err error
	assert.NotPanics(t, func() {
		_, err = NewClient("http://lb.invalid", WithHTTPClient(hc)).Fetch(context.Background())
	})

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Error(), "transport exploded")
}

func TestClient_FetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, WithTimeout(20*time.Millisecond)).Fetch(context.Background())

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
}

func TestClient_FetchSendsAcceptHeader(t *testing.T) {
	var accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		_, _ = io.WriteString(w, `{"servers":[]}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "application/json", accept)
}

func TestClient_AddServer(t *testing.T) {
	var (
		method string
		path   string
		body   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := NewClient(srv.URL + "/").AddServer(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, AddServerPath, path)
	assert.Empty(t, body)
}

func TestClient_AddServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "pool full", http.StatusConflict)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).AddServer(context.Background())

	var me *MutationError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, http.StatusConflict, me.StatusCode)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_Endpoint(t *testing.T) {
	assert.Equal(t, "http://lb:8080", NewClient("http://lb:8080/").Endpoint())
}

func TestServerID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    ServerID
		wantErr bool
	}{
		{in: `"server-1"`, want: "server-1"},
		{in: `7`, want: "7"},
		{in: `1.5`, want: "1.5"},
		{in: `null`, wantErr: true},
		{in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id ServerID
			err := id.UnmarshalJSON([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
