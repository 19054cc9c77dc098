package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	err   error
	calls int
}

func (s *staticTokens) Token(_ context.Context) (string, error) {
	s.calls++
	return s.token, s.err
}

func TestAuthorize_DoesNotMutateOriginal(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	authorized, err := Authorize(context.Background(), req, &staticTokens{token: "abc"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", authorized.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestAuthorize_NoSource(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	_, err := Authorize(context.Background(), req, nil)
	assert.ErrorIs(t, err, ErrNoTokenSource)
}

func TestClient_AttachesTokenOnEveryRequest(t *testing.T) {
	var auths, runIDs, requestIDs []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		runIDs = append(runIDs, r.Header.Get(HeaderRunID))
		requestIDs = append(requestIDs, r.Header.Get(HeaderRequestID))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	tokens := &staticTokens{token: "abc"}
	client := New(Config{Tokens: tokens, RunID: "run-1"})

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, "[]", string(resp.Body))

	_, err = client.Post(context.Background(), server.URL, []byte(`[1]`))
	require.NoError(t, err)

	assert.Equal(t, 2, tokens.calls)
	assert.Equal(t, []string{"Bearer abc", "Bearer abc"}, auths)
	assert.Equal(t, []string{"run-1", "run-1"}, runIDs)
	require.Len(t, requestIDs, 2)
	assert.NotEmpty(t, requestIDs[0])
	assert.NotEqual(t, requestIDs[0], requestIDs[1])
}

func TestClient_PostBodyAndContentType(t *testing.T) {
	var body, contentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := New(Config{Tokens: &staticTokens{token: "abc"}})

	resp, err := client.Post(context.Background(), server.URL, []byte(`[101,102]`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, `[101,102]`, body)
	assert.Equal(t, "application/json", contentType)

	// Без тела — без Content-Type.
	_, err = client.Post(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Empty(t, body)
	assert.Empty(t, contentType)
}

func TestClient_NonSuccessIsNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))
	defer server.Close()

	client := New(Config{Tokens: &staticTokens{token: "abc"}})

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, "boom", string(resp.Body))
}

func TestClient_TokenErrorNotTransport(t *testing.T) {
	tokenErr := errors.New("identity down")
	client := New(Config{Tokens: &staticTokens{err: tokenErr}})

	_, err := client.Get(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
	assert.ErrorIs(t, err, tokenErr)
	assert.NotErrorIs(t, err, ErrTransport)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(Config{Tokens: &staticTokens{token: "abc"}})

	_, err := client.Get(context.Background(), url)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(Config{Tokens: &staticTokens{token: "abc"}, Timeout: 50 * time.Millisecond})

	_, err := client.Get(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrTransport)
}
