package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/llm"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// fakeOpenAI records the last request and answers with status and body.
type fakeOpenAI struct {
	calls  atomic.Int32
	auth   string
	path   string
	last   chatRequest
	status int
	body   string
}

func (f *fakeOpenAI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	f.auth = r.Header.Get("Authorization")
	f.path = r.URL.Path
	_ = json.NewDecoder(r.Body).Decode(&f.last)

	w.Header().Set("Content-Type", "application/json")

	if f.status != 0 {
		w.WriteHeader(f.status)
	}

	_, _ = w.Write([]byte(f.body))
}

func generationConfig(baseURL, apiKey string) config.Generation {
	return config.Generation{
		Provider:         config.ProviderOpenAI,
		BaseURL:          baseURL,
		APIKey:           apiKey,
		Model:            "gpt-4o",
		MaxTokens:        4000,
		RegenerateSuffix: config.DefaultRegenerateSuffix,
		Timeout:          5 * time.Second,
	}
}

func TestGenerateNew(t *testing.T) {
	fake := &fakeOpenAI{body: `{"choices":[{"message":{"role":"assistant","content":"  <h1>Hi</h1>\n"}}]}`}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c, err := llm.New(generationConfig(srv.URL+"/v1/", "sk-env"))
	require.NoError(t, err)

	out, err := c.Generate(context.Background(), llm.Request{Prompt: "write", Mode: llm.ModeNew})
	require.NoError(t, err)

	// text is returned verbatim
	assert.Equal(t, "  <h1>Hi</h1>\n", out)
	assert.Equal(t, "/v1/chat/completions", fake.path)
	assert.Equal(t, "Bearer sk-env", fake.auth)
	assert.Equal(t, "gpt-4o", fake.last.Model)
	assert.Equal(t, 4000, fake.last.MaxTokens)
	assert.InDelta(t, 0.7, fake.last.Temperature, 1e-9)
	require.Len(t, fake.last.Messages, 1)
	assert.Equal(t, "user", fake.last.Messages[0].Role)
	assert.Equal(t, "write", fake.last.Messages[0].Content)
}

func TestGenerateRegenerate(t *testing.T) {
	fake := &fakeOpenAI{body: `{"choices":[{"message":{"content":"fresh"}}]}`}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c, err := llm.New(generationConfig(srv.URL, "sk-env"))
	require.NoError(t, err)

	out, err := c.Generate(context.Background(), llm.Request{
		Prompt:     "write",
		Credential: "sk-client",
		Mode:       llm.ModeRegenerate,
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", out)

	assert.Equal(t, "Bearer sk-client", fake.auth)
	assert.InDelta(t, 0.8, fake.last.Temperature, 1e-9)
	assert.Equal(t, "write\n\n"+config.DefaultRegenerateSuffix, fake.last.Messages[0].Content)
}

func TestGenerateZeroTemperature(t *testing.T) {
	fake := &fakeOpenAI{body: `{"choices":[{"message":{"content":"x"}}]}`}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	zero := 0.0
	cfg := generationConfig(srv.URL, "sk-env")
	cfg.Temperature = &zero

	c, err := llm.New(cfg)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), llm.Request{Prompt: "write", Mode: llm.ModeNew})
	require.NoError(t, err)
	assert.Zero(t, fake.last.Temperature)
}

func TestGenerateMissingCredential(t *testing.T) {
	fake := &fakeOpenAI{body: `{"choices":[{"message":{"content":"x"}}]}`}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c, err := llm.New(generationConfig(srv.URL, ""))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), llm.Request{Prompt: "write", Credential: "   "})
	require.ErrorIs(t, err, llm.ErrMissingCredential)
	assert.Equal(t, int32(0), fake.calls.Load())
}

func TestGenerateFailures(t *testing.T) {
	testCases := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"message":"bad key","type":"invalid_request_error"}}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "server error without body",
			status:     http.StatusInternalServerError,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "no choices",
			body: `{"choices":[]}`,
		},
		{
			name: "not json",
			body: `<html>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeOpenAI{status: tc.status, body: tc.body}
			srv := httptest.NewServer(fake)
			defer srv.Close()

			c, err := llm.New(generationConfig(srv.URL, "sk-env"))
			require.NoError(t, err)

			_, err = c.Generate(context.Background(), llm.Request{Prompt: "write"})
			require.ErrorIs(t, err, llm.ErrGenerationFailed)
			assert.Equal(t, int32(1), fake.calls.Load(), "no retry")

			var statusErr *llm.StatusError
			if tc.wantStatus != 0 {
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tc.wantStatus, statusErr.StatusCode)
			} else {
				assert.False(t, errors.As(err, &statusErr))
			}
		})
	}
}

func TestGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := llm.New(generationConfig(url, "sk-env"))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), llm.Request{Prompt: "write"})
	require.ErrorIs(t, err, llm.ErrGenerationFailed)
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := generationConfig("http://localhost", "k")
	cfg.Provider = "bard"

	_, err := llm.New(cfg)
	require.ErrorIs(t, err, config.ErrUnknownGenerationProvider)
}
