package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/api/option"
	"wisdomcard/internal/prompts"
)

// fakeGeminiServer answers every generateContent call with body and keeps
// the last request body it saw.
type fakeGeminiServer struct {
	*httptest.Server
	calls atomic.Int32

	mu   sync.Mutex
	body string
}

func newFakeGeminiServer(t *testing.T, body string) *fakeGeminiServer {
	t.Helper()
	f := &fakeGeminiServer{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		raw, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.body = string(raw)
		f.mu.Unlock()

		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGeminiServer) lastBody() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.body
}

func newTestGemini(t *testing.T, srv *fakeGeminiServer) *GeminiClient {
	t.Helper()
	client, err := NewGeminiClient(context.Background(), "test-key", "gemini-test",
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestGemini_JoinsTextParts(t *testing.T) {
	srv := newFakeGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[
		{"text":"{\"quote\":\"Q\","},
		{"text":"\"source\":\"S\",\"interpretation\":\"I\"}"}
	]}}]}`)
	client := newTestGemini(t, srv)

	text, err := client.CompleteJSON(context.Background(), "persona", "我的问题是：工作遇到瓶颈怎么办", 0.8)
	require.NoError(t, err)
	assert.JSONEq(t, `{"quote":"Q","source":"S","interpretation":"I"}`, text)

	assert.EqualValues(t, 1, srv.calls.Load())
	body := srv.lastBody()
	assert.Contains(t, body, "application/json")
	assert.Contains(t, body, "persona")
	assert.Contains(t, body, "工作遇到瓶颈怎么办")
}

func TestGemini_NoResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"candidate without content", `{"candidates":[{"finishReason":"STOP"}]}`},
		{"blank text", `{"candidates":[{"content":{"role":"model","parts":[{"text":"  "}]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestGemini(t, newFakeGeminiServer(t, tt.body))

			_, err := client.CompleteJSON(context.Background(), "persona", "q", 0.8)
			assert.ErrorIs(t, err, ErrNoResponse)
		})
	}
}

func TestGemini_ThroughWisdomService(t *testing.T) {
	srv := newFakeGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[
		{"text":"{\"quote\":\"Q\",\"source\":\"《S》\",\"interpretation\":\"I\"}"}
	]}}]}`)
	v, err := prompts.Lookup("postcard")
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	svc, err := NewWisdomService(newTestGemini(t, srv), v, nil, zap.New(core))
	require.NoError(t, err)

	w, err := svc.Fetch(context.Background(), "创业方向很迷茫")
	require.NoError(t, err)
	require.NotNil(t, w.Card)
	assert.Equal(t, "S", w.Card.DisplaySource())

	received := logs.FilterMessage("wisdom received").All()
	require.Len(t, received, 1)
	assert.Equal(t, "Q", received[0].ContextMap()["quote"])
	assert.Equal(t, "gemini", received[0].ContextMap()["provider"])
}
