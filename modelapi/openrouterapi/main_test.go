package openrouterapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"monbondhu/conversation"
	"monbondhu/logger"
	"monbondhu/modelapi"

	"golang.org/x/sync/semaphore"
)

func testClient(t *testing.T, apiKey, url string) *OpenRouter {
	t.Helper()
	return &OpenRouter{
		logger:    logger.Connect(logger.LoggerConnectProps{Production: false}),
		semaphore: semaphore.NewWeighted(1),
		apiKey:    apiKey,
		url:       url,
		timeout:   5 * time.Second,
	}
}

func testRequest(t *testing.T) *conversation.CompletionRequest {
	t.Helper()
	req, err := conversation.AssembleRequest("system", nil, "hello")
	if err != nil {
		t.Fatalf("AssembleRequest: %v", err)
	}
	return req
}

func kindOf(t *testing.T, err error) modelapi.ErrorKind {
	t.Helper()
	var pe *modelapi.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a classified ProviderError, got %v", err)
	}
	return pe.Kind
}

func TestConfigurationErrorBeforeNetwork(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	for _, key := range []string{"", "   ", "YOUR_OPENROUTER_API_KEY_HERE"} {
		o := testClient(t, key, server.URL)
		_, err := o.Complete(context.Background(), testRequest(t))
		if kindOf(t, err) != modelapi.KindConfiguration {
			t.Errorf("key %q: expected configuration error, got %v", key, err)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("no network call may be attempted with a bad credential, got %d calls", calls.Load())
	}
}

func TestCompleteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer credential, got %q", got)
		}
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"ami ekhane achi"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	o := testClient(t, "test-key", server.URL)
	reply, err := o.Complete(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "ami ekhane achi" {
		t.Errorf("reply = %q", reply)
	}
}

func TestCompleteEmptyReplyFallback(t *testing.T) {
	bodies := []string{
		`{"choices":[]}`,
		`{"choices":[{"index":0,"message":{"role":"assistant","content":""}}]}`,
		`{}`,
	}
	for _, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		o := testClient(t, "test-key", server.URL)
		reply, err := o.Complete(context.Background(), testRequest(t))
		server.Close()

		if err != nil {
			t.Errorf("body %q: empty reply must not be an error, got %v", body, err)
		}
		if reply != modelapi.EMPTY_REPLY_FALLBACK {
			t.Errorf("body %q: expected fallback line, got %q", body, reply)
		}
	}
}

func TestCompleteStatusClassification(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   modelapi.ErrorKind
	}{
		{http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, modelapi.KindAuthentication},
		{http.StatusForbidden, `{"error":{"message":"forbidden"}}`, modelapi.KindAuthentication},
		{http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, modelapi.KindQuota},
		{http.StatusPaymentRequired, `{"error":{"message":"quota exceeded"}}`, modelapi.KindQuota},
		{http.StatusInternalServerError, `{"error":{"message":"boom"}}`, modelapi.KindProvider},
		{http.StatusBadRequest, `{"error":{"message":"bad request"}}`, modelapi.KindProvider},
	}

	for _, c := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
			w.Write([]byte(c.body))
		}))

		o := testClient(t, "test-key", server.URL)
		_, err := o.Complete(context.Background(), testRequest(t))
		server.Close()

		if got := kindOf(t, err); got != c.want {
			t.Errorf("status %d: kind = %q, want %q", c.status, got, c.want)
		}
	}
}

func TestCompleteMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	o := testClient(t, "test-key", server.URL)
	_, err := o.Complete(context.Background(), testRequest(t))
	if kindOf(t, err) != modelapi.KindProvider {
		t.Errorf("malformed body should classify as provider error, got %v", err)
	}
}

func TestCompleteTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	o := testClient(t, "test-key", server.URL)
	o.timeout = 50 * time.Millisecond

	_, err := o.Complete(context.Background(), testRequest(t))
	if kindOf(t, err) != modelapi.KindTimeout {
		t.Errorf("expected timeout classification, got %v", err)
	}
}

func TestCompleteNetworkError(t *testing.T) {
	// Grab a port that nothing listens on anymore.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	o := testClient(t, "test-key", url)
	_, err := o.Complete(context.Background(), testRequest(t))
	if kindOf(t, err) != modelapi.KindNetwork {
		t.Errorf("expected network classification, got %v", err)
	}
}
