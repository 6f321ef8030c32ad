package geminiapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"monbondhu/conversation"
	"monbondhu/modelapi"

	"google.golang.org/api/googleapi"
)

func TestSplitRequest(t *testing.T) {
	req, err := conversation.AssembleRequest("be kind", []conversation.Utterance{
		{Sender: conversation.SenderUser, Text: "hi", Seq: 1},
		{Sender: conversation.SenderBot, Text: "hello!", Seq: 2},
	}, "how are you")
	if err != nil {
		t.Fatalf("AssembleRequest: %v", err)
	}

	system, history, last := splitRequest(req)

	if system != "be kind" {
		t.Errorf("system = %q", system)
	}
	if last != "how are you" {
		t.Errorf("last = %q", last)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != "user" || history[1].Role != "model" {
		t.Errorf("history roles = %q/%q, want user/model", history[0].Role, history[1].Role)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want modelapi.ErrorKind
	}{
		{context.DeadlineExceeded, modelapi.KindTimeout},
		{&googleapi.Error{Code: http.StatusUnauthorized}, modelapi.KindAuthentication},
		{&googleapi.Error{Code: http.StatusForbidden}, modelapi.KindAuthentication},
		{&googleapi.Error{Code: http.StatusTooManyRequests}, modelapi.KindQuota},
		{&googleapi.Error{Code: http.StatusBadRequest, Message: "quota exhausted"}, modelapi.KindQuota},
		{&googleapi.Error{Code: http.StatusInternalServerError}, modelapi.KindProvider},
		{errors.New("dial tcp: connection refused"), modelapi.KindNetwork},
		{errors.New("something odd"), modelapi.KindProvider},
	}
	for _, c := range cases {
		if got := classify(c.err); got.Kind != c.want {
			t.Errorf("classify(%v) = %q, want %q", c.err, got.Kind, c.want)
		}
	}
}
