package conversation

import (
	"errors"
	"sort"
	"strings"
)

// Senders recorded on stored utterances.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Roles carried on completion request blocks.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Generation parameters, fixed for this domain: high temperature for natural
// variation, short output cap since replies are conversational.
const (
	Temperature = 0.9
	TopP        = 0.95
	MaxTokens   = 1024
)

// HistoryWindow is how many recent utterances are retained per turn. Older
// messages are dropped, never summarized.
const HistoryWindow = 8

// ErrInvalidInput rejects an empty or all-whitespace user message before any
// provider call is made.
var ErrInvalidInput = errors.New("message text is empty")

// Utterance is one stored message of a conversation. Seq is a monotonic
// per-conversation counter assigned at append time; ordering never depends
// on wall-clock timestamps.
type Utterance struct {
	Sender string `json:"sender"`
	Text   string `json:"message"`
	Seq    int64  `json:"seq"`
}

// Message is a role-tagged block in the provider request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the transient per-turn payload handed to a completion
// gateway: system block first, then the retained history, then the new user
// message.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
}

// AssembleRequest trims history to the most recent HistoryWindow utterances
// in ascending sequence order and interleaves them with the system prompt
// and the new user message. The caller's history slice is never mutated.
func AssembleRequest(systemPrompt string, history []Utterance, newText string) (*CompletionRequest, error) {
	trimmed := strings.TrimSpace(newText)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	ordered := make([]Utterance, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	if len(ordered) > HistoryWindow {
		ordered = ordered[len(ordered)-HistoryWindow:]
	}

	messages := make([]Message, 0, len(ordered)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	for _, u := range ordered {
		role := RoleAssistant
		if u.Sender == SenderUser {
			role = RoleUser
		}
		messages = append(messages, Message{Role: role, Content: u.Text})
	}
	messages = append(messages, Message{Role: RoleUser, Content: trimmed})

	return &CompletionRequest{
		Messages:    messages,
		Temperature: Temperature,
		TopP:        TopP,
		MaxTokens:   MaxTokens,
	}, nil
}
