package orchestratornode

import (
	"errors"
	"strings"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
	UserID    *int64
}

type GraphOutput struct {
	Reply contractx.Reply
}

type GraphState struct {
	SessionID string
	Text      string
	UserID    *int64

	Transcript contractx.Transcript

	Reply      string
	ToolsUsed  []string
	Iterations int
	Degraded   bool
}

func ValidateRequest(in GraphInput) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		UserID:    in.UserID,
	}, nil
}
