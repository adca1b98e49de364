package state

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

// record is the persisted form of one session transcript.
type record struct {
	SessionID string               `json:"session_id"`
	Turns     contractx.Transcript `json:"turns"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func encodeRecord(sessionID string, transcript contractx.Transcript, now time.Time) ([]byte, error) {
	turns := transcript
	if turns == nil {
		turns = contractx.Transcript{}
	}
	payload, err := json.Marshal(record{
		SessionID: sessionID,
		Turns:     turns,
		UpdatedAt: now.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal transcript: %w", err)
	}
	return payload, nil
}

func decodeRecord(raw []byte) (contractx.Transcript, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal transcript: %w", err)
	}
	if err := validate(rec.Turns); err != nil {
		return nil, fmt.Errorf("invalid transcript loaded from store: %w", err)
	}
	if rec.Turns == nil {
		rec.Turns = contractx.Transcript{}
	}
	return rec.Turns, nil
}

func validate(turns contractx.Transcript) error {
	for i, turn := range turns {
		switch turn.Role {
		case contractx.RoleSystem, contractx.RoleUser, contractx.RoleAssistant, contractx.RoleTool:
		default:
			return fmt.Errorf("%w: turn %d has role %q", contractx.ErrValidation, i, turn.Role)
		}
	}
	return nil
}

func sessionKey(prefix, sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", ErrInvalidSession
	}
	return strings.TrimSpace(prefix) + sessionID + keySuffix, nil
}
