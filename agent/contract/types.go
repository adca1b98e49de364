package contract

import (
	"net/http"
	"strings"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// UserContextMarker prefixes the system turn that carries the caller identity.
const UserContextMarker = "Contexto do usuário:"

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is the append-only turn history of one session.
type Transcript []Turn

func (t Transcript) HasSystem() bool {
	for _, turn := range t {
		if turn.Role == RoleSystem {
			return true
		}
	}
	return false
}

func (t Transcript) HasUserContext() bool {
	for _, turn := range t {
		if turn.Role == RoleSystem && strings.Contains(turn.Content, UserContextMarker) {
			return true
		}
	}
	return false
}

func (t Transcript) Last() (Turn, bool) {
	if len(t) == 0 {
		return Turn{}, false
	}
	return t[len(t)-1], true
}

// Clone returns a copy that does not share the backing array.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the uniform result of every tool. When OK is false, Data
// holds a human readable diagnostic string.
type ToolResult struct {
	OK     bool `json:"ok"`
	Status int  `json:"status"`
	Data   any  `json:"data"`
}

func Success(data any) ToolResult {
	return ToolResult{OK: true, Status: http.StatusOK, Data: data}
}

func Failure(status int, diagnostic string) ToolResult {
	return ToolResult{OK: false, Status: status, Data: diagnostic}
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Reply struct {
	Text      string   `json:"reply"`
	ToolsUsed []string `json:"tools_used"`
}
