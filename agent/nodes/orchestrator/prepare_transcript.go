package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

// PrepareTranscript seeds the system and user-context turns when they are
// missing and appends the new user turn.
func PrepareTranscript(in *GraphState, systemPrompt string) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	transcript := in.Transcript
	if !transcript.HasSystem() {
		transcript = append(contractx.Transcript{{Role: contractx.RoleSystem, Content: systemPrompt}}, transcript...)
	}

	if in.UserID != nil && !transcript.HasUserContext() {
		contextTurn := contractx.Turn{Role: contractx.RoleSystem, Content: UserContextContent(*in.UserID)}
		withContext := make(contractx.Transcript, 0, len(transcript)+1)
		withContext = append(withContext, transcript[0], contextTurn)
		withContext = append(withContext, transcript[1:]...)
		transcript = withContext
	}

	in.Transcript = append(transcript, contractx.Turn{Role: contractx.RoleUser, Content: in.Text})
	return in, nil
}

func UserContextContent(userID int64) string {
	return fmt.Sprintf("%s user_id=%d. Use esse id para obter latitude/longitude.", contractx.UserContextMarker, userID)
}
