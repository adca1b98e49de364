package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

// LoadTranscript reads the session history. A session never saved starts
// with an empty transcript.
func LoadTranscript(
	ctx context.Context,
	in *GraphState,
	store contractx.TranscriptStore,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	transcript, err := store.Load(ctx, in.SessionID)
	switch {
	case err == nil:
		in.Transcript = transcript.Clone()
	case errors.Is(err, contractx.ErrTranscriptNotFound):
		in.Transcript = contractx.Transcript{}
	default:
		return nil, fmt.Errorf("load transcript session=%s: %w", in.SessionID, err)
	}
	return in, nil
}
