package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

func SaveTranscript(
	ctx context.Context,
	in *GraphState,
	store contractx.TranscriptStore,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := store.Save(ctx, in.SessionID, in.Transcript); err != nil {
		return nil, fmt.Errorf("%w: session=%s: %v", contractx.ErrPersist, in.SessionID, err)
	}
	return in, nil
}
