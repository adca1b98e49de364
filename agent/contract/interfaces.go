package contract

import "context"

// Oracle turns a transcript into a single text completion.
type Oracle interface {
	Complete(ctx context.Context, transcript Transcript) (string, error)
}

// TranscriptStore persists transcripts by session id. Load returns
// ErrTranscriptNotFound when nothing was saved yet.
type TranscriptStore interface {
	Load(ctx context.Context, sessionID string) (Transcript, error)
	Save(ctx context.Context, sessionID string, transcript Transcript) error
}

// LocationResolver finds the most recent registered address of a user.
// It reports false on any failure and never returns an error.
type LocationResolver interface {
	Lookup(ctx context.Context, userID int64) (Location, bool)
}
