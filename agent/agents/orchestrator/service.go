package orchestrator

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
	nodex "github.com/tanpawarit/promo-agent/agent/nodes/orchestrator"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

const (
	DefaultMaxIterations = 8
	DefaultDegradedReply = "Não consegui concluir. Verifique se há endereço cadastrado no seu perfil para localizar promoções próximas."
)

type Config struct {
	MaxIterations int    `envconfig:"MAX_ITERATIONS" split_words:"true" default:"8"`
	DegradedReply string `envconfig:"DEGRADED_REPLY" split_words:"true"`
	SystemPrompt  string `ignored:"true"`
}

// Orchestrator runs one conversational turn: it loads the session
// transcript, lets the oracle call tools, and persists the result.
type Orchestrator struct {
	store  contractx.TranscriptStore
	oracle contractx.Oracle
	tools  nodex.Dispatcher

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	systemPrompt string
	policy       nodex.Policy
}

func New(
	store contractx.TranscriptStore,
	oracle contractx.Oracle,
	tools nodex.Dispatcher,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("transcript store is required")
	}
	if oracle == nil {
		return nil, errors.New("oracle is required")
	}
	if tools == nil {
		return nil, errors.New("tool dispatcher is required")
	}

	systemPrompt := strings.TrimSpace(cfg.SystemPrompt)
	if systemPrompt == "" {
		return nil, errors.New("system prompt is required")
	}
	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	degradedReply := strings.TrimSpace(cfg.DegradedReply)
	if degradedReply == "" {
		degradedReply = DefaultDegradedReply
	}

	o := &Orchestrator{
		store:        store,
		oracle:       oracle,
		tools:        tools,
		systemPrompt: systemPrompt,
		policy: nodex.Policy{
			MaxIterations: maxIterations,
			DegradedReply: degradedReply,
		},
	}

	graphRunner, err := o.compileRunGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Run answers message within session sessionID. userID is the caller
// identity when known.
func (o *Orchestrator) Run(ctx context.Context, message string, sessionID string, userID *int64) (contractx.Reply, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      message,
		UserID:    userID,
	})
	if err != nil {
		return contractx.Reply{}, err
	}
	return out.Reply, nil
}
