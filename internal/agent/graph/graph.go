package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-restaurant-poc/server/internal/agent/graph/conversations"
	"github.com/Chative-restaurant-poc/server/internal/agent/graph/nodes"
	"github.com/Chative-restaurant-poc/server/internal/agent/graph/observers"
	"github.com/Chative-restaurant-poc/server/internal/agent/graph/planner"
	"github.com/Chative-restaurant-poc/server/internal/agent/graph/responder"
	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	"github.com/Chative-restaurant-poc/server/internal/catalog"
	"github.com/Chative-restaurant-poc/server/internal/metrics"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

const maxRunSteps = 20

// Runner executes one user turn and returns the assistant reply.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// Config holds everything needed to compose the ordering graph. Planner and
// Responder are chosen by the caller; see NewStrategies.
type Config struct {
	Planner   planner.Planner
	Responder responder.Responder
	Catalog   catalog.Searcher
	Sessions  model.SessionRepository
	// Metrics is optional.
	Metrics *metrics.Collector
}

// GraphBuilder handles the construction of the ordering graph.
type GraphBuilder struct {
	config   *Config
	sessions *conversations.SessionManager
	graph    *compose.Graph[model.QueryInput, *schema.Message]
}

// Agent runs turns through the compiled graph and exposes the session store.
type Agent struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
	sessions *conversations.SessionManager
	metrics  *metrics.Collector
}

// BuildAgent validates cfg, builds the graph and returns a ready Agent.
func BuildAgent(ctx context.Context, cfg Config) (*Agent, error) {
	if cfg.Planner == nil || cfg.Responder == nil {
		return nil, errors.New("planner and responder are required")
	}
	if cfg.Catalog == nil {
		return nil, errors.New("catalog is nil")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session repository is nil")
	}

	sm := conversations.NewSessionManager(cfg.Sessions)
	builder := &GraphBuilder{
		config:   &cfg,
		sessions: sm,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	runnable, err := builder.compile(ctx)
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Ordering graph built successfully")
	return &Agent{runnable: runnable, sessions: sm, metrics: cfg.Metrics}, nil
}

// Invoke runs one turn. Turns on the same session run one at a time; a failed
// turn stores nothing.
func (a *Agent) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	in.ConversationID = strings.TrimSpace(in.ConversationID)
	if in.ConversationID == "" {
		return "", model.ErrInvalidSession
	}
	if strings.TrimSpace(in.Query) == "" {
		return "", model.ErrEmptyMessage
	}

	start := time.Now()
	unlock, err := a.sessions.Lock(ctx, in.ConversationID)
	if err != nil {
		a.observe("", metrics.OutcomeError, start)
		return "", err
	}
	defer unlock()

	out, err := a.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		a.observe("", metrics.OutcomeError, start)
		logx.Error().Err(err).Str("conversation_id", in.ConversationID).Msg("turn failed")
		return "", err
	}

	action, _ := out.Extra[nodes.ExtraAction].(string)
	a.observe(action, metrics.OutcomeOK, start)
	return out.Content, nil
}

// Transcript returns the stored message history of a session.
func (a *Agent) Transcript(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	return a.sessions.Transcript(ctx, sessionID)
}

// Session returns a copy of the stored session state.
func (a *Agent) Session(ctx context.Context, sessionID string) (*model.SessionState, error) {
	return a.sessions.Session(ctx, sessionID)
}

// Reset forgets a session once any running turn on it has finished.
func (a *Agent) Reset(ctx context.Context, sessionID string) error {
	unlock, err := a.sessions.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()
	return a.sessions.Reset(ctx, sessionID)
}

func (a *Agent) observe(action, outcome string, start time.Time) {
	if a.metrics == nil {
		return
	}
	a.metrics.ObserveTurn(action, outcome, time.Since(start))
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	cfg := b.config

	if err := b.graph.AddLambdaNode(nodes.NodeLoadSession,
		nodes.NewLoadSessionNode(b.sessions),
	); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodeLoadSession, err)
	}

	if err := b.graph.AddLambdaNode(nodes.NodePlan,
		nodes.NewPlanNode(planner.WithWelcome(cfg.Planner)),
		compose.WithStatePostHandler(nodes.NewPlanPostHandler()),
	); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodePlan, err)
	}

	if err := b.graph.AddLambdaNode(nodes.NodeActBrowse, nodes.NewBrowseNode(cfg.Catalog)); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodeActBrowse, err)
	}
	if err := b.graph.AddLambdaNode(nodes.NodeActAdd, nodes.NewAddNode(cfg.Catalog)); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodeActAdd, err)
	}
	if err := b.graph.AddLambdaNode(nodes.NodeActShowCart, nodes.NewShowCartNode()); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodeActShowCart, err)
	}

	if err := b.graph.AddLambdaNode(nodes.NodeRespond,
		nodes.NewRespondNode(cfg.Responder, cfg.Catalog),
		compose.WithStatePostHandler(nodes.NewRespondPostHandler(b.sessions)),
	); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodeRespond, err)
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeLoadSession},
		{nodes.NodeLoadSession, nodes.NodePlan},
		{nodes.NodeActBrowse, nodes.NodeRespond},
		{nodes.NodeActAdd, nodes.NodeRespond},
		{nodes.NodeActShowCart, nodes.NodeRespond},
		{nodes.NodeRespond, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches routes the plan to exactly one action node.
func (b *GraphBuilder) addBranches() error {
	actionBranch := compose.NewGraphBranch(
		nodes.NewRouteCondition(),
		map[string]bool{
			nodes.NodeActBrowse:   true,
			nodes.NodeActAdd:      true,
			nodes.NodeActShowCart: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodePlan, actionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding action branch")
		return fmt.Errorf("error adding action branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName("restaurant_agent"),
		compose.WithMaxRunSteps(maxRunSteps),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

var _ Runner = (*Agent)(nil)
