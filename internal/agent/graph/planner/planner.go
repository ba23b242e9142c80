package planner

import (
	"context"
	"strings"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

// Input is what a planner sees of one turn.
type Input struct {
	ConversationID string
	Text           string
	Welcomed       bool
}

// Planner maps one user message to a Plan. Implementations never touch the session.
type Planner interface {
	Plan(ctx context.Context, in Input) (model.Plan, error)
}

var (
	greetingPhrases = map[string]struct{}{
		"hi": {}, "hello": {}, "hey": {}, "hi there": {},
	}
	menuPhrases = []string{
		"menu", "show menu", "show me the menu", "show me menu", "list menu", "full menu", "show all", "all items",
	}
)

// IsGreeting reports whether text is a greeting or a generic request for the whole menu.
func IsGreeting(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	if _, ok := greetingPhrases[t]; ok {
		return true
	}
	for _, p := range menuPhrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

type welcomeGate struct {
	next Planner
}

// WithWelcome wraps next so that an unwelcomed greeting is answered with a
// greet plan without consulting next, and a welcomed session never gets greet again.
func WithWelcome(next Planner) Planner {
	return &welcomeGate{next: next}
}

func (g *welcomeGate) Plan(ctx context.Context, in Input) (model.Plan, error) {
	if !in.Welcomed && IsGreeting(in.Text) {
		logx.Debug().Str("conversation_id", in.ConversationID).Msg("first greeting, skipping planner")
		return model.Plan{Action: model.ActionGreet, ItemsToAdd: []model.ItemRequest{}}, nil
	}

	p, err := g.next.Plan(ctx, in)
	if err != nil {
		return model.Plan{}, err
	}
	p = normalize(p)
	if p.Action == model.ActionGreet && in.Welcomed {
		p.Action = model.ActionBrowseMenu
		if IsGreeting(p.Query) {
			p.Query = ""
		}
	}
	return p, nil
}

func normalize(p model.Plan) model.Plan {
	if !p.Action.Valid() {
		return model.BrowsePlan()
	}
	p.Query = strings.TrimSpace(p.Query)
	if p.ItemsToAdd == nil {
		p.ItemsToAdd = []model.ItemRequest{}
	}
	return p
}
