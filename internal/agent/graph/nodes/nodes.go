package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-restaurant-poc/server/internal/agent/cart"
	"github.com/Chative-restaurant-poc/server/internal/agent/graph/conversations"
	"github.com/Chative-restaurant-poc/server/internal/agent/graph/planner"
	"github.com/Chative-restaurant-poc/server/internal/agent/graph/responder"
	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	"github.com/Chative-restaurant-poc/server/internal/catalog"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

const (
	NodeLoadSession = "load_session"
	NodePlan        = "plan"
	NodeActBrowse   = "act_browse"
	NodeActAdd      = "act_add"
	NodeActShowCart = "act_show_cart"
	NodeRespond     = "respond"

	// ExtraAction is the reply message Extra key holding the handled action.
	ExtraAction = "action"
)

// NewLoadSessionNode loads or creates the session and appends the user message.
func NewLoadSessionNode(sm *conversations.SessionManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.QueryInput) (planner.Input, error) {
		st, err := sm.Begin(ctx, in.ConversationID, in.Query)
		if err != nil {
			return planner.Input{}, err
		}

		err = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.ConversationID = st.SessionID
			s.Session = st
			s.Added = nil
			return nil
		})
		if err != nil {
			return planner.Input{}, fmt.Errorf("failed to access state: %w", err)
		}

		return planner.Input{
			ConversationID: st.SessionID,
			Text:           st.LastUserText(),
			Welcomed:       st.Welcomed,
		}, nil
	})
}

func NewPlanNode(p planner.Planner) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in planner.Input) (model.Plan, error) {
		return p.Plan(ctx, in)
	})
}

// NewPlanPostHandler records the plan on the session.
func NewPlanPostHandler() func(context.Context, model.Plan, *model.TurnState) (model.Plan, error) {
	return func(ctx context.Context, out model.Plan, state *model.TurnState) (model.Plan, error) {
		p := out
		state.Session.Plan = &p
		logx.Debug().
			Str("conversation_id", state.ConversationID).
			Str("action", string(out.Action)).
			Str("query", out.Query).
			Int("items_to_add", len(out.ItemsToAdd)).
			Msg("Plan ready")
		return out, nil
	}
}

// NewRouteCondition picks the action node for the plan.
func NewRouteCondition() func(context.Context, model.Plan) (string, error) {
	return func(ctx context.Context, p model.Plan) (string, error) {
		return Route(p), nil
	}
}

func NewBrowseNode(searcher catalog.Searcher) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, p model.Plan) (model.Plan, error) {
		conversationID := conversationIDFromState(ctx)
		items := Browse(ctx, searcher, p, conversationID)

		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.Session.LastItems = items
			return nil
		})
		if err != nil {
			return p, fmt.Errorf("failed to access state: %w", err)
		}
		return p, nil
	})
}

func NewAddNode(searcher catalog.Searcher) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, p model.Plan) (model.Plan, error) {
		conversationID := conversationIDFromState(ctx)
		lines, err := AddItems(ctx, searcher, p, conversationID)
		if err != nil {
			return p, err
		}

		err = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			ledger := cart.Ledger(s.Session.Cart)
			for _, l := range lines {
				ledger.Append(l)
			}
			s.Session.Cart = ledger
			s.Session.CartSummary = ledger.Summary()
			s.Added = lines
			return nil
		})
		if err != nil {
			return p, fmt.Errorf("failed to access state: %w", err)
		}
		logx.Debug().Str("conversation_id", conversationID).Int("added", len(lines)).Int("requested", len(p.ItemsToAdd)).Msg("cart updated")
		return p, nil
	})
}

func NewShowCartNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, p model.Plan) (model.Plan, error) {
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.Session.CartSummary = cart.Ledger(s.Session.Cart).Summary()
			return nil
		})
		if err != nil {
			return p, fmt.Errorf("failed to access state: %w", err)
		}
		return p, nil
	})
}

// NewRespondNode renders the reply. Greet and browse turns with no results
// fall back to a fresh unfiltered preview of the menu.
func NewRespondNode(r responder.Responder, searcher catalog.Searcher) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, p model.Plan) (*schema.Message, error) {
		var in responder.Input
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			in = responder.Input{
				ConversationID: s.ConversationID,
				Plan:           p,
				Session:        s.Session,
				Added:          s.Added,
				Menu:           s.Session.LastItems,
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		if Route(p) == NodeActBrowse && len(in.Menu) == 0 {
			items, err := searcher.Search(ctx, "", model.Filters{})
			if err != nil {
				logx.Warn().Err(err).Str("conversation_id", in.ConversationID).Msg("menu preview search failed")
			}
			in.Menu = items
		}

		text, err := r.Respond(ctx, in)
		if err != nil {
			return nil, err
		}

		out := schema.AssistantMessage(text, nil)
		out.Extra = map[string]any{ExtraAction: string(p.Action)}
		return out, nil
	})
}

// NewRespondPostHandler marks the session welcomed after a greet and stores it.
func NewRespondPostHandler(sm *conversations.SessionManager) func(context.Context, *schema.Message, *model.TurnState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.TurnState) (*schema.Message, error) {
		st := state.Session
		if st.Plan != nil && st.Plan.Action == model.ActionGreet {
			st.Welcomed = true
		}
		if err := sm.Commit(ctx, st, out.Content); err != nil {
			return nil, err
		}
		logx.Debug().Str("conversation_id", state.ConversationID).Int("messages", len(st.Messages)).Msg("Session saved")
		return out, nil
	}
}

func conversationIDFromState(ctx context.Context) string {
	var id string
	_ = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
		id = s.ConversationID
		return nil
	})
	return id
}
