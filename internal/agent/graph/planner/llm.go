package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-restaurant-poc/server/internal/agent/graph/observers"
	"github.com/Chative-restaurant-poc/server/internal/agent/graph/prompts"
	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

// plannerState carries the conversation id to the parse step for logging.
type plannerState struct {
	ConversationID string
}

const (
	nodeBuildMessages = "planner_messages"
	nodePlannerModel  = "planner_model"
	nodeParsePlan     = "planner_parse"
)

// LLM plans with a text model. Malformed model output degrades to a browse
// plan; a failed model call degrades to the keyword planner.
type LLM struct {
	runnable  compose.Runnable[Input, model.Plan]
	fallback  Planner
	modelName string
}

// NewLLM compiles the planner sub-graph: build messages -> chat model -> parse.
func NewLLM(ctx context.Context, chatModel einomodel.BaseChatModel, modelName string) (*LLM, error) {
	if chatModel == nil {
		return nil, errors.New("planner chat model is nil")
	}

	p := &LLM{fallback: NewKeyword(), modelName: modelName}

	g := compose.NewGraph[Input, model.Plan](
		compose.WithGenLocalState(func(ctx context.Context) *plannerState {
			return &plannerState{}
		}),
	)
	err := g.AddLambdaNode(nodeBuildMessages, compose.InvokableLambda(buildMessages),
		compose.WithStatePreHandler(func(ctx context.Context, in Input, s *plannerState) (Input, error) {
			s.ConversationID = in.ConversationID
			return in, nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("add planner messages node: %w", err)
	}
	if err := g.AddChatModelNode(nodePlannerModel, chatModel, compose.WithNodeName(modelName)); err != nil {
		return nil, fmt.Errorf("add planner model node: %w", err)
	}
	if err := g.AddLambdaNode(nodeParsePlan, compose.InvokableLambda(p.parse)); err != nil {
		return nil, fmt.Errorf("add planner parse node: %w", err)
	}

	edges := [][2]string{
		{compose.START, nodeBuildMessages},
		{nodeBuildMessages, nodePlannerModel},
		{nodePlannerModel, nodeParsePlan},
		{nodeParsePlan, compose.END},
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("add planner edge %s->%s: %w", e[0], e[1], err)
		}
	}

	r, err := g.Compile(ctx, compose.WithGraphName("planner"))
	if err != nil {
		return nil, fmt.Errorf("compile planner graph: %w", err)
	}
	p.runnable = r
	return p, nil
}

func (p *LLM) Plan(ctx context.Context, in Input) (model.Plan, error) {
	out, err := p.runnable.Invoke(ctx, in)
	if err != nil {
		logx.Warn().Err(err).Str("conversation_id", in.ConversationID).Msg("planner model failed, using keyword planner")
		return p.fallback.Plan(ctx, in)
	}
	if out.Action == model.ActionAddToCart && len(out.ItemsToAdd) == 0 {
		out.ItemsToAdd = ExtractItems(in.Text)
	}
	return out, nil
}

func buildMessages(ctx context.Context, in Input) ([]*schema.Message, error) {
	sys, err := prompts.RenderPlannerSystem(ctx)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		text = "menu"
	}
	return []*schema.Message{
		schema.SystemMessage(sys),
		schema.UserMessage(text),
	}, nil
}

func (p *LLM) parse(ctx context.Context, msg *schema.Message) (model.Plan, error) {
	var conversationID string
	_ = compose.ProcessState(ctx, func(_ context.Context, s *plannerState) error {
		conversationID = s.ConversationID
		return nil
	})
	observers.LogUsage(conversationID, nodePlannerModel, p.modelName, msg)
	plan, err := ParsePlan(ctx, msg)
	if err != nil {
		content := ""
		if msg != nil {
			content = msg.Content
		}
		logx.Warn().Err(err).Str("conversation_id", conversationID).Str("content", content).Msg("unparseable plan, browsing instead")
		return model.BrowsePlan(), nil
	}
	return plan, nil
}

var planParser = schema.NewMessageJSONParser[model.Plan](&schema.MessageJSONParseConfig{
	ParseFrom: schema.MessageParseFromContent,
})

// ParsePlan decodes a model reply into a Plan. Code fences around the JSON
// are tolerated; a missing or unknown action is an error.
func ParsePlan(ctx context.Context, msg *schema.Message) (model.Plan, error) {
	if msg == nil {
		return model.Plan{}, errors.New("empty planner reply")
	}
	cleaned := *msg
	cleaned.Content = stripFences(msg.Content)

	plan, err := planParser.Parse(ctx, &cleaned)
	if err != nil {
		return model.Plan{}, fmt.Errorf("decode plan: %w", err)
	}
	if !plan.Action.Valid() {
		return model.Plan{}, fmt.Errorf("invalid plan action %q", plan.Action)
	}
	if plan.ItemsToAdd == nil {
		plan.ItemsToAdd = []model.ItemRequest{}
	}
	return plan, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ Planner = (*LLM)(nil)
var _ Planner = (*Keyword)(nil)
