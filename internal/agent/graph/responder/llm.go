package responder

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
	errx "github.com/Chative-restaurant-poc/server/internal/core/error"
)

const (
	nodeResponseMessages = "response_messages"
	nodeResponseModel    = "response_model"
)

// LLM hands the structured turn context to a text model and returns its
// reply verbatim. Model failures are returned to the caller.
type LLM struct {
	runnable  compose.Runnable[Input, *schema.Message]
	cfg       model.ResponsePromptConfig
	modelName string
}

func NewLLM(ctx context.Context, chatModel einomodel.BaseChatModel, modelName string, cfg model.ResponsePromptConfig) (*LLM, error) {
	if chatModel == nil {
		return nil, errors.New("response chat model is nil")
	}
	r := &LLM{cfg: cfg, modelName: modelName}

	g := compose.NewGraph[Input, *schema.Message]()
	if err := g.AddLambdaNode(nodeResponseMessages, compose.InvokableLambda(r.buildMessages)); err != nil {
		return nil, fmt.Errorf("add response messages node: %w", err)
	}
	if err := g.AddChatModelNode(nodeResponseModel, chatModel, compose.WithNodeName(modelName)); err != nil {
		return nil, fmt.Errorf("add response model node: %w", err)
	}
	for _, e := range [][2]string{
		{compose.START, nodeResponseMessages},
		{nodeResponseMessages, nodeResponseModel},
		{nodeResponseModel, compose.END},
	} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("add response edge %s->%s: %w", e[0], e[1], err)
		}
	}

	runnable, err := g.Compile(ctx, compose.WithGraphName("responder"))
	if err != nil {
		return nil, fmt.Errorf("compile responder graph: %w", err)
	}
	r.runnable = runnable
	return r, nil
}

func (r *LLM) Respond(ctx context.Context, in Input) (string, error) {
	out, err := r.runnable.Invoke(ctx, in)
	if err != nil {
		return "", errx.WrapModel(err)
	}
	observers.LogUsage(in.ConversationID, nodeResponseModel, r.modelName, out)
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", errx.WrapModel(errors.New("empty model reply"))
	}
	return strings.TrimSpace(out.Content), nil
}

func (r *LLM) buildMessages(ctx context.Context, in Input) ([]*schema.Message, error) {
	sys, err := prompts.RenderResponseSystem(ctx, r.cfg)
	if err != nil {
		return nil, err
	}

	userText := ""
	if in.Session != nil {
		userText = in.Session.LastUserText()
	}
	if userText == "" {
		userText = "hi"
	}

	var b strings.Builder
	b.WriteString("User: ")
	b.WriteString(userText)
	b.WriteString("\n\nContext:\n")
	b.WriteString(strings.Join(ContextLines(in, r.cfg.Currency), "\n"))
	b.WriteString("\n\nRespond briefly.")

	return []*schema.Message{
		schema.SystemMessage(sys),
		schema.UserMessage(b.String()),
	}, nil
}

// ContextLines is the structured turn summary handed to the text model.
func ContextLines(in Input, currency string) []string {
	var lines []string
	switch in.Plan.Action {
	case model.ActionAddToCart, model.ActionShowCart:
		if in.Plan.Action == model.ActionAddToCart {
			lines = append(lines, "ADDED THIS TURN:")
			if len(in.Added) == 0 {
				lines = append(lines, "(nothing matched the menu)")
			}
			for _, l := range in.Added {
				lines = append(lines, contextLine(currency, l))
			}
		}
		lines = append(lines, "CURRENT CART:")
		summary := sessionSummary(in.Session)
		if in.Session != nil {
			for _, l := range in.Session.Cart {
				lines = append(lines, contextLine(currency, l))
			}
		}
		if summary.NumItems == 0 {
			lines = append(lines, "(empty)")
		}
		lines = append(lines, fmt.Sprintf("SUBTOTAL: %s  |  ITEMS: %d", money(currency, summary.Subtotal), summary.NumItems))
	default:
		if IsFirstGreet(in) {
			lines = append(lines, "WELCOME: greet the user briefly; then show menu preview and examples.")
		}
		groups := GroupByCategory(in.Menu)
		if len(groups) == 0 {
			lines = append(lines, "MENU: (no matching items; suggest exploring the menu)")
		}
		for _, g := range groups {
			lines = append(lines, g.Category+":")
			for _, it := range g.Items {
				lines = append(lines, fmt.Sprintf("- %s | %s", it.Name, money(currency, it.Price)))
			}
		}
	}
	return lines
}

func contextLine(currency string, l model.CartLineItem) string {
	var b strings.Builder
	b.WriteString(l.Name)
	if l.Variant != "" {
		fmt.Fprintf(&b, " [%s]", l.Variant)
	}
	fmt.Fprintf(&b, " x%d", l.Qty)
	if len(l.Addons) > 0 {
		b.WriteString(", +")
		b.WriteString(strings.Join(l.Addons, ", "))
	}
	fmt.Fprintf(&b, " | line %s", money(currency, l.LineTotal))
	return b.String()
}

var _ Responder = (*LLM)(nil)
