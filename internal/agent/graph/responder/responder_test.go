package responder

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	errx "github.com/Chative-restaurant-poc/server/internal/core/error"
)

type fakeChatModel struct {
	reply string
	err   error
	last  []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, in []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

var promptCfg = model.ResponsePromptConfig{RestaurantName: "Slice & Stack", Currency: "₹"}

func menu() []model.MenuItem {
	mk := func(id, name, cat string, price float64) model.MenuItem {
		return model.MenuItem{ID: id, Name: name, Category: cat, Price: price, IsAvailable: true}
	}
	return []model.MenuItem{
		mk("d1", "Cola", "Drinks", 60),
		mk("p1", "Margherita", "Pizza", 250),
		mk("p2", "Farmhouse", "Pizza", 320),
		mk("p3", "Pepperoni", "Pizza", 380),
		mk("p4", "Veggie Supreme", "Pizza", 400),
		mk("x1", "Mystery Box", "Specials", 999),
	}
}

func session(welcomed bool) *model.SessionState {
	s := model.NewSessionState("s1", time.Now())
	s.Welcomed = welcomed
	return s
}

func TestGroupByCategory(t *testing.T) {
	groups := GroupByCategory(menu())
	require.Len(t, groups, 2)

	assert.Equal(t, "Pizza", groups[0].Category)
	require.Len(t, groups[0].Items, 3)
	assert.Equal(t, "Margherita", groups[0].Items[0].Name)
	assert.Equal(t, "Pepperoni", groups[0].Items[2].Name)
	assert.Equal(t, "Drinks", groups[1].Category)

	assert.Empty(t, GroupByCategory(nil))
}

func TestTemplateFirstGreet(t *testing.T) {
	out, err := NewTemplate(promptCfg).Respond(context.Background(), Input{
		Plan:    model.Plan{Action: model.ActionGreet},
		Session: session(false),
		Menu:    menu(),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, welcomeLine))
	assert.Contains(t, out, "\n\nPizza:\n• Margherita — ₹250.00 (Pizza)")
	assert.Contains(t, out, "• Cola — ₹60.00 (Drinks)")
	assert.NotContains(t, out, "Veggie Supreme")
	assert.NotContains(t, out, "Mystery Box")
}

func TestTemplateBrowseHasNoWelcome(t *testing.T) {
	out, err := NewTemplate(promptCfg).Respond(context.Background(), Input{
		Plan:    model.Plan{Action: model.ActionBrowseMenu},
		Session: session(true),
		Menu:    menu(),
	})
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(out, welcomeLine))
	assert.True(t, strings.HasPrefix(out, "Pizza:"))
}

func TestTemplateEmptyMenuDegrades(t *testing.T) {
	out, err := NewTemplate(promptCfg).Respond(context.Background(), Input{
		Plan:    model.Plan{Action: model.ActionBrowseMenu},
		Session: session(true),
	})
	require.NoError(t, err)
	assert.Equal(t, ExploreMessage, out)
}

func TestTemplateAddListsOnlyAddedLines(t *testing.T) {
	s := session(true)
	old := model.CartLineItem{ID: "d1", Name: "Cola", Qty: 1, UnitPrice: 60, Addons: []string{}, LineTotal: 60}
	added := model.CartLineItem{ID: "p1", Name: "Margherita", Qty: 2, UnitPrice: 250, Variant: "Large",
		Addons: []string{"Extra Cheese"}, LineTotal: 580}
	s.Cart = []model.CartLineItem{old, added}
	s.CartSummary = model.CartSummary{Subtotal: 640, NumItems: 3}

	out, err := NewTemplate(promptCfg).Respond(context.Background(), Input{
		Plan: model.Plan{Action: model.ActionAddToCart, ItemsToAdd: []model.ItemRequest{
			{Name: "Margherita", Qty: 2}, {Name: "Unicorn Burger"},
		}},
		Session: s,
		Added:   []model.CartLineItem{added},
	})
	require.NoError(t, err)

	assert.Equal(t, "Added to cart:\n"+
		"• Margherita [Large] x2, +Extra Cheese — ₹580.00\n"+
		"\n"+
		"Subtotal: ₹640.00  |  Items: 3", out)
}

func TestTemplateAddNothing(t *testing.T) {
	tpl := NewTemplate(promptCfg)

	out, err := tpl.Respond(context.Background(), Input{Plan: model.Plan{Action: model.ActionAddToCart}, Session: session(true)})
	require.NoError(t, err)
	assert.Contains(t, out, ExploreMessage)

	s := session(true)
	s.Cart = []model.CartLineItem{{Name: "Cola", Qty: 1, LineTotal: 60}}
	s.CartSummary = model.CartSummary{Subtotal: 60, NumItems: 1}
	out, err = tpl.Respond(context.Background(), Input{Plan: model.Plan{Action: model.ActionAddToCart}, Session: s})
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing new was added")
	assert.Contains(t, out, "Subtotal: ₹60.00  |  Items: 1")
}

func TestTemplateShowCart(t *testing.T) {
	s := session(true)
	s.Cart = []model.CartLineItem{{Name: "Margherita", Qty: 2, UnitPrice: 250, LineTotal: 500}}
	s.CartSummary = model.CartSummary{Subtotal: 500, NumItems: 2}

	out, err := NewTemplate(promptCfg).Respond(context.Background(), Input{Plan: model.Plan{Action: model.ActionShowCart}, Session: s})
	require.NoError(t, err)
	assert.Equal(t, "Your cart:\n• Margherita x2 — ₹500.00\n\nSubtotal: ₹500.00  |  Items: 2", out)

	out, err = NewTemplate(promptCfg).Respond(context.Background(), Input{Plan: model.Plan{Action: model.ActionShowCart}, Session: session(true)})
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty.")
}

func TestLLMResponderUsesContext(t *testing.T) {
	fm := &fakeChatModel{reply: "  Two Margheritas added!  "}
	r, err := NewLLM(context.Background(), fm, "gemini-2.5-flash", promptCfg)
	require.NoError(t, err)

	s := session(true)
	s.Messages = append(s.Messages, schema.UserMessage("add 2 margherita"))
	line := model.CartLineItem{Name: "Margherita", Qty: 2, LineTotal: 500}
	s.Cart = []model.CartLineItem{line}
	s.CartSummary = model.CartSummary{Subtotal: 500, NumItems: 2}

	out, err := r.Respond(context.Background(), Input{
		Plan:    model.Plan{Action: model.ActionAddToCart},
		Session: s,
		Added:   []model.CartLineItem{line},
	})
	require.NoError(t, err)
	assert.Equal(t, "Two Margheritas added!", out)

	require.Len(t, fm.last, 2)
	assert.Contains(t, fm.last[0].Content, "Slice & Stack")
	user := fm.last[1].Content
	assert.True(t, strings.HasPrefix(user, "User: add 2 margherita\n\nContext:\n"))
	assert.Contains(t, user, "ADDED THIS TURN:\nMargherita x2 | line ₹500.00")
	assert.Contains(t, user, "SUBTOTAL: ₹500.00  |  ITEMS: 2")
}

func TestLLMResponderPropagatesModelFailure(t *testing.T) {
	r, err := NewLLM(context.Background(), &fakeChatModel{err: errors.New("deadline exceeded")}, "m", promptCfg)
	require.NoError(t, err)

	_, err = r.Respond(context.Background(), Input{Plan: model.Plan{Action: model.ActionBrowseMenu}, Session: session(true)})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, errx.StatusOf(err))
}

func TestContextLinesGreet(t *testing.T) {
	lines := ContextLines(Input{Plan: model.Plan{Action: model.ActionGreet}, Session: session(false), Menu: menu()}, "₹")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "WELCOME:"))
	assert.Contains(t, lines, "- Margherita | ₹250.00")
}
