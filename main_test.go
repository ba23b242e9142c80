package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
)

type recordingRunner struct {
	inputs []model.QueryInput
}

func (r *recordingRunner) Invoke(_ context.Context, in model.QueryInput) (string, error) {
	r.inputs = append(r.inputs, in)
	if in.Query == "fail" {
		return "", errors.New("catalog down")
	}
	return "reply to " + in.Query, nil
}

func TestREPLRunsTurnsUntilQuit(t *testing.T) {
	runner := &recordingRunner{}
	var out bytes.Buffer

	in := strings.NewReader("hi\n\n   \nadd 2 margherita\nQUIT\nshow cart\n")
	require.NoError(t, runREPL(context.Background(), runner, "sess-1", in, &out))

	require.Len(t, runner.inputs, 2)
	assert.Equal(t, model.QueryInput{ConversationID: "sess-1", Query: "hi"}, runner.inputs[0])
	assert.Equal(t, "add 2 margherita", runner.inputs[1].Query)

	text := out.String()
	assert.Contains(t, text, "Agent:")
	assert.Contains(t, text, "reply to hi")
	assert.Contains(t, text, "reply to add 2 margherita")
	assert.NotContains(t, text, "reply to show cart")
}

func TestREPLContinuesAfterFailedTurn(t *testing.T) {
	runner := &recordingRunner{}
	var out bytes.Buffer

	in := strings.NewReader("fail\nhi\n")
	require.NoError(t, runREPL(context.Background(), runner, "sess-1", in, &out))

	assert.Len(t, runner.inputs, 2)
	assert.Contains(t, out.String(), "catalog down")
	assert.Contains(t, out.String(), "reply to hi")
}
