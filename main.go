package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/Chative-restaurant-poc/server/internal/agent/graph"
	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	"github.com/Chative-restaurant-poc/server/pkg/config"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

// AppConfig defines all configurable parameters for the CLI,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Log   logx.Config
	Agent graph.AgentConfig
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#B8432F")).
			Padding(0, 1)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	agentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#30D158"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF453A"))
)

func main() {
	envFile := flag.String("env", "", "path to an env file (default: ./.env when present)")
	flag.Parse()

	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Failed to load env file:"), err)
		os.Exit(1)
	}
	cfg := config.MustNew[AppConfig]("")
	logx.Init(cfg.Log)

	ctx := context.Background()
	agent, closeFn, err := graph.Open(ctx, cfg.Agent, nil)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build agent")
	}
	defer closeFn()

	if err := runREPL(ctx, agent, uuid.NewString(), os.Stdin, os.Stdout); err != nil {
		logx.Error().Err(err).Msg("Reading input failed")
	}
}

// runREPL reads one user message per line and prints the agent's reply until
// exit, quit or end of input. A failed turn is reported and the loop continues.
func runREPL(ctx context.Context, runner graph.Runner, sessionID string, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, titleStyle.Render("Restaurant Ordering Agent"))
	fmt.Fprintln(out, hintStyle.Render("Type 'exit' or 'quit' to leave. Session "+sessionID))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "exit") || strings.EqualFold(text, "quit") {
			fmt.Fprintln(out, hintStyle.Render("Bye!"))
			return nil
		}

		reply, err := runner.Invoke(ctx, model.QueryInput{ConversationID: sessionID, Query: text})
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("Error:"), err)
			continue
		}
		fmt.Fprintln(out, agentStyle.Render("Agent:"), reply)
	}
}
