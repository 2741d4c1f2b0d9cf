package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hiveq/agenthive"
	"github.com/hiveq/agenthive/agent"
	"github.com/hiveq/agenthive/core"
	"github.com/hiveq/agenthive/logging"
	"github.com/hiveq/agenthive/model"
	"github.com/hiveq/agenthive/model/anthropic"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agenthive",
		Short: "AgentHive coordinates teams of specialized agents through a shared message broker and task orchestrator.",
	}

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a small research/write/review workflow with three agents",
		RunE:  runDemo,
	}
	demoCmd.Flags().Bool("live", false, "use the Anthropic API instead of canned responses (requires ANTHROPIC_API_KEY)")
	demoCmd.Flags().Bool("parallel", false, "execute the workflow tasks concurrently")

	profilesCmd := &cobra.Command{
		Use:   "profiles [file]",
		Short: "Print the built-in agent profiles, or validate a profile file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProfiles,
	}

	for _, envFile := range []string{".env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(profilesCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	live, _ := cmd.Flags().GetBool("live")
	parallel, _ := cmd.Flags().GetBool("parallel")

	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
	hive := agenthive.New(func(o *agenthive.Options) {
		o.Logger = logger
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		cancel()
	}()

	profiles := []agent.Profile{
		agent.ResearcherProfile("researcher"),
		agent.WriterProfile("writer"),
		agent.ReviewerProfile("reviewer"),
	}

	agents := make([]*agent.Agent, 0, len(profiles))
	for _, p := range profiles {
		worker, err := buildWorker(p, live)
		if err != nil {
			return err
		}
		a := agent.New(p, worker, hive.Broker(), func(o *agent.Options) {
			o.Logger = logger
		})
		hive.RegisterAgent(a, nil)
		agents = append(agents, a)
	}

	started := hive.StartAutonomousAll(ctx)
	fmt.Printf("started %d agents in autonomous mode\n", started)
	defer hive.StopAutonomousAll()

	result := hive.ExecuteWorkflow(ctx, "demo", []string{
		"research the current state of multi-agent LLM systems",
		"write a short summary of the research findings",
		"review the summary for clarity and accuracy",
	}, parallel)

	fmt.Printf("\nworkflow %s: %d/%d tasks succeeded\n", result.WorkflowID, result.Successful, result.Total)
	for _, id := range result.TaskIDs {
		r := result.Results[id]
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		fmt.Printf("  [%s] %s: %s\n", status, r.Task.Description, truncate(r.Result, 100))
	}

	for _, a := range agents {
		fmt.Printf("%s executed %d task(s)\n", a.Name(), a.TaskCount())
	}
	return nil
}

func buildWorker(p agent.Profile, live bool) (core.Worker, error) {
	if !live {
		return model.NewMockWorker(), nil
	}
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return nil, fmt.Errorf("--live requires ANTHROPIC_API_KEY to be set")
	}
	return anthropic.New(func(o *anthropic.Options) {
		o.System = p.SystemPrompt
	}), nil
}

func runProfiles(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		p, err := agent.LoadProfile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s): valid\n  capabilities: %v\n", p.Name, p.Role, p.Capabilities)
		return nil
	}
	for _, p := range []agent.Profile{
		agent.ResearcherProfile("researcher"),
		agent.CoderProfile("coder"),
		agent.TesterProfile("tester"),
		agent.WriterProfile("writer"),
		agent.ReviewerProfile("reviewer"),
	} {
		fmt.Printf("%s (%s)\n  %s\n  capabilities: %v\n", p.Name, p.Role, p.Description, p.Capabilities)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
