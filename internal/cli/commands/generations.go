package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/routinnet/routix-platform-ai/internal/cli/ui"
)

var generationsStatus string

// generationsCmd lists and manages thumbnail generation jobs
var generationsCmd = &cobra.Command{
	Use:   "generations",
	Short: "list your thumbnail generation jobs",
	Long: `List your thumbnail generation jobs with status, progress and cost.

Use the subcommands to inspect, cancel, or summarize jobs, or to list
the available generation algorithms.`,
	Example: `  # List all generations
  $ routixctl generations

  # Only running jobs
  $ routixctl generations --status processing

  # Cancel a queued or running job (credits are refunded)
  $ routixctl generations cancel <id>

  # Aggregate statistics
  $ routixctl generations stats

  # Available algorithms and their credit cost
  $ routixctl generations algorithms`,
	Args: cobra.NoArgs,
	RunE: runListGenerations,
}

var generationsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "show one generation job",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetGeneration,
}

var generationsCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "cancel a queued or running job",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancelGeneration,
}

var generationsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show aggregate generation statistics",
	Args:  cobra.NoArgs,
	RunE:  runGenerationStats,
}

var generationsAlgorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "list the available generation algorithms",
	Args:  cobra.NoArgs,
	RunE:  runListAlgorithms,
}

func init() {
	generationsCmd.Flags().StringVar(&generationsStatus, "status", "", "Filter by status (queued, processing, completed, failed, cancelled)")

	generationsCmd.AddCommand(generationsGetCmd)
	generationsCmd.AddCommand(generationsCancelCmd)
	generationsCmd.AddCommand(generationsStatsCmd)
	generationsCmd.AddCommand(generationsAlgorithmsCmd)

	generationsCmd.SilenceUsage = true
	generationsGetCmd.SilenceUsage = true
	generationsCancelCmd.SilenceUsage = true
	generationsStatsCmd.SilenceUsage = true
	generationsAlgorithmsCmd.SilenceUsage = true
}

func runListGenerations(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	generations, err := apiClient.ListGenerations(ctx, generationsStatus)
	if err != nil {
		ui.PrintError("failed to list generations: %v", err)
		return fmt.Errorf("list operation failed")
	}

	if len(generations) == 0 {
		ui.PrintInfo("No generations found.")
		return nil
	}

	fmt.Println()
	ui.PrintBold("%-36s  %-10s  %8s  %7s  %s", "ID", "STATUS", "PROGRESS", "CREDITS", "PROMPT")
	for _, gen := range generations {
		prompt := gen.Prompt
		if len(prompt) > 40 {
			prompt = prompt[:37] + "..."
		}
		fmt.Printf("%-36s  %-10s  %7d%%  %7d  %s\n", gen.ID, gen.Status, gen.Progress, gen.CreditsUsed, prompt)
	}
	fmt.Println()
	ui.PrintInfo("%d generation(s)", len(generations))

	return nil
}

func runGetGeneration(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	gen, err := apiClient.GetGeneration(ctx, args[0])
	if err != nil {
		ui.PrintError("failed to fetch generation: %v", err)
		return fmt.Errorf("get operation failed")
	}

	fmt.Println()
	ui.PrintBold("Generation %s", gen.ID)
	fmt.Printf("  Status:    %s (%d%%)\n", gen.Status, gen.Progress)
	fmt.Printf("  Prompt:    %s\n", gen.Prompt)
	fmt.Printf("  Credits:   %d\n", gen.CreditsUsed)
	fmt.Printf("  Created:   %s\n", formatTimestamp(gen.CreatedAt))
	if gen.ResultURL != "" {
		fmt.Printf("  Result:    %s%s\n", cfg.Server, gen.ResultURL)
	}
	if gen.ErrorMessage != "" {
		fmt.Printf("  Error:     %s\n", gen.ErrorMessage)
	}

	return nil
}

func runCancelGeneration(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	gen, err := apiClient.CancelGeneration(ctx, args[0])
	if err != nil {
		ui.PrintError("failed to cancel generation: %v", err)
		return fmt.Errorf("cancel operation failed")
	}

	ui.PrintSuccess("cancelled generation %s, %d credit(s) refunded", gen.ID, gen.CreditsUsed)
	return nil
}

func runGenerationStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	stats, err := apiClient.GenerationStats(ctx)
	if err != nil {
		ui.PrintError("failed to fetch stats: %v", err)
		return fmt.Errorf("stats operation failed")
	}

	fmt.Println()
	ui.PrintBold("Generation statistics")
	fmt.Printf("  Total:       %d\n", stats.TotalGenerations)
	fmt.Printf("  Successful:  %d\n", stats.SuccessfulGenerations)
	fmt.Printf("  Failed:      %d\n", stats.FailedGenerations)
	fmt.Printf("  Credits:     %d\n", stats.TotalCreditsUsed)
	if stats.MostUsedAlgorithm != "" {
		fmt.Printf("  Favourite:   %s\n", stats.MostUsedAlgorithm)
	}

	return nil
}

func runListAlgorithms(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	algorithms, err := apiClient.ListAlgorithms(ctx)
	if err != nil {
		ui.PrintError("failed to list algorithms: %v", err)
		return fmt.Errorf("list operation failed")
	}

	fmt.Println()
	ui.PrintBold("%-10s  %-20s  %7s  %s", "NAME", "DISPLAY NAME", "CREDITS", "DESCRIPTION")
	for _, algo := range algorithms {
		fmt.Printf("%-10s  %-20s  %7d  %s\n", algo.Name, algo.DisplayName, algo.CostCredits, algo.Description)
	}

	return nil
}
