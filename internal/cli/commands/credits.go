package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/routinnet/routix-platform-ai/internal/cli/ui"
)

// creditsCmd shows balance, history and packages
var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "manage your credit balance",
	Long: `Show your credit balance, the transaction ledger, and the purchasable
credit packages.`,
	Example: `  # Current balance
  $ routixctl credits balance

  # Transaction history
  $ routixctl credits history

  # Available packages
  $ routixctl credits packages

  # Buy a package
  $ routixctl credits purchase popular`,
	Args: cobra.NoArgs,
	RunE: runCreditBalance,
}

var creditsBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "show your current credit balance",
	Args:  cobra.NoArgs,
	RunE:  runCreditBalance,
}

var creditsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "show the credit transaction ledger",
	Args:  cobra.NoArgs,
	RunE:  runCreditHistory,
}

var creditsPackagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "list the purchasable credit packages",
	Args:  cobra.NoArgs,
	RunE:  runCreditPackages,
}

var creditsPurchaseCmd = &cobra.Command{
	Use:   "purchase <package-id>",
	Short: "buy a credit package",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreditPurchase,
}

func init() {
	creditsCmd.AddCommand(creditsBalanceCmd)
	creditsCmd.AddCommand(creditsHistoryCmd)
	creditsCmd.AddCommand(creditsPackagesCmd)
	creditsCmd.AddCommand(creditsPurchaseCmd)

	creditsCmd.SilenceUsage = true
	creditsBalanceCmd.SilenceUsage = true
	creditsHistoryCmd.SilenceUsage = true
	creditsPackagesCmd.SilenceUsage = true
	creditsPurchaseCmd.SilenceUsage = true
}

func runCreditBalance(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	credits, err := apiClient.CreditBalance(ctx)
	if err != nil {
		ui.PrintError("failed to fetch balance: %v", err)
		return fmt.Errorf("balance operation failed")
	}

	ui.PrintSuccess("current balance: %d credit(s)", credits)
	return nil
}

func runCreditHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	transactions, err := apiClient.CreditHistory(ctx)
	if err != nil {
		ui.PrintError("failed to fetch history: %v", err)
		return fmt.Errorf("history operation failed")
	}

	if len(transactions) == 0 {
		ui.PrintInfo("No transactions yet.")
		return nil
	}

	fmt.Println()
	ui.PrintBold("%-10s  %7s  %-40s  %s", "TYPE", "AMOUNT", "DESCRIPTION", "DATE")
	for _, tx := range transactions {
		fmt.Printf("%-10s  %+7d  %-40s  %s\n", tx.Type, tx.Amount, tx.Description, formatTimestamp(tx.CreatedAt))
	}

	return nil
}

func runCreditPackages(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	packages, err := apiClient.CreditPackages(ctx)
	if err != nil {
		ui.PrintError("failed to fetch packages: %v", err)
		return fmt.Errorf("packages operation failed")
	}

	fmt.Println()
	ui.PrintBold("%-10s  %-10s  %8s  %7s  %8s", "ID", "NAME", "CREDITS", "BONUS", "PRICE")
	for _, pkg := range packages {
		line := fmt.Sprintf("%-10s  %-10s  %8d  %7d  %8s", pkg.ID, pkg.Name, pkg.Credits, pkg.BonusCredits, formatPrice(pkg.PriceCents))
		if pkg.Popular {
			line += "  ★ popular"
		}
		fmt.Println(line)
	}

	return nil
}

func runCreditPurchase(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, apiClient, err := authedClient()
	if err != nil {
		return err
	}

	purchase, err := apiClient.PurchaseCredits(ctx, args[0])
	if err != nil {
		ui.PrintErrorBox("Purchase Failed", err.Error())
		return fmt.Errorf("purchase operation failed")
	}

	ui.PrintSuccessBox("✓ Purchase Successful", fmt.Sprintf(`Package:      %s
Credits:      %+d
New balance:  %d`,
		args[0],
		purchase.Transaction.Amount,
		purchase.NewBalance,
	))

	return nil
}
