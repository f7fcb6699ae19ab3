package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/console"
	"github.com/mmynk/tipsplit/internal/display"
	"github.com/mmynk/tipsplit/internal/session"
	"github.com/mmynk/tipsplit/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tipsplit",
		Short:        "Tip calculator and bill splitter",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newCalcCmd(), newReplCmd())
	return root
}

func modeFromFlag(lenient bool) calculator.Mode {
	if lenient {
		return calculator.Lenient
	}
	return calculator.Strict
}

func newCalcCmd() *cobra.Command {
	var (
		bill    string
		tip     string
		people  string
		lenient bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate tip, total and per person amount once",
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := session.New(modeFromFlag(lenient))
			calc.SetBillAmount(bill)
			if _, err := calc.SelectTip(tip); err != nil {
				return err
			}
			snap := calc.SetNumberOfPeople(people)

			out := cmd.OutOrStdout()
			for _, line := range display.Render(snap).Lines() {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bill, "bill", "", "Bill amount (e.g. 42.50)")
	cmd.Flags().StringVar(&tip, "tip", calculator.DefaultTipPercentage, "Tip percentage: 10, 15, 20 or 25")
	cmd.Flags().StringVar(&people, "people", calculator.DefaultNumberOfPeople, "Number of people splitting the bill")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Skip validation and allow negative bills")
	return cmd
}

func newReplCmd() *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Run an interactive calculator in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(cmd.ErrOrStderr(), os.Getenv("LOG_LEVEL"))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return console.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), session.New(modeFromFlag(lenient)))
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient", false, "Skip validation and disable reset")
	return cmd
}
