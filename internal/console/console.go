// Package console runs a calculator as a line-oriented terminal session.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/display"
	"github.com/mmynk/tipsplit/internal/models"
	"github.com/mmynk/tipsplit/internal/session"
)

const prompt = "> "

const helpText = `Commands:
  bill <amount>     set the bill amount (empty clears it)
  tip <percent>     choose a tip: %s
  people <count>    set the number of people
  reset             restore the defaults
  show              print the current results
  help              print this help
  quit              leave
`

// Run reads commands from in until EOF, quit, or ctx is done, writing the
// results panel to out after every change.
func Run(ctx context.Context, in io.Reader, out io.Writer, calc *session.Calculator) error {
	fmt.Fprintf(out, "Tip calculator (%s mode). Type help for commands.\n", calc.Mode())
	printPanel(out, calc.Snapshot())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)
		slog.Debug("Console command", "command", cmd, "arg", arg)

		switch strings.ToLower(cmd) {
		case "":
			continue
		case "bill":
			printPanel(out, calc.SetBillAmount(arg))
		case "tip":
			snap, err := calc.SelectTip(strings.TrimSuffix(arg, "%"))
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			printPanel(out, snap)
		case "people":
			printPanel(out, calc.SetNumberOfPeople(arg))
		case "reset":
			snap, err := calc.Reset()
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			printPanel(out, snap)
		case "show":
			printPanel(out, calc.Snapshot())
		case "help", "?":
			fmt.Fprintf(out, helpText, strings.Join(calculator.TipPercentages, ", "))
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q, type help\n", cmd)
		}
	}

	fmt.Fprintln(out)
	return scanner.Err()
}

// printPanel writes the inputs line followed by the results panel.
func printPanel(out io.Writer, snap models.Snapshot) {
	fmt.Fprintf(out, "Bill: %q  Tip: %s%%  People: %q\n", snap.BillAmount, snap.TipPercentage, snap.NumberOfPeople)
	for _, line := range display.Render(snap).Lines() {
		fmt.Fprintln(out, line)
	}
}
