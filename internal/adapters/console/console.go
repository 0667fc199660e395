// Package console renders the per-cycle terminal view and handles the
// interactive order confirmation prompt. Pure presentation; no decision
// logic lives here.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gridbot/internal/ports"
)

// Renderer implements ports.Renderer on a terminal writer.
type Renderer struct {
	out         io.Writer
	clearScreen bool
}

// NewRenderer creates a renderer writing to stdout, clearing the screen at
// the start of each cycle.
func NewRenderer() *Renderer {
	return &Renderer{out: os.Stdout, clearScreen: true}
}

// BeginCycle clears the terminal so each cycle repaints the full status view.
func (r *Renderer) BeginCycle() {
	if r.clearScreen {
		fmt.Fprint(r.out, "\033[2J\033[H")
	}
}

// SymbolStatus renders the one-line summary for a symbol.
func (r *Renderer) SymbolStatus(symbol string, price *float64, openOrders int, profitPercent float64, at time.Time) {
	priceStr := "n/a"
	if price != nil {
		priceStr = fmt.Sprintf("%.4f", *price)
	}
	fmt.Fprintf(r.out, "[INFO] %s | Price: %s | Open orders: %d | Profit: %g | %s\n",
		symbol, priceStr, openOrders, profitPercent, at.Format("15:04:05"))
}

// OpenOrder renders one live open order beneath its symbol's status line.
func (r *Renderer) OpenOrder(order ports.OpenOrder, volumePrecision int) {
	fmt.Fprintf(r.out, " - %s %s %.*f @ %.4f\n",
		order.Symbol, order.Side, volumePrecision, order.OrigQty, order.Price)
}

// Confirmer implements ports.Confirmer by blocking on a yes/no prompt. The
// reader is injectable so the prompt is testable without a terminal.
type Confirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConfirmer creates a confirmer reading from stdin and writing the prompt
// to stdout.
func NewConfirmer() *Confirmer {
	return &Confirmer{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// NewConfirmerWithIO creates a confirmer on the given reader and writer.
func NewConfirmerWithIO(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: bufio.NewReader(in), out: out}
}

// Confirm prints the prompt and blocks for an answer. Only "y" or "yes"
// (case-insensitive) confirms; anything else, including a read error,
// declines.
func (c *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
