// Package report renders the ledger snapshot for terminals.
package report

import (
	"fmt"
	"strings"
	"time"

	settlementservice "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/application"
	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

// Currency is the currency every ledger amount is kept in.
const Currency = money.USD

// FormatAmount renders a decimal amount as currency, e.g. "$15.50" or "-$4.00".
func FormatAmount(amount decimal.Decimal) string {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, Currency).Display()
}

// SignedAmount is FormatAmount with an explicit plus sign on credits.
func SignedAmount(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + FormatAmount(amount)
	}
	return FormatAmount(amount)
}

// Markdown builds the ledger as a markdown document with one table row per
// player and a totals row.
func Markdown(rows []settlementservice.LedgerRow, generatedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Poker Ledger\n\n_Generated %s_\n\n", generatedAt.Format("Mon Jan 2 2006 15:04"))

	if len(rows) == 0 {
		b.WriteString("No players yet.\n")
		return b.String()
	}

	b.WriteString("| Player | Balance | Payments | Remaining | Last Game | Pay With |\n")
	b.WriteString("|---|---:|---:|---:|---|---|\n")

	var balance, payments, remaining decimal.Decimal
	for _, r := range rows {
		last := "-"
		if r.LatestGame != nil {
			last = r.LatestGame.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			escape(r.Player.Name),
			SignedAmount(r.CurrentBalance),
			FormatAmount(r.TotalPayments),
			SignedAmount(r.Remaining),
			last,
			escape(paymentInfo(r)),
		)
		balance = balance.Add(r.CurrentBalance)
		payments = payments.Add(r.TotalPayments)
		remaining = remaining.Add(r.Remaining)
	}
	fmt.Fprintf(&b, "| **Total** | %s | %s | %s | | |\n",
		SignedAmount(balance), FormatAmount(payments), SignedAmount(remaining))

	if !remaining.IsZero() {
		fmt.Fprintf(&b, "\n> Outstanding balances do not net to zero (%s).\n", SignedAmount(remaining))
	}
	return b.String()
}

// Render styles markdown for a terminal. Style is a glamour standard style
// such as "dark", "light" or "notty".
func Render(markdown, style string, width int) (string, error) {
	if style == "" {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}

func paymentInfo(r settlementservice.LedgerRow) string {
	var parts []string
	if r.Player.PreferredPaymentMethod != nil && *r.Player.PreferredPaymentMethod != "" {
		parts = append(parts, *r.Player.PreferredPaymentMethod)
	}
	if r.Player.PaymentID != nil && *r.Player.PaymentID != "" {
		parts = append(parts, *r.Player.PaymentID)
	}
	return strings.Join(parts, " ")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
