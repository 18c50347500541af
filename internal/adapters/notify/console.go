package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/marketpulse/internal/domain"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el snapshot agregado en el modo configurado.
func (c *Console) Notify(_ context.Context, markets []domain.Market) error {
	if len(markets) == 0 {
		fmt.Fprintf(c.out, "[%s] no markets found\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printFull(markets)
	} else {
		c.printCompact(markets)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(markets []domain.Market) {
	now := time.Now().Format("15:04:05")
	counts := countByPlatform(markets)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d mkts →", now, len(markets))
	for _, p := range domain.Platforms() {
		fmt.Fprintf(&sb, " %s:%d", shortName(p), counts[p])
	}

	shown := 0
	for _, m := range markets {
		if shown >= 4 {
			break
		}
		fmt.Fprintf(&sb, " | %s %s p%.2f vol$%.0f",
			shortName(m.Platform),
			domain.TruncateQuestion(m.Question, m.ID, 25),
			m.DisplayPrice(),
			m.Volume24h)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla de mercados ordenada por volumen.
func (c *Console) printFull(markets []domain.Market) {
	now := time.Now().Format("15:04:05")
	counts := countByPlatform(markets)

	fmt.Fprintf(c.out, "\n[%s] %d markets — poly:%d kalshi:%d mani:%d\n",
		now, len(markets),
		counts[domain.PlatformPolymarket],
		counts[domain.PlatformKalshi],
		counts[domain.PlatformManifold])

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Venue", "Market", "Price", "Vol 24h", "Liquidity", "Status", "Closes")

	for i, m := range markets {
		closes := "-"
		if !m.CloseTime.IsZero() {
			closes = m.CloseTime.Format("2006-01-02")
		}

		table.Append(
			fmt.Sprintf("%d", i+1),
			shortName(m.Platform),
			domain.TruncateQuestion(m.Question, m.ID, 40),
			fmt.Sprintf("%.2f", m.DisplayPrice()),
			fmt.Sprintf("$%.0f", m.Volume24h),
			fmt.Sprintf("$%.0f", m.Liquidity),
			string(m.Status),
			closes,
		)
	}

	table.Render()
}

// NotifyComparison imprime el resultado de buscar una pregunta en cada venue.
func (c *Console) NotifyComparison(_ context.Context, question string, matches map[domain.Platform]*domain.Market) error {
	fmt.Fprintf(c.out, "\ncompare: %q\n", question)

	table := tablewriter.NewWriter(c.out)
	table.Header("Venue", "Match", "Price", "Vol 24h", "URL")

	for _, p := range domain.Platforms() {
		m := matches[p]
		if m == nil {
			table.Append(shortName(p), "(no match)", "-", "-", "-")
			continue
		}
		table.Append(
			shortName(p),
			domain.TruncateQuestion(m.Question, m.ID, 40),
			fmt.Sprintf("%.2f", m.DisplayPrice()),
			fmt.Sprintf("$%.0f", m.Volume24h),
			m.URL,
		)
	}

	table.Render()
	return nil
}

// countByPlatform cuenta mercados por venue.
func countByPlatform(markets []domain.Market) map[domain.Platform]int {
	counts := make(map[domain.Platform]int, 3)
	for _, m := range markets {
		counts[m.Platform]++
	}
	return counts
}

// shortName devuelve la etiqueta corta de un venue para el output compacto.
func shortName(p domain.Platform) string {
	switch p {
	case domain.PlatformPolymarket:
		return "poly"
	case domain.PlatformKalshi:
		return "kalshi"
	case domain.PlatformManifold:
		return "mani"
	default:
		return string(p)
	}
}
