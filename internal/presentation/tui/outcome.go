package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/newsmeme/pkg/dispatcher"
	"github.com/aretw0/newsmeme/pkg/domain"
	"github.com/aretw0/newsmeme/pkg/page"
	"github.com/muesli/termenv"
)

// Printer reports dispatched actions on a terminal.
type Printer struct {
	w      io.Writer
	out    *termenv.Output
	render func(string) (string, error)
}

// NewPrinter writes to w. When styled is false markdown is printed as is
// and no color sequences are emitted.
func NewPrinter(w io.Writer, styled bool) *Printer {
	p := &Printer{w: w, render: plain}
	if styled {
		p.out = termenv.NewOutput(w)
		p.render = NewRenderer()
	} else {
		p.out = termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	return p
}

// Outcome prints the result of one action followed by the page mutations it caused.
func (p *Printer) Outcome(o dispatcher.Outcome, journal []page.Mutation) error {
	rendered, err := p.render(OutcomeMarkdown(o, journal))
	if err != nil {
		return err
	}
	if _, err := io.WriteString(p.w, rendered); err != nil {
		return err
	}
	return p.Messages(messagesIn(journal))
}

// Messages prints message region entries, colored by category.
func (p *Printer) Messages(msgs []page.Message) error {
	for _, m := range msgs {
		line := p.out.String(m.Text).Foreground(p.out.Color(categoryColor(m.Category)))
		if _, err := fmt.Fprintf(p.w, "[%s] %s\n", m.Category, line); err != nil {
			return err
		}
	}
	return nil
}

// OutcomeMarkdown describes o and journal as markdown.
func OutcomeMarkdown(o dispatcher.Outcome, journal []page.Mutation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", o.Request.URL)
	if o.Err != nil {
		fmt.Fprintf(&b, "**Round trip failed:** %s\n\n", o.Err)
	} else {
		fmt.Fprintf(&b, "- variant: `%s`\n", domain.Classify(o.Response))
	}
	fmt.Fprintf(&b, "- effect: `%s`\n", o.Effect.Kind)
	if o.Effect.URL != "" {
		fmt.Fprintf(&b, "- target: %s\n", o.Effect.URL)
	}
	if o.Response.Score != nil {
		fmt.Fprintf(&b, "- score: %s\n", *o.Response.Score)
	}

	if len(journal) > 0 {
		b.WriteString("\n| op | target | value |\n|---|---|---|\n")
		for _, m := range journal {
			target := m.Target
			if target != "" && !m.Matched && m.Op != page.OpNavigate {
				target += " (absent)"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", m.Op, cell(target), cell(m.Value))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func messagesIn(journal []page.Mutation) []page.Message {
	var msgs []page.Message
	for _, m := range journal {
		if m.Op == page.OpShowMessage {
			msgs = append(msgs, page.Message{Text: m.Value, Category: m.Target})
		}
	}
	return msgs
}

func categoryColor(category string) string {
	switch category {
	case domain.CategoryError:
		return "#f87171"
	case domain.CategorySuccess:
		return "#4ade80"
	default:
		return "#93c5fd"
	}
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}
