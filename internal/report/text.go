// Package report renders audit reports for terminals and JSON clients.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/hamed0406/seoaudit/internal/domain"
)

type palette struct {
	pass, warn, fail, section *color.Color
}

func newPalette(colored bool) palette {
	p := palette{
		pass:    color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
		section: color.New(color.FgCyan, color.Bold),
	}
	if colored {
		for _, c := range []*color.Color{p.pass, p.warn, p.fail, p.section} {
			c.EnableColor()
		}
	} else {
		for _, c := range []*color.Color{p.pass, p.warn, p.fail, p.section} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) sprint(f domain.Finding) string {
	line := f.String()
	switch f.Status {
	case domain.StatusPass:
		return p.pass.Sprint(line)
	case domain.StatusWarn:
		return p.warn.Sprint(line)
	case domain.StatusFail:
		return p.fail.Sprint(line)
	case domain.StatusSection, domain.StatusDone:
		return p.section.Sprint(line)
	default:
		return line
	}
}

// WriteText prints one finding per line. Section headers and the completion
// marker are preceded by a blank line.
func WriteText(w io.Writer, r *domain.Report, colored bool) error {
	p := newPalette(colored)
	for _, f := range r.Findings {
		if f.Status == domain.StatusSection || f.Status == domain.StatusDone {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, p.sprint(f)); err != nil {
			return err
		}
	}
	return nil
}
