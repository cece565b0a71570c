package report

import (
	"encoding/json"
	"io"

	"github.com/hamed0406/seoaudit/internal/domain"
)

// JSONFinding is one report line on the wire.
type JSONFinding struct {
	Status domain.Status `json:"status"`
	Text   string        `json:"text"`
	Line   string        `json:"line"`
}

// JSONReport is the wire form served by the API and printed by the CLI.
type JSONReport struct {
	URL      string         `json:"url"`
	Outcome  domain.Outcome `json:"outcome"`
	Aborted  bool           `json:"aborted"`
	Findings []JSONFinding  `json:"findings"`
}

func NewJSON(r *domain.Report) JSONReport {
	out := JSONReport{
		URL:      r.URL,
		Outcome:  r.Outcome,
		Aborted:  r.Aborted(),
		Findings: make([]JSONFinding, 0, len(r.Findings)),
	}
	for _, f := range r.Findings {
		out.Findings = append(out.Findings, JSONFinding{Status: f.Status, Text: f.Text, Line: f.String()})
	}
	return out
}

// Report converts the wire form back into a domain report.
func (j JSONReport) Report() *domain.Report {
	r := &domain.Report{URL: j.URL, Outcome: j.Outcome}
	for _, f := range j.Findings {
		r.Add(domain.Finding{Status: f.Status, Text: f.Text})
	}
	return r
}

func WriteJSON(w io.Writer, r *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewJSON(r))
}
