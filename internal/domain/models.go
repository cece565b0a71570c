package domain

import "fmt"

// Status classifies a single report line.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarn    Status = "warn"
	StatusFail    Status = "fail"
	StatusDetail  Status = "detail"  // indented line belonging to the finding above it
	StatusSection Status = "section" // section header, e.g. the DNS block
	StatusDone    Status = "done"    // completion marker
)

// Finding is one line of an audit report.
type Finding struct {
	Status Status `json:"status"`
	Text   string `json:"text"`
}

func Pass(text string) Finding    { return Finding{Status: StatusPass, Text: text} }
func Warn(text string) Finding    { return Finding{Status: StatusWarn, Text: text} }
func Fail(text string) Finding    { return Finding{Status: StatusFail, Text: text} }
func Detail(text string) Finding  { return Finding{Status: StatusDetail, Text: text} }
func Section(text string) Finding { return Finding{Status: StatusSection, Text: text} }
func Done(text string) Finding    { return Finding{Status: StatusDone, Text: text} }

func Passf(format string, args ...any) Finding   { return Pass(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any) Finding   { return Warn(fmt.Sprintf(format, args...)) }
func Failf(format string, args ...any) Finding   { return Fail(fmt.Sprintf(format, args...)) }
func Detailf(format string, args ...any) Finding { return Detail(fmt.Sprintf(format, args...)) }

// String renders the finding with its leading symbol.
func (f Finding) String() string {
	switch f.Status {
	case StatusPass:
		return "✅ " + f.Text
	case StatusWarn:
		return "⚠️ " + f.Text
	case StatusFail:
		return "❌ " + f.Text
	case StatusDetail:
		return "   - " + f.Text
	case StatusSection:
		return "🔧 " + f.Text
	default:
		return f.Text
	}
}

// CheckResult is the outcome of one check: the lines it contributes, in order.
type CheckResult struct {
	Name     string
	Findings []Finding
}

func (c *CheckResult) Add(f ...Finding) {
	c.Findings = append(c.Findings, f...)
}

type Outcome string

const (
	OutcomeComplete    Outcome = "complete"
	OutcomeFetchFailed Outcome = "fetch_failed"
	OutcomeAborted     Outcome = "aborted" // unexpected error after a successful fetch
)

// Report is the flat, ordered result of one audit.
type Report struct {
	URL      string    `json:"url"`
	Outcome  Outcome   `json:"outcome"`
	Findings []Finding `json:"findings"`
}

func (r *Report) Add(f ...Finding) {
	r.Findings = append(r.Findings, f...)
}

func (r *Report) Aborted() bool {
	return r.Outcome != OutcomeComplete
}

// Lines returns every finding rendered with its symbol.
func (r *Report) Lines() []string {
	out := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		out = append(out, f.String())
	}
	return out
}

// Count returns how many findings carry the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, f := range r.Findings {
		if f.Status == s {
			n++
		}
	}
	return n
}
