// Package audit runs the on-page SEO checks and the DNS section for one URL
// and assembles them into an ordered report.
package audit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/seoaudit/internal/domain"
	"github.com/hamed0406/seoaudit/internal/page"
	"github.com/hamed0406/seoaudit/internal/probe"
)

const (
	dnsSectionTitle = "DNS Records Check:"
	completionLine  = "--- SEO Audit Complete ---"
)

// Fetcher retrieves a page body. *probe.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (string, error)
}

// Observer is told about every finished audit.
type Observer interface {
	ObserveAudit(r *domain.Report, elapsed time.Duration)
}

// Auditor holds only its collaborators, so a single instance may serve
// concurrent audits.
type Auditor struct {
	fetcher  Fetcher
	resolver probe.Resolver
	checks   []Check
	logger   *zap.Logger
	observer Observer
}

type Option func(*Auditor)

func WithLogger(l *zap.Logger) Option { return func(a *Auditor) { a.logger = l } }

func WithObserver(o Observer) Option { return func(a *Auditor) { a.observer = o } }

// WithChecks replaces the check list. Intended for tests.
func WithChecks(checks ...Check) Option { return func(a *Auditor) { a.checks = checks } }

func New(f Fetcher, r probe.Resolver, opts ...Option) *Auditor {
	a := &Auditor{
		fetcher:  f,
		resolver: r,
		checks:   DefaultChecks(),
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run audits rawURL. A fetch failure yields a single-line report; an
// unexpected failure later keeps what was collected and adds one warning.
func (a *Auditor) Run(ctx context.Context, rawURL string) *domain.Report {
	start := time.Now()
	report := &domain.Report{URL: rawURL, Outcome: domain.OutcomeComplete}
	defer func() {
		elapsed := time.Since(start)
		if a.observer != nil {
			a.observer.ObserveAudit(report, elapsed)
		}
		a.logger.Info("audit_done",
			zap.String("url", rawURL),
			zap.String("outcome", string(report.Outcome)),
			zap.Int("findings", len(report.Findings)),
			zap.Duration("elapsed", elapsed),
		)
	}()

	target, err := domain.ParseTarget(rawURL)
	if err != nil {
		a.fetchFailed(report, &probe.FetchError{URL: rawURL, Err: err})
		return report
	}
	body, err := a.fetcher.Fetch(ctx, target.String())
	if err != nil {
		a.fetchFailed(report, err)
		return report
	}

	if err := a.analyze(ctx, report, target, body); err != nil {
		a.logger.Warn("audit_unexpected_error", zap.String("url", rawURL), zap.Error(err))
		report.Add(domain.Warnf("Unexpected error: %v", err))
		report.Outcome = domain.OutcomeAborted
	}
	return report
}

func (a *Auditor) fetchFailed(report *domain.Report, err error) {
	a.logger.Warn("fetch_failed", zap.String("url", report.URL), zap.Error(err))
	report.Add(domain.Failf("Error fetching URL: %v", err))
	report.Outcome = domain.OutcomeFetchFailed
}

func (a *Auditor) analyze(ctx context.Context, report *domain.Report, target domain.Target, body string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	doc, err := page.Parse(body)
	if err != nil {
		return err
	}
	for _, c := range a.checks {
		res := c.Run(doc, target)
		report.Add(res.Findings...)
	}

	report.Add(domain.Section(dnsSectionTitle))
	for _, res := range probe.LookupRecords(ctx, a.resolver, target.Hostname()) {
		report.Add(dnsFindings(res)...)
	}
	report.Add(domain.Done(completionLine))
	return nil
}
