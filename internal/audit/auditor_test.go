package audit

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/seoaudit/internal/domain"
	"github.com/hamed0406/seoaudit/internal/page"
	"github.com/hamed0406/seoaudit/internal/probe"
)

// ---- fakes ----

type fakeFetcher struct {
	body  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.body, f.err
}

// stubResolver resolves only an A record unless err is set.
type stubResolver struct {
	err error
}

func (s *stubResolver) LookupIP(_ context.Context, network, host string) ([]net.IP, error) {
	if s.err != nil {
		return nil, s.err
	}
	if network == "ip4" {
		return []net.IP{net.ParseIP("192.0.2.10")}, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

func (s *stubResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if s.err != nil {
		return nil, s.err
	}
	return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
}

func (s *stubResolver) LookupCNAME(_ context.Context, host string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return host + ".", nil
}

func (s *stubResolver) LookupNS(_ context.Context, name string) ([]*net.NS, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*net.NS{{Host: "ns1.example.com."}}, nil
}

func (s *stubResolver) LookupTXT(_ context.Context, name string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return nil, errors.New("read udp: i/o timeout")
}

type recordingObserver struct {
	reports []*domain.Report
}

func (r *recordingObserver) ObserveAudit(rep *domain.Report, _ time.Duration) {
	r.reports = append(r.reports, rep)
}

// scenarioHTML: 55-char title, one h1, two internal links, no outbound
// links, every image alt-tagged and 400 words of visible text in total.
func scenarioHTML() string {
	title := strings.Repeat("t", 55)
	return `<html><head><title>` + title + `</title></head><body>
<h1>Welcome</h1>
<p>` + words(395) + `</p>
<a href="/pricing">Pricing</a>
<a href="https://example.com/contact-us">Contact</a>
<img src="/logo.png" alt="Company logo">
</body></html>`
}

func indexOf(lines []string, prefix string) int {
	for i, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return i
		}
	}
	return -1
}

// ---- tests ----

func TestAuditor_EndToEndScenario(t *testing.T) {
	f := &fakeFetcher{body: scenarioHTML()}
	obs := &recordingObserver{}
	a := New(f, &stubResolver{}, WithObserver(obs))

	rep := a.Run(context.Background(), "https://example.com/")
	require.Equal(t, domain.OutcomeComplete, rep.Outcome)
	lines := rep.Lines()

	// 1 title + 1 h1 text + 2 link texts + 395 paragraph words = 399
	title := indexOf(lines, "✅ Title tag present: '"+strings.Repeat("t", 55)+"' (length: 55)")
	content := indexOf(lines, "⚠️ Content length issue: Only 399 words found.")
	h1 := indexOf(lines, "✅ Found 1 H1 tag(s):")
	internal := indexOf(lines, "✅ Found 2 internal link(s).")
	alt := indexOf(lines, "✅ All images have alt text.")
	outbound := indexOf(lines, "❌ No outbound links found.")

	for name, idx := range map[string]int{
		"title": title, "content": content, "h1": h1,
		"internal": internal, "alt": alt, "outbound": outbound,
	} {
		require.NotEqual(t, -1, idx, "missing %s line in %q", name, lines)
	}
	assert.True(t, title < h1 && h1 < content && content < internal && internal < alt && alt < outbound,
		"unexpected order: %q", lines)
	assert.Equal(t, -1, indexOf(lines, "⚠️ More than one H1"))

	require.Len(t, obs.reports, 1)
	assert.Same(t, rep, obs.reports[0])
	assert.Equal(t, 1, f.calls)
}

func TestAuditor_ScenarioWith400Words(t *testing.T) {
	body := strings.Replace(scenarioHTML(), words(395), words(396), 1)
	rep := New(&fakeFetcher{body: body}, &stubResolver{}).Run(context.Background(), "https://example.com/")
	assert.NotEqual(t, -1, indexOf(rep.Lines(), "⚠️ Content length issue: Only 400 words found."))
}

func TestAuditor_ReportOrderAndDNSSection(t *testing.T) {
	rep := New(&fakeFetcher{body: scenarioHTML()}, &stubResolver{}).Run(context.Background(), "https://example.com/seo-guide")
	lines := rep.Lines()

	order := []string{
		"✅ Title tag present",
		"❌ No meta description found.",
		"✅ Found 1 H1 tag(s):",
		"✅ URL structure looks clean",
		"⚠️ Content length issue",
		"✅ Found 2 internal link(s).",
		"✅ All images have alt text.",
		"❌ No outbound links found.",
		"✅ Found 0 nofollow link(s).",
		"🔧 DNS Records Check:",
		"✅ A record(s) found for example.com:",
		"   - 192.0.2.10",
		"❌ No AAAA record found for example.com.",
		"❌ No MX record found for example.com.",
		"❌ No CNAME record found for example.com.",
		"✅ NS record(s) found for example.com:",
		"   - ns1.example.com.",
		"⚠️ Error checking TXT record for example.com: read udp: i/o timeout",
		"--- SEO Audit Complete ---",
	}
	last := -1
	for _, prefix := range order {
		idx := indexOf(lines[last+1:], prefix)
		require.NotEqual(t, -1, idx, "%q not found after line %d in %q", prefix, last, lines)
		last += idx + 1
	}
	assert.Equal(t, len(lines)-1, last, "completion marker must be the last line")

	again := New(&fakeFetcher{body: scenarioHTML()}, &stubResolver{}).Run(context.Background(), "https://example.com/seo-guide")
	assert.Equal(t, lines, again.Lines())
}

func TestAuditor_NXDOMAINYieldsSixFailures(t *testing.T) {
	nx := &net.DNSError{Err: "no such host", Name: "gone.example", IsNotFound: true}
	rep := New(&fakeFetcher{body: scenarioHTML()}, &stubResolver{err: nx}).Run(context.Background(), "https://gone.example/")
	lines := rep.Lines()

	section := indexOf(lines, "🔧 DNS Records Check:")
	require.NotEqual(t, -1, section)
	dns := lines[section+1 : len(lines)-1]
	require.Len(t, dns, len(probe.RecordTypes))
	for i, rtype := range probe.RecordTypes {
		assert.Equal(t, "❌ No "+rtype+" record found for gone.example.", dns[i])
	}
}

func TestAuditor_FetchTimeoutIsSingleLine(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer s.Close()

	core, logs := observer.New(zap.InfoLevel)
	a := New(probe.NewFetcher(50*time.Millisecond, ""), &stubResolver{}, WithLogger(zap.New(core)))

	rep := a.Run(context.Background(), s.URL)
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, domain.OutcomeFetchFailed, rep.Outcome)
	line := rep.Lines()[0]
	assert.True(t, strings.HasPrefix(line, "❌ Error fetching URL: "), line)
	assert.Contains(t, line, "Client.Timeout")
	assert.Equal(t, -1, indexOf(rep.Lines(), "🔧"))

	assert.Equal(t, 1, logs.FilterMessage("fetch_failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("audit_done").Len())
}

func TestAuditor_InvalidURLIsFetchFailure(t *testing.T) {
	f := &fakeFetcher{}
	rep := New(f, &stubResolver{}).Run(context.Background(), "example.com")
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, domain.StatusFail, rep.Findings[0].Status)
	assert.True(t, strings.HasPrefix(rep.Findings[0].Text, "Error fetching URL: invalid URL"))
	assert.Equal(t, 0, f.calls)
}

func TestAuditor_PanickingCheckKeepsPartialReport(t *testing.T) {
	boom := Check{Name: "boom", Run: func(*page.Document, domain.Target) domain.CheckResult {
		panic("selector exploded")
	}}
	never := Check{Name: "never", Run: func(*page.Document, domain.Target) domain.CheckResult {
		t.Fatalf("checks after a failure must not run")
		return domain.CheckResult{}
	}}
	checks := append(DefaultChecks()[:2], boom, never)

	rep := New(&fakeFetcher{body: scenarioHTML()}, &stubResolver{}, WithChecks(checks...)).
		Run(context.Background(), "https://example.com/")

	assert.Equal(t, domain.OutcomeAborted, rep.Outcome)
	lines := rep.Lines()
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "✅ Title tag present"))
	assert.Equal(t, "⚠️ Unexpected error: selector exploded", lines[len(lines)-1])
	assert.Equal(t, -1, indexOf(lines, "🔧"))
}
