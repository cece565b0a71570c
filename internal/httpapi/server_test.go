package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/seoaudit/internal/domain"
	"github.com/hamed0406/seoaudit/internal/report"
)

type fakeAuditor struct {
	urls []string
}

func (f *fakeAuditor) Run(_ context.Context, rawURL string) *domain.Report {
	f.urls = append(f.urls, rawURL)
	r := &domain.Report{URL: rawURL, Outcome: domain.OutcomeComplete}
	r.Add(
		domain.Pass("Title tag present: '<b>Home</b>' (length: 11)"),
		domain.Section("DNS Records Check:"),
		domain.Done("--- SEO Audit Complete ---"),
	)
	return r
}

func newTestServer(a Auditor) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "seoaudit_test_total", Help: "test"}))
	return NewServer(zap.NewNop(), a, reg).Router(nil, 0, 0)
}

func TestIndex_RendersForm(t *testing.T) {
	h := newTestServer(&fakeAuditor{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `<form method="post" action="/">`)
	assert.NotContains(t, rr.Body.String(), "<ol>")
}

func TestFormAudit_ListsLinesInOrderEscaped(t *testing.T) {
	fa := &fakeAuditor{}
	h := newTestServer(fa)

	form := url.Values{"url": {" https://example.com/ "}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, []string{"https://example.com/"}, fa.urls)
	body := rr.Body.String()
	title := strings.Index(body, "&lt;b&gt;Home&lt;/b&gt;")
	dns := strings.Index(body, "DNS Records Check:")
	done := strings.Index(body, "--- SEO Audit Complete ---")
	assert.True(t, title > 0 && title < dns && dns < done, body)
	assert.NotContains(t, body, "<b>Home</b>")
}

func TestFormAudit_EmptyURL(t *testing.T) {
	fa := &fakeAuditor{}
	h := newTestServer(fa)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("url=+"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "please enter a URL")
	assert.Empty(t, fa.urls)
}

func TestAPIAudit_ReturnsJSONReport(t *testing.T) {
	fa := &fakeAuditor{}
	h := newTestServer(fa)

	req := httptest.NewRequest(http.MethodPost, "/api/audit", strings.NewReader(`{"url":"https://example.com"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got report.JSONReport
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "https://example.com", got.URL)
	assert.Equal(t, domain.OutcomeComplete, got.Outcome)
	require.Len(t, got.Findings, 3)
	assert.Equal(t, domain.StatusSection, got.Findings[1].Status)
	assert.Equal(t, "--- SEO Audit Complete ---", got.Findings[2].Line)
}

func TestAPIAudit_BadPayload(t *testing.T) {
	fa := &fakeAuditor{}
	h := newTestServer(fa)

	for _, body := range []string{`{`, `{"url":""}`, `{"other":1}`} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/audit", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Contains(t, rr.Body.String(), "bad payload", body)
	}
	assert.Empty(t, fa.urls)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(&fakeAuditor{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "seoaudit_test_total")
}

func TestRouter_RateLimitsAudits(t *testing.T) {
	h := NewServer(zap.NewNop(), &fakeAuditor{}, nil).Router([]string{"https://ui.example"}, 60, 1)

	call := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/audit", strings.NewReader(`{"url":"https://example.com"}`))
		req.RemoteAddr = "198.51.100.7:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusOK, call())
	assert.Equal(t, http.StatusTooManyRequests, call())

	// health is never limited
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
