package audit

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/hamed0406/seoaudit/internal/domain"
	"github.com/hamed0406/seoaudit/internal/page"
)

// Thresholds for the length and content checks. Bounds are inclusive.
const (
	TitleMinLen       = 50
	TitleMaxLen       = 60
	DescriptionMinLen = 150
	DescriptionMaxLen = 160
	MinWordCount      = 500
)

// Check inspects a parsed page and returns the lines it contributes.
// Checks never fail: every outcome is expressed as findings.
type Check struct {
	Name string
	Run  func(doc *page.Document, t domain.Target) domain.CheckResult
}

// DefaultChecks is the fixed check order of every report.
func DefaultChecks() []Check {
	return []Check{
		{"title", checkTitle},
		{"meta_description", checkMetaDescription},
		{"h1", checkH1},
		{"h2_h3", checkSubheadings},
		{"url_structure", checkURLStructure},
		{"content_length", checkContentLength},
		{"internal_links", checkInternalLinks},
		{"image_alt", checkImageAlt},
		{"outbound_links", checkOutboundLinks},
		{"nofollow_links", checkNofollowLinks},
	}
}

func checkTitle(doc *page.Document, _ domain.Target) domain.CheckResult {
	res := domain.CheckResult{Name: "title"}
	el, ok := doc.First("title")
	if !ok {
		res.Add(
			domain.Fail("No title tag found."),
			domain.Detail("Solution: Add a unique and descriptive title tag for each page including target keywords."),
		)
		return res
	}
	title := el.Text()
	n := utf8.RuneCountInString(title)
	if n >= TitleMinLen && n <= TitleMaxLen {
		res.Add(domain.Passf("Title tag present: '%s' (length: %d)", title, n))
		return res
	}
	res.Add(
		domain.Warn("Title tag length issue:"),
		domain.Detailf("Title: '%s' (length: %d)", title, n),
		domain.Detail("Recommended 50-60 characters for optimal SEO."),
		domain.Detail("Solution: Adjust title to be unique, relevant, and include main keywords naturally."),
	)
	return res
}

func checkMetaDescription(doc *page.Document, _ domain.Target) domain.CheckResult {
	res := domain.CheckResult{Name: "meta_description"}
	var content string
	if el, ok := doc.FirstWhere("meta", "name", "description"); ok {
		content, _ = el.Attr("content")
	}
	// Whitespace-only content counts as present; it fails on length instead.
	if content == "" {
		res.Add(
			domain.Fail("No meta description found."),
			domain.Detail("Solution: Add unique meta descriptions to improve click-through rates and indexing."),
		)
		return res
	}
	desc := strings.TrimSpace(content)
	n := utf8.RuneCountInString(desc)
	if n >= DescriptionMinLen && n <= DescriptionMaxLen {
		res.Add(domain.Passf("Meta description found: '%s'", desc))
		return res
	}
	res.Add(
		domain.Warn("Meta description length issue:"),
		domain.Detailf("Description: '%s' (length: %d)", desc, n),
		domain.Detail("Recommended to keep between 150-160 characters."),
		domain.Detail("Solution: Write a unique meta description summarizing page content and include main keywords."),
	)
	return res
}

func checkH1(doc *page.Document, _ domain.Target) domain.CheckResult {
	res := domain.CheckResult{Name: "h1"}
	h1s := doc.All("h1")
	if len(h1s) == 0 {
		res.Add(
			domain.Fail("No H1 tags found."),
			domain.Detail("Solution: Include one H1 tag per page to describe the main content topic."),
		)
		return res
	}
	res.Add(domain.Passf("Found %d H1 tag(s):", len(h1s)))
	for i, h := range h1s {
		res.Add(domain.Detailf("H1 #%d: %s", i+1, h.Text()))
	}
	if len(h1s) > 1 {
		res.Add(
			domain.Warn("More than one H1 tag found."),
			domain.Detail("SEO best practice recommends only one H1 tag per page."),
		)
	}
	return res
}

// checkSubheadings reports H2/H3 counts and stays silent when there are none.
func checkSubheadings(doc *page.Document, _ domain.Target) domain.CheckResult {
	res := domain.CheckResult{Name: "h2_h3"}
	if n := len(doc.All("h2")); n > 0 {
		res.Add(domain.Passf("Found %d H2 tag(s).", n))
	}
	if n := len(doc.All("h3")); n > 0 {
		res.Add(domain.Passf("Found %d H3 tag(s).", n))
	}
	return res
}

// checkURLStructure is skipped for URLs without any path.
func checkURLStructure(_ *page.Document, t domain.Target) domain.CheckResult {
	res := domain.CheckResult{Name: "url_structure"}
	path := t.Path()
	if path == "" {
		return res
	}
	if path == "/" || strings.Contains(path, "-") {
		res.Add(domain.Pass("URL structure looks clean using hyphens or root path."))
		return res
	}
	res.Add(
		domain.Warn("URL structure check:"),
		domain.Detailf("URL path: %s", path),
		domain.Detail("Recommendation: Use hyphens (-) instead of underscores (_) for readability and SEO."),
	)
	return res
}

func checkContentLength(doc *page.Document, _ domain.Target) domain.CheckResult {
	res := domain.CheckResult{Name: "content_length"}
	words := len(strings.Fields(doc.Text()))
	if words < MinWordCount {
		res.Add(
			domain.Warnf("Content length issue: Only %d words found.", words),
			domain.Detail("Recommendation: Aim for 500+ words to provide comprehensive content."),
		)
		return res
	}
	res.Add(domain.Passf("Content length is sufficient: %d words.", words))
	return res
}

func checkInternalLinks(doc *page.Document, t domain.Target) domain.CheckResult {
	res := domain.CheckResult{Name: "internal_links"}
	n := 0
	for _, a := range doc.AllWithAttr("a", "href") {
		if host := hrefNetloc(a); host == "" || host == t.Netloc() {
			n++
		}
	}
	if n > 0 {
		res.Add(domain.Passf("Found %d internal link(s).", n))
		return res
	}
	res.Add(
		domain.Fail("No internal links found."),
		domain.Detail("Solution: Add internal links pointing to relevant pages to improve navigation and SEO."),
	)
	return res
}

func checkImageAlt(doc *page.Document, _ domain.Target) domain.CheckResult {
	res := domain.CheckResult{Name: "image_alt"}
	missing := 0
	for _, img := range doc.All("img") {
		if alt, _ := img.Attr("alt"); strings.TrimSpace(alt) == "" {
			missing++
		}
	}
	if missing == 0 {
		res.Add(domain.Pass("All images have alt text."))
		return res
	}
	res.Add(
		domain.Warnf("%d image(s) missing alt text.", missing),
		domain.Detail("Solution: Add descriptive alt text to images to improve accessibility and SEO."),
	)
	return res
}

func checkOutboundLinks(doc *page.Document, t domain.Target) domain.CheckResult {
	res := domain.CheckResult{Name: "outbound_links"}
	n := 0
	for _, a := range doc.AllWithAttr("a", "href") {
		if host := hrefNetloc(a); host != "" && host != t.Netloc() {
			n++
		}
	}
	if n > 0 {
		res.Add(domain.Passf("Found %d outbound link(s).", n))
		return res
	}
	res.Add(
		domain.Fail("No outbound links found."),
		domain.Detail("Consider adding relevant outbound links to authoritative sources."),
	)
	return res
}

// checkNofollowLinks always reports a count; zero is not a failure.
func checkNofollowLinks(doc *page.Document, _ domain.Target) domain.CheckResult {
	res := domain.CheckResult{Name: "nofollow_links"}
	n := 0
	for _, a := range doc.AllWithAttr("a", "rel") {
		for _, tok := range a.Tokens("rel") {
			if tok == "nofollow" {
				n++
				break
			}
		}
	}
	res.Add(domain.Passf("Found %d nofollow link(s).", n))
	return res
}

// hrefNetloc returns the authority of the element's href. Hrefs that
// net/url rejects still yield the authority between "//" and the next
// "/", "?" or "#"; without one they are treated as relative.
func hrefNetloc(a *page.Element) string {
	href, _ := a.Attr("href")
	href = strings.TrimSpace(href)
	if u, err := url.Parse(href); err == nil {
		return domain.Netloc(u)
	}
	return splitAuthority(href)
}

func splitAuthority(href string) string {
	rest := href
	if i := strings.Index(rest, ":"); i > 0 && isScheme(rest[:i]) {
		rest = rest[i+1:]
	}
	if !strings.HasPrefix(rest, "//") {
		return ""
	}
	rest = rest[2:]
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func isScheme(s string) bool {
	for i, c := range s {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
