package audit

import (
	"github.com/hamed0406/seoaudit/internal/domain"
	"github.com/hamed0406/seoaudit/internal/probe"
)

func dnsFindings(res probe.DNSRecordResult) []domain.Finding {
	switch {
	case res.Err != nil:
		return []domain.Finding{
			domain.Warnf("Error checking %s record for %s: %v", res.Type, res.Domain, res.Err),
		}
	case res.NotFound || len(res.Values) == 0:
		return []domain.Finding{
			domain.Failf("No %s record found for %s.", res.Type, res.Domain),
		}
	}
	out := make([]domain.Finding, 0, len(res.Values)+1)
	out = append(out, domain.Passf("%s record(s) found for %s:", res.Type, res.Domain))
	for _, v := range res.Values {
		out = append(out, domain.Detail(v))
	}
	return out
}
