package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// RecordTypes lists the record types looked up for every audit, in report order.
var RecordTypes = []string{"A", "AAAA", "MX", "CNAME", "NS", "TXT"}

// Resolver is the subset of *net.Resolver used for record lookups.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

var _ Resolver = (*net.Resolver)(nil)

// DNSRecordResult is the outcome of one record type lookup. Exactly one of
// Values (non-empty), NotFound or Err is set.
type DNSRecordResult struct {
	Type     string
	Domain   string
	Values   []string
	NotFound bool
	Err      error
}

// LookupRecord resolves one record type for domain. Values are rendered the
// way they appear in zone files (FQDNs keep their trailing dot, TXT is quoted).
func LookupRecord(ctx context.Context, r Resolver, domain, rtype string) DNSRecordResult {
	res := DNSRecordResult{Type: rtype, Domain: domain}

	var (
		values []string
		err    error
	)
	switch rtype {
	case "A", "AAAA":
		network := "ip4"
		if rtype == "AAAA" {
			network = "ip6"
		}
		var ips []net.IP
		ips, err = r.LookupIP(ctx, network, domain)
		for _, ip := range ips {
			values = append(values, ip.String())
		}
	case "MX":
		var mxs []*net.MX
		mxs, err = r.LookupMX(ctx, domain)
		for _, mx := range mxs {
			values = append(values, fmt.Sprintf("%d %s", mx.Pref, fqdn(mx.Host)))
		}
	case "CNAME":
		var cname string
		cname, err = r.LookupCNAME(ctx, domain)
		// The resolver answers with the queried name itself when there is no alias.
		if err == nil && cname != "" && !sameName(cname, domain) {
			values = append(values, fqdn(cname))
		}
	case "NS":
		var nss []*net.NS
		nss, err = r.LookupNS(ctx, domain)
		for _, ns := range nss {
			values = append(values, fqdn(ns.Host))
		}
	case "TXT":
		var txts []string
		txts, err = r.LookupTXT(ctx, domain)
		for _, txt := range txts {
			values = append(values, strconv.Quote(txt))
		}
	default:
		res.Err = fmt.Errorf("unsupported record type %q", rtype)
		return res
	}

	switch {
	case err != nil && isNotFound(err):
		res.NotFound = true
	case err != nil:
		res.Err = err
	case len(values) == 0:
		res.NotFound = true
	default:
		res.Values = values
	}
	return res
}

// LookupRecords resolves every type in RecordTypes independently and in order.
func LookupRecords(ctx context.Context, r Resolver, domain string) []DNSRecordResult {
	out := make([]DNSRecordResult, 0, len(RecordTypes))
	for _, rtype := range RecordTypes {
		out = append(out, LookupRecord(ctx, r, domain, rtype))
	}
	return out
}

func isNotFound(err error) bool {
	var de *net.DNSError
	return errors.As(err, &de) && de.IsNotFound
}

func fqdn(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSuffix(a, "."), strings.TrimSuffix(b, "."))
}
