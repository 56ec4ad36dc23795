package domain

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"unicode"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// NamingError reports a zone whose name cannot be turned into a canonical
// domain name. Such zones are skipped, not fatal.
type NamingError struct {
	Zone string
	Err  error
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("cannot derive domain name for zone %q: %v", e.Zone, e.Err)
}

func (e *NamingError) Unwrap() error { return e.Err }

// CanonicalDomain converts a zone record's native name into the domain name
// used in nameserver configuration and data-file paths.
//
// Forward zones pass through in canonical form (lowercased, no trailing dot),
// with internationalized names converted to their punycode form. Reverse
// zones are interpreted as a network prefix and mapped into in-addr.arpa or
// ip6.arpa space at the prefix's octet or nibble granularity.
func CanonicalDomain(r ZoneRecord) (string, error) {
	switch r.Kind {
	case ZoneKindForward:
		return forwardDomain(r)
	case ZoneKindReverseIPv4:
		return reverseDomain(r, false)
	case ZoneKindReverseIPv6:
		return reverseDomain(r, true)
	default:
		return "", &NamingError{Zone: r.Name, Err: fmt.Errorf("unsupported zone kind %s", r.Kind)}
	}
}

func forwardDomain(r ZoneRecord) (string, error) {
	name := canonicalName(r.Name)
	if name == "" {
		return "", &NamingError{Zone: r.Name, Err: fmt.Errorf("empty zone name")}
	}
	if !isASCII(name) {
		ascii, err := idna.ToASCII(name)
		if err != nil {
			return "", &NamingError{Zone: r.Name, Err: fmt.Errorf("punycode conversion: %w", err)}
		}
		name = ascii
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return "", &NamingError{Zone: r.Name, Err: fmt.Errorf("not a valid domain name")}
	}
	return name, nil
}

func reverseDomain(r ZoneRecord, want6 bool) (string, error) {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(r.Name))
	if err != nil {
		return "", &NamingError{Zone: r.Name, Err: fmt.Errorf("not a network prefix: %w", err)}
	}
	prefix = prefix.Masked()
	if prefix.Addr().Is4() != !want6 {
		return "", &NamingError{Zone: r.Name, Err: fmt.Errorf("address family does not match zone kind %s", r.Kind)}
	}
	if want6 {
		return reverseIPv6(prefix), nil
	}
	return reverseIPv4(prefix), nil
}

// reverseIPv4 maps a prefix to its in-addr.arpa owner name. Prefix lengths
// between octet boundaries round down to the enclosing octet boundary.
func reverseIPv4(p netip.Prefix) string {
	octets := p.Bits() / 8
	a := p.Addr().As4()
	labels := make([]string, 0, octets)
	for i := octets - 1; i >= 0; i-- {
		labels = append(labels, strconv.Itoa(int(a[i])))
	}
	labels = append(labels, "in-addr.arpa")
	return strings.Join(labels, ".")
}

// reverseIPv6 maps a prefix to its ip6.arpa owner name, one label per nibble.
func reverseIPv6(p netip.Prefix) string {
	nibbles := p.Bits() / 4
	a := p.Addr().As16()
	labels := make([]string, 0, nibbles)
	for i := nibbles - 1; i >= 0; i-- {
		b := a[i/2]
		if i%2 == 0 {
			b >>= 4
		} else {
			b &= 0x0f
		}
		labels = append(labels, strconv.FormatUint(uint64(b), 16))
	}
	labels = append(labels, "ip6.arpa")
	return strings.Join(labels, ".")
}

// canonicalName returns a DNS name in canonical form: trimmed, lowercased,
// with all trailing dots stripped.
func canonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	return name
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
