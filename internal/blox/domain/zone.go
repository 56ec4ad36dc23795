// Package domain contains the core value types of blox: zone records as
// reported by the DNS-management system, eligibility decisions, and the
// canonical naming rules for forward and reverse zones.
package domain

import (
	"fmt"
	"strings"
)

// ZoneKind identifies how the DNS-management system represents a zone's name.
//
// Forward zones carry a plain domain name; the reverse kinds carry a network
// prefix that must be mapped into in-addr.arpa / ip6.arpa space before it can
// appear in nameserver configuration.
type ZoneKind uint8

const (
	// ZoneKindUnknown marks a zone format this tool does not understand.
	ZoneKindUnknown ZoneKind = iota
	// ZoneKindForward is a regular forward-lookup zone.
	ZoneKindForward
	// ZoneKindReverseIPv4 is an IPv4 reverse-lookup zone (in-addr.arpa).
	ZoneKindReverseIPv4
	// ZoneKindReverseIPv6 is an IPv6 reverse-lookup zone (ip6.arpa).
	ZoneKindReverseIPv6
)

// String returns a stable string representation of the zone kind.
func (k ZoneKind) String() string {
	switch k {
	case ZoneKindForward:
		return "forward"
	case ZoneKindReverseIPv4:
		return "reverse-ipv4"
	case ZoneKindReverseIPv6:
		return "reverse-ipv6"
	default:
		return fmt.Sprintf("ZoneKind(%d)", k)
	}
}

// ParseZoneKind maps the management system's zone_format values onto a
// ZoneKind. Unrecognized values map to ZoneKindUnknown rather than an error;
// such zones are excluded from all processing.
func ParseZoneKind(s string) ZoneKind {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FORWARD":
		return ZoneKindForward
	case "IPV4":
		return ZoneKindReverseIPv4
	case "IPV6":
		return ZoneKindReverseIPv6
	default:
		return ZoneKindUnknown
	}
}

// IsSupported reports whether the kind is one this tool can render.
func (k ZoneKind) IsSupported() bool {
	switch k {
	case ZoneKindForward, ZoneKindReverseIPv4, ZoneKindReverseIPv6:
		return true
	default:
		return false
	}
}

// ExternalNS is one entry in a zone's external primary or secondary list.
// Stealth entries are hidden from published NS records; the classifier
// treats them purely as an exclusion signal.
type ExternalNS struct {
	Name    string
	Stealth bool
}

// ZoneRecord is the normalized form of one zone fetched from the
// DNS-management system. Records are built fresh each run, never mutated,
// and discarded when the run ends.
//
// Name holds the zone identity as the management system knows it: a domain
// name for forward zones, a network prefix (CIDR) for the reverse kinds.
type ZoneRecord struct {
	Name                string
	Kind                ZoneKind
	Enabled             bool
	NSGroup             string
	ExternalPrimaries   []ExternalNS
	ExternalSecondaries []ExternalNS
}
