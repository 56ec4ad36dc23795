package domain

import "fmt"

// Reason explains why a zone was included in or excluded from a
// nameserver's configuration.
type Reason uint8

const (
	// ReasonDisabled excludes a zone that is disabled in the management system.
	ReasonDisabled Reason = iota
	// ReasonUnsupportedKind excludes a zone whose format this tool cannot render.
	ReasonUnsupportedKind
	// ReasonGroupMatch includes a zone whose nameserver group contains this host.
	ReasonGroupMatch
	// ReasonStealthPrimary excludes a zone with a stealth entry in its
	// external primaries.
	ReasonStealthPrimary
	// ReasonExternalPrimary includes a zone listing this host as an external primary.
	ReasonExternalPrimary
	// ReasonStealthSecondary excludes a zone with a stealth entry in its
	// external secondaries.
	ReasonStealthSecondary
	// ReasonExternalSecondary includes a zone listing this host as an external secondary.
	ReasonExternalSecondary
	// ReasonNoMatch excludes a zone that names this host nowhere.
	ReasonNoMatch
)

// String returns the human-readable explanation for the reason.
func (r Reason) String() string {
	switch r {
	case ReasonDisabled:
		return "zone disabled"
	case ReasonUnsupportedKind:
		return "unsupported zone format"
	case ReasonGroupMatch:
		return "group match"
	case ReasonStealthPrimary:
		return "stealth primary"
	case ReasonExternalPrimary:
		return "external primary"
	case ReasonStealthSecondary:
		return "stealth secondary"
	case ReasonExternalSecondary:
		return "external secondary"
	case ReasonNoMatch:
		return "not a nameserver for this zone"
	default:
		return fmt.Sprintf("Reason(%d)", r)
	}
}

// Decision is the outcome of classifying one zone against one nameserver.
// Pure value type, produced and consumed within a single classification call.
type Decision struct {
	Included bool
	Reason   Reason
}

// Include returns an inclusion decision with the given reason.
func Include(r Reason) Decision { return Decision{Included: true, Reason: r} }

// Exclude returns an exclusion decision with the given reason.
func Exclude(r Reason) Decision { return Decision{Included: false, Reason: r} }
