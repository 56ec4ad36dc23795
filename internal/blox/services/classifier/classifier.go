// Package classifier decides, for one zone and one nameserver, whether the
// nameserver is authorized to serve the zone. Pure logic, no I/O.
package classifier

import (
	"github.com/kirei/blox/internal/blox/config"
	"github.com/kirei/blox/internal/blox/domain"
)

// Classify evaluates the eligibility rules in precedence order; the first
// rule that fires decides.
//
// The primary and secondary lists must be scanned in list order: a stealth
// entry excludes the zone outright, even when the requested host appears
// later in the same list as a regular entry. Checking stealth only on the
// matched entry would change observable behavior.
func Classify(zone domain.ZoneRecord, ns config.Nameserver) domain.Decision {
	if !zone.Enabled {
		return domain.Exclude(domain.ReasonDisabled)
	}
	if !zone.Kind.IsSupported() {
		return domain.Exclude(domain.ReasonUnsupportedKind)
	}

	// Group membership is a positive signal only. A zone with a group this
	// host is not in still gets its primary/secondary lists scanned.
	if zone.NSGroup != "" {
		if _, ok := ns.GroupSet()[zone.NSGroup]; ok {
			return domain.Include(domain.ReasonGroupMatch)
		}
	}

	for _, p := range zone.ExternalPrimaries {
		if p.Stealth {
			return domain.Exclude(domain.ReasonStealthPrimary)
		}
		if p.Name == ns.Hostname {
			return domain.Include(domain.ReasonExternalPrimary)
		}
	}

	for _, s := range zone.ExternalSecondaries {
		if s.Stealth {
			return domain.Exclude(domain.ReasonStealthSecondary)
		}
		if s.Name == ns.Hostname {
			return domain.Include(domain.ReasonExternalSecondary)
		}
	}

	return domain.Exclude(domain.ReasonNoMatch)
}
