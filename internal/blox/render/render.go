// Package render turns a nameserver's eligible zone list into the textual
// secondary-zone configuration for that server's dialect.
package render

import (
	"fmt"
	"strings"

	"github.com/kirei/blox/internal/blox/config"
)

// Zone is one eligible zone ready for rendering.
type Zone struct {
	// OriginalName is the zone identity as the management system reports it,
	// emitted as a comment above the block.
	OriginalName string
	// Domain is the canonical domain name for directives and file paths.
	Domain string
}

// DataFile builds the per-zone data file reference under dir. Only the first
// path separator in the domain is replaced with an underscore; later ones
// are kept as is.
func DataFile(dir, domain string) string {
	return dir + "/" + strings.Replace(domain, "/", "_", 1)
}

// Render emits one config block per zone, in the order given. Zone order is
// the management system's order; rendering never sorts. Output is a pure
// function of its inputs, so rerunning on the same zone list yields
// byte-identical text.
func Render(format Format, zones []Zone, ns config.Nameserver) (string, error) {
	var b strings.Builder
	for _, z := range zones {
		dataFile := DataFile(ns.Path, z.Domain)
		switch format {
		case FormatBind:
			writeBindZone(&b, z, dataFile, ns)
		case FormatNSD:
			writeNSDZone(&b, z, dataFile, ns)
		default:
			return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
	}
	return b.String(), nil
}

func writeBindZone(b *strings.Builder, z Zone, dataFile string, ns config.Nameserver) {
	master := ns.Master
	if ns.TSIGKey != "" {
		master = fmt.Sprintf("%s key %s", ns.Master, ns.TSIGKey)
	}
	fmt.Fprintf(b, "# %s\n", z.OriginalName)
	fmt.Fprintf(b, "zone \"%s\" {\n", z.Domain)
	fmt.Fprintf(b, "\ttype slave;\n")
	fmt.Fprintf(b, "\tfile \"%s\";\n", dataFile)
	fmt.Fprintf(b, "\tmasters { %s; };\n", master)
	fmt.Fprintf(b, "};\n\n")
}

func writeNSDZone(b *strings.Builder, z Zone, dataFile string, ns config.Nameserver) {
	// nsd wants an explicit NOKEY marker when transfers are unauthenticated.
	key := ns.TSIGKey
	if key == "" {
		key = "NOKEY"
	}
	fmt.Fprintf(b, "# %s\n", z.OriginalName)
	fmt.Fprintf(b, "zone:\n")
	fmt.Fprintf(b, "\tname: \"%s\"\n", z.Domain)
	fmt.Fprintf(b, "\tzonefile: \"%s\"\n", dataFile)
	fmt.Fprintf(b, "\tallow-notify: %s %s\n", ns.Master, key)
	fmt.Fprintf(b, "\trequest-xfr: %s %s\n", ns.Master, key)
	b.WriteString("\n")
}
