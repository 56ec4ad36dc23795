// Package config loads and validates the blox run configuration from a YAML
// file, with environment overrides for anything best kept out of the file
// (credentials in particular).
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Nameserver describes one secondary server to generate configuration for.
type Nameserver struct {
	// Hostname is the identity matched against zone primary/secondary lists.
	Hostname string `koanf:"hostname" validate:"required,hostname_rfc1123"`

	// Group and Groups name the nameserver groups this host belongs to.
	// Both are accepted; membership is their union.
	Group  string   `koanf:"group"`
	Groups []string `koanf:"groups"`

	// Format selects the output dialect.
	Format string `koanf:"format" validate:"required,oneof=bind nsd"`

	// Path is the directory the nameserver keeps its zone data files in.
	Path string `koanf:"path" validate:"required"`

	// OutputFile is where the rendered config is written.
	OutputFile string `koanf:"output_file" validate:"required"`

	// Master is the transfer source configured in each zone block.
	Master string `koanf:"master" validate:"required"`

	// TSIGKey optionally names the key used for transfer authentication.
	TSIGKey string `koanf:"tsig_key"`
}

// GroupSet returns the union of Group and Groups as a set.
func (n Nameserver) GroupSet() map[string]struct{} {
	set := make(map[string]struct{}, len(n.Groups)+1)
	if n.Group != "" {
		set[n.Group] = struct{}{}
	}
	for _, g := range n.Groups {
		if g != "" {
			set[g] = struct{}{}
		}
	}
	return set
}

// Source holds the connection parameters for the DNS-management system.
type Source struct {
	Host     string `koanf:"host" validate:"required"`
	Port     int    `koanf:"port" validate:"required,gte=1,lte=65535"`
	View     string `koanf:"view" validate:"required"`
	Username string `koanf:"username" validate:"required"`
	Password string `koanf:"password" validate:"required"`

	// InsecureSkipVerify disables TLS certificate verification. Meant for
	// management systems running on self-signed certificates.
	InsecureSkipVerify bool `koanf:"insecure_skip_verify"`
}

// AppConfig is the full run configuration. Exactly one of Nameserver (the
// single-server shape) or Nameservers (a named map) must be present.
type AppConfig struct {
	Source      Source                `koanf:"source"`
	Nameserver  *Nameserver           `koanf:"nameserver" validate:"omitempty"`
	Nameservers map[string]Nameserver `koanf:"nameservers" validate:"omitempty,dive"`
}

// NamedNameserver pairs a nameserver spec with its configuration key.
type NamedNameserver struct {
	Name string
	Nameserver
}

// Specs normalizes both configuration shapes into one list, sorted
// lexicographically by key so multi-server runs process in a stable order.
func (c *AppConfig) Specs() []NamedNameserver {
	if c.Nameserver != nil {
		return []NamedNameserver{{Name: c.Nameserver.Hostname, Nameserver: *c.Nameserver}}
	}
	keys := make([]string, 0, len(c.Nameservers))
	for k := range c.Nameservers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	specs := make([]NamedNameserver, 0, len(keys))
	for _, k := range keys {
		specs = append(specs, NamedNameserver{Name: k, Nameserver: c.Nameservers[k]})
	}
	return specs
}

// defaultConfig carries the defaults applied before the file and environment
// are read.
var defaultConfig = AppConfig{
	Source: Source{
		Port: 443,
		View: "default",
	},
}

// envLoader loads environment variables with the prefix "BLOX_", lowercasing
// keys and turning the first underscore into the section delimiter, so
// BLOX_SOURCE_PASSWORD overrides source.password. Can be swapped in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "BLOX_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "BLOX_"))
			key = strings.Replace(key, "_", ".", 1)
			value = strings.TrimSpace(value)
			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}
			return key, value
		},
	}), nil)
}

// Load reads the configuration file at path, applies defaults and
// environment overrides, and validates the result.
func Load(path string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error loading config file %s: %w", path, err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if (cfg.Nameserver == nil) == (len(cfg.Nameservers) == 0) {
		return nil, fmt.Errorf("config must define exactly one of nameserver or nameservers")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
