// Package infoblox fetches authoritative zone records from an Infoblox-style
// WAPI endpoint and maps them into domain zone records. It is the only part
// of blox that talks to the network.
package infoblox

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kirei/blox/internal/blox/common/log"
	"github.com/kirei/blox/internal/blox/domain"
)

const (
	wapiVersion = "v2.10"

	// returnFields is the field selection sent with every zone query.
	returnFields = "fqdn,zone_format,ns_group,external_primaries,external_secondaries,disable"

	defaultTimeout = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	// required parameters
	Host     string
	Username string
	Password string

	// optional parameters
	Port               int           // defaults to 443
	Timeout            time.Duration // defaults to 30s
	InsecureSkipVerify bool
	Logger             log.Logger

	// BaseURL overrides the https://host:port/wapi/<version> base entirely.
	// Exists so tests can point the client at a local server.
	BaseURL string
}

// Client is a synchronous WAPI client. A network failure or non-success
// response is fatal for the whole run; the client never retries.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     log.Logger
}

// New validates the options and returns a ready Client.
func New(opts Options) (*Client, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("no management system host provided")
	}
	if opts.Username == "" || opts.Password == "" {
		return nil, fmt.Errorf("management system credentials are required")
	}
	port := opts.Port
	if port == 0 {
		port = 443
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	transport := http.DefaultTransport
	if opts.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s:%d/wapi/%s", opts.Host, port, wapiVersion)
	}

	return &Client{
		baseURL:  baseURL,
		username: opts.Username,
		password: opts.Password,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}, nil
}

// wireExternalNS is one entry of external_primaries / external_secondaries
// as the WAPI returns it.
type wireExternalNS struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Stealth bool   `json:"stealth"`
}

// wireZone is the zone_auth object shape for the fields we select.
type wireZone struct {
	FQDN                string           `json:"fqdn"`
	ZoneFormat          string           `json:"zone_format"`
	NSGroup             string           `json:"ns_group"`
	ExternalPrimaries   []wireExternalNS `json:"external_primaries"`
	ExternalSecondaries []wireExternalNS `json:"external_secondaries"`
	Disable             bool             `json:"disable"`
}

// FetchZones retrieves every authoritative zone in the given view, in the
// order the management system returns them. That order is preserved all the
// way into the rendered output.
func (c *Client) FetchZones(ctx context.Context, view string) ([]domain.ZoneRecord, error) {
	query := url.Values{}
	query.Set("view", view)
	query.Set("_return_fields", returnFields)

	reqURL := fmt.Sprintf("%s/zone_auth?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error initiating zone request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching zones: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error fetching zones: unexpected status %s", resp.Status)
	}

	var wireZones []wireZone
	if err := json.NewDecoder(resp.Body).Decode(&wireZones); err != nil {
		return nil, fmt.Errorf("error decoding zone response: %w", err)
	}

	records := make([]domain.ZoneRecord, 0, len(wireZones))
	for _, wz := range wireZones {
		records = append(records, wz.toDomain())
	}

	c.logger.Debug(map[string]any{
		"view":  view,
		"zones": len(records),
	}, "fetched zones from management system")

	return records, nil
}

// toDomain maps one wire zone onto the domain record. Unknown zone formats
// map to ZoneKindUnknown and are excluded downstream rather than erroring
// here.
func (wz wireZone) toDomain() domain.ZoneRecord {
	return domain.ZoneRecord{
		Name:                wz.FQDN,
		Kind:                domain.ParseZoneKind(wz.ZoneFormat),
		Enabled:             !wz.Disable,
		NSGroup:             wz.NSGroup,
		ExternalPrimaries:   toDomainNS(wz.ExternalPrimaries),
		ExternalSecondaries: toDomainNS(wz.ExternalSecondaries),
	}
}

// toDomainNS maps external server entries, falling back to the address when
// an entry carries no name.
func toDomainNS(wire []wireExternalNS) []domain.ExternalNS {
	if len(wire) == 0 {
		return nil
	}
	out := make([]domain.ExternalNS, 0, len(wire))
	for _, w := range wire {
		name := w.Name
		if name == "" {
			name = w.Address
		}
		out = append(out, domain.ExternalNS{Name: name, Stealth: w.Stealth})
	}
	return out
}
