package infoblox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirei/blox/internal/blox/domain"
)

const zoneBody = `[
	{
		"fqdn": "example.org",
		"zone_format": "FORWARD",
		"ns_group": "sec-group",
		"disable": false
	},
	{
		"fqdn": "192.0.2.0/24",
		"zone_format": "IPV4",
		"external_primaries": [
			{"address": "192.0.2.10", "name": "hidden.example.org", "stealth": true}
		],
		"external_secondaries": [
			{"address": "192.0.2.53", "name": "ns1.example.org", "stealth": false}
		],
		"disable": false
	},
	{
		"fqdn": "old.example.org",
		"zone_format": "FORWARD",
		"disable": true
	},
	{
		"fqdn": "example.net",
		"zone_format": "STUB",
		"disable": false
	},
	{
		"fqdn": "nameless.example.org",
		"zone_format": "FORWARD",
		"external_primaries": [{"address": "192.0.2.20", "stealth": false}],
		"disable": false
	}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Options{
		Host:     "ipam.example.org",
		Username: "blox",
		Password: "hunter2",
		BaseURL:  server.URL,
	})
	require.NoError(t, err)
	return client
}

func TestFetchZones(t *testing.T) {
	var gotReq *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(zoneBody))
	})

	zones, err := client.FetchZones(context.Background(), "default")
	require.NoError(t, err)

	// Request shape: object path, view filter, field selection, basic auth.
	require.NotNil(t, gotReq)
	assert.Equal(t, "/zone_auth", gotReq.URL.Path)
	assert.Equal(t, "default", gotReq.URL.Query().Get("view"))
	assert.Equal(t, returnFields, gotReq.URL.Query().Get("_return_fields"))
	user, pass, ok := gotReq.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "blox", user)
	assert.Equal(t, "hunter2", pass)

	require.Len(t, zones, 5)

	assert.Equal(t, domain.ZoneRecord{
		Name:    "example.org",
		Kind:    domain.ZoneKindForward,
		Enabled: true,
		NSGroup: "sec-group",
	}, zones[0])

	reverse := zones[1]
	assert.Equal(t, domain.ZoneKindReverseIPv4, reverse.Kind)
	require.Len(t, reverse.ExternalPrimaries, 1)
	assert.True(t, reverse.ExternalPrimaries[0].Stealth)
	require.Len(t, reverse.ExternalSecondaries, 1)
	assert.Equal(t, "ns1.example.org", reverse.ExternalSecondaries[0].Name)

	// disable maps to Enabled=false.
	assert.False(t, zones[2].Enabled)

	// Unknown zone_format becomes ZoneKindUnknown, not an error.
	assert.Equal(t, domain.ZoneKindUnknown, zones[3].Kind)

	// Entries without a name fall back to the address.
	require.Len(t, zones[4].ExternalPrimaries, 1)
	assert.Equal(t, "192.0.2.20", zones[4].ExternalPrimaries[0].Name)
}

func TestFetchZones_PreservesOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(zoneBody))
	})
	zones, err := client.FetchZones(context.Background(), "default")
	require.NoError(t, err)

	want := []string{"example.org", "192.0.2.0/24", "old.example.org", "example.net", "nameless.example.org"}
	for i, zone := range zones {
		assert.Equal(t, want[i], zone.Name)
	}
}

func TestFetchZones_NonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
	_, err := client.FetchZones(context.Background(), "default")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetchZones_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})
	_, err := client.FetchZones(context.Background(), "default")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}

func TestFetchZones_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := New(Options{
		Host: "ipam.example.org", Username: "blox", Password: "hunter2", BaseURL: url,
	})
	require.NoError(t, err)

	_, err = client.FetchZones(context.Background(), "default")
	require.Error(t, err)
}

func TestNew_RequiredOptions(t *testing.T) {
	_, err := New(Options{Username: "blox", Password: "hunter2"})
	assert.Error(t, err)

	_, err = New(Options{Host: "ipam.example.org"})
	assert.Error(t, err)

	_, err = New(Options{Host: "ipam.example.org", Username: "blox", Password: "hunter2"})
	assert.NoError(t, err)
}

func TestNew_DefaultBaseURL(t *testing.T) {
	client, err := New(Options{Host: "ipam.example.org", Username: "blox", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "https://ipam.example.org:443/wapi/"+wapiVersion, client.baseURL)

	client, err = New(Options{Host: "ipam.example.org", Port: 8443, Username: "blox", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "https://ipam.example.org:8443/wapi/"+wapiVersion, client.baseURL)
}
