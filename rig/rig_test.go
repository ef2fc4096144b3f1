package rig

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
)

func serveVFO(t *testing.T, payload string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/RPC2" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<?xml version="1.0"?><methodResponse><params><param><value>%s</value></param></params></methodResponse>`, payload)
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(u.Hostname(), port)
}

func TestVFOKHzStringValue(t *testing.T) {
	c := serveVFO(t, "<string>14025000</string>")
	khz, err := c.VFOKHz()
	if err != nil {
		t.Fatalf("VFOKHz: %v", err)
	}
	if khz != 14025 {
		t.Fatalf("khz = %v, want 14025", khz)
	}
}

func TestVFOKHzDoubleValue(t *testing.T) {
	c := serveVFO(t, "<double>7030500</double>")
	khz, err := c.VFOKHz()
	if err != nil {
		t.Fatalf("VFOKHz: %v", err)
	}
	if khz != 7030.5 {
		t.Fatalf("khz = %v, want 7030.5", khz)
	}
}

func TestVFOKHzUntypedValue(t *testing.T) {
	c := serveVFO(t, "21040000")
	khz, err := c.VFOKHz()
	if err != nil {
		t.Fatalf("VFOKHz: %v", err)
	}
	if khz != 21040 {
		t.Fatalf("khz = %v, want 21040", khz)
	}
}

func TestVFOKHzUnparsableValue(t *testing.T) {
	c := serveVFO(t, "<string>not a number</string>")
	if _, err := c.VFOKHz(); err == nil {
		t.Fatal("expected error for unparsable frequency")
	}
}

func TestVFOKHzServerDown(t *testing.T) {
	c := NewClient("127.0.0.1", 1) // nothing listens here
	if _, err := c.VFOKHz(); err == nil {
		t.Fatal("expected error when flrig is unreachable")
	}
}
