// Package rig queries flrig over XML-RPC for the currently tuned frequency.
// The value is advisory display data only; the poll loop substitutes a zero
// sentinel on any failure and tries again next cycle.
package rig

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const getVFOBody = `<?xml version="1.0"?><methodCall><methodName>rig.get_vfo</methodName><params/></methodCall>`

// Client is a minimal XML-RPC client for flrig, covering only rig.get_vfo.
type Client struct {
	url  string
	http *http.Client
}

// NewClient targets the flrig server at host:port.
func NewClient(host string, port int) *Client {
	return &Client{
		url:  fmt.Sprintf("http://%s:%d/RPC2", host, port),
		http: &http.Client{Timeout: 2 * time.Second},
	}
}

// methodResponse models the subset of the XML-RPC response we care about.
// flrig returns the VFO as a string of digits (Hz), but other servers answer
// with <double> or <int>, so all three encodings are accepted.
type methodResponse struct {
	XMLName xml.Name `xml:"methodResponse"`
	Value   rpcValue `xml:"params>param>value"`
}

type rpcValue struct {
	String *string  `xml:"string"`
	Double *float64 `xml:"double"`
	Int    *int64   `xml:"int"`
	I4     *int64   `xml:"i4"`
	Raw    string   `xml:",chardata"`
}

// VFOKHz asks flrig for the active VFO and converts it from Hz to kHz.
func (c *Client) VFOKHz() (float64, error) {
	resp, err := c.http.Post(c.url, "text/xml", strings.NewReader(getVFOBody))
	if err != nil {
		return 0, fmt.Errorf("rig: get_vfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rig: get_vfo: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return 0, fmt.Errorf("rig: read response: %w", err)
	}

	hz, err := parseVFOResponse(body)
	if err != nil {
		return 0, err
	}
	return hz / 1000, nil
}

func parseVFOResponse(body []byte) (float64, error) {
	var mr methodResponse
	if err := xml.Unmarshal(body, &mr); err != nil {
		return 0, fmt.Errorf("rig: parse response: %w", err)
	}

	v := mr.Value
	switch {
	case v.Double != nil:
		return *v.Double, nil
	case v.Int != nil:
		return float64(*v.Int), nil
	case v.I4 != nil:
		return float64(*v.I4), nil
	case v.String != nil:
		return parseFreq(*v.String)
	default:
		// An untyped <value> is a string per the XML-RPC spec.
		return parseFreq(v.Raw)
	}
}

func parseFreq(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("rig: unparsable frequency %q: %w", s, err)
	}
	return f, nil
}
