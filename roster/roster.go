// Package roster fetches the list of currently active skimmer stations from
// the Reverse Beacon Network status page and selects the subset close enough
// to the operator to be worth trusting. The fetch happens once at startup;
// a failure here is fatal because no trusted-spotter set can be built.
package roster

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"

	"rbnmap/maidenhead"
)

// Station is one active skimmer from the roster.
type Station struct {
	Callsign      string
	Grid          string
	DistanceMiles float64 // filled in by SelectTrusted
}

// Fetch downloads and parses the skimmer status page.
func Fetch(url string, timeout time.Duration) ([]Station, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient.Timeout = timeout
	client.Logger = nil

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("roster: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("roster: fetch %s: status %d", url, resp.StatusCode)
	}

	return parseStations(resp.Body)
}

// parseStations extracts (callsign, grid) pairs from the status page's
// "online" table rows. Rows missing either column are skipped.
func parseStations(r io.Reader) ([]Station, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("roster: parse page: %w", err)
	}

	var stations []Station
	doc.Find("tr.online").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		callsign := strings.TrimSpace(cells.Eq(0).Find("a").First().Text())
		grid := strings.TrimSpace(cells.Eq(2).Text())
		if callsign == "" || grid == "" {
			return
		}
		stations = append(stations, Station{Callsign: callsign, Grid: grid})
	})

	if len(stations) == 0 {
		return nil, fmt.Errorf("roster: no online skimmers found in page")
	}
	return stations, nil
}

// SelectTrusted returns the skimmers strictly closer than maxMiles to the
// operator's grid, keyed by callsign. The annotated slice of selected
// stations is returned alongside for startup logging.
func SelectTrusted(stations []Station, homeGrid string, maxMiles float64) (map[string]struct{}, []Station) {
	trusted := make(map[string]struct{})
	var selected []Station
	for _, st := range stations {
		d := maidenhead.DistanceMiles(st.Grid, homeGrid)
		if d < maxMiles {
			st.DistanceMiles = d
			trusted[st.Callsign] = struct{}{}
			selected = append(selected, st)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].DistanceMiles < selected[j].DistanceMiles
	})
	return trusted, selected
}
