package roster

import (
	"strings"
	"testing"
)

const statusPage = `
<html><body><table>
<tr class="online">
  <td><a href="/spotter?id=1">K1AB</a></td>
  <td>14 MHz</td>
  <td>FN42</td>
</tr>
<tr class="online">
  <td><a href="/spotter?id=2">W6XYZ</a></td>
  <td>7, 14 MHz</td>
  <td>DM13</td>
</tr>
<tr class="offline">
  <td><a href="/spotter?id=3">VK2GONE</a></td>
  <td>21 MHz</td>
  <td>QF56</td>
</tr>
<tr class="online">
  <td><a href="/spotter?id=4">N0GRID</a></td>
  <td>14 MHz</td>
  <td></td>
</tr>
</table></body></html>
`

func TestParseStations(t *testing.T) {
	stations, err := parseStations(strings.NewReader(statusPage))
	if err != nil {
		t.Fatalf("parseStations: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("got %d stations, want 2 (offline and gridless rows skipped): %+v", len(stations), stations)
	}
	if stations[0].Callsign != "K1AB" || stations[0].Grid != "FN42" {
		t.Errorf("stations[0] = %+v", stations[0])
	}
	if stations[1].Callsign != "W6XYZ" || stations[1].Grid != "DM13" {
		t.Errorf("stations[1] = %+v", stations[1])
	}
}

func TestParseStationsEmptyPage(t *testing.T) {
	if _, err := parseStations(strings.NewReader("<html><body></body></html>")); err == nil {
		t.Fatal("expected error for page with no online skimmers")
	}
}

func TestSelectTrustedFiltersCrossCountrySpotters(t *testing.T) {
	stations := []Station{
		{Callsign: "K1AB", Grid: "FN42"},
		{Callsign: "W6XYZ", Grid: "DM13"},
	}
	trusted, selected := SelectTrusted(stations, "DM13AT", 500)

	if _, ok := trusted["K1AB"]; ok {
		t.Error("K1AB (New England) should be outside a 500 mi circle around DM13AT")
	}
	if _, ok := trusted["W6XYZ"]; !ok {
		t.Error("W6XYZ (co-located cell) should be trusted")
	}
	if len(selected) != 1 || selected[0].Callsign != "W6XYZ" {
		t.Fatalf("selected = %+v, want only W6XYZ", selected)
	}
	if selected[0].DistanceMiles <= 0 || selected[0].DistanceMiles >= 500 {
		t.Errorf("distance = %v, want in (0, 500)", selected[0].DistanceMiles)
	}
}

func TestSelectTrustedBoundaryIsExclusive(t *testing.T) {
	// A station exactly at maxMiles must not be trusted.
	stations := []Station{{Callsign: "HOME", Grid: "DM13AT"}}
	trusted, _ := SelectTrusted(stations, "DM13AT", 0)
	if len(trusted) != 0 {
		t.Fatal("distance 0 with radius 0 should be excluded (strictly-less-than)")
	}
}
