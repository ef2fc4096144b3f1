package spot

// BandUnclassified is the sentinel label for frequencies outside every band.
const BandUnclassified = "0"

// bandRange is a half-open frequency interval [Min, Max) in kHz.
type bandRange struct {
	Name string
	Min  float64
	Max  float64
}

// bandTable maps HF through VHF amateur allocations to their meter-band
// labels. Ranges are disjoint so every frequency classifies to exactly one
// label (or BandUnclassified).
var bandTable = []bandRange{
	{Name: "160", Min: 1800, Max: 2000},
	{Name: "80", Min: 3500, Max: 4000},
	{Name: "60", Min: 5330, Max: 5406},
	{Name: "40", Min: 7000, Max: 7300},
	{Name: "30", Min: 10100, Max: 10150},
	{Name: "20", Min: 14000, Max: 14350},
	{Name: "17", Min: 18068, Max: 18168},
	{Name: "15", Min: 21000, Max: 21450},
	{Name: "12", Min: 24890, Max: 24990},
	{Name: "10", Min: 28000, Max: 29700},
	{Name: "6", Min: 50000, Max: 54000},
	{Name: "2", Min: 144000, Max: 148000},
}

// generalTable lists the General-class CW/data sub-band portions in kHz.
// A frequency outside every listed range is not authorized.
var generalTable = [][2]float64{
	{1800, 2000},
	{3525, 3600},
	{3800, 4000},
	{7025, 7125},
	{7175, 7300},
	{10100, 10150},
	{14025, 14150},
	{14225, 14350},
	{18068, 18168},
	{21025, 21200},
	{21275, 21450},
	{24890, 24990},
	{28000, 29700},
	{50000, 54000},
}

// BandOf classifies a frequency in kHz into a band label, or
// BandUnclassified when it falls outside every known band.
func BandOf(freqKHz float64) string {
	for _, b := range bandTable {
		if freqKHz >= b.Min && freqKHz < b.Max {
			return b.Name
		}
	}
	return BandUnclassified
}

// InGeneralSubBand reports whether a frequency in kHz lies inside the
// General-class portion of its band.
func InGeneralSubBand(freqKHz float64) bool {
	for _, r := range generalTable {
		if freqKHz >= r[0] && freqKHz < r[1] {
			return true
		}
	}
	return false
}

// SupportedBandNames returns the labels of all tracked bands in ascending
// frequency order.
func SupportedBandNames() []string {
	names := make([]string, len(bandTable))
	for i, b := range bandTable {
		names[i] = b.Name
	}
	return names
}

// IsValidBand reports whether label names a tracked band.
func IsValidBand(label string) bool {
	for _, b := range bandTable {
		if b.Name == label {
			return true
		}
	}
	return false
}
