// Command rbnmap shows a live bandmap of Reverse Beacon Network CW spots,
// restricted to skimmers near enough that the operator has a chance of
// hearing what they hear. Spots age out, duplicate reports collapse to one
// row per callsign, and rows near the rig's VFO or already in the log are
// highlighted.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"rbnmap/archive"
	"rbnmap/config"
	"rbnmap/dedup"
	"rbnmap/logbook"
	"rbnmap/rbn"
	"rbnmap/rig"
	"rbnmap/roster"
	"rbnmap/store"
	"rbnmap/ui"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.Print()

	// Startup phase: everything here must succeed before any loop starts.
	trusted := buildTrustedSet(cfg)

	if err := store.Preflight(cfg.Spots.DBPath, 2*time.Second); err != nil {
		log.Fatalf("Store: preflight: %v", err)
	}
	spots, err := store.Open(cfg.Spots.DBPath, time.Duration(cfg.Spots.TTLSeconds)*time.Second)
	if err != nil {
		log.Fatalf("Store: %v", err)
	}
	defer spots.Close()

	contacts, err := logbook.Open(cfg.Logbook.DBPath)
	if err != nil {
		log.Fatalf("Logbook: %v", err)
	}
	defer contacts.Close()

	var arch *archive.Writer
	if cfg.Archive.Enabled {
		arch, err = archive.NewWriter(cfg.Archive.Path, cfg.Archive.QueueSize)
		if err != nil {
			log.Fatalf("Archive: %v", err)
		}
		arch.Start()
		defer arch.Stop()
	}

	filters := rbn.NewFilters("CW", trusted, cfg.Operator.GeneralOnly, cfg.Spots.Bands)
	feed := rbn.NewClient(cfg.RBN.Host, cfg.RBN.Port, cfg.Operator.Callsign, filters)
	if err := feed.Connect(); err != nil {
		log.Fatalf("RBN: %v", err)
	}
	defer feed.Stop()

	var renderer ui.Renderer
	if cfg.UI.Mode == "tview" {
		renderer = ui.NewBandmap()
	} else {
		renderer = ui.NewConsole()
	}
	defer renderer.Close()

	app := &app{
		cfg:      cfg,
		spots:    spots,
		contacts: contacts,
		feed:     feed,
		rig:      rig.NewClient(cfg.Rig.Host, cfg.Rig.Port),
		arch:     arch,
		dedupe:   dedup.New(time.Duration(cfg.Dedup.WindowSeconds) * time.Second),
		renderer: renderer,
	}

	// The three loops run for the process lifetime; fatal store errors are the
	// only way any of them ends early.
	fatal := make(chan error, 2)
	go app.ingestLoop(fatal)
	go app.pollVFOLoop()
	go app.renderLoop(fatal)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigs:
		log.Printf("Received %s, shutting down", sig)
	case err := <-fatal:
		renderer.Close()
		log.Fatalf("Fatal: %v", err)
	}
}

// loadConfig layers CLI flags over the YAML file over the defaults, mirroring
// the flag surface the bandmap has always had.
func loadConfig(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("rbnmap", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "path to YAML config file")
		call       = fs.String("call", "", "your callsign")
		grid       = fs.String("mygrid", "", "your gridsquare")
		distance   = fs.Float64("distance", 0, "radius in miles from you to spotter")
		general    = fs.Bool("general", false, "limit spots to the General portion of the band")
		age        = fs.Int("age", 0, "drop spots older than this many seconds")
		rbnHost    = fs.String("rbn", "", "RBN server hostname")
		rbnPort    = fs.Int("rbnport", 0, "RBN server port")
		bands      = fs.String("bands", "", "space separated list of bands to show")
		flrigHost  = fs.String("flrighost", "", "hostname/IP of flrig")
		flrigPort  = fs.Int("flrigport", 0, "flrig port")
		logDB      = fs.String("log", "", "logger database to monitor")
		uiMode     = fs.String("ui", "", "renderer: tview or plain")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if *call != "" {
		cfg.Operator.Callsign = *call
	}
	if *grid != "" {
		cfg.Operator.Grid = strings.ToUpper(*grid)
	}
	if *distance > 0 {
		cfg.Operator.MaxSpotterMiles = *distance
	}
	if *general {
		cfg.Operator.GeneralOnly = true
	}
	if *age > 0 {
		cfg.Spots.TTLSeconds = *age
	}
	if *rbnHost != "" {
		cfg.RBN.Host = *rbnHost
	}
	if *rbnPort > 0 {
		cfg.RBN.Port = *rbnPort
	}
	if *bands != "" {
		cfg.Spots.Bands = strings.Fields(*bands)
	}
	if *flrigHost != "" {
		cfg.Rig.Host = *flrigHost
	}
	if *flrigPort > 0 {
		cfg.Rig.Port = *flrigPort
	}
	if *logDB != "" {
		cfg.Logbook.DBPath = *logDB
	}
	if *uiMode != "" {
		cfg.UI.Mode = *uiMode
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildTrustedSet fetches the skimmer roster and keeps the close ones. This
// is the one startup dependency the pipeline cannot run without, so any
// failure aborts before the loops start.
func buildTrustedSet(cfg *config.Config) map[string]struct{} {
	fmt.Println("Finding spotters...")
	stations, err := roster.Fetch(cfg.Roster.URL, time.Duration(cfg.Roster.TimeoutSeconds)*time.Second)
	if err != nil {
		log.Fatalf("Roster: %v", err)
	}
	trusted, selected := roster.SelectTrusted(stations, cfg.Operator.Grid, cfg.Operator.MaxSpotterMiles)
	if len(trusted) == 0 {
		log.Fatalf("Roster: no skimmers within %.0f mi of %s; widen the circle",
			cfg.Operator.MaxSpotterMiles, cfg.Operator.Grid)
	}

	fmt.Printf("Spotters within %.0f mi:\n", cfg.Operator.MaxSpotterMiles)
	for _, st := range selected {
		fmt.Printf("  %-11s %-6s %4.0f mi\n", st.Callsign, st.Grid, st.DistanceMiles)
	}
	return trusted
}
