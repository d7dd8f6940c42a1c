package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/redshift-manager/internal/config"
	"github.com/mrlokans/redshift-manager/internal/suncalc"
)

// SunTimesCommand prints sunrise, sunset and the resulting night window.
type SunTimesCommand struct {
	Latitude   float64
	Longitude  float64
	Date       string
	ConfigFile string

	Out io.Writer
}

func NewSunTimesCommand() *SunTimesCommand {
	return &SunTimesCommand{Out: os.Stdout}
}

func (cmd *SunTimesCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("sun-times", flag.ContinueOnError)

	fs.Float64Var(&cmd.Latitude, "lat", 0, "Latitude in degrees (defaults to the configured location)")
	fs.Float64Var(&cmd.Longitude, "lon", 0, "Longitude in degrees (defaults to the configured location)")
	fs.StringVar(&cmd.Date, "date", "", "Date as YYYY-MM-DD (default: today)")
	fs.StringVar(&cmd.ConfigFile, "config", cfg.Storage.ConfigFile, "Configuration file to read the location from")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sun-times [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print local sunrise and sunset for a position and date.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s sun-times -lat 51.48 -lon 0 -date 2026-06-21\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Latitude < -90 || cmd.Latitude > 90 || cmd.Longitude < -180 || cmd.Longitude > 180 {
		return fmt.Errorf("coordinates out of range: %v, %v", cmd.Latitude, cmd.Longitude)
	}
	return nil
}

func (cmd *SunTimesCommand) Run() error {
	date := time.Now()
	if cmd.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", cmd.Date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid -date %q: %w", cmd.Date, err)
		}
		date = parsed
	}

	lat, lon := cmd.Latitude, cmd.Longitude
	if lat == 0 && lon == 0 {
		s, err := openStore(cmd.ConfigFile, "", "")
		if err != nil {
			return err
		}
		loc := s.store.Current().Location
		if !loc.IsSet() {
			return fmt.Errorf("no location configured in %s; pass -lat and -lon", cmd.ConfigFile)
		}
		lat, lon = loc.Latitude, loc.Longitude
	}

	times, err := suncalc.Compute(lat, lon, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Date:     %s\n", date.Format("2006-01-02"))
	fmt.Fprintf(cmd.Out, "Location: %.4f, %.4f\n", lat, lon)
	fmt.Fprintf(cmd.Out, "Sunrise:  %s\n", times.Sunrise)
	fmt.Fprintf(cmd.Out, "Sunset:   %s\n", times.Sunset)
	fmt.Fprintf(cmd.Out, "Night:    %s - %s\n", times.Sunset, times.Sunrise)
	return nil
}
