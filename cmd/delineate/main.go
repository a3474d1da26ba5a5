// Command delineate runs a single watershed delineation from the command
// line: locate the point, walk the flow network upstream, and write the
// matching catchment features.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/cmorran/watershed/pkg/config"
	"github.com/cmorran/watershed/pkg/delineate"
	"github.com/cmorran/watershed/pkg/export"
	"github.com/cmorran/watershed/pkg/fetch"
	"github.com/cmorran/watershed/pkg/logging"
	"github.com/cmorran/watershed/pkg/nhd"
	"github.com/cmorran/watershed/pkg/spatial"
	"github.com/cmorran/watershed/pkg/store"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	lat := flag.Float64("lat", 0, "Latitude of the pour point")
	lon := flag.Float64("lon", 0, "Longitude of the pour point")
	out := flag.String("out", "", "Output GeoJSON path (optional)")
	archive := flag.String("archive", "", "Compressed membership archive path (optional)")
	maxUnits := flag.Int("max-units", 0, "Traversal cap (0 = config default)")
	flag.Parse()

	if *lat == 0 && *lon == 0 {
		fmt.Fprintln(os.Stderr, "usage: delineate -lat <latitude> -lon <longitude> [-config file] [-out file.geojson] [-archive file.bin]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	logger := logging.Default()

	if err := run(*configPath, *lat, *lon, *out, *archive, *maxUnits, logger); err != nil {
		logger.Error("delineation failed", logging.Error(err))
		os.Exit(1)
	}
}

func run(configPath string, lat, lon float64, out, archive string, maxUnits int, logger logging.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if maxUnits == 0 {
		maxUnits = cfg.MaxUnits
	}

	layout := nhd.Layout{Root: cfg.DataRoot}
	point := spatial.Point{Lon: lon, Lat: lat}
	ctx := context.Background()

	var fetcher *fetch.Fetcher
	if cfg.S3.Enabled {
		fetcher, err = fetch.NewFetcher(ctx, cfg.S3.Bucket, cfg.S3.Region, layout, logger)
		if err != nil {
			return err
		}
		if err := fetcher.FetchShared(ctx); err != nil {
			return err
		}
	}

	locator, err := spatial.NewGeoLocator(layout.ZoneBoundaryPath(), cfg.ZoneProperty, cfg.UnitProperty, layout.CatchmentPath)
	if err != nil {
		return err
	}

	// The zone's own layers may still live in S3; resolve the zone first so
	// only that zone's files come down.
	if fetcher != nil {
		zone, err := locator.LocateZone(point)
		if err != nil {
			return err
		}
		if err := fetcher.FetchZone(ctx, zone); err != nil {
			return err
		}
	}

	var source delineate.Source
	if cfg.Source == config.SourcePostgres {
		pg, err := store.NewPGSource(ctx, cfg.DatabaseURL, cfg.TerminalClass)
		if err != nil {
			return err
		}
		defer pg.Close()
		source = pg
	} else {
		source = delineate.FileSource{Layout: layout, TerminalClass: cfg.TerminalClass}
	}

	service := delineate.NewService(source, locator, logger, nil)
	job, err := service.Run(ctx, delineate.Request{Point: point, MaxUnits: maxUnits})
	if err != nil {
		return err
	}

	fmt.Printf("job %s: zone %s, start unit %d, %d upstream units",
		job.ID, job.Zone, job.StartUnit, job.Result.Count())
	if job.Result.Truncated {
		fmt.Print(" (truncated)")
	}
	fmt.Println()

	if archive != "" {
		if err := service.WriteArchive(job, archive); err != nil {
			return err
		}
		fmt.Printf("wrote archive %s\n", archive)
	}

	if out != "" {
		n, err := service.Export(job, layout.CatchmentPath(job.Zone), out, cfg.UnitProperty)
		if err != nil {
			if errors.Is(err, export.ErrEmptyResult) {
				fmt.Println("no catchment features matched; nothing written")
				return nil
			}
			return err
		}
		fmt.Printf("wrote %d features to %s\n", n, out)
	}

	return nil
}
