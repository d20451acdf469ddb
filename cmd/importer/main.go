package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"traverse-api/internal/config"
	"traverse-api/internal/export"
	"traverse-api/internal/models"
	"traverse-api/internal/reader"
	"traverse-api/internal/repository"
	"traverse-api/internal/service"
	"traverse-api/internal/traverse"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	file := flag.String("file", "", "Path to the CSV, XLSX or DXF survey file to import")
	name := flag.String("name", "", "Traverse name (defaults to the file name)")
	startX := flag.Float64("start-x", 0, "Start easting")
	startY := flag.Float64("start-y", 0, "Start northing")
	closeLoop := flag.Bool("close", false, "Close the traverse back to the start point")
	dryRun := flag.Bool("dry-run", false, "Adjust and report without storing")
	exportFormat := flag.String("export", "", "Also write an export: csv, xlsx, dxf, geojson or pdf")
	out := flag.String("out", "", "Export output path (defaults to a name derived from the traverse)")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	var format export.Format
	if *exportFormat != "" {
		f, err := export.ParseFormat(*exportFormat)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		format = f
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	table, err := readTable(*file)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d rows\n", len(table.Rows))

	req := models.AdjustRequest{
		Name:      *name,
		Table:     table,
		Start:     models.Coordinate{Easting: *startX, Northing: *startY},
		CloseLoop: *closeLoop,
	}
	if req.Name == "" {
		req.Name = filepath.Base(*file)
	}

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var t *models.Traverse
	if *dryRun {
		t, err = service.NewTraverseService(nil, cfg.CacheTTL).Compute(ctx, req)
	} else {
		t, err = submit(ctx, cfg, req)
	}
	if err != nil {
		var missing *traverse.MissingColumnsError
		if errors.As(err, &missing) {
			fmt.Println("Error: unrecognized table columns")
			fmt.Printf("  observation mode needs: %s\n", strings.Join(missing.Observation, ", "))
			fmt.Printf("  coordinate mode needs:  %s\n", strings.Join(missing.Coordinate, ", "))
			os.Exit(1)
		}
		fmt.Printf("Error adjusting traverse: %v\n", err)
		os.Exit(1)
	}

	printSummary(t)

	if format != "" {
		path := *out
		if path == "" {
			path = format.FileName(t)
		}
		if err := writeExport(path, format, t); err != nil {
			fmt.Printf("Error writing export: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s export to %s\n", format, path)
	}

	if *dryRun {
		fmt.Println("Dry run, nothing stored")
		return
	}
	fmt.Printf("Successfully stored traverse %s\n", t.ID)
}

func readTable(path string) (models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return reader.Read(path, f)
}

func submit(ctx context.Context, cfg config.Config, req models.AdjustRequest) (*models.Traverse, error) {
	// Connect to DB
	conn, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	repo := repository.NewRepository(conn)

	// Ensure tables exist
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}

	return service.NewTraverseService(repo, cfg.CacheTTL).Submit(ctx, req)
}

func printSummary(t *models.Traverse) {
	mode := "observations"
	if t.CoordinateDerived {
		mode = "coordinates"
	}
	fmt.Printf("Adjusted %d legs from %s\n", len(t.Legs), mode)
	for _, g := range t.Groups() {
		fmt.Printf("  %-8s %d legs\n", g.Name, len(g.Legs))
	}
	fmt.Printf("Total distance:    %.3f\n", t.TotalDistance)
	fmt.Printf("Misclosure N/E:    %.4f / %.4f\n", t.Misclosure.North, t.Misclosure.East)
	fmt.Printf("Linear misclosure: %.4f\n", t.LinearMisclosure())
	fmt.Printf("Precision:         %s\n", export.PrecisionLabel(&t.Adjustment))
	if t.ClosingVector != nil {
		fmt.Printf("Closing leg added: %.4f / %.4f\n", t.ClosingVector.North, t.ClosingVector.East)
	}
	if err := t.Check(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	if n := len(t.Legs); n > 0 {
		last := t.Legs[n-1]
		fmt.Printf("End point E/N:     %.4f / %.4f\n", last.FinalEasting, last.FinalNorthing)
	}
}

func writeExport(path string, format export.Format, t *models.Traverse) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := export.Write(format, f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
