package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/transitsearch/internal/ingest"
	"github.com/chrissnell/transitsearch/internal/lightcurve"
)

func writeBundle(path, target string, segs []lightcurve.Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ingest.WriteBundle(f, ingest.NewBundle(target, segs)); err != nil {
		f.Close()
		return fmt.Errorf("error writing bundle: %w", err)
	}
	return f.Close()
}

func writeCSVFiles(dir string, segs []lightcurve.Segment) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, seg := range segs {
		f, err := os.Create(filepath.Join(dir, seg.Name+".csv"))
		if err != nil {
			return err
		}
		if err := ingest.WriteCSV(f, seg); err != nil {
			f.Close()
			return fmt.Errorf("error writing %s: %w", seg.Name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
