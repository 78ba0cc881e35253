// Package ingest reads observation segments from the formats produced by the
// light-curve export tools: CSV tables and msgpack segment bundles.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chrissnell/transitsearch/internal/lightcurve"
)

// Accepted header names, compared case-insensitively
var (
	timeColumns    = []string{"time", "btjd"}
	fluxColumns    = []string{"pdcsap_flux", "flux", "sap_flux"}
	qualityColumns = []string{"quality"}
)

// ReadCSV reads one segment from a CSV table with a header row. A time and a
// flux column are required; the quality column is optional. Empty or "nan"
// flux cells become NaN so the quality filter drops them.
func ReadCSV(r io.Reader, name string) (lightcurve.Segment, error) {
	seg := lightcurve.Segment{Name: name}

	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return seg, nil
	}
	if err != nil {
		return seg, fmt.Errorf("failed to read CSV header: %w", err)
	}

	timeIdx := findColumn(header, timeColumns)
	fluxIdx := findColumn(header, fluxColumns)
	qualityIdx := findColumn(header, qualityColumns)
	if timeIdx < 0 || fluxIdx < 0 {
		return seg, fmt.Errorf("CSV header %v needs a time and a flux column", header)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return seg, fmt.Errorf("failed to read CSV row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		t, err := strconv.ParseFloat(strings.TrimSpace(record[timeIdx]), 64)
		if err != nil {
			return seg, fmt.Errorf("line %d: invalid time %q: %w", line, record[timeIdx], err)
		}

		flux := math.NaN()
		if cell := strings.TrimSpace(record[fluxIdx]); cell != "" {
			flux, err = strconv.ParseFloat(cell, 64)
			if err != nil {
				return seg, fmt.Errorf("line %d: invalid flux %q: %w", line, cell, err)
			}
		}

		var quality uint64
		if qualityIdx >= 0 {
			if cell := strings.TrimSpace(record[qualityIdx]); cell != "" {
				quality, err = strconv.ParseUint(cell, 0, 32)
				if err != nil {
					return seg, fmt.Errorf("line %d: invalid quality %q: %w", line, cell, err)
				}
			}
		}

		seg.Samples = append(seg.Samples, lightcurve.Sample{
			Time:    t,
			Flux:    flux,
			Quality: uint32(quality),
		})
	}

	return seg, nil
}

// WriteCSV writes seg as a CSV table readable by ReadCSV
func WriteCSV(w io.Writer, seg lightcurve.Segment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"TIME", "PDCSAP_FLUX", "QUALITY"}); err != nil {
		return err
	}
	for _, s := range seg.Samples {
		record := []string{
			strconv.FormatFloat(s.Time, 'f', -1, 64),
			strconv.FormatFloat(s.Flux, 'g', -1, 64),
			strconv.FormatUint(uint64(s.Quality), 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// findColumn returns the index of the first header matching one of names, in
// the order names are listed, or -1.
func findColumn(header []string, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}
