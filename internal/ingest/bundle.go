package ingest

import (
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrissnell/transitsearch/internal/lightcurve"
)

// BundleVersion is the current bundle layout
const BundleVersion = 1

// Bundle is a set of segments for one target saved as msgpack
type Bundle struct {
	Version  int             `msgpack:"version"`
	Target   string          `msgpack:"target"`
	Created  time.Time       `msgpack:"created"`
	Segments []SegmentRecord `msgpack:"segments"`
}

// SegmentRecord stores a segment as parallel columns
type SegmentRecord struct {
	Name    string    `msgpack:"name"`
	Time    []float64 `msgpack:"time"`
	Flux    []float64 `msgpack:"flux"`
	Quality []uint32  `msgpack:"quality"`
}

// NewBundle builds a bundle from segments
func NewBundle(target string, segs []lightcurve.Segment) *Bundle {
	b := &Bundle{
		Version:  BundleVersion,
		Target:   target,
		Created:  time.Now().UTC(),
		Segments: make([]SegmentRecord, len(segs)),
	}
	for i, seg := range segs {
		rec := SegmentRecord{
			Name:    seg.Name,
			Time:    make([]float64, seg.Len()),
			Flux:    make([]float64, seg.Len()),
			Quality: make([]uint32, seg.Len()),
		}
		for j, s := range seg.Samples {
			rec.Time[j] = s.Time
			rec.Flux[j] = s.Flux
			rec.Quality[j] = s.Quality
		}
		b.Segments[i] = rec
	}
	return b
}

// SegmentsOf converts the bundle back into segments
func (b *Bundle) SegmentsOf() ([]lightcurve.Segment, error) {
	segs := make([]lightcurve.Segment, len(b.Segments))
	for i, rec := range b.Segments {
		n := len(rec.Time)
		if len(rec.Flux) != n || (len(rec.Quality) != n && len(rec.Quality) != 0) {
			return nil, fmt.Errorf("segment %q has mismatched columns (time %d, flux %d, quality %d)",
				rec.Name, n, len(rec.Flux), len(rec.Quality))
		}
		seg := lightcurve.Segment{Name: rec.Name, Samples: make([]lightcurve.Sample, n)}
		for j := 0; j < n; j++ {
			seg.Samples[j] = lightcurve.Sample{Time: rec.Time[j], Flux: rec.Flux[j]}
			if len(rec.Quality) == n {
				seg.Samples[j].Quality = rec.Quality[j]
			}
		}
		segs[i] = seg
	}
	return segs, nil
}

// WriteBundle encodes b to w
func WriteBundle(w io.Writer, b *Bundle) error {
	return msgpack.NewEncoder(w).Encode(b)
}

// ReadBundle decodes a bundle from r
func ReadBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := msgpack.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode segment bundle: %w", err)
	}
	if b.Version != BundleVersion {
		return nil, fmt.Errorf("unsupported bundle version %d", b.Version)
	}
	return &b, nil
}
