package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/chrissnell/transitsearch/internal/lightcurve"
	"github.com/chrissnell/transitsearch/internal/log"
)

// Loader reads segments from files and directories
type Loader struct {
	logger *zap.SugaredLogger
}

// NewLoader creates a Loader
func NewLoader(logger *zap.SugaredLogger) *Loader {
	return &Loader{logger: log.OrNop(logger)}
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func isBundle(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		return true
	}
	return false
}

// Load reads every path in order. A directory contributes its CSV and bundle
// files in name order; other files in it are ignored.
func (l *Loader) Load(paths ...string) ([]lightcurve.Segment, error) {
	var segs []lightcurve.Segment
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			s, err := l.LoadFile(p)
			if err != nil {
				return nil, err
			}
			segs = append(segs, s...)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, e := range entries {
			full := filepath.Join(p, e.Name())
			if e.IsDir() || !(isCSV(full) || isBundle(full)) {
				l.logger.Debugw("ignoring file", "path", full)
				continue
			}
			s, err := l.LoadFile(full)
			if err != nil {
				return nil, err
			}
			segs = append(segs, s...)
		}
	}

	l.logger.Infow("segments loaded", "segments", len(segs), "paths", len(paths))
	return segs, nil
}

// LoadFile reads one CSV segment or every segment of a bundle
func (l *Loader) LoadFile(path string) ([]lightcurve.Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch {
	case isCSV(path):
		seg, err := ReadCSV(f, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		l.logger.Debugw("read CSV segment", "path", path, "samples", seg.Len())
		return []lightcurve.Segment{seg}, nil

	case isBundle(path):
		b, err := ReadBundle(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		segs, err := b.SegmentsOf()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		l.logger.Debugw("read segment bundle", "path", path, "target", b.Target, "segments", len(segs))
		return segs, nil
	}

	return nil, fmt.Errorf("%s: unsupported file type %q", path, filepath.Ext(path))
}
