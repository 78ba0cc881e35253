package restserver

import (
	"github.com/chrissnell/transitsearch/internal/bls"
	"github.com/chrissnell/transitsearch/internal/storage"
)

// RunList is the body of GET /runs
type RunList struct {
	Count int           `json:"count"`
	Runs  []storage.Run `json:"runs"`
}

// PeriodogramPoint is one candidate period of a stored search
type PeriodogramPoint struct {
	Period   float64 `json:"period"`
	Duration float64 `json:"duration"`
	Power    float64 `json:"power"`
	T0       float64 `json:"t0"`
	Depth    float64 `json:"depth"`
}

// Periodogram is the body of GET /runs/{id}/periodogram
type Periodogram struct {
	RunID  string             `json:"run_id"`
	Points []PeriodogramPoint `json:"points"`
}

func transformPeriodogram(id string, pg []bls.PeriodPower) Periodogram {
	out := Periodogram{RunID: id, Points: make([]PeriodogramPoint, len(pg))}
	for i, p := range pg {
		out.Points[i] = PeriodogramPoint{
			Period:   p.Period,
			Duration: p.Duration,
			Power:    p.Power,
			T0:       p.T0,
			Depth:    p.Depth,
		}
	}
	return out
}
