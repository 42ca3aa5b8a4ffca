package status

import "math"

// Load thresholds, in percent. Both comparisons are strict.
const (
	ElevatedThreshold = 60.0
	CriticalThreshold = 80.0
)

// Health is the overall category of a server row.
type Health int

const (
	HealthOK Health = iota
	HealthWarning
	HealthUnhealthy
)

// String returns the health name.
func (h Health) String() string {
	switch h {
	case HealthWarning:
		return "warning"
	case HealthUnhealthy:
		return "unhealthy"
	default:
		return "ok"
	}
}

// Band is the load category of a single metric.
type Band int

const (
	BandNormal Band = iota
	BandElevated
	BandCritical
)

// String returns the band name.
func (b Band) String() string {
	switch b {
	case BandElevated:
		return "elevated"
	case BandCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Classification is the display category for one server.
type Classification struct {
	Health  Health
	CPUBand Band
	MemBand Band
	// CPUFill and MemFill are bar proportions in [0,1].
	CPUFill float64
	MemFill float64
}

// Classify maps a server record to its display categories. It is pure and
// total: out-of-range and NaN metrics are tolerated.
func Classify(r ServerRecord) Classification {
	return Classification{
		Health:  ClassifyHealth(r),
		CPUBand: LoadBand(r.CPUUsage),
		MemBand: LoadBand(r.MemUsage),
		CPUFill: Fill(r.CPUUsage),
		MemFill: Fill(r.MemUsage),
	}
}

// ClassifyHealth returns unhealthy when the server says so, warning when
// either metric is above the critical threshold, ok otherwise.
func ClassifyHealth(r ServerRecord) Health {
	if !r.Healthy {
		return HealthUnhealthy
	}
	if r.CPUUsage > CriticalThreshold || r.MemUsage > CriticalThreshold {
		return HealthWarning
	}
	return HealthOK
}

// LoadBand buckets a percentage. NaN is normal.
func LoadBand(value float64) Band {
	switch {
	case value > CriticalThreshold:
		return BandCritical
	case value > ElevatedThreshold:
		return BandElevated
	default:
		return BandNormal
	}
}

// Fill clamps a percentage to [0,100] and scales it to [0,1]. NaN is 0.
func Fill(value float64) float64 {
	if math.IsNaN(value) || value <= 0 {
		return 0
	}
	if value >= 100 {
		return 1
	}
	return value / 100
}
