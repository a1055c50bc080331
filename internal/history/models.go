// Package history persists minification runs in a local sqlite database so
// size trends remain inspectable across invocations.
package history

import "time"

const SchemaVersion = 1

// Run is one completed minification of an entry file.
type Run struct {
	ID                 string
	ProjectKey         string
	SchemaVersion      int
	Timestamp          time.Time
	Source             string
	BytesIn            int64
	BytesOut           int64
	BindingRenames     int
	DeclarationRenames int
	Duration           time.Duration
}

// SavedBytes is the size the run shaved off.
func (r Run) SavedBytes() int64 {
	return r.BytesIn - r.BytesOut
}

// SavedPct is the shaved share of the input, 0..100.
func (r Run) SavedPct() float64 {
	if r.BytesIn == 0 {
		return 0
	}
	return float64(r.SavedBytes()) / float64(r.BytesIn) * 100
}

// TrendPoint is one run annotated with deltas against its predecessor.
type TrendPoint struct {
	Timestamp     time.Time
	Source        string
	BytesIn       int64
	BytesOut      int64
	SavedBytes    int64
	SavedPct      float64
	DeltaBytesOut int64
	DeltaSavedPct float64
	RenameCount   int
	AvgSavedPct   float64
	WindowHours   float64
}

// TrendReport summarizes a project's runs over a window.
type TrendReport struct {
	SchemaVersion int
	Since         time.Time
	Until         time.Time
	Window        string
	RunCount      int
	Points        []TrendPoint
}
