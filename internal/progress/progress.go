// Package progress tracks per-bucket transfer progress and publishes it as
// events. It never moves backwards and never passes the total announced by Start.
package progress

// State is a snapshot of the counters.
type State struct {
	TotalObjects      int64
	TotalBytes        int64
	DownloadedObjects int64
	DownloadedBytes   int64
}

type Event struct {
	Bucket     string
	Current    int64
	Total      int64
	Bytes      int64
	TotalBytes int64
	Done       bool
}

// Percent returns the completed fraction in [0, 1]. An empty bucket is complete.
func (e Event) Percent() float64 {
	if e.Total <= 0 {
		return 1
	}
	return float64(e.Current) / float64(e.Total)
}

// Observer receives every event in emission order.
type Observer func(Event)

type Accumulator struct {
	bucket   string
	observer Observer
	state    State
	started  bool
	done     bool
}

func NewAccumulator(bucket string, observer Observer) *Accumulator {
	return &Accumulator{bucket: bucket, observer: observer}
}

// Start fixes the totals and resets the counters. totalBytes is informational.
func (a *Accumulator) Start(total, totalBytes int64) {
	if total < 0 {
		total = 0
	}
	a.state = State{TotalObjects: total, TotalBytes: totalBytes}
	a.started = true
	a.done = false
	a.emit()
}

// Advance records by processed items and their transferred bytes.
// Calls with by <= 0, before Start or after Finish are ignored.
func (a *Accumulator) Advance(by int64, bytes int64) {
	if !a.started || a.done || by <= 0 {
		return
	}
	a.state.DownloadedObjects += by
	if a.state.DownloadedObjects > a.state.TotalObjects {
		a.state.DownloadedObjects = a.state.TotalObjects
	}
	if bytes > 0 {
		a.state.DownloadedBytes += bytes
	}
	a.emit()
}

// Finish emits the final event at the current position.
func (a *Accumulator) Finish() {
	if !a.started || a.done {
		return
	}
	a.done = true
	a.emit()
}

func (a *Accumulator) State() State {
	return a.state
}

func (a *Accumulator) emit() {
	if a.observer == nil {
		return
	}
	a.observer(Event{
		Bucket:     a.bucket,
		Current:    a.state.DownloadedObjects,
		Total:      a.state.TotalObjects,
		Bytes:      a.state.DownloadedBytes,
		TotalBytes: a.state.TotalBytes,
		Done:       a.done,
	})
}
