package repository

import "time"

// QueryObserver receives per-query latency, typically the metrics service.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveDBQuery(string, time.Duration) {}

func observerOrNop(o QueryObserver) QueryObserver {
	if o == nil {
		return nopObserver{}
	}
	return o
}

func track(o QueryObserver, label string, start time.Time) {
	o.ObserveDBQuery(label, time.Since(start))
}

// dateParam renders a calendar day for DATE columns without timezone drift.
func dateParam(t time.Time) string {
	return t.Format("2006-01-02")
}
