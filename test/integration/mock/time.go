package mock

import "time"

// Time is a scenario clock: it starts at a chosen instant and keeps ticking
// with the wall clock from there.
type Time struct {
	startedAt time.Time
	setAt     time.Time
}

func NewTime() *Time {
	now := time.Now()
	return &Time{startedAt: now, setAt: now}
}

func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.startedAt = currentTime
	t.setAt = time.Now()
}

func (t *Time) Now() time.Time {
	return t.startedAt.Add(time.Since(t.setAt))
}

// Today is the scenario date as YYYY-MM-DD.
func (t *Time) Today() string {
	return t.Now().Format(time.DateOnly)
}
