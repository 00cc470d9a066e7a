package clock

import "time"

// Clock supplies timestamps for sale and stock records.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// Real returns the wall clock in UTC.
func Real() Clock {
	return Func(func() time.Time { return time.Now().UTC() })
}

// Fixed always returns t. Used by tests.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
