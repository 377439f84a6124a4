package clock

import (
	"testing"
	"time"
)

func TestSystem_Now(t *testing.T) {
	t.Parallel()

	before := time.Now().UTC()
	got := NewSystemClock().Now()
	if got.Location() != time.UTC {
		t.Fatalf("location=%v want UTC", got.Location())
	}
	if got.Before(before.Add(-time.Second)) {
		t.Fatalf("now=%v is behind %v", got, before)
	}

	ahead := NewOffsetClock(24 * time.Hour).Now()
	if d := ahead.Sub(time.Now()); d < 23*time.Hour {
		t.Fatalf("offset clock only %v ahead", d)
	}
}
