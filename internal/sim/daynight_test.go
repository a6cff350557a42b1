package sim

import "testing"

type recordingConsumer struct {
	calls []bool
}

func (r *recordingConsumer) UpdateWindowLighting(isDaytime bool) {
	r.calls = append(r.calls, isDaytime)
}

func TestDayNightTransitions(t *testing.T) {
	c := &recordingConsumer{}
	d := NewDayNight(100, c)

	if !d.Daytime() {
		t.Fatal("clock should start in daytime")
	}

	d.Update(20) // t=20, still day
	if len(c.calls) != 0 {
		t.Fatalf("consumer fired %d times before any transition", len(c.calls))
	}

	d.Update(40) // t=60, nightfall
	if d.Daytime() {
		t.Fatal("expected night after half a day")
	}
	if len(c.calls) != 1 || c.calls[0] != false {
		t.Fatalf("nightfall notification wrong: %v", c.calls)
	}

	d.Update(30) // t=90, still night
	if len(c.calls) != 1 {
		t.Fatalf("consumer fired without a transition: %v", c.calls)
	}

	d.Update(20) // t=110, next day
	if !d.Daytime() {
		t.Fatal("expected daybreak after a full day")
	}
	if len(c.calls) != 2 || c.calls[1] != true {
		t.Fatalf("daybreak notification wrong: %v", c.calls)
	}
}

func TestDayNightPhaseWraps(t *testing.T) {
	d := NewDayNight(10, nil)
	d.Update(25) // two and a half days
	if got := d.Phase(); absF(got-0.5) > 1e-9 {
		t.Fatalf("phase = %v, want 0.5", got)
	}
}

func TestDayNightNilConsumer(t *testing.T) {
	d := NewDayNight(10, nil)
	d.Update(6) // transition with no consumer must not panic
	if d.Daytime() {
		t.Fatal("expected night")
	}
}
