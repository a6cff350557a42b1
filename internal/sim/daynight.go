package sim

// WindowLightingConsumer is the outward hook the lighting module calls;
// internally the session clock below drives it as well.
type WindowLightingConsumer interface {
	UpdateWindowLighting(isDaytime bool)
}

// DayNight tracks the session clock and notifies the lighting consumer on
// every day/night transition. The lighting color model itself lives with
// the renderer; only the boolean phase is owned here.
type DayNight struct {
	t         float64
	dayLength float64
	daytime   bool
	consumer  WindowLightingConsumer
}

func NewDayNight(dayLength float64, consumer WindowLightingConsumer) *DayNight {
	return &DayNight{
		dayLength: dayLength,
		daytime:   true,
		consumer:  consumer,
	}
}

// Phase is the position within the current day, in [0,1). Day occupies the
// first half.
func (d *DayNight) Phase() float64 {
	f := d.t / d.dayLength
	return f - float64(int(f))
}

func (d *DayNight) Daytime() bool {
	return d.daytime
}

// Update advances the clock and fires the consumer hook on transitions.
func (d *DayNight) Update(dt float64) {
	d.t += dt
	day := d.Phase() < 0.5
	if day != d.daytime {
		d.daytime = day
		if d.consumer != nil {
			d.consumer.UpdateWindowLighting(day)
		}
	}
}
