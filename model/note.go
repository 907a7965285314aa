package model

// Duration is an exact note length in quarter-note units, stored as a
// reduced fraction so two durations compare equal by value no matter how
// the source file spelled them (e.g. 2/8 == 1/4).
type Duration struct {
	Num int
	Den int
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func NewDuration(num, den int) Duration {
	if den == 0 {
		den = 1
	}
	if den < 0 {
		num = -num
		den = -den
	}
	if num == 0 {
		return Duration{Num: 0, Den: 1}
	}
	d := gcd(num, den)
	if d < 0 {
		d = -d
	}
	return Duration{Num: num / d, Den: den / d}
}

func (d Duration) Quarters() float64 {
	if d.Den == 0 {
		return 0
	}
	return float64(d.Num) / float64(d.Den)
}

// Signature is what makes two note events identical for repetition
// purposes: MIDI pitch (highest pitch for chords) plus exact duration.
// It is a comparable struct so it can key maps directly.
type Signature struct {
	Pitch    uint8
	Duration Duration
}

// NoteRef locates an event in the original score for UI highlighting.
// The repeat engine never reads these fields.
type NoteRef struct {
	Index   int
	Measure int
	Beat    float64
	Pitch   string
}

// Event is one position in a voice's timeline.
type Event struct {
	Sig Signature
	Ref NoteRef
}

// Voice is one independent timeline of events (a part/staff/hand).
type Voice struct {
	Index  int
	Name   string
	Events []Event
}
