package model

// Repeat is one reported motif: a run of Length events whose signature
// content recurs at every position in Positions.
type Repeat struct {
	Length    int
	Count     int
	Positions []int

	// Material holds the Length events at the first occurrence, used as
	// the representative content for display.
	Material []Event
}

func (r Repeat) Significance() int {
	return r.Length * r.Count
}

// Signatures returns the repeat's signature tuple.
func (r Repeat) Signatures() []Signature {
	sigs := make([]Signature, len(r.Material))
	for i, ev := range r.Material {
		sigs[i] = ev.Sig
	}
	return sigs
}

// PartRepeats holds the motifs found in a single part/staff.
type PartRepeats struct {
	PartIndex int
	PartName  string
	Repeats   []Repeat
}

// AllPartsRepeats holds the motifs found in each analyzed part.
type AllPartsRepeats struct {
	Treble *PartRepeats // first part, usually right hand
	Bass   *PartRepeats // second part, usually left hand
}
