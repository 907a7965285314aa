package repeat

import (
	"testing"

	"github.com/MrDavidRios/sheet-music-repetition-highlighter/model"
	"github.com/stretchr/testify/assert"
)

var quarter = model.NewDuration(1, 4)

func makeEvents(pitches ...uint8) []model.Event {
	events := make([]model.Event, len(pitches))
	for i, p := range pitches {
		events[i] = model.Event{
			Sig: model.Signature{Pitch: p, Duration: quarter},
			Ref: model.NoteRef{Index: i},
		}
	}
	return events
}

func makeSigs(pitches ...uint8) []model.Signature {
	sigs := make([]model.Signature, len(pitches))
	for i, p := range pitches {
		sigs[i] = model.Signature{Pitch: p, Duration: quarter}
	}
	return sigs
}

func TestRejectsInvalidMinLength(t *testing.T) {
	for _, minLength := range []int{0, -1, -4} {
		_, err := FindRepeats(makeEvents(60, 62, 60, 62), minLength)
		assert.Error(t, err)
	}
}

func TestEmptySequenceYieldsNoRepeats(t *testing.T) {
	repeats, err := FindRepeats(nil, 4)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(repeats)
}

func TestSequenceShorterThanMinLength(t *testing.T) {
	repeats, err := FindRepeats(makeEvents(60, 62), 4)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(repeats)
}

func TestFindsSimpleRepeat(t *testing.T) {
	// C4 D4 E4 C4 D4 E4 G4
	repeats, err := FindRepeats(makeEvents(60, 62, 64, 60, 62, 64, 67), 3)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(repeats, 1)
	assert.Equal(3, repeats[0].Length)
	assert.Equal(2, repeats[0].Count)
	assert.Equal([]int{0, 3}, repeats[0].Positions)
	assert.Equal(makeSigs(60, 62, 64), repeats[0].Signatures())
}

func TestMergesCommonPrefixes(t *testing.T) {
	// prefix+X at 0 and 20, prefix+Y+Z at 10 and 30, unique filler
	// everywhere else: only the shared 4-note prefix should be reported,
	// with all four positions.
	pitches := []uint8{
		1, 2, 3, 4, 5,
		100, 101, 102, 103, 104,
		1, 2, 3, 4, 6, 7,
		105, 106, 107, 108,
		1, 2, 3, 4, 5,
		109, 110, 111, 112, 113,
		1, 2, 3, 4, 6, 7,
		114, 115, 116, 117,
	}
	repeats, err := FindRepeats(makeEvents(pitches...), 4)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(repeats, 1)
	assert.Equal(4, repeats[0].Length)
	assert.Equal(4, repeats[0].Count)
	assert.Equal([]int{0, 10, 20, 30}, repeats[0].Positions)
	assert.Equal(makeSigs(1, 2, 3, 4), repeats[0].Signatures())
}

func TestIdenticalRunCollapses(t *testing.T) {
	// ten identical signatures: domination must leave one pattern, not a
	// combinatorial pile of sub-runs
	repeats, err := FindRepeats(makeEvents(60, 60, 60, 60, 60, 60, 60, 60, 60, 60), 2)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(repeats, 1)
	assert.Equal(9, repeats[0].Length)
	assert.Equal(2, repeats[0].Count)
	assert.Equal([]int{0, 1}, repeats[0].Positions)
}

func TestDurationDistinguishesSignatures(t *testing.T) {
	half := model.NewDuration(1, 2)
	events := []model.Event{
		{Sig: model.Signature{Pitch: 60, Duration: quarter}},
		{Sig: model.Signature{Pitch: 62, Duration: quarter}},
		{Sig: model.Signature{Pitch: 60, Duration: half}},
		{Sig: model.Signature{Pitch: 62, Duration: half}},
	}
	repeats, err := FindRepeats(events, 2)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(repeats)
}

func TestEquivalentDurationSpellingsMatch(t *testing.T) {
	// 2/8 and 1/4 are the same length and must form a repeat
	events := []model.Event{
		{Sig: model.Signature{Pitch: 60, Duration: model.NewDuration(2, 8)}},
		{Sig: model.Signature{Pitch: 62, Duration: model.NewDuration(2, 8)}},
		{Sig: model.Signature{Pitch: 60, Duration: model.NewDuration(1, 4)}},
		{Sig: model.Signature{Pitch: 62, Duration: model.NewDuration(1, 4)}},
	}
	repeats, err := FindRepeats(events, 2)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(repeats, 1)
	assert.Equal([]int{0, 2}, repeats[0].Positions)
}

// a melody with one motif restated three times and some connective tissue
var busyPitches = []uint8{
	76, 75, 76, 71, 74, 72, 69,
	60, 64, 69,
	76, 75, 76, 71, 74, 72, 69,
	60, 64, 71,
	76, 75, 76, 71, 74, 72, 69,
}

func TestResultLaws(t *testing.T) {
	events := makeEvents(busyPitches...)
	repeats, err := FindRepeats(events, 4)

	assert := assert.New(t)
	assert.NoError(err)
	assert.NotEmpty(repeats)

	seen := make(map[string]bool)
	for _, r := range repeats {
		// minimum-length law
		assert.GreaterOrEqual(r.Length, 4)
		assert.GreaterOrEqual(r.Count, 2)

		// occurrence validity
		assert.Len(r.Positions, r.Count)
		for k := 1; k < len(r.Positions); k++ {
			assert.Less(r.Positions[k-1], r.Positions[k])
		}
		for _, p := range r.Positions {
			for k := 0; k < r.Length; k++ {
				assert.Equal(events[p+k].Sig, r.Material[k].Sig)
			}
		}

		// no-duplicate law
		key := PatternKey(r.Signatures())
		assert.False(seen[key], "duplicate pattern reported")
		seen[key] = true
	}

	// prefix-freedom law
	for i := range repeats {
		for j := range repeats {
			if i == j {
				continue
			}
			assert.False(hasPrefix(repeats[j].Signatures(), repeats[i].Signatures()),
				"one reported pattern is a prefix of another")
		}
	}

	// ranking: significance never increases down the list
	for k := 1; k < len(repeats); k++ {
		assert.GreaterOrEqual(repeats[k-1].Significance(), repeats[k].Significance())
	}
}

func TestIdempotence(t *testing.T) {
	events := makeEvents(busyPitches...)
	first, err1 := FindRepeats(events, 4)
	second, err2 := FindRepeats(events, 4)

	assert := assert.New(t)
	assert.NoError(err1)
	assert.NoError(err2)
	assert.Equal(first, second)
}

func TestLcpLength(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, lcpLength(makeSigs(60, 62, 64), makeSigs(60, 62, 64)))
	assert.Equal(0, lcpLength(makeSigs(60, 62), makeSigs(65, 67)))
	assert.Equal(2, lcpLength(makeSigs(60, 62, 64), makeSigs(60, 62, 65)))
	assert.Equal(2, lcpLength(makeSigs(60, 62), makeSigs(60, 62, 64, 65)))
	assert.Equal(0, lcpLength(nil, nil))
	assert.Equal(0, lcpLength(makeSigs(60), nil))
}

func TestIsSubstring(t *testing.T) {
	assert := assert.New(t)
	assert.True(isSubstring(makeSigs(62, 64), makeSigs(60, 62, 64, 65)))
	assert.True(isSubstring(makeSigs(60, 62), makeSigs(60, 62)))
	assert.False(isSubstring(makeSigs(64, 62), makeSigs(60, 62, 64, 65)))
	assert.False(isSubstring(makeSigs(60, 62, 64), makeSigs(60, 62)))
}

func newGroup(positions []int, pitches ...uint8) *group {
	g := &group{pattern: makeSigs(pitches...), positions: make(map[int]bool)}
	for _, p := range positions {
		g.positions[p] = true
	}
	return g
}

func findGroup(groups []*group, pitches ...uint8) *group {
	key := PatternKey(makeSigs(pitches...))
	for _, g := range groups {
		if PatternKey(g.pattern) == key {
			return g
		}
	}
	return nil
}

func TestExtractCommonPrefixesNoOverlap(t *testing.T) {
	groups := []*group{
		newGroup([]int{0, 10}, 60, 62, 64, 65),
		newGroup([]int{5, 15}, 70, 72, 74, 75),
	}
	result := extractCommonPrefixes(groups, 4)
	assert.Len(t, result, 2)
}

func TestExtractCommonPrefixesMergesParents(t *testing.T) {
	groups := []*group{
		newGroup([]int{0, 20}, 60, 62, 64, 65, 67, 69),
		newGroup([]int{10, 30}, 60, 62, 64, 65, 70, 72),
	}
	result := extractCommonPrefixes(groups, 4)

	assert := assert.New(t)
	assert.Len(result, 1)
	prefix := findGroup(result, 60, 62, 64, 65)
	assert.NotNil(prefix)
	assert.Equal(map[int]bool{0: true, 10: true, 20: true, 30: true}, prefix.positions)
}

func TestExtractCommonPrefixesRemovesSubsumedParents(t *testing.T) {
	groups := []*group{
		newGroup([]int{0, 20}, 60, 62, 64, 65, 67),
		newGroup([]int{10, 30}, 60, 62, 64, 65, 70, 72),
	}
	result := extractCommonPrefixes(groups, 4)

	assert := assert.New(t)
	assert.Nil(findGroup(result, 60, 62, 64, 65, 67))
	assert.Nil(findGroup(result, 60, 62, 64, 65, 70, 72))
	assert.NotNil(findGroup(result, 60, 62, 64, 65))
}

func TestExtractCommonPrefixesRespectsMinLength(t *testing.T) {
	groups := []*group{
		newGroup([]int{0, 20}, 60, 62, 64, 67, 69),
		newGroup([]int{10, 30}, 60, 62, 64, 70, 72),
	}
	result := extractCommonPrefixes(groups, 4)

	assert := assert.New(t)
	assert.Len(result, 2)
	assert.Nil(findGroup(result, 60, 62, 64))
}

func TestExtractCommonPrefixesEmpty(t *testing.T) {
	assert.Empty(t, extractCommonPrefixes(nil, 4))
}
