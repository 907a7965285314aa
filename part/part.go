package part

import (
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/model"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/repeat"
	"github.com/google/uuid"
)

// AnalyzeVoices runs the repeat engine once per voice with no shared
// state. The first voice reports as treble, the second as bass, matching
// how two-staff piano scores arrive from the sequence builders.
func AnalyzeVoices(voices []model.Voice, minLength int) (model.AllPartsRepeats, error) {
	var res model.AllPartsRepeats

	if len(voices) >= 1 {
		name := voices[0].Name
		if name == "" {
			name = "Treble"
		}
		repeats, err := repeat.FindRepeats(voices[0].Events, minLength)
		if err != nil {
			return res, err
		}
		res.Treble = &model.PartRepeats{PartIndex: 0, PartName: name, Repeats: repeats}
	}

	if len(voices) >= 2 {
		name := voices[1].Name
		if name == "" {
			name = "Bass"
		}
		repeats, err := repeat.FindRepeats(voices[1].Events, minLength)
		if err != nil {
			return res, err
		}
		res.Bass = &model.PartRepeats{PartIndex: 1, PartName: name, Repeats: repeats}
	}

	return res, nil
}

func repeatsToPatterns(repeats []model.Repeat, partIndex int, idOffset int) []model.PatternOut {
	patterns := make([]model.PatternOut, 0, len(repeats))
	for i, r := range repeats {
		notes := make([]model.NoteLocator, 0, len(r.Material))
		for _, ev := range r.Material {
			notes = append(notes, model.NoteLocator{
				Index:   ev.Ref.Index,
				Measure: ev.Ref.Measure,
				Beat:    ev.Ref.Beat,
				Pitch:   ev.Ref.Pitch,
			})
		}
		patterns = append(patterns, model.PatternOut{
			Id:        idOffset + i,
			PartIndex: partIndex,
			Length:    r.Length,
			Count:     r.Count,
			Positions: r.Positions,
			Notes:     notes,
		})
	}
	return patterns
}

// BuildAnalysis assembles the exported analysis document. Bass pattern
// ids are offset by the treble pattern count so ids stay unique across
// both parts.
func BuildAnalysis(file string, all model.AllPartsRepeats) model.AnalysisOut {
	out := model.AnalysisOut{
		File:       file,
		AnalysisId: uuid.New().String(),
		Treble:     model.PartOut{PartIndex: 0, PartName: "Treble", Patterns: []model.PatternOut{}},
		Bass:       model.PartOut{PartIndex: 1, PartName: "Bass", Patterns: []model.PatternOut{}},
	}

	if all.Treble != nil {
		out.Treble.PartName = all.Treble.PartName
		out.Treble.Patterns = repeatsToPatterns(all.Treble.Repeats, 0, 0)
	}
	if all.Bass != nil {
		out.Bass.PartName = all.Bass.PartName
		out.Bass.Patterns = repeatsToPatterns(all.Bass.Repeats, 1, len(out.Treble.Patterns))
	}
	return out
}
