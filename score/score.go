package score

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MrDavidRios/sheet-music-repetition-highlighter/model"
)

type xmlScorePart struct {
	Id   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

type xmlPitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter"`
	Octave int    `xml:"octave"`
}

type xmlNote struct {
	Pitch    *xmlPitch `xml:"pitch"`
	Rest     *struct{} `xml:"rest"`
	Chord    *struct{} `xml:"chord"`
	Grace    *struct{} `xml:"grace"`
	Duration int       `xml:"duration"`
}

type xmlMeasure struct {
	Number    string    `xml:"number,attr"`
	Divisions []int     `xml:"attributes>divisions"`
	Notes     []xmlNote `xml:"note"`
}

type xmlPart struct {
	Id       string       `xml:"id,attr"`
	Measures []xmlMeasure `xml:"measure"`
}

type xmlScore struct {
	XMLName    xml.Name       `xml:"score-partwise"`
	ScoreParts []xmlScorePart `xml:"part-list>score-part"`
	Parts      []xmlPart      `xml:"part"`
}

var stepSemitones = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

var alterAccidentals = map[int]string{
	-2: "bb", -1: "b", 0: "", 1: "#", 2: "##",
}

func midiNumber(p xmlPitch) (uint8, error) {
	semitone, ok := stepSemitones[p.Step]
	if !ok {
		return 0, fmt.Errorf("unknown pitch step %q", p.Step)
	}
	midi := (p.Octave+1)*12 + semitone + p.Alter
	if midi < 0 || midi > 127 {
		return 0, fmt.Errorf("pitch out of midi range: %v%v", p.Step, p.Octave)
	}
	return uint8(midi), nil
}

func spellPitch(p xmlPitch) string {
	return fmt.Sprintf("%v%v%v", p.Step, alterAccidentals[p.Alter], p.Octave)
}

func buildVoice(part xmlPart, index int, name string) (model.Voice, error) {
	voice := model.Voice{Index: index, Name: name}

	divisions := 1
	measureNum := 0
	for _, measure := range part.Measures {
		// pickup measures can be numbered "0" or "X1"; fall back to a
		// running counter when the attribute isn't a plain number
		measureNum++
		var parsed int
		if n, err := fmt.Sscanf(measure.Number, "%d", &parsed); n == 1 && err == nil {
			measureNum = parsed
		}
		for _, div := range measure.Divisions {
			if div > 0 {
				divisions = div
			}
		}

		beatDivs := 0
		for _, note := range measure.Notes {
			if note.Grace != nil {
				continue
			}
			if note.Rest != nil {
				beatDivs += note.Duration
				continue
			}
			if note.Pitch == nil {
				continue
			}
			midi, err := midiNumber(*note.Pitch)
			if err != nil {
				return voice, err
			}

			if note.Chord != nil && len(voice.Events) > 0 {
				// chord member: the simultaneity reduces to its highest pitch
				last := &voice.Events[len(voice.Events)-1]
				if midi > last.Sig.Pitch {
					last.Sig.Pitch = midi
					last.Ref.Pitch = spellPitch(*note.Pitch)
				}
				continue
			}

			voice.Events = append(voice.Events, model.Event{
				Sig: model.Signature{
					Pitch:    midi,
					Duration: model.NewDuration(note.Duration, divisions),
				},
				Ref: model.NoteRef{
					Index:   len(voice.Events),
					Measure: measureNum,
					Beat:    1 + float64(beatDivs)/float64(divisions),
					Pitch:   spellPitch(*note.Pitch),
				},
			})
			beatDivs += note.Duration
		}
	}
	return voice, nil
}

// ParseScore reads a MusicXML score-partwise document and returns one
// voice per part, in document order.
func ParseScore(r io.Reader) ([]model.Voice, error) {
	var doc xmlScore
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.New("Error parsing musicxml file... " + err.Error())
	}

	names := make(map[string]string)
	for _, sp := range doc.ScoreParts {
		names[sp.Id] = sp.Name
	}

	var voices []model.Voice
	for i, part := range doc.Parts {
		voice, err := buildVoice(part, i, names[part.Id])
		if err != nil {
			return nil, err
		}
		voices = append(voices, voice)
	}
	return voices, nil
}

func ReadScoreFile(path string) ([]model.Voice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("Error reading musicxml file... " + err.Error())
	}
	defer f.Close()
	return ParseScore(f)
}
