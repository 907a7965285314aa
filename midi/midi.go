package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/MrDavidRios/sheet-music-repetition-highlighter/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF
	var err error

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)

	if err != nil {
		errText := fmt.Sprintf("Error reading midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))

	if err != nil {
		errText := fmt.Sprintf("Error parsing midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}

	return res, nil
}

type reducedEvent struct {
	Ticks     int64
	IsNoteOff bool
	Note      uint8
}

// noteInstance is one sounded note with its resolved length in ticks.
type noteInstance struct {
	OnsetTicks int64
	Note       uint8
	DurTicks   int64
}

var pitchNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func spellMidiPitch(note uint8) string {
	return fmt.Sprintf("%v%v", pitchNames[note%12], int(note)/12-1)
}

// pairNotes sweeps note-on/note-off events into sounded notes with
// durations. Note-offs sort before note-ons at the same tick so a
// re-struck key closes cleanly. Notes still held at the end are dropped.
func pairNotes(events []reducedEvent) []noteInstance {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Ticks != events[j].Ticks {
			return events[i].Ticks < events[j].Ticks
		}
		return events[i].IsNoteOff
	})

	pressed := make(map[uint8]int64)
	var instances []noteInstance
	for _, evt := range events {
		if evt.IsNoteOff {
			onset, ok := pressed[evt.Note]
			if !ok {
				continue
			}
			delete(pressed, evt.Note)
			instances = append(instances, noteInstance{
				OnsetTicks: onset,
				Note:       evt.Note,
				DurTicks:   evt.Ticks - onset,
			})
		} else {
			pressed[evt.Note] = evt.Ticks
		}
	}

	sort.Slice(instances, func(i, j int) bool {
		if instances[i].OnsetTicks != instances[j].OnsetTicks {
			return instances[i].OnsetTicks < instances[j].OnsetTicks
		}
		return instances[i].Note < instances[j].Note
	})
	return instances
}

// voiceFromInstances collapses notes sharing an onset tick into one
// event whose signature is the highest pitch of the simultaneity.
func voiceFromInstances(instances []noteInstance, ticksPerQuarter int, index int, name string) model.Voice {
	voice := model.Voice{Index: index, Name: name}
	lastOnset := int64(-1)
	for _, inst := range instances {
		if len(voice.Events) > 0 && inst.OnsetTicks == lastOnset {
			// instances are pitch-sorted within an onset, so this member
			// is the new top of the chord
			last := &voice.Events[len(voice.Events)-1]
			last.Sig.Pitch = inst.Note
			last.Sig.Duration = model.NewDuration(int(inst.DurTicks), ticksPerQuarter)
			last.Ref.Pitch = spellMidiPitch(inst.Note)
			continue
		}
		lastOnset = inst.OnsetTicks
		voice.Events = append(voice.Events, model.Event{
			Sig: model.Signature{
				Pitch:    inst.Note,
				Duration: model.NewDuration(int(inst.DurTicks), ticksPerQuarter),
			},
			Ref: model.NoteRef{
				Index: len(voice.Events),
				Beat:  float64(inst.OnsetTicks) / float64(ticksPerQuarter),
				Pitch: spellMidiPitch(inst.Note),
			},
		})
	}
	return voice
}

// BuildVoices turns each track with note content into one voice.
func BuildVoices(s *smf.SMF) []model.Voice {
	ticksPerQuarter := 960
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		ticksPerQuarter = int(mt.Ticks4th())
	}

	var voices []model.Voice
	for trackNum, events := range s.Tracks {
		var reduced []reducedEvent
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel uint8
			var key uint8
			var velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				reduced = append(reduced, reducedEvent{Ticks: absTicks, IsNoteOff: velocity == 0, Note: key})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				reduced = append(reduced, reducedEvent{Ticks: absTicks, IsNoteOff: true, Note: key})
			}
		}

		instances := pairNotes(reduced)
		if len(instances) == 0 {
			continue
		}
		name := fmt.Sprintf("Track %v", trackNum)
		voices = append(voices, voiceFromInstances(instances, ticksPerQuarter, len(voices), name))
	}
	return voices
}
