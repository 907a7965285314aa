package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/MrDavidRios/sheet-music-repetition-highlighter/model"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/repeat"
	"github.com/bep/debounce"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func init() {
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Listens for motifs on live MIDI input",
	Long:  `Listens on the first MIDI in port and reports repeated patterns in what you play.`,
	Run: func(cmd *cobra.Command, args []string) {
		listen()
	},
}

var pitchNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// quantizeHeldMs rounds a held time to 1/4-quarter steps assuming 120bpm,
// so slightly uneven playing still produces equal signatures.
func quantizeHeldMs(ms int32) model.Duration {
	units := int((ms + 62) / 125)
	if units < 1 {
		units = 1
	}
	return model.NewDuration(units, 4)
}

func printLiveRepeats(repeats []model.Repeat) {
	if len(repeats) == 0 {
		fmt.Println("No repeated patterns yet...")
		return
	}
	fmt.Printf("Found %v patterns so far\n", len(repeats))
	for _, r := range repeats {
		var pitches []string
		for _, ev := range r.Material {
			pitches = append(pitches, fmt.Sprintf("%v%v", pitchNames[ev.Sig.Pitch%12], int(ev.Sig.Pitch)/12-1))
		}
		fmt.Printf("  [%v notes, %vx] %v\n", r.Length, r.Count, strings.Join(pitches, " "))
	}
}

func listen() {
	defer gomidi.CloseDriver()
	in, err := gomidi.InPort(0)
	if err != nil {
		fmt.Println("can't find a MIDI in port")
		return
	}

	var mu sync.Mutex
	var events []model.Event
	pressed := make(map[uint8]int32)
	debounced := debounce.New(2 * time.Second)

	rerun := func() {
		mu.Lock()
		snapshot := make([]model.Event, len(events))
		copy(snapshot, events)
		mu.Unlock()

		repeats, err := repeat.FindRepeats(snapshot, 3)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			return
		}
		printLiveRepeats(repeats)
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			mu.Lock()
			pressed[key] = timestampms
			mu.Unlock()
		case msg.GetNoteEnd(&ch, &key):
			mu.Lock()
			onset, ok := pressed[key]
			if ok {
				delete(pressed, key)
				events = append(events, model.Event{
					Sig: model.Signature{Pitch: key, Duration: quantizeHeldMs(timestampms - onset)},
					Ref: model.NoteRef{Index: len(events)},
				})
			}
			mu.Unlock()
			if ok {
				debounced(rerun)
			}
		default:
			// ignore
		}
	})

	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return
	}

	fmt.Println("Listening... play something, pause 2s to see patterns. Ctrl-C to quit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	stop()
}
