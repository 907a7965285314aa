package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MrDavidRios/sheet-music-repetition-highlighter/constants"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/db"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/midi"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/model"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/part"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/score"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/util"
	"github.com/spf13/cobra"
)

var analyzeOut string
var analyzeMetadata bool

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "write the result as a gob binary instead of JSON on stdout")
	analyzeCmd.Flags().BoolVar(&analyzeMetadata, "metadata", false, "attach score metadata from DynamoDB")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file> [min-length]",
	Short: "Finds repeated patterns in a score",
	Long:  `Finds repeated patterns in a MusicXML or MIDI file and prints them as JSON.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		minLength := constants.DefaultMinLength
		if len(args) == 2 {
			arg1, err := strconv.Atoi(args[1])
			if err != nil {
				panic(err)
			}
			minLength = arg1
		}
		analyze(args[0], minLength)
	},
}

func emitProgress(stage string, current int, total int, message string) {
	evt := model.ProgressEvent{
		Type:    "progress",
		Stage:   stage,
		Current: current,
		Total:   total,
		Message: message,
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stderr, string(data))
}

func exitWithError(err error) {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	fmt.Println(string(data))
	os.Exit(1)
}

// BuildVoicesForFile dispatches on the file extension to the right
// sequence builder.
func BuildVoicesForFile(path string) ([]model.Voice, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".musicxml", ".xml":
		return score.ReadScoreFile(path)
	case ".mid", ".midi":
		parsed, err := midi.ReadMidiFile(path)
		if err != nil {
			return nil, err
		}
		return midi.BuildVoices(parsed), nil
	default:
		return nil, fmt.Errorf("unsupported file type %q (supported: musicxml, xml, mid, midi)", filepath.Ext(path))
	}
}

func analyze(path string, minLength int) {
	emitProgress("reading", 0, 1, "Reading score")
	voices, err := BuildVoicesForFile(path)
	if err != nil {
		exitWithError(err)
	}
	emitProgress("reading", 1, 1, "Score loaded")

	emitProgress("analyzing", 0, 1, "Finding patterns")
	all, err := part.AnalyzeVoices(voices, minLength)
	if err != nil {
		exitWithError(err)
	}
	emitProgress("analyzing", 1, 1, "Patterns found")

	result := part.BuildAnalysis(path, all)
	if analyzeMetadata {
		result.Metadata = db.GetScoreMetadatas([]string{filepath.Base(path)})
	}

	if analyzeOut != "" {
		util.CreateBinary(analyzeOut, result)
		return
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitWithError(err)
	}
	fmt.Println(string(data))
}
