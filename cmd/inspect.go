package cmd

import (
	"fmt"
	"strings"

	"github.com/MrDavidRios/sheet-music-repetition-highlighter/model"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.dat>",
	Short: "Inspects a saved analysis",
	Long:  `Inspects an analysis binary written by analyze --out.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		inspect(args[0])
	},
}

func printPatterns(patterns []model.PatternOut, limit int) {
	for i, p := range patterns {
		if i >= limit {
			break
		}
		pitches := make([]string, 0, len(p.Notes))
		for _, n := range p.Notes {
			pitches = append(pitches, n.Pitch)
		}
		fmt.Printf("  [%v notes, %vx] %v\n", p.Length, p.Count, strings.Join(pitches, " "))
	}
}

func inspect(path string) {
	result := util.ReadBinaryOrPanic[model.AnalysisOut](path)

	fmt.Printf("file: %v\n", result.File)
	fmt.Printf("analysis id: %v\n", result.AnalysisId)

	fmt.Printf("=== %v (Part %v) ===\n", result.Treble.PartName, result.Treble.PartIndex)
	fmt.Printf("Found %v patterns\n", len(result.Treble.Patterns))
	printPatterns(result.Treble.Patterns, 10)

	fmt.Printf("=== %v (Part %v) ===\n", result.Bass.PartName, result.Bass.PartIndex)
	fmt.Printf("Found %v patterns\n", len(result.Bass.Patterns))
	printPatterns(result.Bass.Patterns, 10)
}
