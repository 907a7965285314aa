package cmd

import (
	"fmt"

	"github.com/MrDavidRios/sheet-music-repetition-highlighter/constants"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/part"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Analyzes every score under MEDIA_PATH and prints aggregate stats.`,
	Run: func(cmd *cobra.Command, args []string) {
		report()
	},
}

type mediaReport struct {
	numFiles        int64
	numFailed       int64
	patternCounts   []int
	topSignificance int
	topFile         string
}

func analyzeMediaDir() mediaReport {
	var report mediaReport

	paths := util.GatherAllScorePaths(constants.GetMediaDir(), 0)
	for i, path := range paths {
		fmt.Printf("Processing %v of %v score files\n", i+1, len(paths))
		voices, err := BuildVoicesForFile(path)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", path, err)
			report.numFailed += 1
			continue
		}
		all, err := part.AnalyzeVoices(voices, constants.DefaultMinLength)
		if err != nil {
			panic("Could not analyze because: " + err.Error())
		}
		report.numFiles += 1

		var numPatterns int
		if all.Treble != nil {
			for _, r := range all.Treble.Repeats {
				if r.Significance() > report.topSignificance {
					report.topSignificance = r.Significance()
					report.topFile = path
				}
			}
			numPatterns += len(all.Treble.Repeats)
		}
		if all.Bass != nil {
			for _, r := range all.Bass.Repeats {
				if r.Significance() > report.topSignificance {
					report.topSignificance = r.Significance()
					report.topFile = path
				}
			}
			numPatterns += len(all.Bass.Repeats)
		}
		report.patternCounts = append(report.patternCounts, numPatterns)
	}

	return report
}

func report() {
	report := analyzeMediaDir()
	numPatterns := util.Sum(report.patternCounts)
	fmt.Printf("report.numFiles: %v\n", report.numFiles)
	fmt.Printf("report.numFailed: %v\n", report.numFailed)
	fmt.Printf("total patterns found: %v\n", numPatterns)
	if report.numFiles > 0 {
		fmt.Printf("avg patterns per file: %v\n", float32(numPatterns)/float32(report.numFiles))
	}
	fmt.Printf("most significant pattern: %v (in %v)\n", report.topSignificance, report.topFile)
}
