package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repetition",
	Short: "Sheet music repetition highlighter",
	Long:  `Finds maximal repeated note patterns (motifs) in sheet music.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
