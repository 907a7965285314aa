package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/MrDavidRios/sheet-music-repetition-highlighter/constants"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/model"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/part"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/score"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves",
	Long:  `Serves the pattern analysis over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

// HandleAnalyze accepts raw MusicXML in the request body and responds
// with the analysis document. Exported for the e2e tests.
func HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, 400, "Could not read request body: "+err.Error())
		return
	}

	minLength := constants.DefaultMinLength
	if raw := r.URL.Query().Get("minLength"); raw != "" {
		minLength, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, 400, "minLength must be an integer")
			return
		}
	}

	voices, err := score.ParseScore(bytes.NewReader(reqBody))
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	all, err := part.AnalyzeVoices(voices, minLength)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	json.NewEncoder(w).Encode(part.BuildAnalysis("", all))
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/analyze", HandleAnalyze).Methods("POST")
	handler := cors.Default().Handler(router)
	log.Fatal(http.ListenAndServe(":8080", handler))
}
