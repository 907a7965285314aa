package model

// NoteLocator is the wire form of a note position for UI highlighting.
type NoteLocator struct {
	Index   int     `json:"index"`
	Measure int     `json:"measure"`
	Beat    float64 `json:"beat"`
	Pitch   string  `json:"pitch"`
}

// PatternOut is the wire form of one detected Repeat.
type PatternOut struct {
	Id        int           `json:"id"`
	PartIndex int           `json:"partIndex"`
	Length    int           `json:"length"`
	Count     int           `json:"count"`
	Positions []int         `json:"positions"`
	Notes     []NoteLocator `json:"notes"`
}

type PartOut struct {
	PartIndex int          `json:"part_index"`
	PartName  string       `json:"part_name"`
	Patterns  []PatternOut `json:"patterns"`
}

// AnalysisOut is the full analysis document for one score.
type AnalysisOut struct {
	File       string                   `json:"file"`
	AnalysisId string                   `json:"analysis_id"`
	Treble     PartOut                  `json:"treble"`
	Bass       PartOut                  `json:"bass"`
	Metadata   map[string]ScoreMetadata `json:"metadata,omitempty"`
}

// ProgressEvent is emitted to stderr as line-delimited JSON so a
// wrapping UI can show analysis progress.
type ProgressEvent struct {
	Type    string `json:"type"`
	Stage   string `json:"stage"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
