package model

type ScoreMetadata struct {
	Title    string `json:"title"`
	Composer string `json:"composer"`
	Year     uint   `json:"year"`
}
