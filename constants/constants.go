package constants

import "os"

// DefaultMinLength is the minimum motif length in notes when the caller
// supplies none.
const DefaultMinLength = 4

func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}

	panic("MEDIA_PATH environment variable is not set!")
}

func GetMetadataTable() string {
	name := os.Getenv("METADATA_TABLE")
	if name != "" {
		return name
	}
	return "score-metadata"
}
