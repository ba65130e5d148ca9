package model

import (
	"path/filepath"
	"strings"
)

// FileType classifies a media file for processing
type FileType string

const (
	FileTypeAudio FileType = "audio"
	FileTypeVideo FileType = "video"
)

var videoExtensions = []string{".mp4", ".mov", ".mkv", ".avi", ".webm"}
var audioExtensions = []string{".mp3", ".wav", ".m4a", ".aac", ".flac"}

// DetectFileType classifies a file by its extension. It returns the empty
// string for unsupported extensions.
func DetectFileType(filename string) FileType {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, v := range videoExtensions {
		if ext == v {
			return FileTypeVideo
		}
	}
	for _, a := range audioExtensions {
		if ext == a {
			return FileTypeAudio
		}
	}
	return ""
}

// IsSupportedFile reports whether the file's extension is one the backend
// accepts for processing.
func IsSupportedFile(filename string) bool {
	return DetectFileType(filename) != ""
}

// ProcessingOptions are the caller-selected processing toggles. They are
// passed through to the start-processing call unmodified; unset fields
// default to false.
type ProcessingOptions struct {
	Denoise       bool `json:"denoise"`
	RemoveFillers bool `json:"remove_fillers"`
	Summarize     bool `json:"summarize"`
}
