package retriever

import (
	"path/filepath"
	"strings"
)

// defaultSubtitleExt is assumed when the database reports a subtitle file
// name without an extension.
const defaultSubtitleExt = ".srt"

// SubtitlePath derives the output path for a downloaded subtitle. With
// sameName the video's extension is swapped for the subtitle's own; otherwise
// the subtitle keeps its reported name, placed in the video's directory.
func SubtitlePath(videoPath, subtitleName string, sameName bool) string {
	if !sameName {
		return filepath.Join(filepath.Dir(videoPath), subtitleName)
	}

	ext := filepath.Ext(subtitleName)
	if ext == "" {
		ext = defaultSubtitleExt
	}
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ext
}
