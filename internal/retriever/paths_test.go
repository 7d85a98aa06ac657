package retriever

import "testing"

func TestSubtitlePath(t *testing.T) {
	tests := []struct {
		name         string
		videoPath    string
		subtitleName string
		sameName     bool
		want         string
	}{
		{
			name:         "subtitle name next to video",
			videoPath:    "/a/b/movie.mkv",
			subtitleName: "x.srt",
			want:         "/a/b/x.srt",
		},
		{
			name:         "same name swaps extension",
			videoPath:    "/a/b/movie.mkv",
			subtitleName: "x.srt",
			sameName:     true,
			want:         "/a/b/movie.srt",
		},
		{
			name:         "same name with sub format",
			videoPath:    "/media/show.s01e02.avi",
			subtitleName: "release.sub",
			sameName:     true,
			want:         "/media/show.s01e02.sub",
		},
		{
			name:         "same name defaults to srt without subtitle extension",
			videoPath:    "/a/movie.mkv",
			subtitleName: "noextension",
			sameName:     true,
			want:         "/a/movie.srt",
		},
		{
			name:         "same name with extensionless video",
			videoPath:    "/a/movie",
			subtitleName: "x.srt",
			sameName:     true,
			want:         "/a/movie.srt",
		},
		{
			name:         "relative video path",
			videoPath:    "movie.mkv",
			subtitleName: "x.srt",
			want:         "x.srt",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubtitlePath(tt.videoPath, tt.subtitleName, tt.sameName)
			if got != tt.want {
				t.Fatalf("SubtitlePath(%q, %q, %v) = %q, want %q",
					tt.videoPath, tt.subtitleName, tt.sameName, got, tt.want)
			}
		})
	}
}
