package caption_test

import (
	"testing"
	"time"

	"github.com/edgard/capbot/internal/caption"
)

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, time.March, 1, hour, 30, 0, 0, time.UTC)
	}
}

func TestExtract_FileNameRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fileName string
		caption  string
		want     caption.Metadata
	}{
		{
			name:     "Season episode and quality",
			fileName: "Show.Name.S02E05.1080p.mkv",
			want: caption.Metadata{
				Filename: "Show Name S02E05 1080p mkv",
				Language: caption.DefaultLanguage,
				Quality:  "1080p",
				Season:   "02",
				Episode:  "05",
				Ext:      "MKV",
			},
		},
		{
			name:     "Duplicate language in different casing",
			fileName: "Movie.Hindi.hindi.720p.mkv",
			want: caption.Metadata{
				Filename: "Movie Hindi hindi 720p mkv",
				Language: "Hindi",
				Quality:  "720p",
				Ext:      "MKV",
			},
		},
		{
			name:     "Languages from file name and caption",
			fileName: "Movie.2019.Tamil.Telugu.HDRip.mkv",
			caption:  "English audio",
			want: caption.Metadata{
				Filename: "Movie 2019 Tamil Telugu HDRip mkv",
				Caption:  "English audio",
				Language: "English, Tamil, Telugu",
				Year:     "2019",
				Ext:      "MKV",
			},
		},
		{
			name:     "Short language tokens use canonical spelling",
			fileName: "Film.HIN.tel.mp4",
			want: caption.Metadata{
				Filename: "Film HIN tel mp4",
				Language: "Hin, Tel",
				Ext:      "MP4",
			},
		},
		{
			name:     "Handles stripped and underscores replaced",
			fileName: "@moviesdb @backup My_Film.mkv",
			want: caption.Metadata{
				Filename: "My Film mkv",
				Language: caption.DefaultLanguage,
				Ext:      "MKV",
			},
		},
		{
			name:     "Year only from caption",
			fileName: "clip.mp4",
			caption:  "Released in 1998, remastered 20231",
			want: caption.Metadata{
				Filename: "clip mp4",
				Caption:  "Released in 1998, remastered 20231",
				Language: caption.DefaultLanguage,
				Year:     "1998",
				Ext:      "MP4",
			},
		},
		{
			name:     "Quality keeps file name casing",
			fileName: "nature.4k.webm",
			want: caption.Metadata{
				Filename: "nature 4k webm",
				Language: caption.DefaultLanguage,
				Quality:  "4k",
				Ext:      "WEBM",
			},
		},
		{
			name:     "No extension",
			fileName: "README",
			want: caption.Metadata{
				Filename: "README",
				Language: caption.DefaultLanguage,
			},
		},
		{
			name:     "Season without episode is ignored",
			fileName: "Show.S03.720p.mkv",
			want: caption.Metadata{
				Filename: "Show S03 720p mkv",
				Language: caption.DefaultLanguage,
				Quality:  "720p",
				Ext:      "MKV",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ex := &caption.Extractor{Now: fixedClock(13)}
			got := ex.Extract(tt.fileName, tt.caption, nil)

			tt.want.Wish = "Good Afternoon"
			if got != tt.want {
				t.Errorf("Extract(%q, %q) =\n%+v\nwant\n%+v", tt.fileName, tt.caption, got, tt.want)
			}
		})
	}
}

func TestExtract_MediaAttributes(t *testing.T) {
	t.Parallel()

	ex := &caption.Extractor{Now: fixedClock(6)}
	got := ex.Extract("song.mp3", "", &caption.MediaAttributes{
		FileSize:  1572864,
		Duration:  125,
		Width:     1920,
		Height:    1080,
		MimeType:  "audio/mpeg",
		Title:     "Intro",
		Performer: "Band",
	})

	checks := map[string]struct{ got, want string }{
		"filesize":   {got.Filesize, "1.50 MB"},
		"duration":   {got.Duration, "125s"},
		"resolution": {got.Resolution, "1920x1080"},
		"mime_type":  {got.MimeType, "audio/mpeg"},
		"title":      {got.Title, "Intro"},
		"artist":     {got.Artist, "Band"},
		"wish":       {got.Wish, "Good Morning"},
	}
	for field, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", field, c.got, c.want)
		}
	}
	if got.Width != 1920 || got.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1920x1080", got.Width, got.Height)
	}
}

func TestExtract_PartialDimensions(t *testing.T) {
	t.Parallel()

	ex := &caption.Extractor{Now: fixedClock(6)}
	got := ex.Extract("doc.pdf", "", &caption.MediaAttributes{Width: 640})

	if got.Resolution != "" || got.Width != 0 || got.Height != 0 {
		t.Errorf("expected no dimensions, got width=%d height=%d resolution=%q", got.Width, got.Height, got.Resolution)
	}
	if got.Filesize != "" || got.Duration != "" {
		t.Errorf("expected empty size and duration, got %q and %q", got.Filesize, got.Duration)
	}
}

func TestMetadataValues_ContainsEveryField(t *testing.T) {
	t.Parallel()

	values := caption.Metadata{}.Values()
	if len(values) != len(caption.Fields) {
		t.Errorf("Values() has %d keys, want %d", len(values), len(caption.Fields))
	}
	for _, f := range caption.Fields {
		if _, ok := values[f.Name]; !ok {
			t.Errorf("Values() missing key %q", f.Name)
		}
	}
}
