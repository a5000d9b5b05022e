package caption

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultLanguage is reported when no language token is found.
const DefaultLanguage = "Hindi-English"

var languages = []string{
	"Hindi", "English", "Tamil", "Telugu", "Malayalam", "Kannada",
	"Hin", "Tel", "Tam", "Mal",
}

var (
	handleRe   = regexp.MustCompile(`@[\p{L}\p{N}_]+\s*`)
	languageRe = regexp.MustCompile(`(?i)\b(` + strings.Join(languages, "|") + `)\b`)
	yearRe     = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	qualityRe  = regexp.MustCompile(`(?i)\b(360p|480p|720p|1080p|1440p|2160p|4K|8K|HD|FHD|UHD)\b`)
	episodeRe  = regexp.MustCompile(`(?i)\bS(\d{1,2})E(\d{1,2})\b`)
)

// canonicalLanguage maps a lower-cased match to its vocabulary spelling.
var canonicalLanguage = func() map[string]string {
	m := make(map[string]string, len(languages))
	for _, l := range languages {
		m[strings.ToLower(l)] = l
	}
	return m
}()

// MediaAttributes carries the optional attributes Telegram reports for a file.
// Zero values mean the attribute is absent.
type MediaAttributes struct {
	FileSize  int64
	Duration  int
	Width     int
	Height    int
	MimeType  string
	Title     string
	Performer string
}

// Metadata is the attribute set derived from a media post.
// Empty strings and zero dimensions mean the field could not be resolved.
type Metadata struct {
	Filename   string
	Filesize   string
	Caption    string
	Language   string
	Year       string
	Quality    string
	Season     string
	Episode    string
	Duration   string
	Height     int
	Width      int
	Ext        string
	Resolution string
	MimeType   string
	Title      string
	Artist     string
	Wish       string
}

// Values returns the metadata keyed by placeholder name. Every field in
// Fields is present, so rendering never misses a known key.
func (m Metadata) Values() map[string]string {
	return map[string]string{
		FieldFilename:   m.Filename,
		FieldFilesize:   m.Filesize,
		FieldCaption:    m.Caption,
		FieldLanguage:   m.Language,
		FieldYear:       m.Year,
		FieldQuality:    m.Quality,
		FieldSeason:     m.Season,
		FieldEpisode:    m.Episode,
		FieldDuration:   m.Duration,
		FieldHeight:     optionalInt(m.Height),
		FieldWidth:      optionalInt(m.Width),
		FieldExt:        m.Ext,
		FieldResolution: m.Resolution,
		FieldMimeType:   m.MimeType,
		FieldTitle:      m.Title,
		FieldArtist:     m.Artist,
		FieldWish:       m.Wish,
	}
}

func optionalInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

// Extractor derives Metadata from file names, captions and media attributes.
type Extractor struct {
	// Now supplies the wall clock for the greeting. Defaults to time.Now.
	Now func() time.Time
}

// NewExtractor returns an Extractor using the local wall clock.
func NewExtractor() *Extractor {
	return &Extractor{Now: time.Now}
}

// Extract builds the metadata record. Every rule is best effort: a rule that
// does not match leaves its field empty.
func (e *Extractor) Extract(fileName, defaultCaption string, attrs *MediaAttributes) Metadata {
	now := time.Now
	if e != nil && e.Now != nil {
		now = e.Now
	}

	md := Metadata{
		Filename: cleanFileName(fileName),
		Caption:  defaultCaption,
		Language: DefaultLanguage,
		Ext:      extension(fileName),
		Wish:     Greeting(now().Hour()),
	}

	haystack := fileName + " " + defaultCaption
	if lang := detectLanguages(haystack); lang != "" {
		md.Language = lang
	}
	if m := yearRe.FindStringSubmatch(haystack); m != nil {
		md.Year = m[1]
	}
	if m := qualityRe.FindString(fileName); m != "" {
		md.Quality = m
	}
	if m := episodeRe.FindStringSubmatch(fileName); m != nil {
		md.Season = m[1]
		md.Episode = m[2]
	}

	if attrs == nil {
		return md
	}

	if attrs.FileSize > 0 {
		md.Filesize = FormatSize(attrs.FileSize)
	}
	if attrs.Duration > 0 {
		md.Duration = strconv.Itoa(attrs.Duration) + "s"
	}
	if attrs.Width > 0 && attrs.Height > 0 {
		md.Width = attrs.Width
		md.Height = attrs.Height
		md.Resolution = strconv.Itoa(attrs.Width) + "x" + strconv.Itoa(attrs.Height)
	}
	md.MimeType = attrs.MimeType
	md.Title = attrs.Title
	md.Artist = attrs.Performer

	return md
}

func cleanFileName(name string) string {
	name = handleRe.ReplaceAllString(name, "")
	return strings.NewReplacer("_", " ", ".", " ").Replace(name)
}

func extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToUpper(name[i+1:])
}

// detectLanguages returns the distinct languages found in s, sorted
// case-insensitively and joined with ", ", or "" when none match.
func detectLanguages(s string) string {
	seen := make(map[string]struct{})
	for _, m := range languageRe.FindAllString(s, -1) {
		seen[canonicalLanguage[strings.ToLower(m)]] = struct{}{}
	}
	if len(seen) == 0 {
		return ""
	}

	found := make([]string, 0, len(seen))
	for l := range seen {
		found = append(found, l)
	}
	sort.Slice(found, func(i, j int) bool {
		return strings.ToLower(found[i]) < strings.ToLower(found[j])
	})
	return strings.Join(found, ", ")
}
