// Package caption extracts file metadata from Telegram media posts and renders
// user-configured caption templates against it.
package caption

// Placeholder names recognised in caption templates.
const (
	FieldFilename   = "filename"
	FieldFilesize   = "filesize"
	FieldCaption    = "caption"
	FieldLanguage   = "language"
	FieldYear       = "year"
	FieldQuality    = "quality"
	FieldSeason     = "season"
	FieldEpisode    = "episode"
	FieldDuration   = "duration"
	FieldHeight     = "height"
	FieldWidth      = "width"
	FieldExt        = "ext"
	FieldResolution = "resolution"
	FieldMimeType   = "mime_type"
	FieldTitle      = "title"
	FieldArtist     = "artist"
	FieldWish       = "wish"
)

// FieldInfo describes a placeholder for the /set_cap usage text.
type FieldInfo struct {
	Name        string
	Description string
}

// Fields lists every placeholder in the order shown to users.
var Fields = []FieldInfo{
	{FieldFilename, "File name"},
	{FieldFilesize, "File size"},
	{FieldCaption, "Original caption"},
	{FieldLanguage, "Detected languages"},
	{FieldYear, "Detected year"},
	{FieldQuality, "Video quality"},
	{FieldSeason, "Season number"},
	{FieldEpisode, "Episode number"},
	{FieldDuration, "Duration (videos)"},
	{FieldHeight, "Video height"},
	{FieldWidth, "Video width"},
	{FieldExt, "File extension"},
	{FieldResolution, "Video resolution"},
	{FieldMimeType, "File mime type"},
	{FieldTitle, "Audio title"},
	{FieldArtist, "Audio artist"},
	{FieldWish, "Time-based greeting"},
}

// aliases maps legacy placeholder names to their current field.
var aliases = map[string]string{
	"file_name": FieldFilename,
	"file_size": FieldFilesize,
}
