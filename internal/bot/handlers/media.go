package handlers

import (
	"github.com/go-telegram/bot/models"

	"github.com/edgard/capbot/internal/caption"
)

// MediaAttributesFromMessage picks the first captionable file on msg, in
// video, audio, document order, and returns its name and attributes.
// Files without a name are skipped, as are voice notes and photos.
func MediaAttributesFromMessage(msg *models.Message) (string, *caption.MediaAttributes, bool) {
	if msg == nil {
		return "", nil, false
	}

	switch {
	case msg.Video != nil:
		v := msg.Video
		return v.FileName, &caption.MediaAttributes{
			FileSize: v.FileSize,
			Duration: v.Duration,
			Width:    v.Width,
			Height:   v.Height,
			MimeType: v.MimeType,
		}, v.FileName != ""

	case msg.Audio != nil:
		a := msg.Audio
		return a.FileName, &caption.MediaAttributes{
			FileSize:  a.FileSize,
			Duration:  a.Duration,
			MimeType:  a.MimeType,
			Title:     a.Title,
			Performer: a.Performer,
		}, a.FileName != ""

	case msg.Document != nil:
		d := msg.Document
		return d.FileName, &caption.MediaAttributes{
			FileSize: d.FileSize,
			MimeType: d.MimeType,
		}, d.FileName != ""
	}

	return "", nil, false
}

// isChannelMedia matches channel posts carrying a captionable file.
func isChannelMedia(update *models.Update) bool {
	if update.ChannelPost == nil {
		return false
	}
	_, _, ok := MediaAttributesFromMessage(update.ChannelPost)
	return ok
}
