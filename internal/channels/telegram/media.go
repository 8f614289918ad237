package telegram

import (
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/nextlevelbuilder/reorderbot/internal/reorder"
)

// kindOf classifies a message into one of the album kinds, or "" for
// shapes that carry no groupable file reference.
func kindOf(msg *telego.Message) reorder.Kind {
	switch {
	case len(msg.Photo) > 0:
		return reorder.KindPhoto
	case msg.Video != nil:
		return reorder.KindVideo
	case msg.Audio != nil:
		return reorder.KindAudio
	case msg.Document != nil:
		return reorder.KindDocument
	}
	return ""
}

// fileIDOf extracts the file reference for the kind. Photos take the
// highest-resolution size, which the Bot API lists last.
func fileIDOf(msg *telego.Message, kind reorder.Kind) string {
	switch kind {
	case reorder.KindPhoto:
		return msg.Photo[len(msg.Photo)-1].FileID
	case reorder.KindVideo:
		return msg.Video.FileID
	case reorder.KindAudio:
		return msg.Audio.FileID
	case reorder.KindDocument:
		return msg.Document.FileID
	}
	return ""
}

// groupItem converts a grouped message into a collector item. Kind stays
// empty for unsupported shapes so the burst is still counted against the
// composition rules.
func groupItem(msg *telego.Message) reorder.Item {
	kind := kindOf(msg)
	item := reorder.Item{
		Kind:   kind,
		FileID: fileIDOf(msg, kind),
		UserID: msg.From.ID,
		ChatID: msg.Chat.ID,
	}
	if msg.Date != 0 {
		item.SentAt = time.Unix(int64(msg.Date), 0)
	}
	return item
}

// buildAlbum builds the typed input media for one reordered album.
func buildAlbum(kind reorder.Kind, files []string) []telego.InputMedia {
	media := make([]telego.InputMedia, len(files))
	for i, id := range files {
		media[i] = inputMedia(kind, id)
	}
	return media
}

func inputMedia(kind reorder.Kind, fileID string) telego.InputMedia {
	switch kind {
	case reorder.KindVideo:
		return tu.MediaVideo(tu.FileFromID(fileID))
	case reorder.KindAudio:
		return tu.MediaAudio(tu.FileFromID(fileID))
	case reorder.KindDocument:
		return tu.MediaDocument(tu.FileFromID(fileID))
	default:
		return tu.MediaPhoto(tu.FileFromID(fileID))
	}
}
