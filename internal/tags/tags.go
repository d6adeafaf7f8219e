package tags

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	"aircheck/internal/ffmpeg"
	"aircheck/internal/services"
	"aircheck/internal/textutil"
)

// Tagger writes metadata tags into a finished media file.
type Tagger interface {
	Write(ctx context.Context, path string, values map[string]string) error
}

// Writer dispatches tag writes to the backend matching the file format.
type Writer struct {
	remuxer ffmpeg.Remuxer
}

var _ Tagger = (*Writer)(nil)

// NewWriter constructs a Writer. The remuxer handles every format
// without a native ID3 tag.
func NewWriter(remuxer ffmpeg.Remuxer) *Writer {
	return &Writer{remuxer: remuxer}
}

// Write applies the tag values to the file at path.
func (w *Writer) Write(ctx context.Context, path string, values map[string]string) error {
	if _, err := os.Stat(path); err != nil {
		return services.Wrap(services.ErrTag, "tags", "write",
			fmt.Sprintf("no such file to tag: %s", path), err)
	}

	normalized := normalizeValues(values)
	if len(normalized) == 0 {
		return nil
	}

	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		return w.writeID3(path, normalized)
	}
	return w.remux(ctx, path, normalized)
}

// normalizeValues copies the tag map, normalizes line endings to CRLF,
// and mirrors "comment" into "description" unless one is already set.
func normalizeValues(values map[string]string) map[string]string {
	normalized := make(map[string]string, len(values)+1)
	for key, value := range values {
		normalized[key] = textutil.NormalizeNewlines(value)
	}
	if comment, ok := normalized["comment"]; ok {
		if _, ok := normalized["description"]; !ok {
			normalized["description"] = comment
		}
	}
	return normalized
}

func (w *Writer) writeID3(path string, values map[string]string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return services.Wrap(services.ErrTag, "tags", "write", fmt.Sprintf("open %s", path), err)
	}
	defer tag.Close()

	for key, value := range values {
		switch key {
		case "artist":
			tag.SetArtist(value)
		case "album":
			tag.SetAlbum(value)
		case "title":
			tag.SetTitle(value)
		case "genre":
			tag.SetGenre(value)
		case "date":
			tag.AddTextFrame(tag.CommonID("Recording time"), id3v2.EncodingUTF8, value)
		case "comment":
			tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding: id3v2.EncodingUTF8,
				Language: "deu",
				Text:     value,
			})
		case "description":
			tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding:    id3v2.EncodingUTF8,
				Language:    "deu",
				Description: "description",
				Text:        value,
			})
		default:
			tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
				Encoding:    id3v2.EncodingUTF8,
				Description: key,
				Value:       value,
			})
		}
	}

	if err := tag.Save(); err != nil {
		return services.Wrap(services.ErrTag, "tags", "write", fmt.Sprintf("save %s", path), err)
	}
	return nil
}

// remux rewrites the container next to the original and swaps it into
// place. The temp name keeps the real extension last so the container
// format stays recognizable.
func (w *Writer) remux(ctx context.Context, path string, values map[string]string) error {
	tmp := path + ".tagging" + filepath.Ext(path)
	if err := w.remuxer.Remux(ctx, path, tmp, values); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
			return services.Wrap(services.ErrTag, "tags", "write",
				fmt.Sprintf("replace %s and remove temp %s", path, tmp), err)
		}
		return services.Wrap(services.ErrTag, "tags", "write", fmt.Sprintf("replace %s", path), err)
	}
	return nil
}
