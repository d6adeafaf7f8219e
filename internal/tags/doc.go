// Package tags writes metadata into finished media files. MP3 files get
// native ID3v2 frames; every other container is rewritten through an
// FFmpeg remux with -metadata arguments, which maps the same keys onto
// the container's own tag scheme.
//
// Tag values arrive as plain key/value pairs with lowercase keys. Line
// endings are normalized to CRLF before writing, and a "comment" value
// is mirrored into "description" so players that only read one of the
// two fields still show the broadcast notes.
package tags
