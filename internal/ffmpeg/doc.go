// Package ffmpeg wraps FFmpeg CLI interactions. The pipeline uses it to
// transcode downloaded streams with user-configured arguments and to
// rewrite container metadata for formats without a native tag writer.
package ffmpeg
