package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"aircheck/internal/broadcast"
	"aircheck/internal/expand"
	"aircheck/internal/fetch"
	"aircheck/internal/ffmpeg"
	"aircheck/internal/journal"
	"aircheck/internal/logging"
	"aircheck/internal/services"
	"aircheck/internal/textutil"
)

// itemResult carries the outcome of one broadcast through journaling
// and notification.
type itemResult struct {
	status    journal.Status
	b         *broadcast.Broadcast
	output    string
	converted bool
	errText   string
}

// display renders the operator-facing form, falling back to the listing
// title when the detail record never became a Broadcast.
func (res itemResult) display(s fetch.Summary) string {
	if res.b != nil {
		return res.b.String()
	}
	return s.Title
}

func (res itemResult) title(s fetch.Summary) string {
	if res.b != nil && res.b.Title != "" {
		return res.b.Title
	}
	return s.Title
}

// process executes the pipeline for one matched broadcast: resolve the
// detail record, expand the target layout, download, convert, tag, and
// optionally drop the original stream.
func (r *Runner) process(ctx context.Context, m matchedBroadcast) (itemResult, error) {
	var res itemResult
	log := logging.WithContext(ctx, r.logger)

	payload, fromCache, err := r.cache.GetOrFetch(ctx, m.summary.Href, r.client)
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			return res, err
		}
		return res, services.Wrap(services.ErrNoData, "archive", "detail", "unusable detail record", err)
	}
	log.Debug("detail record loaded", logging.Bool("from_cache", fromCache))

	b, err := broadcast.New(payload,
		broadcast.WithStreamBaseURL(r.cfg.Station.StreamBaseURL),
		broadcast.WithLocation(r.cfg.Location()))
	if err != nil {
		return res, services.Wrap(services.ErrNoData, "archive", "detail", "unusable detail record", err)
	}
	res.b = b

	values := expand.Values(b.Attributes())
	values["SECTION"] = m.section.Name
	values["DOWNLOAD_BASEDIR"] = r.basedir

	targetDir, err := expand.Expand(m.section.TargetDir, values)
	if err != nil {
		return res, services.Wrap(services.ErrTemplate, "archive", "expand", "target directory", err)
	}
	name, err := expand.Expand(m.section.TargetName, values)
	if err != nil {
		return res, services.Wrap(services.ErrTemplate, "archive", "expand", "target name", err)
	}
	name = textutil.SanitizeFileName(name)
	if ext, ok := ffmpeg.OutputExtension(m.section.FFmpegArguments); ok {
		name += ext
	} else {
		log.Warn("no extension for output audio file", logging.String("file", name))
	}

	downloadPath := filepath.Join(targetDir, b.DownloadFile)
	outputPath := filepath.Join(targetDir, name)
	res.output = outputPath

	if r.dryRun {
		log.Info("would archive",
			logging.String("broadcast", b.String()),
			logging.String("download", downloadPath),
			logging.String("output", outputPath))
		res.status = journal.StatusDone
		return res, nil
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return res, fmt.Errorf("create target directory: %w", err)
	}

	if _, err := os.Stat(downloadPath); errors.Is(err, fs.ErrNotExist) {
		log.Info("downloading stream",
			logging.String("url", b.DownloadURL),
			logging.String("file", downloadPath))
		if _, err := r.client.Download(ctx, b.DownloadURL, downloadPath); err != nil {
			return res, err
		}
	} else if err != nil {
		return res, fmt.Errorf("stat download: %w", err)
	}

	if downloadPath == outputPath {
		return res, fmt.Errorf("conversion would overwrite the downloaded stream: %s", downloadPath)
	}

	_, statErr := os.Stat(outputPath)
	missing := errors.Is(statErr, fs.ErrNotExist)
	if statErr != nil && !missing {
		return res, fmt.Errorf("stat output: %w", statErr)
	}
	if missing || r.reconvert {
		log.Info("encoding", logging.String("output", outputPath))
		args := ffmpeg.SplitArgs(m.section.FFmpegArguments)
		if err := r.converter.Convert(ctx, downloadPath, outputPath, args, r.length); err != nil {
			return res, err
		}
		res.converted = true
	} else {
		log.Info("using already existing file", logging.String("output", outputPath))
	}

	if res.converted || r.retag {
		tagValues, err := expandTags(m.section.Tags, values)
		if err != nil {
			return res, err
		}
		if err := r.tagger.Write(ctx, outputPath, tagValues); err != nil {
			return res, err
		}
	}

	if !m.section.KeepOriginal {
		if err := os.Remove(downloadPath); err != nil {
			return res, fmt.Errorf("remove original download: %w", err)
		}
		log.Debug("removed original download", logging.String("file", downloadPath))
	}

	res.status = journal.StatusDone
	return res, nil
}

func expandTags(templates map[string]string, values expand.Values) (map[string]string, error) {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	rendered := make(map[string]string, len(names))
	for _, name := range names {
		value, err := expand.Expand(templates[name], values)
		if err != nil {
			return nil, services.Wrap(services.ErrTemplate, "archive", "expand", "tag "+name, err)
		}
		rendered[name] = value
	}
	return rendered, nil
}
