package broadcast

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"aircheck/internal/htmltext"
	"aircheck/internal/textutil"
)

// DefaultStreamBaseURL is the station's loopstream endpoint. The sanitized
// stream identifier is appended verbatim.
const DefaultStreamBaseURL = "http://loopstream01.apa.at/?channel=oe1&id="

// summaryLimit bounds the one-line summary, counted in runes.
const summaryLimit = 120

// ErrNoStreams marks detail records without a usable stream identifier.
// Such broadcasts are announced in the schedule but carry nothing to fetch.
var ErrNoStreams = errors.New("no streams published")

// Broadcast is one scheduled program instance with its derived attributes.
type Broadcast struct {
	ID               int64
	Title            string
	Subtitle         string
	Href             string
	URL              string
	Tags             string
	ScheduledStart   time.Time
	ExtendedInfo     string
	ExtendedInfoText string
	InfoLine         string
	InfoLineLimited  string
	DownloadFile     string
	DownloadURL      string
}

type detailRecord struct {
	ID             ID          `json:"id"`
	Title          string      `json:"title"`
	Subtitle       string      `json:"subtitle"`
	Description    string      `json:"description"`
	PressRelease   string      `json:"pressRelease"`
	Akm            string      `json:"akm"`
	Tags           []string    `json:"tags"`
	Href           string      `json:"href"`
	URL            string      `json:"url"`
	ScheduledStart EpochMillis `json:"scheduledStart"`
	Streams        []stream    `json:"streams"`
}

type stream struct {
	LoopStreamID string `json:"loopStreamId"`
}

// Option configures broadcast construction.
type Option func(*settings)

type settings struct {
	streamBaseURL string
	location      *time.Location
}

// WithStreamBaseURL overrides the download base URL.
func WithStreamBaseURL(base string) Option {
	return func(s *settings) {
		if strings.TrimSpace(base) != "" {
			s.streamBaseURL = base
		}
	}
}

// WithLocation overrides the timezone used for the scheduled start.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.location = loc
		}
	}
}

// New builds a Broadcast from a raw detail record.
func New(raw []byte, opts ...Option) (*Broadcast, error) {
	cfg := settings{streamBaseURL: DefaultStreamBaseURL, location: time.Local}
	for _, opt := range opts {
		opt(&cfg)
	}

	var record detailRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("parse detail record: %w", err)
	}
	if record.ID == 0 {
		return nil, errors.New("detail record carries no id")
	}
	if record.ScheduledStart == 0 {
		return nil, errors.New("detail record carries no scheduled start")
	}

	streamID := ""
	if len(record.Streams) > 0 {
		streamID = strings.TrimSpace(record.Streams[0].LoopStreamID)
	}
	if streamID == "" {
		return nil, ErrNoStreams
	}

	b := &Broadcast{
		ID:             int64(record.ID),
		Title:          strings.TrimSpace(record.Title),
		Subtitle:       htmltext.RenderText(record.Subtitle),
		Href:           strings.TrimSpace(record.Href),
		URL:            strings.TrimSpace(record.URL),
		Tags:           strings.Join(record.Tags, ", "),
		ScheduledStart: record.ScheduledStart.Time(cfg.location),
		DownloadFile:   textutil.SanitizeFileName(streamID),
	}
	b.DownloadURL = cfg.streamBaseURL + b.DownloadFile

	longFields := []string{record.Subtitle, record.Description, record.PressRelease, record.Akm}
	b.ExtendedInfo = joinRendered(longFields, htmltext.Render)
	b.ExtendedInfoText = joinRendered(longFields, htmltext.RenderText)
	b.InfoLine = textutil.CollapseWhitespace(b.ExtendedInfoText)
	b.InfoLineLimited = textutil.TruncateRunes(b.InfoLine, summaryLimit)

	return b, nil
}

// joinRendered converts each HTML fragment and joins the non-empty results
// with a blank line, preserving field order.
func joinRendered(fields []string, render func(string) string) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if rendered := strings.TrimSpace(render(field)); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Attributes returns the template attribute map for this broadcast.
func (b *Broadcast) Attributes() map[string]any {
	return map[string]any{
		"id":                      strconv.FormatInt(b.ID, 10),
		"title":                   b.Title,
		"subtitle":                b.Subtitle,
		"href":                    b.Href,
		"url":                     b.URL,
		"tags":                    b.Tags,
		"scheduled_start":         b.ScheduledStart,
		"extended_info":           b.ExtendedInfo,
		"extended_info_text_only": b.ExtendedInfoText,
		"info_1line":              b.InfoLine,
		"info_1line_limited":      b.InfoLineLimited,
		"download_url":            b.DownloadURL,
	}
}

// String renders the display form used in logs and operator output.
func (b *Broadcast) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s Ö1 %s %s",
		b.ScheduledStart.Format("2006-01-02 15h04"), b.Title, b.InfoLineLimited))
}

// ID tolerates the station API delivering identifiers as number or string.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	if trimmed == "" || trimmed == "null" {
		*id = 0
		return nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", trimmed, err)
	}
	*id = ID(parsed)
	return nil
}

// EpochMillis tolerates the station API delivering timestamps as number or
// string epoch milliseconds.
type EpochMillis int64

func (m *EpochMillis) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	if trimmed == "" || trimmed == "null" {
		*m = 0
		return nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fmt.Errorf("parse scheduled start %q: %w", trimmed, err)
	}
	*m = EpochMillis(parsed)
	return nil
}

// Time converts the epoch milliseconds into a wall-clock time in loc.
func (m EpochMillis) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(int64(m)).In(loc)
}
