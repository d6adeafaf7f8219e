package config

const (
	defaultListingURL    = "https://audioapi.orf.at/oe1/api/json/current/broadcasts"
	defaultStreamBaseURL = "http://loopstream01.apa.at/?channel=oe1&id="
	defaultFFmpegBinary  = "ffmpeg"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultNotifyTimeout = 10

	defaultTimeWindow      = "00:00-24:00"
	defaultTargetDir       = "{DOWNLOAD_BASEDIR}/{SECTION}"
	defaultTargetName      = "{scheduled_start:%Y-%m-%d %Hh%M} Ö1 {title} {info_1line_limited}"
	defaultFFmpegArguments = "-c:a libopus -b:a 36k -vbr on -compression_level 10 -frame_duration 60 -application voip"
	defaultTitlePattern    = ".*"
)

// File names resolved relative to the archive root when not configured
// explicitly.
const (
	DefaultCacheFileName   = "oe1cache.json.gz"
	DefaultJournalFileName = "aircheck.db"
	DefaultLockFileName    = "aircheck.lock"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Station: Station{
			ListingURL:    defaultListingURL,
			StreamBaseURL: defaultStreamBaseURL,
			FFmpegBinary:  defaultFFmpegBinary,
		},
		Cache: Cache{
			Enabled: true,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
	}
}

func defaultDays() []int {
	return []int{0, 1, 2, 3, 4, 5, 6}
}

func defaultTags() map[string]string {
	return map[string]string{
		"artist":  "Ö1",
		"album":   "{SECTION}",
		"title":   "{scheduled_start:%Y-%m-%d %H:%M} {title} {info_1line_limited} (id:{id})",
		"date":    "{scheduled_start:%Y}",
		"genre":   "Podcast",
		"comment": "{extended_info}",
	}
}

// DefaultSection returns a Section carrying the documented key defaults.
// Every key a configuration file leaves out keeps these values, so a
// section only needs to state what differs.
func DefaultSection() Section {
	return Section{
		TimeWindow:      defaultTimeWindow,
		Days:            defaultDays(),
		TargetDir:       defaultTargetDir,
		TargetName:      defaultTargetName,
		KeepOriginal:    true,
		FFmpegArguments: defaultFFmpegArguments,
		Title:           defaultTitlePattern,
		Tags:            defaultTags(),
	}
}
