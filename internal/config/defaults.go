package config

const (
	defaultWorkspaceDir = "~/.cache/trackmix/work"
	defaultLogDir       = "~/.local/share/trackmix/logs"
	defaultHistoryPath  = "~/.local/share/trackmix/history.db"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultFFprobe      = "ffprobe"
	defaultFFmpeg       = "ffmpeg"
	defaultMKVMerge     = "mkvmerge"
	defaultMediaInfo    = "mediainfo"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			LogDir:       defaultLogDir,
		},
		Tools: Tools{
			FFprobe:   defaultFFprobe,
			FFmpeg:    defaultFFmpeg,
			MKVMerge:  defaultMKVMerge,
			MediaInfo: defaultMediaInfo,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
