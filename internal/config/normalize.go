package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir
	}
	if c.Paths.WorkspaceDir, err = ExpandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// normalizeTools trims configured binaries and applies TRACKMIX_* environment
// overrides, so containerized installs can point at bundled tools without a
// config file.
func (c *Config) normalizeTools() {
	c.Tools.FFprobe = toolValue(c.Tools.FFprobe, "TRACKMIX_FFPROBE", defaultFFprobe)
	c.Tools.FFmpeg = toolValue(c.Tools.FFmpeg, "TRACKMIX_FFMPEG", defaultFFmpeg)
	c.Tools.MKVMerge = toolValue(c.Tools.MKVMerge, "TRACKMIX_MKVMERGE", defaultMKVMerge)
	c.Tools.MediaInfo = toolValue(c.Tools.MediaInfo, "TRACKMIX_MEDIAINFO", defaultMediaInfo)
}

func toolValue(configured, envKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	trimmed := strings.TrimSpace(configured)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	expanded, err := ExpandPath(c.History.Path)
	if err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	c.History.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
