package mkvmerge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Container represents the parsed output of `mkvmerge -J`.
type Container struct {
	FileName    string       `json:"file_name"`
	Tracks      []Track      `json:"tracks"`
	Attachments []Attachment `json:"attachments"`
}

// Track describes one container track as mkvmerge identifies it.
type Track struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	Codec      string          `json:"codec"`
	Properties TrackProperties `json:"properties"`
}

// TrackProperties carries the per-track metadata trackmix reattaches.
type TrackProperties struct {
	TrackName string `json:"track_name"`
	Language  string `json:"language"`
}

// Attachment describes an attached file (fonts, cover art).
type Attachment struct {
	ID          int64  `json:"id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// Identify runs `mkvmerge -J` against the path and decodes the result.
func Identify(ctx context.Context, binary string, path string) (Container, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mkvmerge"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Container{}, errors.New("mkvmerge identify: empty path")
	}

	cmd := commandContext(ctx, binary, "-J", path)
	output, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			detail = strings.TrimSpace(string(exitErr.Stderr))
		}
		return Container{}, fmt.Errorf("mkvmerge identify: %w: %s", err, detail)
	}
	return ParseIdentify(output)
}

// ParseIdentify decodes raw `mkvmerge -J` JSON output.
func ParseIdentify(payload []byte) (Container, error) {
	var container Container
	if err := json.Unmarshal(payload, &container); err != nil {
		return Container{}, fmt.Errorf("mkvmerge identify parse: %w", err)
	}
	return container, nil
}

// TrackIDsByType returns the IDs of tracks matching the given mkvmerge type
// ("video", "audio", "subtitles"), in container order.
func (c Container) TrackIDsByType(trackType string) []int64 {
	var ids []int64
	for _, track := range c.Tracks {
		if strings.EqualFold(track.Type, trackType) {
			ids = append(ids, track.ID)
		}
	}
	return ids
}

// AttachmentIDs returns all attachment IDs in container order.
func (c Container) AttachmentIDs() []int64 {
	var ids []int64
	for _, attachment := range c.Attachments {
		ids = append(ids, attachment.ID)
	}
	return ids
}
