package mediainfo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var commandContext = exec.CommandContext

// AudioDelay reports the A/V sync delay mediainfo measured for one audio
// stream. Seconds is the raw value as reported; HasDelay distinguishes a
// measured zero from an absent field.
type AudioDelay struct {
	StreamOrder  int
	DelaySeconds float64
	HasDelay     bool
}

// Report holds the delay data extracted from a mediainfo JSON dump.
type Report struct {
	AudioDelays []AudioDelay
}

// Inspect runs `mediainfo --Output=JSON` and extracts per-audio-stream delays.
func Inspect(ctx context.Context, binary string, path string) (Report, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mediainfo"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Report{}, errors.New("mediainfo inspect: empty path")
	}

	cmd := commandContext(ctx, binary, "--Output=JSON", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Report{}, fmt.Errorf("mediainfo inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return Parse(output)
}

// Parse extracts audio delay data from raw mediainfo JSON. The mediainfo
// schema is loosely typed (numbers arrive as strings or numbers depending on
// version), so fields are read through gjson rather than struct tags.
func Parse(payload []byte) (Report, error) {
	if !gjson.ValidBytes(payload) {
		return Report{}, errors.New("mediainfo parse: invalid JSON")
	}

	tracks := gjson.GetBytes(payload, "media.track")
	if !tracks.Exists() {
		return Report{}, errors.New("mediainfo parse: no media.track array")
	}

	var report Report
	var parseErr error
	tracks.ForEach(func(_, track gjson.Result) bool {
		if !strings.EqualFold(track.Get("@type").String(), "Audio") {
			return true
		}
		orderValue := track.Get("StreamOrder")
		if !orderValue.Exists() {
			parseErr = errors.New("mediainfo parse: audio track missing StreamOrder")
			return false
		}
		order, err := parseStreamOrder(orderValue)
		if err != nil {
			parseErr = err
			return false
		}

		delay := AudioDelay{StreamOrder: order}
		if delayValue := track.Get("Video_Delay"); delayValue.Exists() {
			delay.DelaySeconds = delayValue.Float()
			delay.HasDelay = true
		}
		report.AudioDelays = append(report.AudioDelays, delay)
		return true
	})
	if parseErr != nil {
		return Report{}, parseErr
	}
	return report, nil
}

// parseStreamOrder handles both plain orders ("1") and the "muxer-level"
// form ("0-1") mediainfo emits for some containers.
func parseStreamOrder(value gjson.Result) (int, error) {
	text := strings.TrimSpace(value.String())
	if idx := strings.LastIndex(text, "-"); idx > 0 {
		text = text[idx+1:]
	}
	order, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("mediainfo parse: stream order %q: %w", value.String(), err)
	}
	return order, nil
}

// DelayFor returns the delay entry for the given stream order.
func (r Report) DelayFor(streamOrder int) (AudioDelay, bool) {
	for _, delay := range r.AudioDelays {
		if delay.StreamOrder == streamOrder {
			return delay, true
		}
	}
	return AudioDelay{}, false
}
