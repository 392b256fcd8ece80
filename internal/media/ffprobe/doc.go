// Package ffprobe shells out to ffprobe and decodes its JSON stream listing.
package ffprobe
