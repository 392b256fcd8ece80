// Package pipeline orchestrates the per-track transcode chain: extract the
// stream to lossless FLAC (applying any planned downmix), normalize loudness,
// then encode to Opus at the policy bitrate. Stages run sequentially and any
// failure aborts the whole run; partial per-track retries are deliberately
// not attempted.
package pipeline
