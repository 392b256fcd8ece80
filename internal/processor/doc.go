// Package processor drives one end-to-end run: preflight the external
// tools, probe and merge the container description, classify audio tracks,
// transcode the transcode set, assemble the mux plan and execute it. The
// run is sequential and all-or-nothing: the first fatal error
// aborts remaining work, and the workspace is removed on every exit path.
package processor
