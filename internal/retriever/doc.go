// Package retriever drives per-file subtitle retrieval: fingerprint the
// video, search the remote database, resolve a candidate automatically or
// interactively, then stream the chosen payload to a subtitle file next to
// the video.
//
// One file is fully processed before the next begins; the only suspension
// points are the blocking service calls and the interactive prompt. All
// per-file failures surface at this boundary so the command layer can decide
// between aborting the run and moving on.
package retriever
