// Package payload turns the transport-encoded subtitle body returned by the
// download call into plain subtitle bytes.
//
// The remote service ships subtitles as base64 text wrapping a gzip stream.
// Decoding is incremental: the base64 decoder and the gzip reader both carry
// their state across bounded chunks, and every decompressed round is written
// to the sink immediately, so the full subtitle is never held in memory.
package payload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// chunkSize bounds the copy buffer between the gzip reader and the sink.
const chunkSize = 64 * 1024

// DecodeError reports malformed base64 transport encoding.
type DecodeError struct {
	Err error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("decode subtitle payload: %v", e.Err)
}

func (e DecodeError) Unwrap() error { return e.Err }

// CompressionError reports a malformed or truncated gzip stream.
type CompressionError struct {
	Err error
}

func (e CompressionError) Error() string {
	return fmt.Sprintf("decompress subtitle payload: %v", e.Err)
}

func (e CompressionError) Unwrap() error { return e.Err }

// errorTrackingWriter remembers the first write failure so sink errors can be
// told apart from stream corruption after io.Copy collapses them.
type errorTrackingWriter struct {
	w   io.Writer
	err error
}

func (t *errorTrackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}

// Decode streams the encoded payload through base64 and gzip decoding into
// sink. On a mid-stream fault whatever was already decompressed stays in the
// sink; the caller owns any cleanup of partially written files.
func Decode(encoded string, sink io.Writer) error {
	b64 := base64.NewDecoder(base64.StdEncoding, strings.NewReader(encoded))

	zr, err := gzip.NewReader(b64)
	if err != nil {
		return classify(err)
	}
	defer zr.Close()
	// The service sends exactly one gzip member; without this a second
	// header would be silently expected at EOF.
	zr.Multistream(false)

	tracked := &errorTrackingWriter{w: sink}
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(tracked, zr, buf); err != nil {
		if tracked.err != nil {
			return fmt.Errorf("write subtitle: %w", tracked.err)
		}
		return classify(err)
	}

	// Close verifies the gzip checksum; a truncated stream that happens to
	// end on a chunk boundary only surfaces here.
	if err := zr.Close(); err != nil {
		return classify(err)
	}
	return nil
}

// classify splits transport-encoding faults from compressed-stream faults.
// Input exhaustion before the gzip end-of-stream marker counts as a
// compression fault.
func classify(err error) error {
	var corrupt base64.CorruptInputError
	if errors.As(err, &corrupt) {
		return DecodeError{Err: err}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return CompressionError{Err: io.ErrUnexpectedEOF}
	}
	return CompressionError{Err: err}
}
