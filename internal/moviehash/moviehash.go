// Package moviehash computes the 64-bit content fingerprint used by the
// OpenSubtitles database for exact-match subtitle lookup.
//
// The fingerprint is the file size plus the wrapping sum of the first and
// last 64 KiB of the file read as little-endian 64-bit words. It identifies
// a video independent of its name and must match the reference
// implementation bit-for-bit to interoperate with the remote service.
package moviehash

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// ChunkSize is the window length hashed at each end of the file.
const ChunkSize = 64 * 1024

const wordSize = 8

// Fingerprint identifies a video file by content rather than name.
type Fingerprint struct {
	Hash uint64
	Size uint64
}

// Hex renders the hash as the 16-digit lowercase hex string the search
// protocol expects.
func (f Fingerprint) Hex() string {
	return fmt.Sprintf("%016x", f.Hash)
}

// SizeString renders the byte length as the decimal string the search
// protocol expects.
func (f Fingerprint) SizeString() string {
	return fmt.Sprintf("%d", f.Size)
}

// Compute opens path and derives its fingerprint.
func Compute(path string) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat %s: %w", path, err)
	}
	fp, err := fromReader(f, uint64(info.Size()))
	if err != nil {
		return Fingerprint{}, fmt.Errorf("hash %s: %w", path, err)
	}
	return fp, nil
}

func fromReader(r io.ReadSeeker, size uint64) (Fingerprint, error) {
	hash := size

	sum, err := sumWindow(r)
	if err != nil {
		return Fingerprint{}, err
	}
	hash += sum

	// The trailing window starts at size-64KiB, clamped to zero. For files
	// smaller than 64 KiB both windows cover the same bytes; the reference
	// implementation sums them twice and so do we.
	offset := int64(0)
	if size > ChunkSize {
		offset = int64(size - ChunkSize)
	}
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return Fingerprint{}, fmt.Errorf("seek trailing window: %w", err)
	}
	sum, err = sumWindow(r)
	if err != nil {
		return Fingerprint{}, err
	}
	hash += sum

	return Fingerprint{Hash: hash, Size: size}, nil
}

// sumWindow adds up to ChunkSize bytes from r as little-endian uint64 words
// with wraparound. A partial trailing word is not summed.
func sumWindow(r io.Reader) (uint64, error) {
	buf := make([]byte, ChunkSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("read window: %w", err)
	}

	var sum uint64
	for i := 0; i+wordSize <= n; i += wordSize {
		sum += binary.LittleEndian.Uint64(buf[i:])
	}
	return sum, nil
}
