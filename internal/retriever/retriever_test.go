package retriever

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"subfetch/internal/osdb"
)

type fakeService struct {
	searchReq  osdb.SearchRequest
	candidates []osdb.Candidate
	searchErr  error

	payloads    map[int]string
	downloads   int
	downloadErr error
}

func (s *fakeService) Search(token string, req osdb.SearchRequest) ([]osdb.Candidate, error) {
	s.searchReq = req
	return s.candidates, s.searchErr
}

func (s *fakeService) Download(token string, subtitleID int) (string, error) {
	s.downloads++
	if s.downloadErr != nil {
		return "", s.downloadErr
	}
	return s.payloads[subtitleID], nil
}

type silentConsole struct{}

func (silentConsole) ShowCandidates([]osdb.Candidate) {}

func (silentConsole) ChooseCandidate(count int) (int, error) { return 0, ErrCancelled }

func encodeSubtitle(t *testing.T, text string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(text)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func writeVideo(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "movie.mkv")
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, 4096), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	return path
}

func newRetriever(t *testing.T, service *fakeService, policy Policy) *Retriever {
	t.Helper()
	if policy.Limit == 0 {
		policy.Limit = 10
	}
	if policy.Languages == "" {
		policy.Languages = "eng"
	}
	r, err := New(service, silentConsole{}, policy, "token-123", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestProcessHashMatchEndToEnd(t *testing.T) {
	dir := t.TempDir()
	video := writeVideo(t, dir)
	const subtitle = "1\n00:00:01,000 --> 00:00:02,000\nhello\n"

	service := &fakeService{
		candidates: []osdb.Candidate{
			{ID: 11, FileName: "release.srt", Language: "eng"},
			{ID: 12, FileName: "better.srt", Language: "eng", MatchedByHash: true},
		},
		payloads: map[int]string{12: encodeSubtitle(t, subtitle)},
	}

	r := newRetriever(t, service, Policy{Quiet: true})
	if err := r.Process(video); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if service.searchReq.Hash == "" || service.searchReq.ByteSize == "" {
		t.Fatal("search request missing fingerprint term")
	}
	if service.searchReq.Query != "movie.mkv" {
		t.Fatalf("search query = %q", service.searchReq.Query)
	}

	written, err := os.ReadFile(filepath.Join(dir, "better.srt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(written) != subtitle {
		t.Fatalf("output = %q, want %q", written, subtitle)
	}
}

func TestProcessNameOnlySkipsFingerprint(t *testing.T) {
	// Name-only search never opens the video, so a missing file is fine.
	video := filepath.Join(t.TempDir(), "missing.mkv")
	service := &fakeService{
		candidates: []osdb.Candidate{{ID: 5, FileName: "missing.srt"}},
		payloads:   map[int]string{5: encodeSubtitle(t, "text")},
	}

	r := newRetriever(t, service, Policy{NameOnly: true, NeverAsk: true, Quiet: true})
	if err := r.Process(video); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if service.searchReq.Hash != "" {
		t.Fatal("name-only search must not carry a fingerprint")
	}
	if service.searchReq.Query != "missing.mkv" {
		t.Fatalf("search query = %q", service.searchReq.Query)
	}
}

func TestProcessHashOnlyOmitsNameTerm(t *testing.T) {
	dir := t.TempDir()
	video := writeVideo(t, dir)
	service := &fakeService{
		candidates: []osdb.Candidate{{ID: 5, FileName: "movie.srt", MatchedByHash: true}},
		payloads:   map[int]string{5: encodeSubtitle(t, "text")},
	}

	r := newRetriever(t, service, Policy{HashOnly: true, Quiet: true})
	if err := r.Process(video); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if service.searchReq.Query != "" {
		t.Fatal("hash-only search must not carry a name term")
	}
}

func TestProcessNoResults(t *testing.T) {
	video := writeVideo(t, t.TempDir())
	r := newRetriever(t, &fakeService{}, Policy{})
	if err := r.Process(video); !errors.Is(err, ErrNoResults) {
		t.Fatalf("err = %v, want ErrNoResults", err)
	}
}

func TestProcessSearchErrorPropagates(t *testing.T) {
	video := writeVideo(t, t.TempDir())
	searchErr := osdb.RPCError{Code: 503, Message: "overloaded"}
	r := newRetriever(t, &fakeService{searchErr: searchErr}, Policy{})
	err := r.Process(video)
	var rpcErr osdb.RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("err = %v, want RPCError", err)
	}
}

func TestProcessRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	video := writeVideo(t, dir)
	existing := filepath.Join(dir, "movie.srt")
	if err := os.WriteFile(existing, []byte("keep me"), 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	service := &fakeService{
		candidates: []osdb.Candidate{{ID: 5, FileName: "movie.srt", MatchedByHash: true}},
	}
	r := newRetriever(t, service, Policy{Quiet: true})
	if err := r.Process(video); !errors.Is(err, ErrExists) {
		t.Fatalf("err = %v, want ErrExists", err)
	}
	if service.downloads != 0 {
		t.Fatal("download must not run when overwrite is refused")
	}
	kept, _ := os.ReadFile(existing)
	if string(kept) != "keep me" {
		t.Fatal("existing file was modified")
	}
}

func TestProcessForceOverwriteReplacesContents(t *testing.T) {
	dir := t.TempDir()
	video := writeVideo(t, dir)
	existing := filepath.Join(dir, "movie.srt")
	if err := os.WriteFile(existing, []byte("old contents"), 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	service := &fakeService{
		candidates: []osdb.Candidate{{ID: 5, FileName: "movie.srt", MatchedByHash: true}},
		payloads:   map[int]string{5: encodeSubtitle(t, "new contents")},
	}
	r := newRetriever(t, service, Policy{ForceOverwrite: true, Quiet: true})
	if err := r.Process(video); err != nil {
		t.Fatalf("Process: %v", err)
	}
	replaced, _ := os.ReadFile(existing)
	if string(replaced) != "new contents" {
		t.Fatalf("contents = %q", replaced)
	}
}

func TestProcessSameNameDerivation(t *testing.T) {
	dir := t.TempDir()
	video := writeVideo(t, dir)
	service := &fakeService{
		candidates: []osdb.Candidate{{ID: 5, FileName: "totally.different.sub", MatchedByHash: true}},
		payloads:   map[int]string{5: encodeSubtitle(t, "text")},
	}
	r := newRetriever(t, service, Policy{SameName: true, Quiet: true})
	if err := r.Process(video); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "movie.sub")); err != nil {
		t.Fatalf("expected movie.sub next to the video: %v", err)
	}
}

func TestProcessCorruptPayload(t *testing.T) {
	dir := t.TempDir()
	video := writeVideo(t, dir)
	service := &fakeService{
		candidates: []osdb.Candidate{{ID: 5, FileName: "movie.srt", MatchedByHash: true}},
		payloads:   map[int]string{5: base64.StdEncoding.EncodeToString([]byte("not gzip"))},
	}
	r := newRetriever(t, service, Policy{Quiet: true})
	if err := r.Process(video); err == nil {
		t.Fatal("expected decode failure")
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := (Policy{HashOnly: true, NameOnly: true, Limit: 10}).Validate(); err == nil {
		t.Fatal("expected error for contradictory search modes")
	}
	if err := (Policy{AlwaysAsk: true, NeverAsk: true, Limit: 10}).Validate(); err == nil {
		t.Fatal("expected error for contradictory prompting modes")
	}
	if err := (Policy{Limit: 0}).Validate(); err == nil {
		t.Fatal("expected error for zero limit")
	}
	if err := (Policy{Limit: 1}).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
