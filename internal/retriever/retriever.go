package retriever

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"subfetch/internal/logging"
	"subfetch/internal/moviehash"
	"subfetch/internal/osdb"
	"subfetch/internal/payload"
)

// Sentinel outcomes a caller is expected to branch on.
var (
	// ErrNoResults means the search succeeded but matched nothing.
	ErrNoResults = errors.New("no matching subtitles")
	// ErrExists means the output file is already present and the overwrite
	// policy forbids replacing it.
	ErrExists = errors.New("subtitle file already exists")
	// ErrCancelled means the user quit the interactive selection.
	ErrCancelled = errors.New("selection cancelled")
)

// Policy holds the per-run selection and output configuration. It is built
// once at startup and never mutated afterwards.
type Policy struct {
	Languages      string
	AlwaysAsk      bool
	NeverAsk       bool
	HashOnly       bool
	NameOnly       bool
	SameName       bool
	ForceOverwrite bool
	Limit          int
	// Quiet suppresses the candidate table when no interaction was needed.
	Quiet bool
}

// Validate rejects contradictory search-mode and prompting restrictions.
func (p Policy) Validate() error {
	if p.HashOnly && p.NameOnly {
		return errors.New("hash-only and name-only search are mutually exclusive")
	}
	if p.AlwaysAsk && p.NeverAsk {
		return errors.New("always-ask and never-ask are mutually exclusive")
	}
	if p.Limit < 1 {
		return fmt.Errorf("invalid result limit %d", p.Limit)
	}
	return nil
}

// SubtitleService is the slice of the remote database the retriever consumes.
type SubtitleService interface {
	Search(token string, req osdb.SearchRequest) ([]osdb.Candidate, error)
	Download(token string, subtitleID int) (string, error)
}

// Console is the interactive collaborator used during candidate selection.
type Console interface {
	// ShowCandidates renders the candidate table.
	ShowCandidates(candidates []osdb.Candidate)
	// ChooseCandidate prompts for a 1-based index in [1, count]. Malformed
	// input is re-prompted without bound; a quit response returns
	// ErrCancelled.
	ChooseCandidate(count int) (int, error)
}

// Retriever processes one video file at a time against an authenticated
// session.
type Retriever struct {
	service SubtitleService
	console Console
	policy  Policy
	token   string
	logger  *slog.Logger
}

// New assembles a Retriever. The token comes from the startup login and is
// shared read-only across all files of the run.
func New(service SubtitleService, console Console, policy Policy, token string, logger *slog.Logger) (*Retriever, error) {
	if service == nil {
		return nil, errors.New("retriever: service is required")
	}
	if console == nil {
		return nil, errors.New("retriever: console is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("retriever: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Retriever{
		service: service,
		console: console,
		policy:  policy,
		token:   token,
		logger:  logger,
	}, nil
}

// Process runs the full pipeline for one video file: fingerprint, search,
// select, download, decode, write.
func (r *Retriever) Process(path string) error {
	req := osdb.SearchRequest{
		Languages: r.policy.Languages,
		Limit:     r.policy.Limit,
	}

	if !r.policy.NameOnly {
		fp, err := moviehash.Compute(path)
		if err != nil {
			return err
		}
		req.Hash = fp.Hex()
		req.ByteSize = fp.SizeString()
		r.logger.Debug("fingerprinted video",
			logging.String("hash", req.Hash),
			logging.String("bytes", req.ByteSize),
		)
	}

	name := filepath.Base(path)
	if !r.policy.HashOnly {
		req.Query = name
	}

	r.logger.Info("searching", logging.String("file", name))
	candidates, err := r.service.Search(r.token, req)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%s: %w", name, ErrNoResults)
	}
	r.logger.Debug("search returned candidates", logging.Int("count", len(candidates)))

	return runSelection(candidates, r.policy, r.console, func(candidate osdb.Candidate) error {
		return r.fetch(path, candidate)
	})
}

// fetch downloads one chosen candidate and streams it to disk.
func (r *Retriever) fetch(videoPath string, candidate osdb.Candidate) error {
	outPath := SubtitlePath(videoPath, candidate.FileName, r.policy.SameName)

	if _, err := os.Stat(outPath); err == nil {
		if !r.policy.ForceOverwrite {
			return fmt.Errorf("%s: %w", outPath, ErrExists)
		}
		r.logger.Info("output exists, overwriting", logging.String("path", outPath))
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", outPath, err)
	}

	r.logger.Info("downloading",
		logging.String("to", outPath),
		logging.Int("subtitle_id", candidate.ID),
	)
	encoded, err := r.service.Download(r.token, candidate.ID)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	if err := payload.Decode(encoded, out); err != nil {
		// A mid-stream fault leaves the partial file in place for
		// inspection; only the handle is released here.
		out.Close()
		return fmt.Errorf("%s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", outPath, err)
	}
	return nil
}
