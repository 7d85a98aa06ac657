package osdb

import (
	"fmt"
)

// matchedByHashMarker is the MatchedBy value the service uses for results
// that matched the queried fingerprint exactly.
const matchedByHashMarker = "moviehash"

// SearchRequest describes one batched search call. The fingerprint term is
// included when Hash is set; the name term when Query is set. Both terms may
// be present, in which case the service returns a single merged result array
// whose ordering it alone controls.
type SearchRequest struct {
	// Languages is the comma-separated language filter applied to every term.
	Languages string
	// Hash is the 16-digit lowercase hex fingerprint; empty omits the
	// fingerprint term.
	Hash string
	// ByteSize is the decimal file length accompanying Hash.
	ByteSize string
	// Query is the bare file name for the text search; empty omits the
	// name term.
	Query string
	// Limit caps the total result count for the call.
	Limit int
}

// Candidate is one subtitle record returned by a search call.
type Candidate struct {
	ID            int
	MatchedByHash bool
	Language      string
	ReleaseName   string
	FileName      string
}

// Search issues the batched SearchSubtitles call and parses the merged
// result array in service order. An empty result set is a normal outcome and
// returns a nil slice, not an error.
func (c *Client) Search(token string, req SearchRequest) ([]Candidate, error) {
	terms := make([]any, 0, 2)
	if req.Hash != "" {
		terms = append(terms, map[string]any{
			"sublanguageid": req.Languages,
			"moviehash":     req.Hash,
			"moviebytesize": req.ByteSize,
		})
	}
	if req.Query != "" {
		terms = append(terms, map[string]any{
			"sublanguageid": req.Languages,
			"query":         req.Query,
		})
	}
	params := map[string]any{"limit": req.Limit}

	var reply struct {
		Status string `xmlrpc:"status"`
		Data   any    `xmlrpc:"data"`
	}
	args := []any{token, terms, params}
	if err := c.rpc.Call("SearchSubtitles", args, &reply); err != nil {
		return nil, wrapCall("SearchSubtitles", err)
	}

	records, err := resultRecords(reply.Data)
	if err != nil {
		return nil, fmt.Errorf("SearchSubtitles: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	candidates := make([]Candidate, 0, len(records))
	for _, record := range records {
		candidate, err := parseCandidate(record)
		if err != nil {
			return nil, fmt.Errorf("SearchSubtitles: %w", err)
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}
