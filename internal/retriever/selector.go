package retriever

import (
	"subfetch/internal/osdb"
)

// runSelection decides which candidate(s) to fetch.
//
// The first fingerprint match becomes a provisional pick. With never-ask and
// no fingerprint match the first candidate is picked. A provisional pick is
// fetched without interaction unless always-ask is set; otherwise the console
// prompts against the rendered table. After a successful interactive fetch
// with more than one candidate the prompt loop re-enters, so a caller can
// grab several subtitles (different languages, say) in one pass. That repeat
// behavior is deliberate, not a single-shot choice.
func runSelection(candidates []osdb.Candidate, policy Policy, console Console, fetch func(osdb.Candidate) error) error {
	pick := 0
	for i, candidate := range candidates {
		if candidate.MatchedByHash {
			pick = i + 1
			break
		}
	}

	if policy.NeverAsk && pick == 0 {
		pick = 1
	}

	for pick == 0 || policy.AlwaysAsk {
		console.ShowCandidates(candidates)
		choice, err := console.ChooseCandidate(len(candidates))
		if err != nil {
			return err
		}
		if err := fetch(candidates[choice-1]); err != nil {
			return err
		}
		if len(candidates) == 1 {
			return nil
		}
		pick = 0
	}

	if !policy.Quiet {
		console.ShowCandidates(candidates)
	}
	return fetch(candidates[pick-1])
}
