package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"subfetch/internal/osdb"
	"subfetch/internal/retriever"
)

func TestChooseCandidateValidSelection(t *testing.T) {
	var out bytes.Buffer
	c := newConsole(strings.NewReader("2\n"), &out)
	choice, err := c.ChooseCandidate(3)
	if err != nil {
		t.Fatalf("ChooseCandidate: %v", err)
	}
	if choice != 2 {
		t.Fatalf("choice = %d, want 2", choice)
	}
	if !strings.Contains(out.String(), "[1..3]") {
		t.Fatalf("prompt missing range: %q", out.String())
	}
}

func TestChooseCandidateRepromptsOnMalformedInput(t *testing.T) {
	var out bytes.Buffer
	// Non-numeric, out of range low, out of range high, trailing junk,
	// trailing space, then a valid pick.
	c := newConsole(strings.NewReader("abc\n0\n99\n2x\n2 \n3\n"), &out)
	choice, err := c.ChooseCandidate(3)
	if err != nil {
		t.Fatalf("ChooseCandidate: %v", err)
	}
	if choice != 3 {
		t.Fatalf("choice = %d, want 3", choice)
	}
	if got := strings.Count(out.String(), "Choose subtitle"); got != 6 {
		t.Fatalf("prompted %d times, want 6", got)
	}
}

func TestChooseCandidateAcceptsLeadingWhitespace(t *testing.T) {
	c := newConsole(strings.NewReader("  2\n"), &bytes.Buffer{})
	choice, err := c.ChooseCandidate(3)
	if err != nil {
		t.Fatalf("ChooseCandidate: %v", err)
	}
	if choice != 2 {
		t.Fatalf("choice = %d, want 2", choice)
	}
}

func TestChooseCandidateQuit(t *testing.T) {
	// Any line starting with q or Q quits.
	for _, input := range []string{"q\n", "Q\n", "quit\n"} {
		c := newConsole(strings.NewReader(input), &bytes.Buffer{})
		_, err := c.ChooseCandidate(3)
		if !errors.Is(err, retriever.ErrCancelled) {
			t.Fatalf("input %q: err = %v, want ErrCancelled", input, err)
		}
	}
}

func TestChooseCandidateEOF(t *testing.T) {
	c := newConsole(strings.NewReader(""), &bytes.Buffer{})
	_, err := c.ChooseCandidate(3)
	if err == nil || errors.Is(err, retriever.ErrCancelled) {
		t.Fatalf("err = %v, want read failure", err)
	}
}

func TestCandidateTable(t *testing.T) {
	rendered := candidateTable([]osdb.Candidate{
		{ID: 1, MatchedByHash: true, Language: "eng", ReleaseName: "Some.Release-GRP", FileName: "some.release.srt"},
		{ID: 2, Language: "ger", ReleaseName: "Other.Release", FileName: "other.sub"},
	})
	for _, fragment := range []string{"Release / File Name", "Some.Release-GRP", "some.release.srt", "Other.Release", "English", "German", "*"} {
		if !strings.Contains(rendered, fragment) {
			t.Fatalf("table missing %q:\n%s", fragment, rendered)
		}
	}
}

func TestLanguageTable(t *testing.T) {
	rendered := languageTable([]osdb.Language{
		{ID: "eng", Name: "English"},
		{ID: "ger", Name: "German"},
	})
	for _, fragment := range []string{"eng", "English", "ger", "German"} {
		if !strings.Contains(rendered, fragment) {
			t.Fatalf("table missing %q:\n%s", fragment, rendered)
		}
	}
}
