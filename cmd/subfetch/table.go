package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subfetch/internal/language"
	"subfetch/internal/osdb"
)

// candidateTable renders the search results: one numbered entry per
// candidate, with the release name on the first line and the subtitle file
// name beneath it. Fingerprint matches carry an asterisk in the H column.
func candidateTable(candidates []osdb.Candidate) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"#", "H", "Language", "Release / File Name"})

	for i, candidate := range candidates {
		marker := ""
		if candidate.MatchedByHash {
			marker = "*"
		}
		tw.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			marker,
			language.DisplayName(candidate.Language),
			candidate.ReleaseName,
		})
		tw.AppendRow(table.Row{"", "", "", "└ " + candidate.FileName})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft},
	})

	return tw.Render()
}

// languageTable renders the service's language catalog.
func languageTable(languages []osdb.Language) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Code", "Language"})
	for _, lang := range languages {
		tw.AppendRow(table.Row{lang.ID, lang.Name})
	}
	return tw.Render()
}
