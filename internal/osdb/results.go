package osdb

import (
	"fmt"
	"strconv"
)

// resultRecords normalizes the "data" member of a response. The service
// sends an array of structs when there are results, and boolean false (or
// nothing at all) when there are none; both of the latter mean zero records.
func resultRecords(data any) ([]map[string]any, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case bool:
		return nil, nil
	case []any:
		records := make([]map[string]any, 0, len(v))
		for i, entry := range v {
			record, ok := entry.(map[string]any)
			if !ok {
				return nil, ParseError{
					Field:  "data",
					Reason: fmt.Sprintf("element %d is %T, want struct", i, entry),
				}
			}
			records = append(records, record)
		}
		return records, nil
	default:
		return nil, ParseError{Field: "data", Reason: fmt.Sprintf("unexpected type %T", data)}
	}
}

func parseCandidate(record map[string]any) (Candidate, error) {
	idText, err := stringField(record, "IDSubtitleFile")
	if err != nil {
		return Candidate{}, err
	}
	// The service transmits subtitle file ids as decimal text.
	id, err := strconv.Atoi(idText)
	if err != nil {
		return Candidate{}, ParseError{
			Field:  "IDSubtitleFile",
			Reason: fmt.Sprintf("not an integer: %q", idText),
		}
	}
	matchedBy, err := stringField(record, "MatchedBy")
	if err != nil {
		return Candidate{}, err
	}
	language, err := stringField(record, "SubLanguageID")
	if err != nil {
		return Candidate{}, err
	}
	releaseName, err := stringField(record, "MovieReleaseName")
	if err != nil {
		return Candidate{}, err
	}
	fileName, err := stringField(record, "SubFileName")
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{
		ID:            id,
		MatchedByHash: matchedBy == matchedByHashMarker,
		Language:      language,
		ReleaseName:   releaseName,
		FileName:      fileName,
	}, nil
}

func stringField(record map[string]any, key string) (string, error) {
	value, ok := record[key]
	if !ok {
		return "", ParseError{Field: key, Reason: "missing"}
	}
	text, ok := value.(string)
	if !ok {
		return "", ParseError{Field: key, Reason: fmt.Sprintf("is %T, want string", value)}
	}
	return text, nil
}
