// Package language normalizes the language filter passed to the subtitle
// search.
//
// The service expects ISO 639-2 (3-letter) codes, but users habitually type
// 2-letter codes or full words. All conversions live here so flag parsing
// and the search coordinator agree on what a filter looks like.
package language
