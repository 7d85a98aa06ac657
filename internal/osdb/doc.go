// Package osdb wraps the OpenSubtitles XML-RPC endpoint.
//
// It owns the wire protocol only: authentication, the batched subtitle
// search, the download call, and the language catalog. Responses arrive as
// dynamically typed XML-RPC value trees; this package converts them into
// strongly typed records at the boundary and fails fast with ParseError on
// missing or mistyped fields so nothing untyped leaks inward.
package osdb
