// Package cursor provides opaque pagination token encoding/decoding for the
// roll history.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrQueryChanged is returned when a token is replayed against a different
// query than the one that produced it.
var ErrQueryChanged = errors.New("query changed since cursor was created")

// Cursor represents the internal state of a pagination cursor. History pages
// are newest first, so the next page holds rows with seq < Seq.
type Cursor struct {
	// Seq is the sequence number of the last row on the previous page.
	Seq uint64 `json:"seq"`
	// QueryHash ensures tokens are invalidated if the actor or filter changes.
	QueryHash string `json:"query_hash,omitempty"`
}

// Encode encodes a cursor to an opaque base64 string.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode decodes an opaque base64 string to a cursor.
// Returns an error if the token is invalid or malformed.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("empty token")
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if c.Seq == 0 {
		return Cursor{}, fmt.Errorf("cursor sequence is required")
	}
	return c, nil
}

// HashQuery computes a short hash of the query parts for cursor validation.
// Returns empty string when every part is empty.
func HashQuery(parts ...string) string {
	empty := true
	for _, part := range parts {
		if part != "" {
			empty = false
			break
		}
	}
	if empty {
		return ""
	}
	h := sha256.New()
	for _, part := range parts {
		// Length prefix keeps ("ab", "c") distinct from ("a", "bc").
		fmt.Fprintf(h, "%d:%s;", len(part), part)
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// New creates the cursor for the page after the row with lastSeq.
func New(lastSeq uint64, queryParts ...string) Cursor {
	return Cursor{Seq: lastSeq, QueryHash: HashQuery(queryParts...)}
}

// Validate checks that the cursor was created for the same query parts.
func Validate(c Cursor, queryParts ...string) error {
	if c.QueryHash != HashQuery(queryParts...) {
		return ErrQueryChanged
	}
	return nil
}
