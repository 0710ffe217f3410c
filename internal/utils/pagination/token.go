// Package pagination encodes keyset cursors for newest-first listings.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
)

const (
	cursorVersion = "v1"
	sep           = "~"
	timeLayout    = time.RFC3339Nano
)

// ErrInvalidCursor is returned for tokens that were not produced by Cursor.Encode.
// It unwraps to apperrors.ErrValidation.
var ErrInvalidCursor = fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)

// Cursor marks the last row of a page. Listings order by SortKey then CreatedAt,
// both descending, and the next page starts strictly after the cursor.
type Cursor struct {
	SortKey   time.Time
	CreatedAt time.Time
}

// After builds the cursor for the last row of a page.
func After(sortKey, createdAt time.Time) Cursor {
	return Cursor{SortKey: sortKey.UTC(), CreatedAt: createdAt.UTC()}
}

// Encode renders the cursor as an opaque, URL-safe token.
func (c Cursor) Encode() string {
	raw := strings.Join([]string{cursorVersion, c.SortKey.UTC().Format(timeLayout), c.CreatedAt.UTC().Format(timeLayout)}, sep)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Token is Encode returned as a pointer, which is how repositories hand back next tokens.
func (c Cursor) Token() *string {
	t := c.Encode()
	return &t
}

// Precedes reports whether a row keyed by (sortKey, createdAt) belongs on a later
// page than the cursor.
func (c Cursor) Precedes(sortKey, createdAt time.Time) bool {
	if !sortKey.Equal(c.SortKey) {
		return sortKey.Before(c.SortKey)
	}
	return createdAt.Before(c.CreatedAt)
}

// Decode parses a token. A nil or empty token yields ok == false and no error.
func Decode(token *string) (cur Cursor, ok bool, err error) {
	if token == nil || *token == "" {
		return Cursor{}, false, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(*token)
	if err != nil {
		return Cursor{}, false, fmt.Errorf("%w: not base64", ErrInvalidCursor)
	}
	parts := strings.Split(string(raw), sep)
	if len(parts) != 3 || parts[0] != cursorVersion {
		return Cursor{}, false, fmt.Errorf("%w: unrecognised layout", ErrInvalidCursor)
	}
	sortKey, err := time.Parse(timeLayout, parts[1])
	if err != nil {
		return Cursor{}, false, fmt.Errorf("%w: sort key: %v", ErrInvalidCursor, err)
	}
	createdAt, err := time.Parse(timeLayout, parts[2])
	if err != nil {
		return Cursor{}, false, fmt.Errorf("%w: created_at: %v", ErrInvalidCursor, err)
	}
	return Cursor{SortKey: sortKey, CreatedAt: createdAt}, true, nil
}

// IsInvalid reports whether err came from Decode.
func IsInvalid(err error) bool { return errors.Is(err, ErrInvalidCursor) }
