package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/cognicore/cord19/pkg/cord19/internalerr"
)

// GeneratedIDs holds the fallback ids derived so far in a run.
type GeneratedIDs map[string]struct{}

// NewGeneratedIDs returns an empty run-scoped id set.
func NewGeneratedIDs() GeneratedIDs {
	return make(GeneratedIDs)
}

// Resolution is the outcome of ResolveIDs.
type Resolution struct {
	IDs []string
	// Derived is true when IDs holds a title hash rather than explicit ids.
	Derived bool
}

// Canonical returns the id used as the article primary key.
func (r Resolution) Canonical() string {
	if len(r.IDs) == 0 {
		return ""
	}
	return r.IDs[0]
}

// Explicit returns the ids that name body text files, or nil for derived ids.
func (r Resolution) Explicit() []string {
	if r.Derived {
		return nil
	}
	return r.IDs
}

// ResolveIDs returns the ids of a metadata row. Explicit ids come from the
// "; " separated field. Without them, the id is the SHA-1 of the title;
// a title hash already present in seen yields internalerr.ErrDuplicate.
func ResolveIDs(field, title string, seen GeneratedIDs) (Resolution, error) {
	if ids := SplitIDs(field); len(ids) > 0 {
		return Resolution{IDs: ids}, nil
	}

	uid := TitleHash(title)
	if _, ok := seen[uid]; ok {
		return Resolution{}, internalerr.ErrDuplicate
	}
	seen[uid] = struct{}{}

	return Resolution{IDs: []string{uid}, Derived: true}, nil
}

// IDSeparator joins the entries of a multi-id sha field.
const IDSeparator = "; "

// SplitIDs splits a non-empty id list on IDSeparator. Entries are returned
// as written; the first one is the article id.
func SplitIDs(field string) []string {
	if field == "" {
		return nil
	}
	return strings.Split(field, IDSeparator)
}

// TitleHash is the hex SHA-1 of the UTF-8 title.
func TitleHash(title string) string {
	sum := sha1.Sum([]byte(title))
	return hex.EncodeToString(sum[:])
}
