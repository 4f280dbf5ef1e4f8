package service

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type allowlistEntry struct {
	ID    json.Number `json:"ID"`
	Email string      `json:"Email"`
}

// Allowlist holds the pre-approved employee id/email pairs that gate
// self-registration. Admin-created accounts bypass it.
type Allowlist struct {
	entries []allowlistEntry
}

// LoadAllowlist reads the allowlist JSON file. A missing path yields an
// empty allowlist, which rejects every self-registration attempt.
func LoadAllowlist(path string) (*Allowlist, error) {
	if path == "" {
		return &Allowlist{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read allowlist file: %w", err)
	}
	var entries []allowlistEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse allowlist file: %w", err)
	}
	return &Allowlist{entries: entries}, nil
}

// Contains reports whether the id/email pair appears in the allowlist.
// Email comparison is case-insensitive.
func (a *Allowlist) Contains(id, email string) bool {
	for _, e := range a.entries {
		if e.ID.String() == id && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}
