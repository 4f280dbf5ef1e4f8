package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadAllowlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	data := `[{"ID": 1001, "Email": "alice@corp.example"}, {"ID": 1002, "Email": "Bob@Corp.Example"}]`
	assert.NoError(t, os.WriteFile(path, []byte(data), 0644))

	list, err := LoadAllowlist(path)
	assert.NoError(t, err)

	assert.True(t, list.Contains("1001", "alice@corp.example"))
	// Email comparison ignores case
	assert.True(t, list.Contains("1002", "bob@corp.example"))
	// The id and email must belong to the same entry
	assert.False(t, list.Contains("1001", "bob@corp.example"))
	assert.False(t, list.Contains("9999", "alice@corp.example"))
}

func TestLoadAllowlist_EmptyPath(t *testing.T) {
	list, err := LoadAllowlist("")
	assert.NoError(t, err)
	assert.False(t, list.Contains("1001", "alice@corp.example"))
}

func TestLoadAllowlist_MissingFile(t *testing.T) {
	_, err := LoadAllowlist(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
