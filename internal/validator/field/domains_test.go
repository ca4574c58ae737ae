package field

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomainKnowledgeBase(t *testing.T) {
	kb, err := NewDomainKnowledgeBase([]string{" Gmail.com", "gmail.com", "", "ueb.edu.ec"})
	require.NoError(t, err)

	assert.Equal(t, 2, kb.Len())
	assert.Equal(t, []string{"gmail.com", "ueb.edu.ec"}, kb.Domains())
	assert.True(t, kb.Contains("gmail.com"))
	assert.False(t, kb.Contains("Gmail.com"))
}

func TestNewDomainKnowledgeBase_Empty(t *testing.T) {
	_, err := NewDomainKnowledgeBase([]string{"", "  "})
	assert.Error(t, err)
}

func TestDefaultDomainKnowledgeBase(t *testing.T) {
	kb := DefaultDomainKnowledgeBase()
	assert.Equal(t, 52, kb.Len())

	// Callers get a copy.
	domains := kb.Domains()
	domains[0] = "mutated.example"
	assert.False(t, kb.Contains("mutated.example"))
}

func TestLoadDomainKnowledgeBase(t *testing.T) {
	dir := t.TempDir()

	extend := filepath.Join(dir, "extend.yaml")
	require.NoError(t, os.WriteFile(extend, []byte("domains:\n  - empresa.com.ec\n  - gmail.com\n"), 0o600))

	kb, err := LoadDomainKnowledgeBase(extend)
	require.NoError(t, err)
	assert.Equal(t, 53, kb.Len())
	assert.True(t, kb.Contains("empresa.com.ec"))

	replace := filepath.Join(dir, "replace.yaml")
	require.NoError(t, os.WriteFile(replace, []byte("replace_defaults: true\ndomains: [empresa.com.ec]\n"), 0o600))

	kb, err = LoadDomainKnowledgeBase(replace)
	require.NoError(t, err)
	assert.Equal(t, []string{"empresa.com.ec"}, kb.Domains())
}

func TestLoadDomainKnowledgeBase_Errors(t *testing.T) {
	_, err := LoadDomainKnowledgeBase(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("domains: [unclosed"), 0o600))
	_, err = LoadDomainKnowledgeBase(bad)
	assert.Error(t, err)
}

func TestNewDomainMatcher_Validation(t *testing.T) {
	_, err := NewDomainMatcher(nil, 0.6)
	assert.Error(t, err)

	_, err = NewDomainMatcher(DefaultDomainKnowledgeBase(), 1.5)
	assert.Error(t, err)
}

func TestDomainMatcher_Closest(t *testing.T) {
	m, err := NewDomainMatcher(DefaultDomainKnowledgeBase(), DefaultSimilarityCutoff)
	require.NoError(t, err)

	tests := []struct {
		candidate string
		want      string
		found     bool
	}{
		{"gmail.com", "gmail.com", true},
		{"hotmai.com", "hotmail.com", true},
		{"gmai1.com", "gmail.com", true},
		{"espol.edu.e", "espol.edu.ec", true},
		// gmx.com, aol.com and msn.com all score exactly 0.6.
		{"com", "msn.com", true},
		{"zzqqxx.zz", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			got, ok := m.Closest(tt.candidate)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDomainMatcher_CutoffBoundary(t *testing.T) {
	kb, err := NewDomainKnowledgeBase([]string{"abcde"})
	require.NoError(t, err)

	strict, err := NewDomainMatcher(kb, 0.9)
	require.NoError(t, err)
	_, ok := strict.Closest("abcxy")
	assert.False(t, ok)

	loose, err := NewDomainMatcher(kb, 0.6)
	require.NoError(t, err)
	got, ok := loose.Closest("abcxy")
	assert.True(t, ok)
	assert.Equal(t, "abcde", got)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("gmail.com", "gmail.com"), 1e-9)
	assert.InDelta(t, 20.0/21.0, Similarity("hotmail.com", "hotmai.com"), 1e-9)
}
