package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer(t *testing.T) *EmailNormalizer {
	t.Helper()
	m, err := NewDomainMatcher(DefaultDomainKnowledgeBase(), DefaultSimilarityCutoff)
	require.NoError(t, err)
	return NewEmailNormalizer(m)
}

func TestEmailNormalizer_Normalize(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name  string
		input string
		want  Result
	}{
		{"typo in domain", "usuario@hotmai.com", Result{Value: "usuario@hotmail.com", Valid: true}},
		{"upper case and spaces", "  Usuario@Gmail.com ", Result{Value: "usuario@gmail.com", Valid: true}},
		{"at in brackets", "juan_perez[at]gmai1.com", Result{Value: "juan_perez@gmail.com", Valid: true}},
		{"at in parens", "ana(at)outlook.com", Result{Value: "ana@outlook.com", Valid: true}},
		{"arroba word", "luisarrobayahoo.com", Result{Value: "luis@yahoo.com", Valid: true}},
		{"no at sign", "juan perez gmail.com", Result{Value: "juanperez@gmail.com", Valid: true}},
		{"university domain", "estudiante@espol.edu.ec", Result{Value: "estudiante@espol.edu.ec", Valid: true}},
		{"single token", "correo", Result{Value: EmailInvalid, Valid: false}},
		{"empty", "   ", Result{Value: EmailInvalid, Valid: false}},
		{"nothing before at", "@gmail.com", Result{Value: EmailInvalid, Valid: false}},
		{"unknown domain", "juan@zzqqxx.zz", Result{Value: EmailInvalid, Valid: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestEmailNormalizer_CorrectedDomainIsKnown(t *testing.T) {
	n := newTestNormalizer(t)
	kb := DefaultDomainKnowledgeBase()

	got := n.Normalize("usuario@hotmai.com")
	require.True(t, got.Valid)

	_, host, _ := cutAt(got.Value)
	assert.True(t, kb.Contains(host))
	assert.GreaterOrEqual(t, Similarity(host, "hotmai.com"), DefaultSimilarityCutoff)
}

func cutAt(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '@' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
