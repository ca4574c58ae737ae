package field

import (
	"regexp"
	"strings"
)

// EmailInvalid is returned in place of an address that could not be recovered.
const EmailInvalid = "Extracción incorrecta"

var (
	atVariants   = regexp.MustCompile(`\(at\)|\[at\]|arroba`)
	localAtHost  = regexp.MustCompile(`([a-z0-9._%+\-]+)@([a-z0-9.\-]+)`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// EmailNormalizer rebuilds addresses mangled by OCR and snaps the domain to
// the closest known one.
type EmailNormalizer struct {
	matcher *DomainMatcher
}

// NewEmailNormalizer creates a normalizer backed by matcher.
func NewEmailNormalizer(matcher *DomainMatcher) *EmailNormalizer {
	return &EmailNormalizer{matcher: matcher}
}

// Normalize recovers an email address from text.
func (n *EmailNormalizer) Normalize(text string) Result {
	s := strings.ToLower(strings.TrimSpace(text))
	s = atVariants.ReplaceAllString(s, "@")
	s = strings.Map(func(r rune) rune {
		if emailRune(r) {
			return r
		}
		return ' '
	}, s)

	var local, host string
	if strings.Contains(s, "@") {
		m := localAtHost.FindStringSubmatch(s)
		if m == nil {
			return Result{Value: EmailInvalid}
		}
		local, host = m[1], m[2]
	} else {
		// Without an "@" the last token is taken as the domain and the rest
		// is glued back together as the local part.
		tokens := strings.Fields(s)
		if len(tokens) < 2 {
			return Result{Value: EmailInvalid}
		}
		host = tokens[len(tokens)-1]
		local = strings.Join(tokens[:len(tokens)-1], "")
	}

	domain, ok := n.matcher.Closest(host)
	if !ok {
		return Result{Value: EmailInvalid}
	}

	address := local + "@" + domain
	if !emailPattern.MatchString(address) {
		return Result{Value: EmailInvalid}
	}
	return Result{Value: address, Valid: true}
}

func emailRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '@', r == '.', r == '_', r == '-', r == '+':
		return true
	}
	return false
}
