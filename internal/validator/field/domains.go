package field

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

// DefaultSimilarityCutoff is the minimum ratio a known domain must reach to
// replace a noisy candidate.
const DefaultSimilarityCutoff = 0.6

// defaultDomains are the mail domains commonly seen on Ecuadorian documents.
var defaultDomains = []string{
	// freemail
	"gmail.com", "hotmail.com", "outlook.com", "yahoo.com",
	"icloud.com", "protonmail.com", "yandex.com", "live.com",
	"aol.com", "zoho.com", "mail.com", "gmx.com", "msn.com",

	// universities
	"edu.ec", "ueb.edu.ec", "espol.edu.ec", "usfq.edu.ec",
	"uide.edu.ec", "ucuenca.edu.ec", "utpl.edu.ec", "epn.edu.ec",
	"uees.edu.ec", "uta.edu.ec", "espe.edu.ec", "unl.edu.ec",
	"ug.edu.ec", "unemi.edu.ec", "puce.edu.ec", "ups.edu.ec",
	"unach.edu.ec", "uazuay.edu.ec", "utn.edu.ec", "utm.edu.ec",
	"ute.edu.ec", "utepsa.edu.ec", "ulvr.edu.ec", "uisrael.edu.ec",

	// schools
	"colegioamericanguayaquil.edu.ec", "nsc.edu.ec", "lemans.edu.ec",
	"delta.edu.ec",

	// government
	"gob.ec", "judicatura.gob.ec", "cne.gob.ec", "defensa.gob.ec",
	"ministeriodefinanzas.gob.ec", "educacion.gob.ec", "salud.gob.ec",
	"ambiente.gob.ec", "presidencia.gob.ec", "miduvi.gob.ec",
	"ant.gob.ec",
}

// DomainKnowledgeBase is the frozen set of known mail domains. It is built
// once and only read afterwards, so it can be shared between goroutines.
type DomainKnowledgeBase struct {
	domains []string
	index   map[string]struct{}
}

// NewDomainKnowledgeBase builds a knowledge base from the given domains.
// Entries are lowercased and trimmed; blanks and duplicates are dropped.
func NewDomainKnowledgeBase(domains []string) (*DomainKnowledgeBase, error) {
	index := make(map[string]struct{}, len(domains))
	list := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if _, dup := index[d]; dup {
			continue
		}
		index[d] = struct{}{}
		list = append(list, d)
	}
	if len(list) == 0 {
		return nil, errors.New("domain knowledge base is empty")
	}
	sort.Strings(list)
	return &DomainKnowledgeBase{domains: list, index: index}, nil
}

// DefaultDomainKnowledgeBase returns the built-in knowledge base.
func DefaultDomainKnowledgeBase() *DomainKnowledgeBase {
	kb, err := NewDomainKnowledgeBase(defaultDomains)
	if err != nil {
		panic(err)
	}
	return kb
}

// domainsFile is the YAML layout accepted by LoadDomainKnowledgeBase.
type domainsFile struct {
	ReplaceDefaults bool     `yaml:"replace_defaults"`
	Domains         []string `yaml:"domains"`
}

// LoadDomainKnowledgeBase reads extra domains from a YAML file. The file's
// domains extend the built-in list unless replace_defaults is set.
func LoadDomainKnowledgeBase(path string) (*DomainKnowledgeBase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading domains file: %w", err)
	}
	var f domainsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing domains file %s: %w", path, err)
	}
	domains := f.Domains
	if !f.ReplaceDefaults {
		domains = append(append([]string{}, defaultDomains...), f.Domains...)
	}
	return NewDomainKnowledgeBase(domains)
}

// Contains reports whether domain is known verbatim.
func (kb *DomainKnowledgeBase) Contains(domain string) bool {
	_, ok := kb.index[domain]
	return ok
}

// Domains returns a sorted copy of the known domains.
func (kb *DomainKnowledgeBase) Domains() []string {
	return append([]string(nil), kb.domains...)
}

// Len returns the number of known domains.
func (kb *DomainKnowledgeBase) Len() int {
	return len(kb.domains)
}

// DomainMatcher finds the known domain closest to a noisy candidate.
type DomainMatcher struct {
	kb     *DomainKnowledgeBase
	cutoff float64
}

// NewDomainMatcher creates a matcher accepting matches whose similarity ratio
// is at least cutoff.
func NewDomainMatcher(kb *DomainKnowledgeBase, cutoff float64) (*DomainMatcher, error) {
	if kb == nil {
		return nil, errors.New("domain matcher needs a knowledge base")
	}
	if cutoff < 0 || cutoff > 1 {
		return nil, fmt.Errorf("similarity cutoff must be within [0, 1], got %v", cutoff)
	}
	return &DomainMatcher{kb: kb, cutoff: cutoff}, nil
}

// Closest returns the best-scoring known domain. Equal scores resolve to the
// lexicographically greater domain so the answer never depends on order.
func (m *DomainMatcher) Closest(candidate string) (string, bool) {
	word := strings.Split(candidate, "")

	best, bestScore, found := "", 0.0, false
	for _, d := range m.kb.domains {
		sm := difflib.NewMatcher(strings.Split(d, ""), word)
		if sm.RealQuickRatio() < m.cutoff || sm.QuickRatio() < m.cutoff {
			continue
		}
		score := sm.Ratio()
		if score < m.cutoff {
			continue
		}
		if !found || score > bestScore || (score == bestScore && d > best) {
			best, bestScore, found = d, score, true
		}
	}
	return best, found
}

// Similarity exposes the ratio used by Closest for a single pair.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}
