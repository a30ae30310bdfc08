package gen

import (
	"go/token"
	"go/types"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// reserved lists the identifiers the generated program declares itself.
var reserved = []string{
	"env", "tree", "owner", "err", "ok", "asset", "assets", "node",
	"Build", "nodetree", "embed", "fs",
}

// Allocator turns labels into unique Go identifiers. An Allocator lives for
// one export session and never returns the same identifier twice.
type Allocator struct {
	counts map[string]int
	used   map[string]struct{}
	issued []string
}

// NewAllocator returns an allocator pre-seeded with the reserved names.
func NewAllocator() *Allocator {
	a := &Allocator{
		counts: make(map[string]int),
		used:   make(map[string]struct{}, len(reserved)),
	}
	for _, r := range reserved {
		a.used[r] = struct{}{}
	}
	return a
}

// Allocate returns a fresh identifier derived from label. The first use of
// a base identifier returns it unchanged, later uses append _1, _2, ...
func (a *Allocator) Allocate(label string) string {
	base := Normalize(label)
	for n := a.counts[base]; ; n++ {
		name := base
		if n > 0 {
			name = base + "_" + strconv.Itoa(n)
		}
		if _, ok := a.used[name]; ok {
			continue
		}
		a.counts[base] = n + 1
		a.used[name] = struct{}{}
		a.issued = append(a.issued, name)
		return name
	}
}

// Reserve marks name as taken without issuing it.
func (a *Allocator) Reserve(name string) {
	a.used[name] = struct{}{}
}

// Issued returns the identifiers allocated so far, in allocation order.
func (a *Allocator) Issued() []string {
	return append([]string(nil), a.issued...)
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize converts label into a legal, lower-case Go identifier without
// checking for uniqueness.
func Normalize(label string) string {
	s, _, err := transform.String(stripMarks, label)
	if err != nil {
		s = label
	}
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, w := range words {
		// Acronyms such as BSDF stay one word.
		if strings.ToUpper(w) != w {
			w = inflect.Underscore(w)
		}
		words[i] = strings.ToLower(w)
	}
	var b strings.Builder
	b.Grow(len(s))
	under := false
	for _, r := range strings.Join(words, "_") {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			under = false
			continue
		}
		if !under {
			b.WriteByte('_')
			under = true
		}
	}
	s = strings.Trim(b.String(), "_")
	switch {
	case s == "":
		return "unnamed"
	case s[0] >= '0' && s[0] <= '9', token.IsKeyword(s), types.Universe.Lookup(s) != nil:
		return "_" + s
	default:
		return s
	}
}
