// Package enzyme describes restriction enzymes: name, recognition site with
// the cut marked by '^', and the regular expression used to find sites.
package enzyme

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"vpdesign/internal/common"
)

// Enzyme is a restriction enzyme. Site keeps the caret ("A^AGCTT"), Motif
// drops it ("AAGCTT") and CutOffset is the caret's index in Site.
type Enzyme struct {
	Name      string
	Site      string
	Motif     string
	CutOffset int
}

var ErrUnknownEnzyme = errors.New("unknown enzyme")

// New parses a recognition site containing exactly one '^'.
func New(name, site string) (Enzyme, error) {
	site = strings.ToUpper(strings.TrimSpace(site))
	if strings.Count(site, "^") != 1 {
		return Enzyme{}, fmt.Errorf("enzyme %s: site %q must contain exactly one '^'", name, site)
	}
	cut := strings.Index(site, "^")
	motif := strings.Replace(site, "^", "", 1)
	if motif == "" {
		return Enzyme{}, fmt.Errorf("enzyme %s: empty recognition motif", name)
	}
	for _, c := range motif {
		if _, ok := iupac[c]; !ok {
			return Enzyme{}, fmt.Errorf("enzyme %s: invalid base %q in %q", name, c, site)
		}
	}
	return Enzyme{Name: name, Site: site, Motif: motif, CutOffset: cut}, nil
}

func (e Enzyme) String() string { return e.Name + " (" + e.Site + ")" }

// Pattern is the case-insensitive regular expression for the motif, with
// IUPAC codes expanded to character classes.
func (e Enzyme) Pattern() string {
	var b strings.Builder
	b.WriteString("(?i)")
	for _, c := range e.Motif {
		b.WriteString(iupac[c])
	}
	return b.String()
}

// compiled caches Regexp results by pattern; the factory asks once per anchor.
var compiled sync.Map // string -> *regexp.Regexp

// Regexp compiles Pattern. Compiled expressions are cached and shared.
func (e Enzyme) Regexp() (*regexp.Regexp, error) {
	pat := e.Pattern()
	if re, ok := compiled.Load(pat); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return nil, err
	}
	compiled.Store(pat, re)
	return re, nil
}

var iupac = map[rune]string{
	'A': "A",
	'C': "C",
	'G': "G",
	'T': "T",
	'M': "[AC]",
	'R': "[AG]",
	'W': "[AT]",
	'Y': "[CT]",
	'S': "[CG]",
	'K': "[GT]",
	'H': "[ACT]",
	'D': "[AGT]",
	'V': "[ACG]",
	'B': "[CGT]",
	'N': "[ACGT]",
}

// catalogue is the built-in enzyme list (name -> site).
var catalogue = map[string]string{
	"BamHI":   "G^GATCC",
	"BglII":   "A^GATCT",
	"Csp6I":   "G^TAC",
	"CviQI":   "G^TAC",
	"DdeI":    "C^TNAG",
	"DpnII":   "^GATC",
	"EcoRI":   "G^AATTC",
	"HindIII": "A^AGCTT",
	"HinfI":   "G^ANTC",
	"MboI":    "^GATC",
	"MluCI":   "^AATT",
	"MseI":    "T^TAA",
	"NcoI":    "C^CATGG",
	"NlaIII":  "CATG^",
	"Sau3AI":  "^GATC",
	"XbaI":    "T^CTAGA",
}

// Lookup finds a catalogue enzyme by name, ignoring case.
func Lookup(name string) (Enzyme, bool) {
	for n, site := range catalogue {
		if strings.EqualFold(n, name) {
			e, err := New(n, site)
			return e, err == nil
		}
	}
	return Enzyme{}, false
}

// Catalogue returns all built-in enzymes sorted by name.
func Catalogue() []Enzyme {
	out := make([]Enzyme, 0, len(catalogue))
	for n, site := range catalogue {
		e, err := New(n, site)
		if err != nil {
			panic(err) // catalogue entries are constants
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ParseList resolves enzyme specs. A spec is a catalogue name ("DpnII") or a
// custom "Name=SITE" definition ("Arima2=G^ANTC"). Duplicates are dropped.
func ParseList(specs []string) ([]Enzyme, error) {
	var out []Enzyme
	for _, s := range common.UniqueFold(specs) {
		if name, site, ok := strings.Cut(s, "="); ok {
			e, err := New(strings.TrimSpace(name), site)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
			continue
		}
		e, ok := Lookup(s)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEnzyme, s)
		}
		out = append(out, e)
	}
	return out, nil
}
