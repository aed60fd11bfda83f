// Package canonical serializes profiles and postings into the stable text fed to the
// embedding provider, and hashes that text for freshness checks.
//
// Field order is fixed:
//
//	profile: Name, Summary, Skills, Experience..., Project..., Keywords
//	posting: Title, Company, Description, Requirements, Preferred, Location
//
// Every field is one "Label: value" line. Empty fields are dropped. Short list values
// (skills, keywords, requirements) are trimmed, de-duplicated case-insensitively, sorted
// and joined with ", " on one line. Items are not escaped, so ["Go, Rust"] and
// ["Go", "Rust"] render, and hash, identically; for embedding input they mean the same.
// Experience and project entries get one line each and are sorted but never merged,
// so entries differing only in letter case both survive. Either way the caller's slice
// order never changes the output.
package canonical

import (
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
)

const listSep = ", "

// Document is the canonical form of one entity.
type Document struct {
	Kind models.EntityKind
	ID   string
	Text string
	Hash string
}

// Key identifies the entity a document belongs to.
func (d Document) Key() string { return string(d.Kind) + ":" + d.ID }

func Profile(p *models.Profile) Document {
	var b builder
	b.field("Name", p.Name)
	b.field("Summary", p.Summary)
	b.list("Skills", p.Skills)

	exp := make([]string, 0, len(p.Experiences))
	for _, e := range p.Experiences {
		exp = append(exp, experienceLine(e))
	}
	b.lines("Experience", exp)

	proj := make([]string, 0, len(p.Projects))
	for _, pr := range p.Projects {
		proj = append(proj, projectLine(pr))
	}
	b.lines("Project", proj)

	b.list("Keywords", p.Keywords)
	return b.doc(models.KindProfile, p.ID)
}

func Posting(j *models.Posting) Document {
	var b builder
	b.field("Title", j.Title)
	b.field("Company", j.Company)
	b.field("Description", j.Description)
	b.list("Requirements", j.Requirements)
	b.list("Preferred", j.Preferred)
	b.field("Location", j.Location)
	return b.doc(models.KindPosting, j.ID)
}

// Hash returns the hex BLAKE2b-256 digest of text.
func Hash(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func experienceLine(e models.Experience) string {
	head := joinNonEmpty(" - ", clean(e.Company), clean(e.Role))
	if period := clean(e.Period); period != "" {
		head = joinNonEmpty(" ", head, "("+period+")")
	}
	return joinNonEmpty(": ", head, clean(e.Description))
}

func projectLine(p models.Project) string {
	head := clean(p.Name)
	if stack := normalizeList(p.TechStack); len(stack) > 0 {
		head = joinNonEmpty(" ", head, "["+strings.Join(stack, listSep)+"]")
	}
	if role := clean(p.Role); role != "" {
		head = joinNonEmpty(" ", head, "("+role+")")
	}
	line := joinNonEmpty(": ", head, clean(p.Description))
	if hl := normalizeList(p.Highlights); len(hl) > 0 {
		line = joinNonEmpty("; ", line, "highlights: "+strings.Join(hl, "; "))
	}
	return line
}

type builder struct {
	out []string
}

func (b *builder) field(label, value string) {
	if v := clean(value); v != "" {
		b.out = append(b.out, label+": "+v)
	}
}

func (b *builder) list(label string, values []string) {
	if vs := normalizeList(values); len(vs) > 0 {
		b.out = append(b.out, label+": "+strings.Join(vs, listSep))
	}
}

// lines renders one "label: entry" line per non-empty entry, entries sorted.
func (b *builder) lines(label string, entries []string) {
	for _, e := range sortEntries(entries) {
		b.out = append(b.out, label+": "+e)
	}
}

func (b *builder) doc(kind models.EntityKind, id string) Document {
	text := strings.Join(b.out, "\n")
	return Document{Kind: kind, ID: id, Text: text, Hash: Hash(text)}
}

// clean collapses internal whitespace runs to a single space.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeList cleans, drops empties, de-duplicates case-insensitively and sorts.
// Among case variants of the same value the lexically smallest spelling wins, so
// the result does not depend on input order.
func normalizeList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if c := clean(v); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	sortFold(cleaned)

	out := cleaned[:0]
	var prev string
	for i, v := range cleaned {
		lower := strings.ToLower(v)
		if i > 0 && lower == prev {
			continue
		}
		out = append(out, v)
		prev = lower
	}
	return out
}

// sortEntries cleans and drops empties like normalizeList but keeps every entry.
func sortEntries(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if c := clean(v); c != "" {
			out = append(out, c)
		}
	}
	sortFold(out)
	return out
}

// sortFold orders case-insensitively, breaking ties on the exact spelling.
func sortFold(vs []string) {
	sort.Slice(vs, func(i, j int) bool {
		li, lj := strings.ToLower(vs[i]), strings.ToLower(vs[j])
		if li != lj {
			return li < lj
		}
		return vs[i] < vs[j]
	})
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
