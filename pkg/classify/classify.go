// Package classify labels imported files by content type and orders them
// into a course.
package classify

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"sigma-lms-be/pkg/docimport"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type ContentType string

const (
	Lecture   ContentType = "lecture"
	Reference ContentType = "reference"
	Summary   ContentType = "summary"
	Mixed     ContentType = "mixed"
)

// priority is the course position of each content type, lowest first.
var priority = map[ContentType]int{
	Lecture:   0,
	Mixed:     1,
	Reference: 2,
	Summary:   3,
}

// MinPrefixLength is the common title prefix length, in runes, that must be
// exceeded before the prefix is used as the course title.
const MinPrefixLength = 3

const DefaultLocale = "ru"

var (
	headingPattern = regexp.MustCompile(`(?i)<h[1-3][\s>]`)
	tablePattern   = regexp.MustCompile(`(?i)<table[\s>]`)
	imagePattern   = regexp.MustCompile(`(?i)<img[\s/>]`)
	listPattern    = regexp.MustCompile(`(?i)<(?:ul|ol)[\s>]`)
	numberPattern  = regexp.MustCompile(`\d+`)
)

type File struct {
	Title    string `json:"title"`
	HTML     string `json:"html"`
	FileName string `json:"fileName"`
}

type ClassifiedFile struct {
	File
	WordCount    int         `json:"wordCount"`
	HasHeadings  bool        `json:"hasHeadings"`
	HeadingCount int         `json:"headingCount"`
	HasTables    bool        `json:"hasTables"`
	HasImages    bool        `json:"hasImages"`
	HasLists     bool        `json:"hasLists"`
	ContentType  ContentType `json:"contentType"`
}

type Thresholds struct {
	// LectureWords: more words than this plus headings makes a lecture.
	LectureWords int
	// ReferenceWords: a table with fewer words than this makes a reference.
	ReferenceWords int
	// SummaryWords: fewer words than this makes a summary.
	SummaryWords int
}

func DefaultThresholds() Thresholds {
	return Thresholds{LectureWords: 1000, ReferenceWords: 300, SummaryWords: 100}
}

// Analyzer classifies and orders files. It is immutable after construction
// and safe for concurrent use.
type Analyzer struct {
	thresholds Thresholds
	locale     language.Tag
}

// NewAnalyzer builds an Analyzer collating titles in locale (a BCP 47 tag).
// An unparsable or empty locale falls back to DefaultLocale.
func NewAnalyzer(thresholds Thresholds, locale string) *Analyzer {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.MustParse(DefaultLocale)
	}
	return &Analyzer{thresholds: thresholds, locale: tag}
}

// Classify computes the structural features and content type of one file.
func (a *Analyzer) Classify(f File) ClassifiedFile {
	cf := ClassifiedFile{
		File:         f,
		WordCount:    docimport.WordCount(f.HTML),
		HeadingCount: len(headingPattern.FindAllStringIndex(f.HTML, -1)),
		HasTables:    tablePattern.MatchString(f.HTML),
		HasImages:    imagePattern.MatchString(f.HTML),
		HasLists:     listPattern.MatchString(f.HTML),
	}
	cf.HasHeadings = cf.HeadingCount > 0

	switch {
	case cf.WordCount > a.thresholds.LectureWords && cf.HasHeadings:
		cf.ContentType = Lecture
	case cf.HasTables && cf.WordCount < a.thresholds.ReferenceWords:
		cf.ContentType = Reference
	case cf.WordCount < a.thresholds.SummaryWords:
		cf.ContentType = Summary
	default:
		cf.ContentType = Mixed
	}
	return cf
}

// Analyze classifies files, keeping input order.
func (a *Analyzer) Analyze(files []File) []ClassifiedFile {
	out := make([]ClassifiedFile, len(files))
	for i, f := range files {
		out[i] = a.Classify(f)
	}
	return out
}

// Sort returns a new slice in course order: content type priority, then the
// first number in the file name when both files have one, then collated
// title, then file name. The result does not depend on input order for
// files with distinct names.
func (a *Analyzer) Sort(files []ClassifiedFile) []ClassifiedFile {
	out := make([]ClassifiedFile, len(files))
	copy(out, files)

	col := collate.New(a.locale, collate.Numeric)
	sort.SliceStable(out, func(i, j int) bool {
		x, y := out[i], out[j]
		if px, py := priority[x.ContentType], priority[y.ContentType]; px != py {
			return px < py
		}
		nx, okx := fileNumber(x.FileName)
		ny, oky := fileNumber(y.FileName)
		if okx && oky && nx != ny {
			return nx < ny
		}
		if c := col.CompareString(x.Title, y.Title); c != 0 {
			return c < 0
		}
		return x.FileName < y.FileName
	})
	return out
}

// Order classifies and sorts in one step.
func (a *Analyzer) Order(files []File) []ClassifiedFile {
	return a.Sort(a.Analyze(files))
}

func fileNumber(fileName string) (int, bool) {
	m := numberPattern.FindString(filepath.Base(fileName))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SuggestCourseTitle derives a course title from the ordered files: their
// longest common title prefix without trailing digits and punctuation when
// it is long enough, otherwise the first title.
func SuggestCourseTitle(ordered []ClassifiedFile) string {
	if len(ordered) == 0 {
		return ""
	}

	prefix := []rune(ordered[0].Title)
	for _, f := range ordered[1:] {
		title := []rune(f.Title)
		n := 0
		for n < len(prefix) && n < len(title) && prefix[n] == title[n] {
			n++
		}
		prefix = prefix[:n]
	}

	if len(prefix) > MinPrefixLength {
		trimmed := strings.TrimRightFunc(string(prefix), func(r rune) bool {
			return unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
		})
		if trimmed != "" {
			return trimmed
		}
	}
	return ordered[0].Title
}
