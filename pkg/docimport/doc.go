package docimport

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

// minRunLetters is the number of letters a salvaged run needs to count as
// text rather than binary noise.
const minRunLetters = 3

// readLegacyDoc salvages readable text from a binary Word 97-2003 file. The
// result is best effort and never an error: garbage input yields an empty
// document, which the caller reports as such.
func readLegacyDoc(data []byte, fileName string) CanonicalDocument {
	return CanonicalDocument{
		SuggestedTitle: fileStem(fileName),
		HTML:           textToHTML(salvageText(data)),
	}
}

// salvageText decodes data as UTF-16LE (Word's unicode piece table) and as
// Windows-1251 (compressed pieces), then keeps the candidate with more letters.
func salvageText(data []byte) string {
	candidates := []struct {
		enc   encoding.Encoding
		input []byte
	}{
		{xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM), data[:len(data)-len(data)%2]},
		{charmap.Windows1251, data},
	}

	best, bestScore := "", 0
	for _, c := range candidates {
		decoded, err := c.enc.NewDecoder().Bytes(c.input)
		if err != nil {
			continue
		}
		text := keepReadableRuns(string(decoded))
		if score := countLetters(text); score > bestScore {
			best, bestScore = text, score
		}
	}
	return best
}

func readableRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0x7E:
		return true
	case r >= 0x0400 && r <= 0x04FF:
		return true
	}
	switch r {
	case '«', '»', '–', '—', '‘', '’', '“', '”', '„', '…', '№':
		return true
	}
	return false
}

// keepReadableRuns drops everything outside the supported alphabets and keeps
// runs that carry at least minRunLetters letters. Word marks paragraph ends
// with CR, which becomes a blank line for the text splitter.
func keepReadableRuns(decoded string) string {
	var out, run strings.Builder
	letters := 0
	flush := func() {
		if letters >= minRunLetters {
			if out.Len() > 0 {
				out.WriteString(" ")
			}
			out.WriteString(run.String())
		}
		run.Reset()
		letters = 0
	}

	for _, r := range decoded {
		if !readableRune(r) {
			flush()
			continue
		}
		switch r {
		case '\r', '\n':
			run.WriteString("\n\n")
		case '\t':
			run.WriteRune(' ')
		default:
			run.WriteRune(r)
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	flush()
	return out.String()
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
