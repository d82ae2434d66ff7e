package tokenize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// hardPunct always splits a word and becomes a token of its own.
const hardPunct = `,;:()[]{}"!?|<>=*~^` + "“”«»…•·"

// dottedAcronym matches "R.A.G." and "e.g." whose trailing dot belongs to the token.
var dottedAcronym = regexp.MustCompile(`^(?:[A-Za-z]\.){2,}$`)

// maxJoinedSlashPart bounds the parts of slash compounds kept as one token
// ("ci/cd", "tcp/ip", "pl/sql"); longer parts ("Java/Python") are split.
const maxJoinedSlashPart = 3

type rawToken struct {
	start, end int
	space      bool
}

// Tokenize splits text into tagged tokens.
func Tokenize(text string) *Doc {
	doc := &Doc{Text: text}
	for _, rt := range lex(text) {
		doc.Tokens = append(doc.Tokens, newToken(text, rt))
	}
	tag(doc)
	for i := range doc.Tokens {
		doc.Tokens[i].Lemma = lemmatize(doc.Tokens[i])
	}
	doc.entities = labelEntities(doc)
	return doc
}

// Keys returns the matcher keys of a phrase, skipping tokens without one.
func Keys(phrase string) []string {
	var keys []string
	for _, rt := range lex(phrase) {
		if rt.space {
			continue
		}
		if k := Key(phrase[rt.start:rt.end]); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Key lowercases s and keeps only [a-z0-9+#].
func Key(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '+' || r == '#' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lex(text string) []rawToken {
	var out []rawToken
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '\n' || r == '\r' {
			j := i
			for j < len(text) && (text[j] == '\n' || text[j] == '\r') {
				j++
			}
			out = append(out, rawToken{start: i, end: j, space: true})
			i = j
			continue
		}
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		j := i
		for j < len(text) {
			r2, s2 := utf8.DecodeRuneInString(text[j:])
			if unicode.IsSpace(r2) {
				break
			}
			j += s2
		}
		out = splitWord(text, i, j, out)
		i = j
	}
	return out
}

// splitWord splits a whitespace-free run at hard punctuation and trims soft
// punctuation from the pieces.
func splitWord(text string, start, end int, out []rawToken) []rawToken {
	pieceStart := start
	for i := start; i < end; {
		r, size := utf8.DecodeRuneInString(text[i:])
		if strings.ContainsRune(hardPunct, r) {
			out = splitPiece(text, pieceStart, i, out)
			out = append(out, rawToken{start: i, end: i + size})
			pieceStart = i + size
		}
		i += size
	}
	return splitPiece(text, pieceStart, end, out)
}

func splitPiece(text string, start, end int, out []rawToken) []rawToken {
	if start >= end {
		return out
	}

	// leading punctuation, except ".net"-style prefixes
	var lead []rawToken
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:])
		if !isSoftPunct(r) {
			break
		}
		if r == '.' && start+size < end {
			next, _ := utf8.DecodeRuneInString(text[start+size:])
			if unicode.IsLetter(next) {
				break
			}
		}
		lead = append(lead, rawToken{start: start, end: start + size})
		start += size
	}
	out = append(out, lead...)

	// trailing punctuation, except "c++", "c#" and dotted acronyms
	var trail []rawToken
	for start < end {
		core := text[start:end]
		if dottedAcronym.MatchString(core) {
			break
		}
		r, size := utf8.DecodeLastRuneInString(core)
		if !isSoftPunct(r) {
			break
		}
		if (r == '+' || r == '#') && hasLetterOrDigit(core[:len(core)-size]) {
			break
		}
		trail = append([]rawToken{{start: end - size, end: end}}, trail...)
		end -= size
	}

	if start < end {
		core := text[start:end]
		lower := strings.ToLower(core)
		switch {
		case len(core) > 2 && (strings.HasSuffix(lower, "'s") || strings.HasSuffix(lower, "’s")):
			cut := strings.LastIndexAny(core, "'’")
			out = appendSlashSplit(text, start, start+cut, out)
			out = append(out, rawToken{start: start + cut, end: end})
		default:
			out = appendSlashSplit(text, start, end, out)
		}
	}
	return append(out, trail...)
}

// appendSlashSplit keeps short slash compounds whole and splits the rest.
func appendSlashSplit(text string, start, end int, out []rawToken) []rawToken {
	core := text[start:end]
	if !strings.Contains(core, "/") {
		return append(out, rawToken{start: start, end: end})
	}
	parts := strings.Split(core, "/")
	joined := true
	for _, p := range parts {
		if p == "" || utf8.RuneCountInString(p) > maxJoinedSlashPart {
			joined = false
			break
		}
	}
	if joined {
		return append(out, rawToken{start: start, end: end})
	}
	pos := start
	for i, p := range parts {
		if p != "" {
			out = append(out, rawToken{start: pos, end: pos + len(p)})
		}
		pos += len(p)
		if i < len(parts)-1 {
			out = append(out, rawToken{start: pos, end: pos + 1})
			pos++
		}
	}
	return out
}

func isSoftPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

var numberWords = map[string]bool{
	"zero": true, "one": true, "two": true, "three": true, "four": true, "five": true,
	"six": true, "seven": true, "eight": true, "nine": true, "ten": true, "eleven": true,
	"twelve": true, "fifteen": true, "twenty": true, "hundred": true, "thousand": true,
}

func newToken(text string, rt rawToken) Token {
	s := text[rt.start:rt.end]
	lower := strings.ToLower(s)
	tok := Token{
		Text:  s,
		Lower: lower,
		Start: rt.start,
		End:   rt.end,
	}
	if rt.space {
		tok.IsSpace = true
		tok.POS = Space
		return tok
	}
	tok.Key = Key(s)
	tok.IsPunct = !hasLetterOrDigit(s)
	tok.LikeNum = likeNum(lower)
	return tok
}

func likeNum(lower string) bool {
	if numberWords[lower] {
		return true
	}
	digits := 0
	for _, r := range lower {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',' || r == '+' || r == '%' || r == '-':
		default:
			return false
		}
	}
	return digits > 0
}
