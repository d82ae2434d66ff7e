package tokenize

import (
	"strings"
	"unicode"
)

var lexicon = buildLexicon()

func buildLexicon() map[string]POS {
	lex := make(map[string]POS)
	add := func(pos POS, words ...string) {
		for _, w := range words {
			lex[w] = pos
		}
	}
	add(Determiner, "the", "a", "an", "this", "that", "these", "those", "my", "your",
		"his", "her", "its", "our", "their", "some", "any", "no", "every", "each", "all",
		"both", "few", "many", "much", "most", "other", "such", "another")
	add(Adposition, "in", "on", "at", "to", "for", "with", "by", "from", "of", "about",
		"into", "through", "during", "before", "after", "above", "below", "between", "under",
		"over", "against", "among", "around", "via", "per", "within", "without", "across",
		"along", "including", "like", "using", "toward", "towards", "upon", "throughout")
	add(Auxiliary, "is", "are", "was", "were", "be", "been", "being", "am",
		"have", "has", "had", "having", "do", "does", "did", "can", "could", "will",
		"would", "shall", "should", "may", "might", "must")
	add(Conjunction, "and", "or", "but", "nor", "yet", "so", "because", "although",
		"while", "if", "unless", "until", "since", "when", "where", "whether", "as", "than", "&")
	add(Pronoun, "i", "you", "he", "she", "it", "we", "they", "me", "him", "us", "them",
		"who", "whom", "whose", "which", "what", "yourself", "ourselves", "themselves")
	add(Adverb, "very", "quite", "rather", "really", "too", "just", "only", "also",
		"now", "then", "here", "there", "always", "never", "often", "sometimes", "well",
		"highly", "strongly", "preferably", "ideally", "already", "still", "even", "not")
	add(Adjective, "new", "good", "great", "strong", "solid", "excellent", "deep", "hands-on",
		"large", "small", "big", "high", "low", "senior", "junior", "modern", "related",
		"relevant", "preferred", "required", "proficient", "familiar", "fluent", "expert",
		"advanced", "basic", "key", "main", "best", "other", "similar", "various",
		"scalable", "distributed", "remote", "technical", "cross-functional", "plus")
	add(Verb, "use", "build", "built", "develop", "design", "designed", "write", "wrote",
		"written", "work", "worked", "create", "created", "maintain", "implement", "deploy",
		"manage", "lead", "led", "own", "drive", "collaborate", "know", "knew", "known",
		"understand", "understood", "require", "leverage", "apply", "ship", "join",
		"make", "made", "get", "got", "take", "took", "help", "support", "ensure", "learn")
	return lex
}

// tag assigns parts of speech: a lexicon and suffix baseline, then contextual
// corrections.
func tag(doc *Doc) {
	toks := doc.Tokens
	for i := range toks {
		toks[i].POS = baseline(toks, i)
	}
	for i := 1; i < len(toks); i++ {
		prev := toks[i-1]
		cur := &toks[i]
		switch {
		// "the build", "a strong design"
		case (prev.POS == Determiner || prev.POS == Adjective) && cur.POS == Verb:
			cur.POS = Noun
		// "to build", "will design"
		case (prev.Lower == "to" || isModal(prev.Lower)) && cur.POS == Noun && !cur.LikeNum:
			cur.POS = Verb
		// "experience of testing"
		case prev.POS == Adposition && prev.Lower != "to" && cur.POS == Verb && strings.HasSuffix(cur.Lower, "ing"):
			cur.POS = Noun
		}
	}
}

func baseline(toks []Token, i int) POS {
	tok := toks[i]
	switch {
	case tok.IsSpace:
		return Space
	case tok.IsPunct:
		if tok.Lower == "&" {
			return Conjunction
		}
		return Punctuation
	case tok.LikeNum && !hasLetter(tok.Text):
		return Number
	}

	if pos, ok := lexicon[tok.Lower]; ok {
		// capitalized lexicon words mid-sentence are names ("Go", "Spring")
		if !(startsUpper(tok.Text) && !sentenceStart(toks, i) && (pos == Verb || pos == Adjective)) {
			return pos
		}
		return ProperNoun
	}

	if looksTechnical(tok.Text) || isAcronym(tok.Text) {
		return ProperNoun
	}
	if startsUpper(tok.Text) && !sentenceStart(toks, i) {
		return ProperNoun
	}
	return suffixPOS(tok.Lower)
}

func suffixPOS(lower string) POS {
	switch {
	case strings.HasSuffix(lower, "ly") && len(lower) > 4:
		return Adverb
	case strings.HasSuffix(lower, "ing") && len(lower) > 5,
		strings.HasSuffix(lower, "ed") && len(lower) > 4,
		strings.HasSuffix(lower, "ize"), strings.HasSuffix(lower, "ise") && len(lower) > 6:
		return Verb
	case strings.HasSuffix(lower, "ful"), strings.HasSuffix(lower, "less"),
		strings.HasSuffix(lower, "ous"), strings.HasSuffix(lower, "ive"),
		strings.HasSuffix(lower, "able"), strings.HasSuffix(lower, "ible"),
		strings.HasSuffix(lower, "al") && len(lower) > 5, strings.HasSuffix(lower, "ic") && len(lower) > 5:
		return Adjective
	}
	return Noun
}

// sentenceStart reports whether token i begins a sentence, list item or line.
func sentenceStart(toks []Token, i int) bool {
	if i == 0 {
		return true
	}
	prev := toks[i-1]
	if prev.IsSpace {
		return true
	}
	if prev.IsPunct {
		switch prev.Text {
		case ".", "!", "?", ":", "•", "-", "*", "·":
			return true
		}
	}
	return false
}

func isModal(lower string) bool {
	switch lower {
	case "can", "could", "will", "would", "shall", "should", "may", "might", "must":
		return true
	}
	return false
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// isAcronym reports all-caps tokens with at least two letters ("AWS", "SQL").
func isAcronym(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 2
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
