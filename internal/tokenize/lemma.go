package tokenize

import "strings"

var irregularLemmas = map[string]string{
	"built": "build", "building": "build", "builds": "build",
	"using": "use", "used": "use", "uses": "use",
	"developing": "develop", "developed": "develop", "develops": "develop",
	"designing": "design", "designed": "design",
	"writing": "write", "wrote": "write", "written": "write", "writes": "write",
	"working": "work", "worked": "work", "works": "work",
	"creating": "create", "created": "create",
	"required": "require", "requiring": "require", "requires": "require",
	"knowing": "know", "knew": "know", "known": "know", "knows": "know",
	"leveraging": "leverage", "leveraged": "leverage",
	"led": "lead", "leading": "lead",
	"understood": "understand", "understanding": "understand",
	"managing": "manage", "managed": "manage",
	"implementing": "implement", "implemented": "implement",
	"deploying": "deploy", "deployed": "deploy",
	"maintaining": "maintain", "maintained": "maintain",
	"made": "make", "making": "make",
	"took": "take", "taken": "take", "taking": "take",
	"got": "get", "getting": "get",
	"is": "be", "are": "be", "was": "be", "were": "be", "been": "be", "am": "be",
	"has": "have", "had": "have", "having": "have",
	"does": "do", "did": "do", "done": "do",
	"skills": "skill", "technologies": "technology", "tools": "tool",
	"frameworks": "framework", "languages": "language", "libraries": "library",
	"platforms": "platform", "databases": "database", "engineers": "engineer",
	"developers": "developer", "experiences": "experience", "years": "year",
	"proficiencies": "proficiency", "abilities": "ability",
}

// lemmatize returns the dictionary form of a token. Only nouns and verbs are
// reduced; technical and proper-noun tokens keep their lower-case text.
func lemmatize(tok Token) string {
	if tok.IsSpace || tok.IsPunct {
		return tok.Lower
	}
	if lemma, ok := irregularLemmas[tok.Lower]; ok {
		return lemma
	}
	switch tok.POS {
	case Noun:
		return singular(tok.Lower)
	case Verb:
		return verbStem(tok.Lower)
	}
	return tok.Lower
}

func singular(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "shes"), strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "xes"):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") &&
		!strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is"):
		return w[:len(w)-1]
	}
	return w
}

func verbStem(w string) string {
	switch {
	case len(w) > 5 && strings.HasSuffix(w, "ing"):
		return undouble(w[:len(w)-3])
	case len(w) > 4 && strings.HasSuffix(w, "ied"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && strings.HasSuffix(w, "ed"):
		return undouble(w[:len(w)-2])
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}

// undouble turns "programm" into "program".
func undouble(stem string) string {
	n := len(stem)
	if n >= 3 && stem[n-1] == stem[n-2] && !strings.ContainsRune("aeiouls", rune(stem[n-1])) {
		return stem[:n-1]
	}
	return stem
}
