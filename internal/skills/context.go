package skills

import (
	"strings"

	"github.com/mentorque/Extension-Free-backend/internal/tokenize"
	"github.com/mentorque/Extension-Free-backend/internal/types"
)

// contextWindow is how many tokens before a match are inspected.
const contextWindow = 5

var skillVerbs = []string{
	"experience", "experienced", "using", "use", "used", "utilize", "utilized",
	"work", "worked", "working", "build", "built", "building", "develop", "developed",
	"developing", "create", "created", "creating", "implement", "implemented",
	"implementing", "design", "designed", "designing", "write", "wrote", "writing",
	"code", "coded", "coding", "program", "programmed", "programming",
	"familiar", "proficient", "skilled", "expert", "expertise", "knowledge",
	"know", "knows", "known", "master", "mastered", "mastering",
}

var listIndicators = []string{
	"must have", "good to have", "required", "preferred", "skills", "skill",
	"requirements", "qualifications", "technologies", "tools", "frameworks",
	"languages", "platforms", "experience with", "proficiency in",
}

var techFollowers = map[string]bool{
	"developer": true, "programming": true, "development": true, "engineer": true,
	"framework": true, "library": true, "tool": true, "platform": true, "service": true,
}

// HasSkillContext reports whether the match at span appears where a skill is
// plausible: after a skill verb or list heading, inside a product or language
// entity, on a noun, or right before a technical role noun.
func HasSkillContext(doc *tokenize.Doc, span types.Span) bool {
	if span.Start < 0 || span.End > doc.Len() || span.Start >= span.End {
		return false
	}

	if span.Start > 0 {
		lemmas := make([]string, 0, contextWindow)
		for _, tok := range doc.Tokens[max(0, span.Start-contextWindow):span.Start] {
			if tok.IsSpace {
				continue
			}
			lemmas = append(lemmas, strings.ToLower(tok.Lemma))
		}
		prev := strings.Join(lemmas, " ")
		if containsAnyOf(prev, listIndicators) || containsAnyOf(prev, skillVerbs) {
			return true
		}
	}

	for _, ent := range doc.Entities() {
		if ent.Overlaps(span) && (ent.Label == tokenize.LabelProduct || ent.Label == tokenize.LabelLanguage) {
			return true
		}
	}

	for _, tok := range doc.Tokens[span.Start:span.End] {
		if tok.POS.IsNominal() {
			return true
		}
	}

	if span.End < doc.Len() {
		return techFollowers[strings.ToLower(doc.Tokens[span.End].Lemma)]
	}
	return false
}

func containsAnyOf(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
