package vocabulary

import (
	"strings"

	"github.com/mentorque/Extension-Free-backend/internal/types"
)

// Rule-based filters. They are the degraded path used when the semantic
// classifier is unavailable and are deliberately conservative.

var industryTerms = setOf(
	"bakery", "grocery", "retail", "hospitality", "finance", "banking",
	"healthcare", "education", "manufacturing", "logistics", "supply chain",
)

var abstractConcepts = setOf(
	// generic development concepts
	"integration", "scripting", "authorization", "engineering", "development",
	"product development", "front-end", "back-end", "full-stack", "backend",
	"frontend", "front end", "back end", "programming",

	// job posting and HR vocabulary
	"ai", "hiring", "open source", "resume", "root", "root cause",
	"scratch", "screening", "start to finish", "start-to-finish",
	"notice period", "opportunity", "placement", "salary", "competitive",
	"apply", "application", "interview", "client", "talent", "career",
	"challenge", "work environment", "portal", "register", "login",
	"upload", "shortlisted", "meet", "waiting", "ready", "today",
	"step", "process", "click", "form", "chances", "progress",
	"goal", "reliable", "simple", "fast", "relevant", "product",
	"great fit", "great", "fit", "part", "founding", "team",
	"building", "consumer", "payments", "platform", "grounds",
	"own", "end to end", "end-to-end", "responsibility", "architecture",
	"deployment", "monitoring", "develop", "features", "working",
	"distributed", "micro-service", "microservice", "environment",
	"handle", "million", "customers", "millisecond", "latencies",
	"dive", "details", "issues", "incidents", "outages", "analyze",
	"prepare", "reports", "solving", "real", "business", "needs",
	"large scale", "large-scale", "consumer-tech", "saas", "startup",
	"built", "systems", "before", "yrs", "years",
	"containers", "designing", "services", "caching", "realtime",
	"realtime db", "realtime database", "ensuring", "whatever", "build",
	"deploy", "start", "finish", "top-notch", "quality", "enjoy",
	"products", "joining", "early", "stage", "involves", "more",
	"than", "just", "developing", "app", "often", "chaotic",
	"environments", "involved", "decisions", "well", "leverage",
	"work", "faster", "need", "able", "collaborate",
	"design", "teams", "within", "constraints", "understand",
	"companies", "make", "correct", "tradeoffs", "between", "time",
	"speed", "whenever", "required", "love", "give",
	"back", "community", "through", "blogging", "mentoring",
	"contributing", "fintech", "industry", "around",
	"big", "plus", "easy", "log", "updated", "complete", "increase", "get",
	"for", "about", "getting", "hired", "role", "help", "all", "our",
	"talents", "find", "their", "note", "there", "are",
	"many", "opportunities", "apart", "from", "this", "on",
	"so", "if", "you", "new", "take", "your", "next", "level", "don't", "hesitate", "we",

	// business and process
	"cross functional", "working model", "sustainable growth", "product lines",
	"corporate card", "linkedin learning", "customer", "developers", "engineers",
	"contractors", "culture", "org structure", "learning programs", "business context",
	"user feedback", "user experience", "ux", "ui", "user interface",
	"programmers", "researchers", "research", "cooperation", "collaboration",
	"start-up", "start up",

	// generic technical concepts
	"cloud infrastructure", "infrastructure", "component libraries", "component library",
	"state management", "web security", "security", "dom", "document object model",
	"api", "apis", "rest api", "rest apis", "restful api", "restful apis",
	"microservices", "micro services",
	"distributed systems", "scalability", "availability", "performance",
	"code review", "code reviews", "testing", "unit testing", "e2e testing", "e2e",
	"cloud", "cyber", "cyber security", "cybersecurity",
	"hybrid cloud", "public cloud", "private cloud",
	"digital", "digital transformation", "digitalization",

	// generic domains
	"databases", "database", "relational databases", "nosql databases",
	"web applications", "web application", "applications",
	"software", "platforms", "system",

	// architecture patterns
	"architectures", "design patterns", "design pattern",
	"software architecture", "system architecture",

	// HR and legal
	"equal employment opportunity", "eeo", "pregnancy", "religion", "color",
	"race", "gender", "age", "disability", "veteran", "national origin",
	"discrimination", "harassment", "diversity", "inclusion", "equity",

	// insurance and finance
	"term life insurance", "life insurance", "health insurance", "disability insurance",
	"insurance", "value proposition", "credit", "craft",

	// ambiguous common words
	"it", "rocket", "yarn",
	"service", "solution", "solutions",
	"technology", "technologies", "tech", "method", "methods",
	"processes", "approach", "approaches",
	"experience", "experiences", "background", "backgrounds",
	"qualification", "qualifications", "requirement", "requirements",
	"responsibilities", "duty", "duties",
	"cs", "object-oriented programming",
)

var specificSingleWords = setOf(
	// languages
	"java", "python", "javascript", "typescript", "kotlin", "swift", "go", "rust",
	"scala", "ruby", "php", "r", "matlab", "sql", "html", "css",
	// frameworks
	"react", "angular", "vue", "django", "flask", "express", "spring",
	// tools
	"docker", "kubernetes", "git", "jenkins", "terraform", "ansible",
	// databases
	"mysql", "mongodb", "redis", "postgresql", "oracle", "nosql",
	// platforms
	"aws", "azure", "gcp", "heroku", "vercel", "node", "android",
)

var garbageTerms = setOf(
	"skills", "skill", "framework", "frameworks", "architecture", "architectures",
	"software", "softwares", "application", "applications", "app", "apps",
	"components", "component", "design", "designs", "interfaces", "interface",
	"contribute", "contributes", "boot", "web", "webs", "system", "systems",
	"platform", "platforms", "service", "services", "tool", "tools",
	"technology", "technologies", "tech", "method", "methods", "methodology",
	"process", "processes", "procedure", "procedures", "approach", "approaches",
	"solution", "solutions", "concept", "concepts", "principle", "principles",
	"pattern", "patterns", "practice", "practices", "standard", "standards",
	"protocol", "protocols", "specification", "specifications", "requirement", "requirements",
	"feature", "features", "function", "functions", "module", "modules",
	"library", "libraries", "package", "packages", "dependency", "dependencies",
	"environment", "environments", "configuration", "configurations", "setting", "settings",
	"parameter", "parameters", "variable", "variables", "constant", "constants",
	"object", "objects", "class", "classes",
	"property", "properties", "attribute", "attributes",
	"element", "elements", "item", "items", "entry", "entries",
	"record", "records", "data", "datas", "information", "informations",
	"content", "contents", "document", "documents", "file", "files",
	"folder", "folders", "directory", "directories", "path", "paths",
	"url", "urls", "uri", "uris", "link", "links", "reference", "references",
	"code", "codes", "script", "scripts", "program", "programs",
	"project", "projects", "task", "tasks", "job", "jobs", "work", "works",
	"team", "teams", "group", "groups", "organization", "organizations",
	"company", "companies", "business", "businesses", "industry", "industries",
	"domain", "domains", "field", "fields", "area", "areas", "sector", "sectors",
	"role", "roles", "position", "positions", "title", "titles",
	"responsibility", "responsibilities", "duty", "duties",
	"experience", "experiences", "background", "backgrounds", "history", "histories",
	"education", "educations", "training", "trainings", "course", "courses",
	"certification", "certifications", "certificate", "certificates", "degree", "degrees",
	"knowledge", "knowledges", "understanding", "understandings", "expertise", "expertises",
	"ability", "abilities", "capability", "capabilities", "capacity", "capacities",
	"competence", "competences", "proficiency", "proficiencies", "mastery", "masteries",
	"developers", "engineers", "programmers", "researchers", "research",
	"cooperation", "collaboration", "start-up", "startup", "start up",
	"cloud", "cyber", "cyber security", "cybersecurity", "hybrid cloud",
	"public cloud", "private cloud", "digital", "digital transformation",
	"product", "products", "it", "color", "rocket", "yarn",
	"pregnancy", "religion", "eeo", "equal employment opportunity",
	"race", "gender", "age", "disability", "veteran", "national origin",
	"discrimination", "harassment", "diversity", "inclusion", "equity",
	"ecmascript",
)

// multiWordGarbage holds the garbage entries containing a space; they are
// matched as substrings in both directions.
var multiWordGarbage = func() []string {
	var out []string
	for term := range garbageTerms {
		if strings.Contains(term, " ") {
			out = append(out, term)
		}
	}
	return out
}()

var lowPrioritySkills = setOf(
	// soft skills
	"leadership", "teamwork", "communication", "collaboration",
	"problem solving", "critical thinking", "time management",
	"organization", "planning", "multitasking", "adaptability",
	"creativity", "innovation", "flexibility", "work ethic",
	"interpersonal skills", "verbal communication", "written communication",
	"presentation skills", "public speaking", "negotiation",
	"conflict resolution", "decision making", "strategic thinking",
	"analytical thinking", "attention to detail", "self motivation",
	"initiative", "proactive", "reliable", "dependable",
	// generic business
	"business acumen", "customer service", "client relations",
	"stakeholder management", "project coordination",
	// too generic
	"management", "administration", "operations", "support",
	"coordination", "implementation", "execution",
)

// commonWords rejects single words that read as plain English or job-posting filler.
var commonWords = setOf(
	"it", "is", "at", "as", "be", "by", "do", "go", "if", "in", "me", "my", "no", "of", "on", "or", "so", "to", "up", "we",
	"color", "rocket", "yarn", "cloud", "cyber", "digital", "product", "service", "solution", "research", "cooperation",
	"pregnancy", "religion", "eeo", "race", "gender", "age", "disability", "veteran", "discrimination", "harassment",
	"diversity", "inclusion", "equity", "ecmascript",
	"engineering", "ai", "hiring", "resume", "root", "scratch", "screening",
	"opportunity", "placement", "salary", "apply", "interview", "client", "talent", "career",
	"challenge", "portal", "register", "login", "upload", "step", "process", "click", "form",
	"goal", "reliable", "simple", "fast", "relevant", "great", "fit", "part", "team",
	"building", "consumer", "payments", "platform", "own", "end", "start", "finish",
	"develop", "features", "working", "distributed", "environment", "handle", "dive",
	"details", "issues", "incidents", "outages", "analyze", "prepare", "reports",
	"solving", "real", "business", "needs", "large", "scale", "built", "systems",
	"before", "years", "containers", "designing", "services", "caching", "realtime",
	"ensuring", "whatever", "build", "deploy", "quality", "enjoy", "products", "joining",
	"early", "stage", "involves", "more", "than", "just", "developing", "app", "often",
	"chaotic", "environments", "involved", "decisions", "well", "leverage", "faster",
	"need", "able", "collaborate", "design", "teams", "within", "constraints", "understand",
	"companies", "make", "correct", "tradeoffs", "between", "time", "speed",
	"whenever", "required", "love", "give", "back", "community", "through", "blogging",
	"mentoring", "contributing", "fintech", "industry", "around", "big", "plus", "easy",
	"updated", "complete", "increase", "get", "meet", "for", "about", "getting",
	"hired", "role", "help", "all", "our", "talents", "find", "progress", "their", "note",
	"there", "are", "many", "opportunities", "apart", "from", "this",
	"you", "ready", "new", "take", "your", "next", "level", "don't",
	"hesitate", "today", "waiting",
)

var genericTypePatterns = []string{
	"infrastructure", "libraries", "library", "components", "component",
	"management", "security", "testing", "development", "architecture",
}

var genericModifiers = setOf(
	"infrastructure", "infrastructures", "architecture", "architectures",
	"libraries", "library", "components", "component", "systems", "system",
	"applications", "application", "platforms", "platform", "services", "service",
	"apis", "api", "security", "testing", "management", "development",
	"feedback", "experience", "dom", "model",
)

var abstractPatterns = []string{
	"cloud infrastructure", "component libraries", "component library",
	"state management", "web security", "user feedback", "user experience",
	"rest api", "rest apis", "restful api", "restful apis",
	"microservices", "microservice", "micro services",
	"distributed systems", "backend", "frontend", "front-end", "back-end",
	"product development", "developers", "engineers", "programmers",
	"engineering", "security", "cyber security", "cybersecurity",
	"hybrid cloud", "public cloud", "private cloud", "cloud",
	"equal employment opportunity", "eeo", "pregnancy", "religion",
	"color", "cooperation", "cyber", "research", "rocket",
	"start-up", "startup", "yarn", "it", "digital",
	"ecmascript",
}

var specificTechnicalPatterns = []string{
	"react.js", "reactjs", "angular.js", "angularjs", "vue.js", "vuejs",
	"node.js", "nodejs", "express.js", "expressjs",
	"aws lambda", "aws s3", "aws ec2", "aws rds", "aws cloudwatch", "aws sqs", "aws sns",
	"azure functions", "gcp cloud functions",
	"ci/cd", "cicd",
}

var allowedSecondWords = setOf(
	"containers", "container", "database", "databases", "framework",
	"native", "boot", "js", "jsx", "tsx",
)

// IsKnown reports whether a phrase is listed verbatim in a static weight table
// or in the ontology with an allowed type. Known phrases skip the type gate and
// the garbage stoplist so that "spring boot" survives its generic "boot".
func (s *Store) IsKnown(phrase string) bool {
	lower := strings.ToLower(strings.TrimSpace(phrase))
	if inStaticTable(lower) {
		return true
	}
	if entry, ok := s.ontology.Lookup(lower); ok && entry.Type != "" {
		return true
	}
	return false
}

// IsValidType is the hard type gate: only phrases that belong to a technical
// skill class pass.
func (s *Store) IsValidType(phrase string) bool {
	lower := strings.ToLower(strings.TrimSpace(phrase))
	words := strings.Fields(lower)
	if len(words) == 0 {
		return false
	}
	if s.IsKnown(lower) {
		return true
	}

	if _, ok := abstractConcepts[lower]; ok {
		return false
	}
	if _, ok := industryTerms[lower]; ok {
		return false
	}
	for _, word := range words {
		if _, ok := abstractConcepts[word]; ok {
			return false
		}
		if _, ok := industryTerms[word]; ok {
			return false
		}
	}

	if len(words) == 1 {
		_, ok := specificSingleWords[lower]
		return ok
	}

	techIdx := indexOfSpecific(words)
	if techIdx < 0 {
		return false
	}

	if containsAny(lower, genericTypePatterns) {
		if _, ok := specificSingleWords[words[0]]; !ok {
			genericIdx := -1
			for i, w := range words {
				if contains(genericTypePatterns, w) {
					genericIdx = i
					break
				}
			}
			if techIdx > genericIdx {
				return false
			}
		}
	}

	return s.Weight(lower) > 0
}

// IsSpecificEnough rejects vague terms: single words must be whitelisted and
// multi-word phrases need a leading technical anchor.
func (s *Store) IsSpecificEnough(phrase string) bool {
	lower := strings.ToLower(strings.TrimSpace(phrase))
	words := strings.Fields(lower)
	if len(words) == 0 {
		return false
	}

	_, whitelisted := specificSingleWords[lower]
	if len(lower) <= 2 && !whitelisted {
		return false
	}

	if len(words) == 1 {
		if _, ok := commonWords[lower]; ok {
			return false
		}
		return whitelisted
	}

	techIdx := indexOfSpecific(words)
	if techIdx < 0 {
		return false
	}

	for i, word := range words {
		if _, ok := genericModifiers[word]; ok {
			if techIdx > i || i == 0 {
				return false
			}
		}
	}

	if containsAny(lower, abstractPatterns) {
		return false
	}

	if entry, ok := s.ontology.Lookup(lower); ok && len(entry.Parents) > 0 {
		return true
	}

	if containsAny(lower, specificTechnicalPatterns) {
		return true
	}

	if techIdx == 0 {
		if _, ok := allowedSecondWords[words[1]]; ok {
			return true
		}
	}
	return false
}

// IsGarbage combines the type gate, the specificity rule and the stoplist.
func (s *Store) IsGarbage(phrase string) bool {
	lower := strings.ToLower(strings.TrimSpace(phrase))
	if !s.IsValidType(lower) || !s.IsSpecificEnough(lower) {
		return true
	}
	if s.IsKnown(lower) {
		return false
	}
	if _, ok := garbageTerms[lower]; ok {
		return true
	}
	for _, term := range multiWordGarbage {
		if strings.Contains(lower, term) || strings.Contains(term, lower) {
			return true
		}
	}
	for _, word := range strings.Fields(lower) {
		if _, ok := garbageTerms[word]; ok {
			return true
		}
	}
	return false
}

// IsLowPriority reports soft skills and generic business terms.
func (s *Store) IsLowPriority(phrase string) bool {
	lower := strings.ToLower(strings.TrimSpace(phrase))
	if _, ok := lowPrioritySkills[lower]; ok {
		return true
	}
	for _, word := range strings.Fields(lower) {
		if _, ok := lowPrioritySkills[word]; ok {
			return true
		}
	}
	return false
}

// IsAllowedType reports whether t is one of the technical skill classes.
func IsAllowedType(t types.SkillType) bool {
	_, err := types.ParseSkillType(string(t))
	return err == nil
}

func indexOfSpecific(words []string) int {
	for i, w := range words {
		if _, ok := specificSingleWords[w]; ok {
			return i
		}
	}
	return -1
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
