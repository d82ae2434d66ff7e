package vocabulary

import (
	"regexp"
	"strings"
	"unicode"
)

var displayNames = map[string]string{
	"ts": "TypeScript", "typescript": "TypeScript",
	"node": "Node.js", "nodejs": "Node.js", "node.js": "Node.js", "node js": "Node.js",
	"js": "JavaScript", "javascript": "JavaScript", "ecmascript": "JavaScript",
	"py": "Python", "python": "Python", "python3": "Python", "python 3": "Python",
	"java": "Java",
	"c#": "C#", "csharp": "C#", "c sharp": "C#",
	"c++": "C++", "cpp": "C++", "c plus plus": "C++",
	".net": ".NET", "dotnet": ".NET", ".net core": ".NET Core",
	"asp.net": "ASP.NET", "aspnet": "ASP.NET",
	"react": "React", "react.js": "React.js", "reactjs": "React.js",
	"vue": "Vue.js", "vue.js": "Vue.js", "vuejs": "Vue.js",
	"angular": "Angular", "angularjs": "AngularJS", "angular.js": "AngularJS",
	"sql": "SQL",
	"aws": "AWS", "amazon web services": "AWS",
	"docker": "Docker",
	"kubernetes": "Kubernetes", "k8s": "Kubernetes", "kube": "Kubernetes",
	"git": "Git", "github": "GitHub",
	"rest": "REST API", "rest api": "REST API", "restful": "REST API", "restful api": "REST API",
	"graphql": "GraphQL", "graph ql": "GraphQL",
	"html": "HTML", "css": "CSS",

	"mysql": "MySQL", "postgresql": "PostgreSQL", "postgres": "PostgreSQL",
	"mongodb": "MongoDB", "mongo": "MongoDB", "redis": "Redis",
	"oracle": "Oracle", "nosql": "NoSQL",

	"chromadb": "ChromaDB", "chroma db": "ChromaDB",
	"pinecone": "Pinecone", "weaviate": "Weaviate", "faiss": "FAISS",
	"ollama": "Ollama", "vllm": "vLLM",
	"hugging face transformers": "Hugging Face Transformers",
	"huggingface transformers":  "Hugging Face Transformers",
	"huggingface":               "Hugging Face",
	"large language models":     "Large Language Models",
	"llm": "LLM", "llms": "LLMs",
	"generative ai":      "Generative AI",
	"prompt engineering": "Prompt Engineering",
	"langchain":          "LangChain",
	"rag retrieval augmented generation": "RAG (Retrieval Augmented Generation)",
	"rag":                       "RAG",
	"vector databases":          "Vector Databases",
	"embeddings":                "Embeddings",
	"semantic search":           "Semantic Search",
	"tokenization":              "Tokenization",
	"fine tuning":               "Fine Tuning",
	"inference optimization":    "Inference Optimization",
	"openai api":                "OpenAI API",
	"openai":                    "OpenAI",
	"lora":                      "LoRA",
	"quantization":              "Quantization",
	"model serving":             "Model Serving",
	"context window management": "Context Window Management",
	"ai agents":                 "AI Agents",
	"tool calling":              "Tool Calling",
	"evaluation of llms":        "Evaluation of LLMs",
	"fastapi":                   "FastAPI",

	"go": "Go", "rust": "Rust", "kotlin": "Kotlin", "swift": "Swift",
	"scala": "Scala", "ruby": "Ruby", "php": "PHP", "r": "R",
}

var commonAcronyms = setOf(
	"api", "rag", "sql", "aws", "gcp", "s3", "ec2", "html", "css", "js", "ts",
	"json", "xml", "yaml", "csv", "http", "https", "rest", "graphql", "soap",
	"azure", "k8s", "ci", "cd", "devops", "ml", "ai", "nlp",
	"llm", "gpu", "cpu", "ram", "ssd", "hdd", "tcp", "udp", "dns", "ssl",
	"tls", "jwt", "oauth", "saml", "ldap", "ad", "sso", "mfa", "2fa",
	"faiss", "lora", "sdk", "cli", "gui", "ui", "ux",
	"qa", "uat", "sit", "erp", "crm", "scm", "bpmn", "itil",
	"iso", "swift", "prd", "okr", "kpi",
)

// dashedAcronym matches letter-by-letter forms like "c-s-v" or "j-s-o-n".
var dashedAcronym = regexp.MustCompile(`(?i)^([a-z])-([a-z])-([a-z])(?:-([a-z]))?$`)

// DisplayName returns the preferred display spelling of a skill: the display
// map first, then the canonical group's surface form, then TitleCase.
func (s *Store) DisplayName(skill string) string {
	if skill == "" {
		return skill
	}
	lower := strings.ToLower(strings.TrimSpace(skill))
	if name, ok := displayNames[lower]; ok {
		return name
	}
	if canonical, ok := s.CanonicalSkill(skill); ok {
		if name, ok := displayNames[strings.ToLower(canonical)]; ok {
			return name
		}
		return TitleCase(canonical)
	}
	return TitleCase(skill)
}

// TitleCase formats text in title case while keeping common acronyms upper-case.
// Underscores and dashes become spaces.
func TitleCase(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	if m := dashedAcronym.FindStringSubmatch(trimmed); m != nil {
		return strings.ToUpper(strings.Join(m[1:], ""))
	}

	normalized := strings.NewReplacer("_", " ", "-", " ").Replace(trimmed)
	words := strings.Fields(normalized)
	for i, word := range words {
		lower := strings.ToLower(word)
		if len(word) >= 2 && len(word) <= 5 {
			if _, ok := commonAcronyms[lower]; ok {
				words[i] = strings.ToUpper(word)
				continue
			}
		}
		if isTitle(word) {
			continue
		}
		words[i] = title(lower)
	}
	return strings.Join(words, " ")
}

func isTitle(word string) bool {
	runes := []rune(word)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// title upper-cases the first letter of every alphabetic run.
func title(word string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			if !prevLetter {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
