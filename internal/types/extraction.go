package types

// CustomOverrideEntry is an operator-curated keyword that bypasses every filter.
type CustomOverrideEntry struct {
	Base        string   `json:"base" validate:"required"`
	Description string   `json:"description,omitempty"`
	Variations  []string `json:"variations,omitempty"`
}

// ExtractedSkill is one ranked skill in an extraction result.
type ExtractedSkill struct {
	SkillName     string  `json:"skill"`
	CanonicalForm string  `json:"canonical"`
	Weight        float64 `json:"weight"`
	Tier          Tier    `json:"tier"`
}

// ExtractionStats summarizes one extraction pass.
type ExtractionStats struct {
	TotalMatches        int     `json:"total_matches"`
	UniqueSkills        int     `json:"unique_skills"`
	Filtered            int     `json:"garbage_filtered"`
	LowPriority         int     `json:"low_priority_filtered"`
	ContextFiltered     int     `json:"context_filtered"`
	OverridesApplied    int     `json:"overrides_applied"`
	Discovered          int     `json:"discovered"`
	TotalWeight         float64 `json:"total_weight"`
	ClassifierAvailable bool    `json:"classifier_available"`
}

// ExtractionResult is the output of a full extraction, ordered by descending weight.
type ExtractionResult struct {
	Skills        []ExtractedSkill `json:"matches"`
	Important     []string         `json:"important_skills"`
	LessImportant []string         `json:"less_important_skills"`
	NonTechnical  []string         `json:"non_technical_skills"`
	Stats         ExtractionStats  `json:"stats"`
}

// Names returns the display names of the extracted skills in rank order.
func (r *ExtractionResult) Names() []string {
	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		names = append(names, s.SkillName)
	}
	return names
}
