// Package types provides type definitions for structured data used throughout the skill extraction engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SkillType is the technical class of a vocabulary entry.
type SkillType string

// Skill types accepted by the type gate.
const (
	SkillTypeLanguage    SkillType = "language"
	SkillTypeFramework   SkillType = "framework"
	SkillTypeLibrary     SkillType = "library"
	SkillTypeTool        SkillType = "tool"
	SkillTypeDatabase    SkillType = "database"
	SkillTypeCloud       SkillType = "cloud"
	SkillTypeProtocol    SkillType = "protocol"
	SkillTypePlatform    SkillType = "platform"
	SkillTypeRuntime     SkillType = "runtime"
	SkillTypeMethodology SkillType = "methodology"
	SkillTypeStandard    SkillType = "standard"
)

// AllowedSkillTypes returns every valid SkillType.
func AllowedSkillTypes() []SkillType {
	return []SkillType{
		SkillTypeLanguage, SkillTypeFramework, SkillTypeLibrary, SkillTypeTool,
		SkillTypeDatabase, SkillTypeCloud, SkillTypeProtocol, SkillTypePlatform,
		SkillTypeRuntime, SkillTypeMethodology, SkillTypeStandard,
	}
}

// ParseSkillType converts a string into a SkillType, case-insensitively.
func ParseSkillType(s string) (SkillType, error) {
	candidate := SkillType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range AllowedSkillTypes() {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown skill type %q", s)
}

// SkillEntry is one canonical vocabulary entry with its aliases and hierarchy links.
type SkillEntry struct {
	CanonicalName string    `json:"canonical_name" validate:"required"`
	Aliases       []string  `json:"aliases,omitempty" validate:"dive,required"`
	Parents       []string  `json:"parents,omitempty" validate:"dive,required"`
	Children      []string  `json:"children,omitempty" validate:"dive,required"`
	Type          SkillType `json:"type,omitempty" validate:"omitempty,oneof=language framework library tool database cloud protocol platform runtime methodology standard"`
	Weight        int       `json:"weight" validate:"min=0,max=3"`
}

// Validate validates the SkillEntry using the validator.
func (e *SkillEntry) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}
