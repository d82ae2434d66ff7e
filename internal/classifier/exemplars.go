package classifier

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mentorque/Extension-Free-backend/internal/types"
)

//go:embed exemplars/*.json
var exemplarFiles embed.FS

// exemplarFile maps each tier to its embedded exemplar list.
var exemplarFile = map[types.Tier]string{
	types.TierImportant:     "exemplars/important.json",
	types.TierLessImportant: "exemplars/less_important.json",
	types.TierNonTechnical:  "exemplars/non_technical.json",
}

var (
	exemplarCache   = make(map[types.Tier][]string)
	exemplarCacheMu sync.RWMutex
)

// Exemplars holds the three reference phrase sets a phrase is compared against.
type Exemplars struct {
	Important     []string `json:"important"`
	LessImportant []string `json:"less_important"`
	NonTech       []string `json:"non_technical"`
}

// DefaultExemplars returns the exemplar sets compiled into the binary.
func DefaultExemplars() (Exemplars, error) {
	imp, err := loadExemplars(types.TierImportant)
	if err != nil {
		return Exemplars{}, err
	}
	less, err := loadExemplars(types.TierLessImportant)
	if err != nil {
		return Exemplars{}, err
	}
	non, err := loadExemplars(types.TierNonTechnical)
	if err != nil {
		return Exemplars{}, err
	}
	return Exemplars{Important: imp, LessImportant: less, NonTech: non}, nil
}

// Set returns the exemplar list for a tier.
func (e Exemplars) Set(tier types.Tier) []string {
	switch tier {
	case types.TierImportant:
		return e.Important
	case types.TierLessImportant:
		return e.LessImportant
	default:
		return e.NonTech
	}
}

// Validate checks that every set is non-empty.
func (e Exemplars) Validate() error {
	for _, tier := range tiers {
		if len(e.Set(tier)) == 0 {
			return fmt.Errorf("exemplar set %s is empty", tier)
		}
	}
	return nil
}

// Hash returns a content hash of one set, used as part of the cache key.
func Hash(phrases []string) string {
	h := sha256.Sum256([]byte(strings.Join(phrases, "\n")))
	return hex.EncodeToString(h[:8])
}

var tiers = []types.Tier{types.TierImportant, types.TierLessImportant, types.TierNonTechnical}

func loadExemplars(tier types.Tier) ([]string, error) {
	exemplarCacheMu.RLock()
	if set, ok := exemplarCache[tier]; ok {
		exemplarCacheMu.RUnlock()
		return set, nil
	}
	exemplarCacheMu.RUnlock()

	name, ok := exemplarFile[tier]
	if !ok {
		return nil, fmt.Errorf("no exemplar file for tier %q", tier)
	}
	data, err := exemplarFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read exemplar file %s: %w", name, err)
	}
	var set []string
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse exemplar file %s: %w", name, err)
	}

	exemplarCacheMu.Lock()
	exemplarCache[tier] = set
	exemplarCacheMu.Unlock()
	return set, nil
}
