package diagnosis

import "strings"

// TrapType names a GRE reading-comprehension distractor pattern.
type TrapType string

const (
	TrapOutOfScope        TrapType = "Out of Scope"
	TrapDistortion        TrapType = "Distortion"
	TrapExtremeLanguage   TrapType = "Extreme Language"
	TrapTrueButIrrelevant TrapType = "True but Irrelevant"
	TrapReversal          TrapType = "Reversal"
	TrapUnknown           TrapType = "Unknown"
)

// Trap describes one trap type.
type Trap struct {
	Type        TrapType
	Description string
	Aliases     []string
}

// traps is the known taxonomy, in the order it is shown to the model.
var traps = []Trap{
	{
		Type:        TrapOutOfScope,
		Description: "Brings in ideas the passage never discusses",
		Aliases:     []string{"out-of-scope", "outside the scope", "beyond scope", "not mentioned"},
	},
	{
		Type:        TrapDistortion,
		Description: "Uses passage wording but twists what was actually claimed",
		Aliases:     []string{"distorted", "misrepresentation"},
	},
	{
		Type:        TrapExtremeLanguage,
		Description: "Overstates a qualified claim with words like always, never, only, proves",
		Aliases:     []string{"extreme", "too extreme", "overstatement"},
	},
	{
		Type:        TrapTrueButIrrelevant,
		Description: "States something the passage supports that does not answer the question",
		Aliases:     []string{"true but irrelevant", "irrelevant"},
	},
	{
		Type:        TrapReversal,
		Description: "Says the opposite of what the passage states",
		Aliases:     []string{"opposite", "opposite/reversal", "reversed", "contradiction"},
	},
}

var byKey map[string]TrapType

func init() {
	byKey = make(map[string]TrapType)
	for _, t := range traps {
		byKey[strings.ToLower(string(t.Type))] = t.Type
		for _, a := range t.Aliases {
			byKey[a] = t.Type
		}
	}
	byKey[strings.ToLower(string(TrapUnknown))] = TrapUnknown
}

// Traps returns the known taxonomy.
func Traps() []Trap {
	return traps
}

// NormalizeTrap maps a model-supplied label onto the taxonomy. Labels that
// match nothing are kept verbatim; empty labels become Unknown.
func NormalizeTrap(label string) TrapType {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return TrapUnknown
	}
	if t, ok := byKey[key]; ok {
		return t
	}
	for _, t := range traps {
		if strings.Contains(key, strings.ToLower(string(t.Type))) {
			return t.Type
		}
		for _, a := range t.Aliases {
			if strings.Contains(key, a) {
				return t.Type
			}
		}
	}
	return TrapType(strings.TrimSpace(label))
}
