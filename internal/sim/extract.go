package sim

import (
	"math"
	"regexp"
	"strconv"

	"github.com/Preet37/Loomin/internal/model"
)

// directRule binds one canonical variable name to the pattern that extracts
// it. Every rule scans the full text; later matches for the same key
// overwrite earlier ones, so users can correct a parameter by restating it
// further down the page.
type directRule struct {
	key string
	re  *regexp.Regexp
}

var directRules = []directRule{
	{"wind_speed", regexp.MustCompile(`[Ww]ind[_\s]*[Ss]peed\s*=\s*(\d+(?:\.\d+)?)`)},
	{"blade_count", regexp.MustCompile(`[Bb]lade[_\s]*[Cc]ount\s*=\s*(\d+)`)},
	{"number_of_blades", regexp.MustCompile(`[Nn]umber\s*of\s*[Bb]lades\s*=\s*(\d+)`)},
	{"payload", regexp.MustCompile(`[Pp]ayload\s*=\s*(\d+(?:\.\d+)?)\s*(kg|lbs?|pounds?)?`)},
	{"arm_length", regexp.MustCompile(`[Aa]rm[_\s]*[Ll]ength\s*=\s*(\d+(?:\.\d+)?)`)},
}

// genericKVPattern matches line-anchored `Key = Value` or `Key: Value`
// pairs with an optional trailing unit token. Keys keep their as-written
// form (e.g. Scene_Mode), which is how scene-control variables reach the UI.
var genericKVPattern = regexp.MustCompile(`(?m)^[ \t]*([A-Za-z_][A-Za-z0-9_]*)[ \t]*[=:][ \t]*([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)[ \t]*([A-Za-z/%]+)?[ \t]*$`)

// ExtractDirect pulls canonical variables straight out of the note text
// without any external call. An empty result signals the orchestrator to
// fall through to the LLM path.
func ExtractDirect(text string) model.Variables {
	vars := model.Variables{}
	if text == "" {
		return vars
	}

	for _, rule := range directRules {
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			unit := ""
			if len(m) > 2 {
				unit = m[2]
			}
			vars[rule.key] = NormalizeUnit(value, unit)
		}
	}

	for _, m := range genericKVPattern.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
			continue
		}
		vars[m[1]] = NormalizeUnit(value, m[3])
	}

	// Alias number_of_blades into blade_count when only the former is given.
	if n, ok := vars["number_of_blades"]; ok {
		if _, present := vars["blade_count"]; !present {
			vars["blade_count"] = n
		}
	}

	return vars
}
