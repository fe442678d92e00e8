package sim

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Preet37/Loomin/internal/model"
)

var sceneModePattern = regexp.MustCompile(`(?i)Scene_Mode\s*=\s*(-?\d+)`)

// keywordRule maps any-of keywords to a topic. Rules are checked in slice
// order; that order is load-bearing (specific topics must win over the
// broader turbine/arm checks, e.g. "wind" inside an engine note).
type keywordRule struct {
	topic    model.Topic
	keywords []string
}

// specificTopicRules are the mode-2 visualization topics, checked first.
var specificTopicRules = []keywordRule{
	{model.TopicMotherboard, []string{"motherboard", "cpu socket", "ram slot", "chipset", "pcie"}},
	{model.TopicCircuit, []string{"circuit board", "resistor", "capacitor", "transistor"}},
	{model.TopicMechanical, []string{"gear ratio", "mechanical advantage", "lever", "fulcrum"}},
	{model.TopicSolar, []string{"solar panel", "photovoltaic", "solar cell"}},
	{model.TopicEngine, []string{"engine", "piston", "crankshaft", "combustion"}},
}

// sceneModeSubRules resolve a Scene_Mode >= 2 override to a concrete topic.
// Slightly looser keywords than the direct rules, matching how an explicit
// override note tends to be written.
var sceneModeSubRules = []keywordRule{
	{model.TopicMotherboard, []string{"motherboard", "cpu", "ram", "chipset"}},
	{model.TopicCircuit, []string{"circuit", "resistor", "capacitor", "led"}},
	{model.TopicMechanical, []string{"gear", "mechanical", "lever", "pulley"}},
	{model.TopicSolar, []string{"solar", "photovoltaic", "pv panel"}},
	{model.TopicEngine, []string{"engine", "piston", "combustion"}},
}

func matchKeywords(lower string, rules []keywordRule) (model.Topic, bool) {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.topic, true
			}
		}
	}
	return "", false
}

// DetectTopic classifies note text into a simulation topic.
//
// Precedence, highest first:
//  1. explicit Scene_Mode override (0 → wind_turbine, 1 → robot_arm,
//     >= 2 → keyword sub-rules over the same text)
//  2. specific visualization topics (motherboard, circuit, ...)
//  3. turbine keywords
//  4. robot-arm keywords
//  5. generic
//
// A Scene_Mode already extracted into vars wins over one found in the raw
// text. Negative modes fall through to the keyword ladder.
func DetectTopic(text string, vars model.Variables) model.Topic {
	lower := strings.ToLower(text)

	mode, hasMode := vars["Scene_Mode"]
	if !hasMode {
		if m := sceneModePattern.FindStringSubmatch(text); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				mode, hasMode = float64(v), true
			}
		}
	}
	if hasMode && mode >= 0 {
		switch {
		case mode == 0:
			return model.TopicWindTurbine
		case mode == 1:
			return model.TopicRobotArm
		default:
			if t, ok := matchKeywords(lower, sceneModeSubRules); ok {
				return t
			}
			return model.TopicGeneric
		}
	}

	if t, ok := matchKeywords(lower, specificTopicRules); ok {
		return t
	}

	if strings.Contains(lower, "turbine") ||
		(strings.Contains(lower, "wind") && strings.Contains(lower, "blade")) ||
		strings.Contains(lower, "windmill") {
		return model.TopicWindTurbine
	}
	if strings.Contains(lower, "robot") ||
		strings.Contains(lower, "robotic arm") ||
		strings.Contains(lower, "gripper") ||
		strings.Contains(lower, "actuator") {
		return model.TopicRobotArm
	}

	return model.TopicGeneric
}
