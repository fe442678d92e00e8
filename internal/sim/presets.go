package sim

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Preet37/Loomin/internal/model"
)

//go:embed presets.yaml
var presetsYAML []byte

// ScenePreset holds the scene mode and starter parameters for a topic.
type ScenePreset struct {
	Mode   int                `yaml:"mode"`
	Params map[string]float64 `yaml:"params"`
}

var scenePresets = mustLoadPresets()

func mustLoadPresets() map[model.Topic]ScenePreset {
	var raw map[model.Topic]ScenePreset
	if err := yaml.Unmarshal(presetsYAML, &raw); err != nil {
		panic("sim: invalid embedded presets.yaml: " + err.Error())
	}
	for _, t := range model.AllTopics() {
		if _, ok := raw[t]; !ok {
			panic("sim: presets.yaml missing topic " + string(t))
		}
	}
	return raw
}

// PresetFor returns the scene preset for a topic. Unknown topics get the
// generic preset.
func PresetFor(topic model.Topic) ScenePreset {
	if p, ok := scenePresets[topic]; ok {
		return p
	}
	return scenePresets[model.TopicGeneric]
}

// ParamsBlock renders a preset as the `Key = Value` block the tutor appends
// to generated notes, Scene_Mode first, remaining params in stable order.
func (p ScenePreset) ParamsBlock() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scene_Mode = %d", p.Mode)

	keys := make([]string, 0, len(p.Params))
	for k := range p.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n%s = %g", k, p.Params[k])
	}
	return b.String()
}

// ensureSceneMode guarantees vars carries a Scene_Mode consistent with the
// topic unless the caller already set one explicitly.
func ensureSceneMode(vars model.Variables, topic model.Topic) {
	if _, ok := vars["Scene_Mode"]; !ok {
		vars["Scene_Mode"] = float64(PresetFor(topic).Mode)
	}
}
