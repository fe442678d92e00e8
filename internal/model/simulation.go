package model

// Topic represents a detected simulation domain. It selects the physics
// ruleset and the 3D scene the UI renders.
type Topic string

const (
	TopicWindTurbine Topic = "wind_turbine"
	TopicRobotArm    Topic = "robot_arm"
	TopicMotherboard Topic = "motherboard"
	TopicCircuit     Topic = "circuit"
	TopicMechanical  Topic = "mechanical"
	TopicSolar       Topic = "solar"
	TopicEngine      Topic = "engine"
	TopicElectronics Topic = "electronics"
	TopicGeneric     Topic = "generic"
)

// AllTopics returns all defined topics.
func AllTopics() []Topic {
	return []Topic{
		TopicWindTurbine,
		TopicRobotArm,
		TopicMotherboard,
		TopicCircuit,
		TopicMechanical,
		TopicSolar,
		TopicEngine,
		TopicElectronics,
		TopicGeneric,
	}
}

// ValidTopic reports whether t is a defined topic.
func ValidTopic(t Topic) bool {
	for _, known := range AllTopics() {
		if known == t {
			return true
		}
	}
	return false
}

// Variables maps canonical variable names to numeric values. Unit suffixes
// are stripped and converted before storage. Keys the evaluator does not
// recognize for the active topic are retained but ignored.
type Variables map[string]float64

// Status is the outcome of a physics evaluation.
type Status string

const (
	StatusOptimal         Status = "OPTIMAL"
	StatusWarning         Status = "WARNING"
	StatusCriticalFailure Status = "CRITICAL_FAILURE"
)

// Verdict is the result of evaluating a design against the physics rules.
// Recommendation and AIExplanation are populated only for CRITICAL_FAILURE.
type Verdict struct {
	Status         Status `json:"status"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
	AIExplanation  string `json:"aiExplanation"`
}

// Extraction is the canonical output of both extraction paths.
type Extraction struct {
	Topic Topic     `json:"topic"`
	Vars  Variables `json:"vars"`
}

// PipelineResult is the terminal output of a pipeline invocation, in the
// wire shape the editor consumes.
type PipelineResult struct {
	Extraction Extraction `json:"extraction"`
	Simulation Verdict    `json:"simulation"`
}
