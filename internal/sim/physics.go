package sim

import (
	"fmt"

	"github.com/Preet37/Loomin/internal/model"
)

// Physics constants. More blades means more aerodynamic drag, so the safe
// wind-speed ceiling drops with blade count, floored so it never becomes
// nonsensically low.
const (
	turbineBaseLimit    = 75.0 // m/s at zero blades
	turbineDragPerBlade = 5.0  // m/s of ceiling lost per blade
	turbineFloorLimit   = 20.0 // m/s
	maxBladeLength      = 120.0 // m, beyond this the blades flex under load
	gravity             = 9.8
	armTorqueLimit      = 600.0 // N·m gear train rating
)

// Defaults for missing variables. The evaluator must always produce a
// verdict, so absent values take topic-appropriate baselines.
const (
	defaultBladeCount = 3.0
	defaultArmLength  = 1.0
)

func varOr(vars model.Variables, key string, fallback float64) float64 {
	if v, ok := vars[key]; ok {
		return v
	}
	return fallback
}

// TurbineWindLimit returns the safe wind-speed ceiling for a blade count.
func TurbineWindLimit(blades float64) float64 {
	limit := turbineBaseLimit - blades*turbineDragPerBlade
	if limit < turbineFloorLimit {
		return turbineFloorLimit
	}
	return limit
}

// Evaluate runs the deterministic physics rules for a topic. It is pure,
// does no I/O, and never fails. Topics without failure rules (motherboard,
// circuit, mechanical, solar, engine, electronics, generic) are
// visualization-only and always come back OPTIMAL.
func Evaluate(topic model.Topic, vars model.Variables) model.Verdict {
	verdict := model.Verdict{
		Status:  model.StatusOptimal,
		Message: "System operating within normal parameters.",
	}

	switch topic {
	case model.TopicWindTurbine:
		wind := varOr(vars, "wind_speed", 0)
		blades := varOr(vars, "blade_count", defaultBladeCount)
		limit := TurbineWindLimit(blades)

		if wind > limit {
			verdict.Status = model.StatusCriticalFailure
			verdict.Message = fmt.Sprintf("Drag from %g blades exceeded limit (%g m/s) at wind speed %g m/s.", blades, limit, wind)
			verdict.Recommendation = fmt.Sprintf("Reduce wind_speed to %.0f m/s OR reduce blade_count to 3.", limit-5)
		} else if varOr(vars, "blade_length", 0) > maxBladeLength {
			verdict.Status = model.StatusWarning
			verdict.Message = "Warning: blade length causes excess torque and stress at the hub."
		}

	case model.TopicRobotArm:
		payload := varOr(vars, "payload", 0)
		length := varOr(vars, "arm_length", defaultArmLength)
		torque := payload * length * gravity

		if torque > armTorqueLimit {
			verdict.Status = model.StatusCriticalFailure
			verdict.Message = fmt.Sprintf("Torque (%.0f Nm) exceeded gear limit of %.0f Nm.", torque, armTorqueLimit)
			verdict.Recommendation = fmt.Sprintf("Reduce payload to %.1f kg.", armTorqueLimit/(length*gravity))
		}
	}

	return verdict
}

// staticExplanation produces the deterministic failure narrative used on the
// direct path, where no LLM call is made. Mirrors the wording the augmenter
// asks the model for.
func staticExplanation(topic model.Topic, vars model.Variables) string {
	switch topic {
	case model.TopicWindTurbine:
		wind := varOr(vars, "wind_speed", 0)
		blades := varOr(vars, "blade_count", defaultBladeCount)
		limit := TurbineWindLimit(blades)
		return fmt.Sprintf("At %g m/s with %g blades, aerodynamic drag exceeds structural limits; wind shear oscillations will tear the blades apart beyond the %g m/s ceiling.", wind, blades, limit)
	case model.TopicRobotArm:
		payload := varOr(vars, "payload", 0)
		length := varOr(vars, "arm_length", defaultArmLength)
		torque := payload * length * gravity
		return fmt.Sprintf("The %.0f Nm of torque at the shoulder joint exceeds the gear train's %.0f Nm rating; the gear teeth will shear and the arm will collapse.", torque, armTorqueLimit)
	}
	return ""
}
