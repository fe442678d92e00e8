package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Preet37/Loomin/internal/model"
)

func TestTurbineWindLimit(t *testing.T) {
	assert.Equal(t, 75.0, TurbineWindLimit(0))
	assert.Equal(t, 60.0, TurbineWindLimit(3))
	assert.Equal(t, 35.0, TurbineWindLimit(8))
	// Floor at 20 regardless of blade count.
	assert.Equal(t, 20.0, TurbineWindLimit(11))
	assert.Equal(t, 20.0, TurbineWindLimit(40))
}

func TestEvaluateWindTurbine(t *testing.T) {
	tests := []struct {
		name       string
		vars       model.Variables
		wantStatus model.Status
	}{
		{
			name:       "at the limit is still optimal",
			vars:       model.Variables{"wind_speed": 75, "blade_count": 0},
			wantStatus: model.StatusOptimal,
		},
		{
			name:       "just over the limit fails",
			vars:       model.Variables{"wind_speed": 76, "blade_count": 0},
			wantStatus: model.StatusCriticalFailure,
		},
		{
			name:       "default three blades at 60 holds",
			vars:       model.Variables{"wind_speed": 60},
			wantStatus: model.StatusOptimal,
		},
		{
			name:       "default three blades at 61 fails",
			vars:       model.Variables{"wind_speed": 61},
			wantStatus: model.StatusCriticalFailure,
		},
		{
			name:       "missing wind speed defaults to zero",
			vars:       model.Variables{"blade_count": 8},
			wantStatus: model.StatusOptimal,
		},
		{
			name:       "oversized blades warn",
			vars:       model.Variables{"wind_speed": 10, "blade_length": 150},
			wantStatus: model.StatusWarning,
		},
		{
			name:       "failure takes precedence over blade warning",
			vars:       model.Variables{"wind_speed": 70, "blade_length": 150},
			wantStatus: model.StatusCriticalFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(model.TopicWindTurbine, tt.vars)
			assert.Equal(t, tt.wantStatus, got.Status)
			if tt.wantStatus == model.StatusCriticalFailure {
				assert.NotEmpty(t, got.Recommendation)
			} else {
				assert.Empty(t, got.Recommendation)
			}
		})
	}
}

func TestEvaluateWindTurbineFailureDetail(t *testing.T) {
	got := Evaluate(model.TopicWindTurbine, model.Variables{"wind_speed": 50, "blade_count": 8})

	assert.Equal(t, model.StatusCriticalFailure, got.Status)
	assert.Equal(t, "Drag from 8 blades exceeded limit (35 m/s) at wind speed 50 m/s.", got.Message)
	assert.Equal(t, "Reduce wind_speed to 30 m/s OR reduce blade_count to 3.", got.Recommendation)
}

func TestEvaluateRobotArm(t *testing.T) {
	tests := []struct {
		name       string
		vars       model.Variables
		wantStatus model.Status
	}{
		{
			name:       "torque under limit holds",
			vars:       model.Variables{"payload": 10, "arm_length": 6}, // 588 Nm
			wantStatus: model.StatusOptimal,
		},
		{
			name:       "torque over limit fails",
			vars:       model.Variables{"payload": 11, "arm_length": 6}, // 646.8 Nm
			wantStatus: model.StatusCriticalFailure,
		},
		{
			name:       "missing arm length defaults to one meter",
			vars:       model.Variables{"payload": 62}, // 607.6 Nm
			wantStatus: model.StatusCriticalFailure,
		},
		{
			name:       "no variables at all is optimal",
			vars:       model.Variables{},
			wantStatus: model.StatusOptimal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(model.TopicRobotArm, tt.vars)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestEvaluateRobotArmFailureDetail(t *testing.T) {
	got := Evaluate(model.TopicRobotArm, model.Variables{"payload": 11, "arm_length": 6})

	assert.Equal(t, model.StatusCriticalFailure, got.Status)
	assert.Equal(t, "Torque (647 Nm) exceeded gear limit of 600 Nm.", got.Message)
	assert.Equal(t, "Reduce payload to 10.2 kg.", got.Recommendation)
}

func TestEvaluateVisualizationTopicsAlwaysOptimal(t *testing.T) {
	// Extreme values must not fail a topic that has no failure rules.
	vars := model.Variables{"wind_speed": 500, "payload": 9000}
	for _, topic := range []model.Topic{
		model.TopicMotherboard,
		model.TopicCircuit,
		model.TopicMechanical,
		model.TopicSolar,
		model.TopicEngine,
		model.TopicElectronics,
		model.TopicGeneric,
	} {
		got := Evaluate(topic, vars)
		assert.Equal(t, model.StatusOptimal, got.Status, "topic %s", topic)
		assert.Equal(t, "System operating within normal parameters.", got.Message)
	}
}

func TestStaticExplanation(t *testing.T) {
	assert.NotEmpty(t, staticExplanation(model.TopicWindTurbine, model.Variables{"wind_speed": 80}))
	assert.NotEmpty(t, staticExplanation(model.TopicRobotArm, model.Variables{"payload": 100}))
	assert.Empty(t, staticExplanation(model.TopicGeneric, model.Variables{}))
}
