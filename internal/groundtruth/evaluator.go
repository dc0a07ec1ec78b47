// internal/groundtruth/evaluator.go
// Package groundtruth derives anomaly labels from the environment state and
// the post-pipeline observed value. Labels are computed independently of
// which imperfections were applied to the reading, so a sample's annotation
// is always consistent with the same environment that produced it.
package groundtruth

import (
	"go.uber.org/zap"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/environment"
)

// ConditionRule labels a sample when a named environment field is present
// and non-zero at the sensor position. Severity scales with the raw field
// value; confidence is fixed.
type ConditionRule struct {
	Type          string // label type, e.g. "corona_discharge"
	Field         string // environment field to query
	SeverityScale float64
	Confidence    float64
}

// ThresholdRule labels a sample when the observed (post-pipeline) value
// exceeds a threshold. Severity is the configured constant, not proportional
// to the excess.
type ThresholdRule struct {
	Type          string // label type, e.g. "overload"
	Threshold     float64
	SeverityScale float64
	Confidence    float64
}

// Evaluator holds the rule set for one sensor. It is stateless between
// calls: state-based conditions are re-queried from the environment on every
// evaluation and threshold conditions only read the observed value passed
// in, so evaluation is idempotent for unchanged inputs.
type Evaluator struct {
	conditions []ConditionRule
	thresholds []ThresholdRule
	log        *zap.Logger
}

// NewEvaluator builds an evaluator. A nil logger falls back to zap.NewNop.
func NewEvaluator(conditions []ConditionRule, thresholds []ThresholdRule, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{conditions: conditions, thresholds: thresholds, log: log}
}

// Evaluate derives the label set for one sample. An environment miss for a
// condition field means the condition is absent; label generation never
// aborts a sample. Multiple simultaneous conditions yield multiple
// independent labels.
func (e *Evaluator) Evaluate(env environment.Query, pos data.Position3D, observed float64) []data.AnomalyLabel {
	var labels []data.AnomalyLabel

	for _, rule := range e.conditions {
		raw, ok := env.GetFieldValue(rule.Field, pos)
		if !ok {
			e.log.Debug("condition field unresolved, treating as absent",
				zap.String("field", rule.Field))
			continue
		}
		if raw == 0 {
			continue
		}
		labels = append(labels, data.AnomalyLabel{
			Type:       rule.Type,
			Severity:   data.ClampNonNegative(raw * rule.SeverityScale),
			Confidence: data.ClampUnit(rule.Confidence),
		})
	}

	for _, rule := range e.thresholds {
		if observed <= rule.Threshold {
			continue
		}
		labels = append(labels, data.AnomalyLabel{
			Type:       rule.Type,
			Severity:   data.ClampNonNegative(rule.SeverityScale),
			Confidence: data.ClampUnit(rule.Confidence),
		})
	}

	return labels
}
