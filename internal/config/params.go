// internal/config/params.go
package config

import (
	"github.com/ShaiKKO/EnviroSense-sub003/internal/vecmath"
)

// Params is the raw override mapping for one sensor instance. Values arrive
// from YAML or viper and may be any of the loosely-typed forms those produce
// (int, float64, bool, string, nested maps, sequences). Unknown keys are
// ignored; known keys fall back to documented per-modality defaults.
type Params map[string]any

// Resolver reads typed values out of a Params map, applying defaults and
// validating domains. The first violation is recorded and reported by Err;
// subsequent reads still return their defaults so resolution code stays
// linear. Resolution happens once, at sensor construction.
type Resolver struct {
	params Params
	err    *ConfigError
}

// NewResolver wraps p. A nil map resolves every key to its default.
func NewResolver(p Params) *Resolver {
	return &Resolver{params: p}
}

// Has reports whether an override was supplied for key.
func (r *Resolver) Has(key string) bool {
	_, ok := r.params[key]
	return ok
}

// Err returns the first validation failure, or nil.
func (r *Resolver) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

func (r *Resolver) fail(param, format string, args ...any) {
	if r.err == nil {
		r.err = errf(param, format, args...)
	}
}

// Failf records a validation failure from a caller-side check, keeping the
// first-error semantics of the resolver.
func (r *Resolver) Failf(param, format string, args ...any) {
	r.fail(param, format, args...)
}

// toFloat coerces the numeric forms YAML and viper produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Float reads a numeric parameter, falling back to def.
func (r *Resolver) Float(key string, def float64) float64 {
	v, ok := r.params[key]
	if !ok {
		return def
	}
	f, ok := toFloat(v)
	if !ok {
		r.fail(key, "expected a number, got %T", v)
		return def
	}
	return f
}

// NonNegativeFloat reads a numeric parameter whose domain is [0,+inf).
func (r *Resolver) NonNegativeFloat(key string, def float64) float64 {
	f := r.Float(key, def)
	if f < 0 {
		r.fail(key, "must be >= 0, got %v", f)
		return def
	}
	return f
}

// PositiveFloat reads a numeric parameter whose domain is (0,+inf).
func (r *Resolver) PositiveFloat(key string, def float64) float64 {
	f := r.Float(key, def)
	if f <= 0 {
		r.fail(key, "must be > 0, got %v", f)
		return def
	}
	return f
}

// UnitFloat reads a numeric parameter whose domain is [0,1].
func (r *Resolver) UnitFloat(key string, def float64) float64 {
	f := r.Float(key, def)
	if f < 0 || f > 1 {
		r.fail(key, "must be in [0,1], got %v", f)
		return def
	}
	return f
}

// Bool reads a boolean parameter.
func (r *Resolver) Bool(key string, def bool) bool {
	v, ok := r.params[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(key, "expected a boolean, got %T", v)
		return def
	}
	return b
}

// String reads a string parameter.
func (r *Resolver) String(key string, def string) string {
	v, ok := r.params[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		r.fail(key, "expected a string, got %T", v)
		return def
	}
	return s
}

// FloatMap reads a mapping of names to numbers (e.g. a frequency-response
// curve). Every entry must be numeric. The default map is returned as-is, so
// callers must not mutate it.
func (r *Resolver) FloatMap(key string, def map[string]float64) map[string]float64 {
	v, ok := r.params[key]
	if !ok {
		return def
	}
	out := make(map[string]float64)
	switch m := v.(type) {
	case map[string]float64:
		for k, f := range m {
			out[k] = f
		}
	case map[string]any:
		for k, raw := range m {
			f, ok := toFloat(raw)
			if !ok {
				r.fail(key, "entry %q: expected a number, got %T", k, raw)
				return def
			}
			out[k] = f
		}
	default:
		r.fail(key, "expected a mapping of names to numbers, got %T", v)
		return def
	}
	return out
}

// Floats reads an ordered sequence of numbers.
func (r *Resolver) Floats(key string, def []float64) []float64 {
	v, ok := r.params[key]
	if !ok {
		return def
	}
	var raws []any
	switch s := v.(type) {
	case []float64:
		return append([]float64(nil), s...)
	case []any:
		raws = s
	default:
		r.fail(key, "expected a sequence of numbers, got %T", v)
		return def
	}
	out := make([]float64, 0, len(raws))
	for i, raw := range raws {
		f, ok := toFloat(raw)
		if !ok {
			r.fail(key, "element %d: expected a number, got %T", i, raw)
			return def
		}
		out = append(out, f)
	}
	return out
}

// Range reads a required two-element [min,max] sequence with min < max.
// There is no default: absence is a ConfigError.
func (r *Resolver) Range(key string) (min, max float64) {
	if _, ok := r.params[key]; !ok {
		r.fail(key, "required parameter is missing")
		return 0, 0
	}
	vals := r.Floats(key, nil)
	if r.err != nil {
		return 0, 0
	}
	if len(vals) != 2 {
		r.fail(key, "expected [min, max], got %d elements", len(vals))
		return 0, 0
	}
	if vals[0] >= vals[1] {
		r.fail(key, "min %v must be below max %v", vals[0], vals[1])
		return 0, 0
	}
	return vals[0], vals[1]
}

// Vec3 reads a three-element vector parameter.
func (r *Resolver) Vec3(key string, def vecmath.Vec3) vecmath.Vec3 {
	if _, ok := r.params[key]; !ok {
		return def
	}
	vals := r.Floats(key, nil)
	if r.err != nil {
		return def
	}
	if len(vals) != 3 {
		r.fail(key, "expected [x, y, z], got %d elements", len(vals))
		return def
	}
	return vecmath.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}
}
