package score

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/pkg/errors"
)

// Report is the aggregate record for one artifact: every evaluator's
// result (real or fallback) plus the derived net score and total
// latency. Exactly one report is produced per scored artifact, under
// any failure combination.
type Report struct {
	Name     string
	Category Category
	URL      string

	NetScore        float64
	NetScoreLatency int64

	order   []string
	results map[string]Result
}

func NewReport(a *Artifact) *Report {
	r := &Report{results: make(map[string]Result)}
	if a != nil {
		r.Name = a.Name
		r.Category = a.Category
		r.URL = a.URL
	}
	return r
}

// FallbackReport is the minimal record emitted when artifact
// preparation failed upstream and no evaluator could run.
func FallbackReport(a *Artifact) *Report {
	r := NewReport(a)
	r.NetScore = 0.0
	r.NetScoreLatency = 0
	return r
}

func (r *Report) set(name string, res Result) {
	if _, ok := r.results[name]; !ok {
		r.order = append(r.order, name)
	}
	r.results[name] = res
}

// Result returns the recorded result for an evaluator name.
func (r *Report) Result(name string) (Result, bool) {
	res, ok := r.results[name]
	return res, ok
}

// Names returns recorded evaluator names in report order.
func (r *Report) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Scalar returns the clamped scalar contribution of a named evaluator,
// or 0.0 when the evaluator is absent or its result is non-numeric.
func (r *Report) Scalar(name string) float64 {
	res, ok := r.results[name]
	if !ok {
		return 0.0
	}
	v, ok := scalarOf(res.Score)
	if !ok {
		return 0.0
	}
	return v
}

// finalize computes the derived net score fields: the arithmetic mean
// of all scalar-extractable contributions (4-decimal rounding) and the
// sum of every evaluator's latency.
func (r *Report) finalize() {
	var sum float64
	var n int
	var latency int64

	for _, name := range r.order {
		res := r.results[name]
		if res.Latency > 0 {
			latency += res.Latency
		}
		if v, ok := scalarOf(res.Score); ok {
			sum += v
			n++
		}
	}

	if n == 0 {
		r.NetScore = 0.0
	} else {
		r.NetScore = round4(sum / float64(n))
	}
	r.NetScoreLatency = latency
}

// scalarOf extracts the net-score contribution of a result value:
// numeric values contribute directly, maps contribute the mean of their
// numeric leaves, anything else contributes nothing. Extracted scalars
// are clamped to [0,1].
func scalarOf(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return clamp(t), true
	case float32:
		return clamp(float64(t)), true
	case int:
		return clamp(float64(t)), true
	case int64:
		return clamp(float64(t)), true
	case map[string]float64:
		if len(t) == 0 {
			return 0, false
		}
		var sum float64
		for _, lv := range t {
			sum += clamp(lv)
		}
		return clamp(sum / float64(len(t))), true
	case map[string]any:
		var sum float64
		var n int
		for _, lv := range t {
			if f, ok := scalarOf(lv); ok {
				sum += f
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		return clamp(sum / float64(n)), true
	default:
		return 0, false
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0.0
	}
	if v > 1 {
		return 1.0
	}
	return v
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// MarshalJSON emits the flat report schema: name and category first,
// then each evaluator's score and latency in report order, then the
// derived net fields. Map-valued scores keep their sub-key breakdown;
// scalar scores are clamped.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key string, val any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	fields := []struct {
		key string
		val any
	}{
		{"name", r.Name},
		{"category", r.Category},
		{"url", r.URL},
	}
	for _, f := range fields {
		if err := writeField(f.key, f.val); err != nil {
			return nil, errors.Wrapf(err, "error encoding report field: %s", f.key)
		}
	}

	for _, name := range r.order {
		res := r.results[name]
		val := res.Score
		if f, ok := val.(float64); ok {
			val = clamp(f)
		}
		if err := writeField(name, val); err != nil {
			return nil, errors.Wrapf(err, "error encoding result: %s", name)
		}
		if err := writeField(name+"_latency", res.Latency); err != nil {
			return nil, errors.Wrapf(err, "error encoding latency: %s", name)
		}
	}

	if err := writeField("net_score", r.NetScore); err != nil {
		return nil, errors.Wrap(err, "error encoding net score")
	}
	if err := writeField("net_score_latency", r.NetScoreLatency); err != nil {
		return nil, errors.Wrap(err, "error encoding net score latency")
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
