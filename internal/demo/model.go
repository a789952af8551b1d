// Package demo runs a local stub of the churn prediction service, covering
// the full HTTP surface the dashboard consumes. Useful for trying the
// dashboard offline and for end-to-end tests.
package demo

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/churnlabs/churnboard/internal/api"
)

// model is the deterministic scoring stub behind the demo service. It has
// the same trained/untrained lifecycle as the real service but computes
// probabilities from a fixed formula instead of a fitted classifier.
type model struct {
	mu      sync.RWMutex
	trained bool
	target  string
}

// demoFields mirrors the bank-churn dataset the real service trains on.
// Low-cardinality integer columns are reported as categorical, matching the
// service's column type detection.
func demoFields() []api.SchemaField {
	return []api.SchemaField{
		{Name: "CreditScore", Type: api.TypeNumeric},
		{Name: "Geography", Type: api.TypeCategorical, Values: []string{"France", "Germany", "Spain"}},
		{Name: "Gender", Type: api.TypeCategorical, Values: []string{"Female", "Male"}},
		{Name: "Age", Type: api.TypeNumeric},
		{Name: "Tenure", Type: api.TypeNumeric},
		{Name: "Balance", Type: api.TypeNumeric},
		{Name: "NumOfProducts", Type: api.TypeCategorical, Values: []string{"1", "2", "3", "4"}},
		{Name: "HasCrCard", Type: api.TypeCategorical, Values: []string{"0", "1"}},
		{Name: "IsActiveMember", Type: api.TypeCategorical, Values: []string{"0", "1"}},
		{Name: "EstimatedSalary", Type: api.TypeNumeric},
	}
}

// demoMetrics are the canned evaluation results returned by training.
func demoMetrics() api.Metrics {
	return api.Metrics{
		Accuracy:  0.8585,
		Precision: 0.7311,
		Recall:    0.4263,
		F1Score:   0.5386,
		ROCAUC:    0.8453,
		ConfusionMatrix: &api.ConfusionMatrix{
			TrueNegatives:  1543,
			FalsePositives: 64,
			FalseNegatives: 219,
			TruePositives:  174,
		},
	}
}

func (m *model) isTrained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

func (m *model) train(target string) *api.TrainResult {
	if target == "" {
		target = "Exited"
	}
	m.mu.Lock()
	m.trained = true
	m.target = target
	m.mu.Unlock()

	return &api.TrainResult{
		Message: "Model trained successfully",
		Metrics: demoMetrics(),
		Target:  target,
	}
}

func (m *model) schema() *api.Schema {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &api.Schema{Target: m.target, Fields: demoFields()}
}

// missingColumns returns required field names absent from the record,
// sorted for stable error messages.
func missingColumns(record map[string]any) []string {
	var missing []string
	for _, f := range demoFields() {
		if _, ok := record[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	sort.Strings(missing)
	return missing
}

// score computes a churn probability from a fixed logistic formula. The
// weights loosely follow the directions a fitted model learns on this
// dataset: older, inactive German customers with one product churn more.
func (m *model) score(record map[string]any) api.Prediction {
	z := -2.2
	z += 0.055 * (numeric(record["Age"]) - 38)
	z += 0.00001 * numeric(record["Balance"])
	z -= 0.001 * (numeric(record["CreditScore"]) - 650)

	if text(record["Geography"]) == "Germany" {
		z += 0.75
	}
	if text(record["Gender"]) == "Female" {
		z += 0.5
	}
	if text(record["IsActiveMember"]) == "0" {
		z += 0.9
	}
	if text(record["NumOfProducts"]) == "1" {
		z += 0.4
	}

	probability := 1 / (1 + math.Exp(-z))
	var prediction float64
	if probability >= 0.5 {
		prediction = 1
	}
	return api.Prediction{Prediction: prediction, Probability: probability}
}

// numeric coerces a JSON value or CSV cell into a float64, defaulting to 0.
func numeric(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// text coerces a JSON value or CSV cell into a string.
func text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
