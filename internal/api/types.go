// Package api provides the HTTP client for the churn prediction service.
package api

// Field type values as reported by the service. Anything that is not
// categorical is treated as numeric.
const (
	TypeNumeric     = "number"
	TypeCategorical = "categorical"
)

// SchemaField describes one expected input field.
type SchemaField struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Values []string `json:"values,omitempty"`
}

// IsCategorical reports whether the field expects one of a fixed set of
// string values.
func (f SchemaField) IsCategorical() bool {
	return f.Type == TypeCategorical
}

// Schema is the server-declared description of expected input fields.
type Schema struct {
	Target string        `json:"target"`
	Fields []SchemaField `json:"fields"`
}

// Prediction is the result of a single-record prediction.
type Prediction struct {
	Prediction  float64 `json:"prediction"`
	Probability float64 `json:"probability"`
}

// ConfusionMatrix holds the four counts from a binary classifier's
// evaluation, row-major [[TN, FP], [FN, TP]].
type ConfusionMatrix struct {
	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
	TruePositives  int `json:"true_positives"`
}

// Metrics holds classification metrics returned by training. The confusion
// matrix is optional; visualization is skipped when it is absent.
type Metrics struct {
	Accuracy        float64          `json:"accuracy"`
	Precision       float64          `json:"precision"`
	Recall          float64          `json:"recall"`
	F1Score         float64          `json:"f1_score"`
	ROCAUC          float64          `json:"roc_auc"`
	ConfusionMatrix *ConfusionMatrix `json:"confusion_matrix,omitempty"`
}

// TrainResult is the response from the training endpoint.
type TrainResult struct {
	Message string  `json:"message"`
	Metrics Metrics `json:"metrics"`
	Target  string  `json:"target_column"`
}

// HealthStatus reports service liveness and whether a model is loaded.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}
