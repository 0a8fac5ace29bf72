package model

// Analysis is the deduplication artifact: clusters and their canonical
// blocks, ready to be handed to the classifier.
type Analysis struct {
	Metric       string               `json:"metric"`
	Threshold    float64              `json:"threshold"`
	Observations int                  `json:"observations"`
	Clusters     []Cluster            `json:"clusters"`
	Blocks       []CanonicalTextBlock `json:"blocks"`
}
