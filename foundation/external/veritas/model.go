package veritas

type Request struct {
	Language    string `json:"language"`
	AudioFormat string `json:"audioFormat"`
	AudioBase64 string `json:"audioBase64"`
}

type Result struct {
	Status          string  `json:"status"`
	Language        string  `json:"language,omitempty"`
	Classification  string  `json:"classification,omitempty"`
	ConfidenceScore float64 `json:"confidenceScore,omitempty"`
	Explanation     string  `json:"explanation,omitempty"`
	Message         string  `json:"message,omitempty"`
}
