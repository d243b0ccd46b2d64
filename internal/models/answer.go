package models

// QuestionContext holds the entities extracted from one question
type QuestionContext struct {
	Question      string   `json:"question"`
	Companies     []string `json:"companies"`
	Years         []string `json:"years"`
	EmissionScope string   `json:"emission_scope"`
	Keywords      []string `json:"keywords"`
}

// QAResult is the output of the extractive QA collaborator
type QAResult struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

// AnswerRecord is one retrieved and scored answer
type AnswerRecord struct {
	Answer        string        `json:"answer"`
	Score         float64       `json:"score"`
	Context       string        `json:"context"`
	AnswerLocated bool          `json:"answer_located"`
	Error         string        `json:"error,omitempty"`
	Metadata      ChunkMetadata `json:"metadata"`
}

// ComparisonRecord is one (company, year) data point
type ComparisonRecord struct {
	Company       string   `json:"company"`
	Year          string   `json:"year"`
	EmissionScope string   `json:"emission_scope"`
	Value         string   `json:"value"`
	Context       string   `json:"context,omitempty"`
	Page          int      `json:"page,omitempty"`
	Source        string   `json:"source,omitempty"`
	Dates         []string `json:"dates,omitempty"`
	Tags          []string `json:"relevant_tags,omitempty"`
}

// IsResolved reports whether the value holds a number rather than a sentinel
func (r ComparisonRecord) IsResolved() bool {
	switch r.Value {
	case ValueNotFound, ValueNoData, ValueYearSpecificNotFound, "":
		return false
	}
	return true
}

// ComparisonMetrics aggregates fully resolved comparison records.
// The zero value means the metrics are undefined.
type ComparisonMetrics struct {
	Highest              string  `json:"highest,omitempty"`
	Lowest               string  `json:"lowest,omitempty"`
	HighestValue         float64 `json:"highest_value,omitempty"`
	LowestValue          float64 `json:"lowest_value,omitempty"`
	DifferencePercentage float64 `json:"difference_percentage,omitempty"`
}

func (m ComparisonMetrics) IsZero() bool {
	return m == ComparisonMetrics{}
}

// ComparisonResult is returned for comparison questions
type ComparisonResult struct {
	Question    string             `json:"question"`
	Comparisons []ComparisonRecord `json:"comparisons"`
	Metrics     ComparisonMetrics  `json:"comparison_metrics"`
	Entities    QuestionContext    `json:"identified_entities"`
}

const (
	QueryTypeSingle     = "single"
	QueryTypeComparison = "comparison"
)

// QueryResult is the structured answer to any question
type QueryResult struct {
	Question   string            `json:"question"`
	Type       string            `json:"type"`
	Answers    []AnswerRecord    `json:"answers,omitempty"`
	Comparison *ComparisonResult `json:"comparison,omitempty"`
	Entities   QuestionContext   `json:"identified_entities"`
}
