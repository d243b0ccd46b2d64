package models

const (
	MetaSource        = "source"
	MetaPage          = "page"
	MetaChunkIndex    = "chunk_index"
	MetaWordCount     = "word_count"
	MetaDates         = "dates"
	MetaOrganizations = "organizations"
	MetaTags          = "tags"
	MetaCompanyName   = "company_name"
	MetaReportYear    = "report_year"
	MetaProcessedAt   = "processed_at"
	MetaHasTags       = "has_tags"

	ListSeparator = "|"

	KindText  = "text"
	KindTable = "table"

	ScopeUnknown = "unknown"

	// Sentinel values of ComparisonRecord.Value
	ValueNotFound             = "Not found"
	ValueNoData               = "No data found"
	ValueYearSpecificNotFound = "Year-specific data not found"

	ContextSeparator = "\n---\n"
	ThinkTag         = `(?s)<think>.*?</think>`
)

var (
	QAPromptTemplate = `You are an extractive question answering system.
Answer the question using a span copied verbatim from the passage. Do not paraphrase.
If the passage does not contain the answer, return an empty answer with score 0.
Respond only with JSON of the form {"answer": "<span>", "score": <confidence between 0 and 1>}.

<passage>
%s
</passage>

Question: %s
`
)
