package models

import (
	"strconv"
	"strings"
	"time"
)

// Chunk represents a parsed chunk with metadata
type Chunk struct {
	ID       string        `json:"id"`
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata is attached to every chunk when a document is split
type ChunkMetadata struct {
	Source        string    `json:"source"`
	Page          int       `json:"page"`
	ChunkIndex    int       `json:"chunk_index"`
	WordCount     int       `json:"word_count"`
	Dates         []string  `json:"dates"`
	Organizations []string  `json:"organizations"`
	Tags          []string  `json:"tags"`
	CompanyName   string    `json:"company_name"`
	ReportYear    string    `json:"report_year"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// PageText is one text record returned by document extraction
type PageText struct {
	Text   string `json:"text"`
	Page   int    `json:"page"`
	Source string `json:"source"`
	Kind   string `json:"kind"`
}

// SearchResult is a chunk returned by a similarity search
type SearchResult struct {
	ID         string            `json:"id"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata"`
	Similarity float32           `json:"similarity"`
}

// ToMap flattens the metadata into the string map stored by the vector indices.
// Every tag also gets its own key so that tag membership can be expressed
// as an equality filter.
func (m ChunkMetadata) ToMap() map[string]string {
	out := map[string]string{
		MetaSource:        m.Source,
		MetaPage:          strconv.Itoa(m.Page),
		MetaChunkIndex:    strconv.Itoa(m.ChunkIndex),
		MetaWordCount:     strconv.Itoa(m.WordCount),
		MetaDates:         strings.Join(m.Dates, ListSeparator),
		MetaOrganizations: strings.Join(m.Organizations, ListSeparator),
		MetaTags:          strings.Join(m.Tags, ListSeparator),
		MetaCompanyName:   m.CompanyName,
		MetaReportYear:    m.ReportYear,
	}
	if !m.ProcessedAt.IsZero() {
		out[MetaProcessedAt] = m.ProcessedAt.UTC().Format(time.RFC3339)
	}
	for _, tag := range m.Tags {
		out[TagKey(tag)] = "true"
	}
	if len(m.Tags) > 0 {
		out[MetaHasTags] = "true"
	}
	return out
}

// ChunkMetadataFromMap is the inverse of ToMap
func ChunkMetadataFromMap(in map[string]string) ChunkMetadata {
	m := ChunkMetadata{
		Source:        in[MetaSource],
		Dates:         splitList(in[MetaDates]),
		Organizations: splitList(in[MetaOrganizations]),
		Tags:          splitList(in[MetaTags]),
		CompanyName:   in[MetaCompanyName],
		ReportYear:    in[MetaReportYear],
	}
	m.Page, _ = strconv.Atoi(in[MetaPage])
	m.ChunkIndex, _ = strconv.Atoi(in[MetaChunkIndex])
	m.WordCount, _ = strconv.Atoi(in[MetaWordCount])
	if ts, err := time.Parse(time.RFC3339, in[MetaProcessedAt]); err == nil {
		m.ProcessedAt = ts
	}
	return m
}

// TagKey is the metadata key marking membership of a tag
func TagKey(tag string) string {
	return "tag_" + tag
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ListSeparator)
}
