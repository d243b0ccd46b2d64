package extract

import (
	"testing"

	"esg-rag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanies(t *testing.T) {
	e := New(DefaultVocabulary())

	t.Run("Matches case-insensitively in vocabulary order", func(t *testing.T) {
		got := e.Companies("How does shell compare with DANGOTE CEMENT on scope 1?")
		assert.Equal(t, []string{"Dangote Cement", "Shell"}, got)
	})

	t.Run("Returns nothing when no known company is mentioned", func(t *testing.T) {
		for _, q := range []string{
			"What were scope 1 emissions in 2022?",
			"Compare water usage across cement producers",
			"",
		} {
			assert.Empty(t, e.Companies(q), q)
		}
	})

	t.Run("Duplicate vocabulary entries are reported twice", func(t *testing.T) {
		dup := New(Vocabulary{Companies: []string{"Shell", "Shell"}})
		assert.Equal(t, []string{"Shell", "Shell"}, dup.Companies("shell emissions"))
	})
}

func TestYears(t *testing.T) {
	e := New(DefaultVocabulary())

	tests := []struct {
		name     string
		question string
		want     []string
	}{
		{"two years in order", "Compare 2023 with 2021", []string{"2023", "2021"}},
		{"repeated years kept", "2022 vs 2022", []string{"2022", "2022"}},
		{"nineteenth century years", "emissions in 1999", []string{"1999"}},
		{"out of range ignored", "in 2150 and 1850", nil},
		{"embedded digits ignored", "code 120224", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Years(tt.question))
		})
	}
}

func TestEmissionScope(t *testing.T) {
	e := New(DefaultVocabulary())

	assert.Equal(t, TagScope1, e.EmissionScope("Scope 1 and Scope 3 emissions in 2022"))
	assert.Equal(t, TagScope1, e.EmissionScope("scope 3 emissions versus scope 1 emissions"))
	assert.Equal(t, TagScope2, e.EmissionScope("purchased electricity footprint"))
	assert.Equal(t, TagScope3, e.EmissionScope("Business travel emissions"))
	assert.Equal(t, models.ScopeUnknown, e.EmissionScope("total revenue in 2022"))
}

func TestTags(t *testing.T) {
	e := New(DefaultVocabulary())

	t.Run("Scope 2 phrase without environment terms", func(t *testing.T) {
		tags := e.Tags("Scope 2 purchased electricity")
		assert.Contains(t, tags, TagScope2)
		assert.NotContains(t, tags, TagEnvironment)
	})

	t.Run("Environment added when an environment term appears", func(t *testing.T) {
		tags := e.Tags("Scope 2 purchased electricity and climate targets")
		assert.Contains(t, tags, TagScope2)
		assert.Contains(t, tags, TagEnvironment)
	})

	t.Run("Multiple tags in category order", func(t *testing.T) {
		tags := e.Tags("The Board approved the dividend and the water policy")
		assert.Equal(t, []string{TagEnvironment, TagGovernance, TagFinancial}, tags)
	})

	t.Run("No tags", func(t *testing.T) {
		assert.Empty(t, e.Tags("Lorem ipsum"))
	})
}

func TestKeywordTerms(t *testing.T) {
	e := New(DefaultVocabulary())

	got := e.KeywordTerms("Scope 1 direct emissions, carbon, water, waste and energy", 5)
	assert.Equal(t, []string{"scope 1", "direct emissions", "carbon", "waste", "water"}, got)

	assert.Len(t, e.KeywordTerms("Scope 1 direct emissions, carbon, water, waste and energy", 2), 2)
	assert.Empty(t, e.KeywordTerms("hello", 5))
}

func TestContextIsDeterministic(t *testing.T) {
	e := New(DefaultVocabulary())
	q := "Compare Shell and Seplat Energy scope 1 emissions in 2021 and 2022"

	first := e.Context(q, 5)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, e.Context(q, 5))
	}
	assert.Equal(t, []string{"Shell", "Seplat Energy"}, first.Companies)
	assert.Equal(t, []string{"2021", "2022"}, first.Years)
	assert.Equal(t, TagScope1, first.EmissionScope)
}

func TestScopePhrase(t *testing.T) {
	assert.Equal(t, "scope 2", ScopePhrase(TagScope2))
	assert.Equal(t, "", ScopePhrase(models.ScopeUnknown))
}

func TestMetadataExtraction(t *testing.T) {
	e := New(DefaultVocabulary())

	t.Run("Dates", func(t *testing.T) {
		text := "Signed on 31 December 2022 and published 2023-03-15. Next review: March 2024."
		assert.Equal(t, []string{"2023-03-15", "31 December 2022", "March 2024"}, e.Dates(text))
	})

	t.Run("Organizations", func(t *testing.T) {
		text := "Dangote Cement Plc and Zenith Bank signed with Acme Ltd. Dangote Cement Plc again."
		orgs := e.Organizations(text)
		assert.Contains(t, orgs, "Dangote Cement Plc")
		assert.Contains(t, orgs, "Zenith Bank")
		assert.Contains(t, orgs, "Acme Ltd")
	})

	t.Run("Company from exact filename", func(t *testing.T) {
		company, ok := e.CompanyFromFilename("/reports/dangote_cement_sustainability_2022.pdf")
		require.True(t, ok)
		assert.Equal(t, "Dangote Cement", company)
	})

	t.Run("Company from misspelled filename", func(t *testing.T) {
		company, ok := e.CompanyFromFilename("Nigerian-Brewries-ESG-2021.pdf")
		require.True(t, ok)
		assert.Equal(t, "Nigerian Breweries", company)
	})

	t.Run("Unknown company", func(t *testing.T) {
		_, ok := e.CompanyFromFilename("annual_report.pdf")
		assert.False(t, ok)
		assert.Equal(t, "Unknown", e.Company("annual_report.pdf", "nothing here"))
		assert.Equal(t, "Shell", e.Company("annual_report.pdf", "Shell Nigeria report"))
	})

	t.Run("Report year", func(t *testing.T) {
		assert.Equal(t, "2021", e.ReportYear("seplat_2021.pdf", "covers 2020"))
		assert.Equal(t, "2020", e.ReportYear("seplat.pdf", "covers 2020 and 2019"))
		assert.Equal(t, "", e.ReportYear("seplat.pdf", "no year"))
	})
}
