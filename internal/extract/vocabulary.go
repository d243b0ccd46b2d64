package extract

// Category is a topical tag and the phrases that trigger it
type Category struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

// Vocabulary is the fixed configuration the extractor matches against.
// Keyword categories are checked in slice order.
type Vocabulary struct {
	Companies []string   `yaml:"companies"`
	Keywords  []Category `yaml:"keywords"`
}

const (
	TagScope1       = "scope_1"
	TagScope2       = "scope_2"
	TagScope3       = "scope_3"
	TagEnvironment  = "environment"
	TagSocial       = "social"
	TagGovernance   = "governance"
	TagFinancial    = "financial"
	TagEnergySector = "energy_sector"
)

// scopeTags lists the emission scopes in tie-break order
var scopeTags = []string{TagScope1, TagScope2, TagScope3}

// DefaultVocabulary returns the built-in company list and keyword table
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Companies: []string{
			"Dangote Cement",
			"Dangote Sugar Refinery",
			"Shell",
			"Seplat Energy",
			"Nigerian Breweries",
			"MTN Nigeria",
			"Lafarge Africa",
			"BUA Cement",
			"Oando",
			"TotalEnergies",
			"Nestle Nigeria",
			"Access Holdings",
			"Zenith Bank",
			"Guaranty Trust Holding",
			"Flour Mills of Nigeria",
			"Aradel Holdings",
		},
		Keywords: []Category{
			{Name: TagScope1, Terms: []string{
				"scope 1", "scope1", "direct emissions", "direct ghg",
				"stationary combustion", "mobile combustion", "fugitive emissions", "process emissions",
			}},
			{Name: TagScope2, Terms: []string{
				"scope 2", "scope2", "indirect emissions", "purchased electricity",
				"purchased energy", "purchased heat", "location-based", "market-based",
			}},
			{Name: TagScope3, Terms: []string{
				"scope 3", "scope3", "value chain", "supply chain emissions", "upstream",
				"downstream", "business travel", "employee commuting", "purchased goods",
			}},
			{Name: TagEnvironment, Terms: []string{
				"environment", "climate", "carbon", "biodiversity", "waste", "water",
				"pollution", "sustainab", "renewable", "greenhouse",
			}},
			{Name: TagSocial, Terms: []string{
				"employee", "community", "health and safety", "diversity", "human rights",
				"training", "social", "labour", "labor", "csr",
			}},
			{Name: TagGovernance, Terms: []string{
				"governance", "board", "audit", "compliance", "ethics", "risk management",
				"anti-corruption", "shareholder", "remuneration",
			}},
			{Name: TagFinancial, Terms: []string{
				"revenue", "profit", "ebitda", "turnover", "dividend", "earnings",
				"financial", "capital expenditure", "naira",
			}},
			{Name: TagEnergySector, Terms: []string{
				"energy", "electricity", "oil", "gas", "power", "fuel", "diesel", "lpg", "solar",
			}},
		},
	}
}
