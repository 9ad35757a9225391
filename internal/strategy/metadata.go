package strategy

// Category groups strategies by their primary trading logic.
type Category string

const (
	CategoryTrendFollowing Category = "trend_following"
	CategoryMeanReversion  Category = "mean_reversion"
	CategoryMomentum       Category = "momentum"
	CategoryVolatility     Category = "volatility"
	CategoryVolume         Category = "volume"
	CategoryOther          Category = "other"
)

// AllCategories lists every known category.
var AllCategories = []Category{
	CategoryTrendFollowing,
	CategoryMeanReversion,
	CategoryMomentum,
	CategoryVolatility,
	CategoryVolume,
	CategoryOther,
}

// IsValid returns true if the category is one of the known values.
func (c Category) IsValid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}

	return false
}

// Metadata describes a catalog entry.
type Metadata struct {
	// Name is the unique catalog identifier.
	Name string `json:"name" yaml:"name"`
	// Description is a one-line summary of the trading logic.
	Description string `json:"description" yaml:"description"`
	// Category groups the strategy by trading style.
	Category Category `json:"category" yaml:"category"`
	// APIVersion is the engine version the strategy was written against.
	// Registration fails when the major or minor version differs from
	// the running engine.
	APIVersion string `json:"api_version" yaml:"api_version"`
	// ParamSchema is the JSON schema of the strategy's parameter
	// document. Populated during registration.
	ParamSchema string `json:"param_schema,omitempty" yaml:"param_schema,omitempty"`
}
