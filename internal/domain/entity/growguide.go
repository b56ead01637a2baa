package entity

// Grow-guide reference data. Seeded once, read-only at runtime.

// BotanicalGroup groups plant families that share rotation requirements.
type BotanicalGroup struct {
	ID                       string
	Name                     string
	RecommendedRotationYears *int // nil when rotation does not apply
	Families                 []Family
}

// Family is a botanical family with its common pests and diseases.
type Family struct {
	ID               string
	BotanicalGroupID string
	Name             string
	Pests            []string
	Diseases         []string
}

// Variety is a growable plant variety with its care calendar inputs.
type Variety struct {
	ID                 string
	FamilyID           string
	FamilyName         string
	Name               string
	Lifecycle          string // annual, biennial, perennial
	WaterFrequencyDays int
	FeedFrequencyDays  int // 0 means the variety is never fed
	FeedName           string
	SowWeekStart       int
	SowWeekEnd         int
	HarvestWeekStart   int
	HarvestWeekEnd     int
}

// ActiveVariety records that a user currently grows a variety.
type ActiveVariety struct {
	ID          string
	UserID      string
	VarietyID   string
	VarietyName string
	Quantity    int

	// Denormalised from Variety for task derivation.
	WaterFrequencyDays int
	FeedFrequencyDays  int
	FeedName           string
}
