package model

// Category classifies a record for budgeting and display.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryTravel        Category = "travel"
	CategoryOther         Category = "other"
)

// Categories lists every valid category. The order matters: keyword
// matching during extraction tries categories in this order and the
// first hit wins.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryEntertainment,
	CategoryHealth,
	CategoryEducation,
	CategoryTravel,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// SplitMethod describes how a shared record's amount is divided.
type SplitMethod string

const (
	SplitPersonal    SplitMethod = "personal"
	SplitEqual       SplitMethod = "equal-split"
	SplitSinglePayer SplitMethod = "single-payer"
	SplitCustom      SplitMethod = "custom"
)

// Valid reports whether m is a known split method.
func (m SplitMethod) Valid() bool {
	switch m {
	case SplitPersonal, SplitEqual, SplitSinglePayer, SplitCustom:
		return true
	}
	return false
}

// SyncStatus tracks whether a shared record has been through a merge pass.
type SyncStatus string

const (
	StatusSynced        SyncStatus = "synced"
	StatusPendingUpload SyncStatus = "pending-upload"
)

// Valid reports whether s is a known sync status.
func (s SyncStatus) Valid() bool {
	return s == StatusSynced || s == StatusPendingUpload
}
