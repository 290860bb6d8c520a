package quality

import "strings"

// Family is the coarse category family driving signal-checklist choice.
type Family string

const (
	FamilyFood  Family = "Food"
	FamilyToys  Family = "Toys"
	FamilyOther Family = "Other"
)

// Keyword tables are checked in order; first substring match wins.
var foodKeywords = []string{
	"candy", "snack", "food", "beverage", "drink", "grocery",
	"confection", "chocolate", "gum", "tea", "coffee",
}

var toyKeywords = []string{
	"toy", "novelty", "game", "plush", "figure", "accessory",
	"keychain", "collectible",
}

// ResolveFamily maps a free-text category to its family. Unrecognized
// categories fall into Other.
func ResolveFamily(category string) Family {
	lower := strings.ToLower(category)
	for _, kw := range foodKeywords {
		if strings.Contains(lower, kw) {
			return FamilyFood
		}
	}
	for _, kw := range toyKeywords {
		if strings.Contains(lower, kw) {
			return FamilyToys
		}
	}
	return FamilyOther
}
