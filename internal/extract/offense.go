package extract

import "strings"

// offenseRule maps surface keywords to one offense category. First keyword
// hit claims the category; scanning continues with the next rule.
type offenseRule struct {
	category string
	keywords []string
}

// offenseRules is the fixed keyword table for offense categorization.
// Categories line up with the offense_details.type enumeration; "cheating"
// and "other" have no keyword signal and are only ever set explicitly.
var offenseRules = []offenseRule{
	{category: "theft", keywords: []string{
		"steal", "stole", "stolen", "theft", "thief", "snatched", "snatch", "took away",
	}},
	{category: "robbery", keywords: []string{
		"rob", "robbed", "robbery", "loot", "looted", "held up", "gun point", "knife point",
	}},
	{category: "assault", keywords: []string{
		"beat", "beaten", "hit", "attack", "attacked", "assault", "hurt", "injured", "wound",
	}},
	{category: "fraud", keywords: []string{
		"fraud", "cheat", "cheated", "deceive", "scam", "fake", "forged", "forgery",
	}},
	{category: "extortion", keywords: []string{
		"extort", "extortion", "demand", "ransom", "threaten for money",
	}},
	{category: "harassment", keywords: []string{
		"harass", "harassment", "trouble", "disturb", "stalking", "eve teasing",
	}},
	{category: "intimidation", keywords: []string{
		"threaten", "threatened", "intimidate", "intimidation", "scare", "frightened",
	}},
}

// OffenseKeywords returns the distinct offense categories with at least
// one keyword hit in the lowercased text. Set semantics: no duplicates,
// order follows the rule table but is not a contract.
func OffenseKeywords(text string) []string {
	lower := strings.ToLower(text)

	var categories []string
	for _, rule := range offenseRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				categories = append(categories, rule.category)
				break
			}
		}
	}
	return categories
}
