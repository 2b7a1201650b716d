package schema

// FieldKind tells the intake layer what input widget and coercion a
// mandatory field needs. The kind is fixed at spec-definition time instead
// of being re-derived from path substrings at runtime.
type FieldKind int

const (
	KindFreeText FieldKind = iota
	KindDate
	KindEnum
)

// MandatoryField is one entry of the completeness contract: a schema path
// that must hold a non-empty value before a record counts as filed.
type MandatoryField struct {
	Path  Path
	Label string
	Kind  FieldKind
}

// mandatoryFields is the fixed completeness set, in display order.
var mandatoryFields = []MandatoryField{
	{Path: ParsePath("complainant.name"), Label: "Complainant Name", Kind: KindFreeText},
	{Path: ParsePath("complainant.address"), Label: "Complainant Address", Kind: KindFreeText},
	{Path: ParsePath("complainant.phone"), Label: "Phone Number", Kind: KindFreeText},
	{Path: ParsePath("incident.location.address"), Label: "Incident Location", Kind: KindFreeText},
	{Path: ParsePath("incident.datetime.occurred_on"), Label: "Incident Date", Kind: KindDate},
	{Path: ParsePath("offense_details.type"), Label: "Offense Type", Kind: KindEnum},
	{Path: ParsePath("offense_details.description"), Label: "Offense Description", Kind: KindFreeText},
}

// MandatoryFields returns the mandatory field set in declared order. The
// returned slice is a copy; callers may reorder or filter it freely.
func MandatoryFields() []MandatoryField {
	out := make([]MandatoryField, len(mandatoryFields))
	copy(out, mandatoryFields)
	return out
}

// OffenseTypes is the closed enumeration for offense_details.type.
var OffenseTypes = []string{
	"theft",
	"robbery",
	"assault",
	"fraud",
	"cheating",
	"intimidation",
	"extortion",
	"harassment",
	"other",
}

// IsOffenseType reports whether s is a member of the offense enumeration.
func IsOffenseType(s string) bool {
	for _, t := range OffenseTypes {
		if s == t {
			return true
		}
	}
	return false
}
