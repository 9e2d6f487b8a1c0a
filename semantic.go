package gridedit

import "strings"

// SemanticType is the business meaning of a column, which drives value
// conversion and editability.
type SemanticType int

const (
	TypeUnknown SemanticType = iota
	TypeText
	TypeWholeNumber
	TypeDecimal
	TypeFloat
	TypeCurrency
	TypeTwoOptions
	TypeOptionSet
	TypeDateTime
	TypeLookup
	TypeUniqueIdentifier
)

// String returns a human-readable name for the SemanticType.
func (t SemanticType) String() string {
	switch t {
	case TypeText:
		return "Text"
	case TypeWholeNumber:
		return "WholeNumber"
	case TypeDecimal:
		return "Decimal"
	case TypeFloat:
		return "Float"
	case TypeCurrency:
		return "Currency"
	case TypeTwoOptions:
		return "TwoOptions"
	case TypeOptionSet:
		return "OptionSet"
	case TypeDateTime:
		return "DateTime"
	case TypeLookup:
		return "Lookup"
	case TypeUniqueIdentifier:
		return "UniqueIdentifier"
	default:
		return "Unknown"
	}
}

// IsNumeric reports whether values of this type are numbers.
func (t SemanticType) IsNumeric() bool {
	switch t {
	case TypeWholeNumber, TypeDecimal, TypeFloat, TypeCurrency:
		return true
	}
	return false
}

// IsIntegral reports whether numeric values of this type are rounded to whole numbers.
func (t SemanticType) IsIntegral() bool {
	return t == TypeWholeNumber
}

var semanticHints = map[string]SemanticType{
	"string":           TypeText,
	"memo":             TypeText,
	"text":             TypeText,
	"ntext":            TypeText,
	"integer":          TypeWholeNumber,
	"int":              TypeWholeNumber,
	"bigint":           TypeWholeNumber,
	"wholenumber":      TypeWholeNumber,
	"decimal":          TypeDecimal,
	"double":           TypeFloat,
	"float":            TypeFloat,
	"money":            TypeCurrency,
	"currency":         TypeCurrency,
	"boolean":          TypeTwoOptions,
	"bool":             TypeTwoOptions,
	"twooptions":       TypeTwoOptions,
	"picklist":         TypeOptionSet,
	"optionset":        TypeOptionSet,
	"state":            TypeOptionSet,
	"status":           TypeOptionSet,
	"choice":           TypeOptionSet,
	"datetime":         TypeDateTime,
	"date":             TypeDateTime,
	"dateonly":         TypeDateTime,
	"lookup":           TypeLookup,
	"customer":         TypeLookup,
	"owner":            TypeLookup,
	"partylist":        TypeLookup,
	"uniqueidentifier": TypeUniqueIdentifier,
	"guid":             TypeUniqueIdentifier,
}

// Classify maps a column type hint (case-insensitive, spaces and
// underscores ignored) to a SemanticType. Unrecognized hints yield TypeUnknown.
func Classify(hint string) SemanticType {
	key := strings.ToLower(strings.TrimSpace(hint))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	key = strings.TrimSuffix(key, "type")
	return semanticHints[key]
}

// IsKnownHint reports whether Classify recognizes the hint.
func IsKnownHint(hint string) bool {
	return Classify(hint) != TypeUnknown
}
