// Package agerating maps catalog age-rating identifiers to rating boards and
// rating categories.
//
// Both tables are fixed at compile time. Every category belongs to exactly one
// organization, so a resolved category always implies its organization.
package agerating

// Organization is an age-rating board. The zero value means unknown.
type Organization int

const (
	OrgUnknown Organization = iota
	ESRB
	PEGI
	CERO
	USK
	GRAC
	ClassInd
	ACB
)

var organizationNames = [...]string{
	OrgUnknown: "",
	ESRB:       "ESRB",
	PEGI:       "PEGI",
	CERO:       "CERO",
	USK:        "USK",
	GRAC:       "GRAC",
	ClassInd:   "CLASS_IND",
	ACB:        "ACB",
}

func (o Organization) String() string {
	if o < 0 || int(o) >= len(organizationNames) {
		return ""
	}
	return organizationNames[o]
}

// Valid reports whether o is a known board.
func (o Organization) Valid() bool {
	return o > OrgUnknown && int(o) < len(organizationNames)
}

// Category is a rating within one board. The zero value means unknown.
// Values follow the catalog's numbering.
type Category int

const (
	CatUnknown Category = iota
	PEGI3
	PEGI7
	PEGI12
	PEGI16
	PEGI18
	ESRBRP
	ESRBEC
	ESRBE
	ESRBE10
	ESRBT
	ESRBM
	ESRBAO
	CEROA
	CEROB
	CEROC
	CEROD
	CEROZ
	USK0
	USK6
	USK12
	USK16
	USK18
	GRACAll
	GRAC12
	GRAC15
	GRAC18
	GRACTesting
	ClassIndL
	ClassInd10
	ClassInd12
	ClassInd14
	ClassInd16
	ClassInd18
	ACBG
	ACBPG
	ACBM
	ACBMA15
	ACBR18
	ACBRC
)

type categoryInfo struct {
	org   Organization
	label string
}

var categories = [...]categoryInfo{
	PEGI3:       {PEGI, "3"},
	PEGI7:       {PEGI, "7"},
	PEGI12:      {PEGI, "12"},
	PEGI16:      {PEGI, "16"},
	PEGI18:      {PEGI, "18"},
	ESRBRP:      {ESRB, "RP"},
	ESRBEC:      {ESRB, "EC"},
	ESRBE:       {ESRB, "E"},
	ESRBE10:     {ESRB, "E10+"},
	ESRBT:       {ESRB, "T"},
	ESRBM:       {ESRB, "M"},
	ESRBAO:      {ESRB, "AO"},
	CEROA:       {CERO, "A"},
	CEROB:       {CERO, "B"},
	CEROC:       {CERO, "C"},
	CEROD:       {CERO, "D"},
	CEROZ:       {CERO, "Z"},
	USK0:        {USK, "0"},
	USK6:        {USK, "6"},
	USK12:       {USK, "12"},
	USK16:       {USK, "16"},
	USK18:       {USK, "18"},
	GRACAll:     {GRAC, "ALL"},
	GRAC12:      {GRAC, "12"},
	GRAC15:      {GRAC, "15"},
	GRAC18:      {GRAC, "18"},
	GRACTesting: {GRAC, "TESTING"},
	ClassIndL:   {ClassInd, "L"},
	ClassInd10:  {ClassInd, "10"},
	ClassInd12:  {ClassInd, "12"},
	ClassInd14:  {ClassInd, "14"},
	ClassInd16:  {ClassInd, "16"},
	ClassInd18:  {ClassInd, "18"},
	ACBG:        {ACB, "G"},
	ACBPG:       {ACB, "PG"},
	ACBM:        {ACB, "M"},
	ACBMA15:     {ACB, "MA15+"},
	ACBR18:      {ACB, "R18+"},
	ACBRC:       {ACB, "RC"},
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c > CatUnknown && int(c) < len(categories)
}

// Organization returns the board that issues c.
func (c Category) Organization() Organization {
	if !c.Valid() {
		return OrgUnknown
	}
	return categories[c].org
}

// Label returns the display tag for c, such as "PEGI 18" or "ESRB M".
func (c Category) Label() string {
	if !c.Valid() {
		return ""
	}
	info := categories[c]
	return info.org.String() + " " + info.label
}

func (c Category) String() string {
	return c.Label()
}

// Categories returns every known category in catalog order.
func Categories() []Category {
	out := make([]Category, 0, len(categories)-1)
	for c := CatUnknown + 1; int(c) < len(categories); c++ {
		out = append(out, c)
	}
	return out
}

// LookupCategory resolves a catalog category id.
func LookupCategory(id int) (Category, bool) {
	c := Category(id)
	return c, c.Valid()
}

// LookupOrganization resolves a catalog organization id.
func LookupOrganization(id int) (Organization, bool) {
	o := Organization(id)
	return o, o.Valid()
}

// Classify resolves a raw (organization, category) pair. A category id that
// resolves is authoritative and supplies the organization; the organization id
// is only consulted when no category resolves. Unresolved parts are returned
// as their zero values.
func Classify(orgID, categoryID *int) (Organization, Category) {
	if categoryID != nil {
		if c, ok := LookupCategory(*categoryID); ok {
			return c.Organization(), c
		}
	}
	if orgID != nil {
		if o, ok := LookupOrganization(*orgID); ok {
			return o, CatUnknown
		}
	}
	return OrgUnknown, CatUnknown
}

// Tag returns the display tag for a classified pair: the category label when
// known, otherwise the bare organization name.
func Tag(org Organization, cat Category) string {
	if cat.Valid() {
		return cat.Label()
	}
	return org.String()
}
