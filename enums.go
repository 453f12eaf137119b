package sindex

// The enum ordinals below are the DLL's own values and must not be reordered.

// FIZ selects between the coastal and interior forest inventory zones.
type FIZ int

const (
	Coast FIZ = iota
	Interior
)

func (f FIZ) String() string {
	switch f {
	case Coast:
		return "coast"
	case Interior:
		return "interior"
	}
	return "unknown"
}

// SiteClass is a coarse site productivity rating.
type SiteClass int

const (
	ClassNone SiteClass = iota
	ClassLow
	ClassPoor
	ClassMedium
	ClassGood
)

func (s SiteClass) String() string {
	switch s {
	case ClassNone:
		return "none"
	case ClassLow:
		return "low"
	case ClassPoor:
		return "poor"
	case ClassMedium:
		return "medium"
	case ClassGood:
		return "good"
	}
	return "unknown"
}

// AgeType says whether an age value counts from germination or from the year
// the tree reached breast height.
type AgeType int

const (
	TotalAge AgeType = iota
	BreastHeightAge
)

func (a AgeType) String() string {
	switch a {
	case TotalAge:
		return "total"
	case BreastHeightAge:
		return "breast-height"
	}
	return "unknown"
}

// RegenType is the stand establishment type.
type RegenType int

const (
	Natural RegenType = iota
	Planted
)

func (r RegenType) String() string {
	switch r {
	case Natural:
		return "natural"
	case Planted:
		return "planted"
	}
	return "unknown"
}

// Estimate selects the estimation method for height/age to site index.
type Estimate int

const (
	Iterate Estimate = iota
	Direct
)

func (e Estimate) String() string {
	switch e {
	case Iterate:
		return "iterate"
	case Direct:
		return "direct"
	}
	return "unknown"
}
