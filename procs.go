package sindex

// procs is the resolved SINDEX entry point table. Argument order and widths
// follow the DLL's C prototypes: species and curve indexes are shorts,
// measurements are doubles, results are written through out pointers and the
// return value is a status code. The platform loader fills this table in;
// tests substitute their own.
type procs struct {
	versionNumber func() int16
	firstSpecies  func() int16
	nextSpecies   func(species int16) int16
	specCode      func(species int16) string
	specName      func(species int16) string
	defCurve      func(species int16) int16
	defCurveEst   func(species, regen int16) int16
	defGICurve    func(species int16) int16
	firstCurve    func(species int16) int16
	nextCurve     func(species, curve int16) int16
	curveName     func(curve int16) string
	curveSource   func(curve int16) string
	curveNotes    func(curve int16) string

	htAgeToSI func(species int16, age float64, ageType int16, height float64, estimate int16, si *float64) int32
	htSIToAge func(curve int16, height float64, ageType int16, si, y2bh float64, age *float64) int32
	ageSIToHt func(curve int16, age float64, ageType int16, si, y2bh float64, height *float64) int32
	y2bh      func(curve int16, si float64, y2bh *float64) int32
	siToSI    func(src int16, si float64, dst int16, out *float64) int32
	scToSI    func(species int16, class, fiz byte, out *float64) int32
}
