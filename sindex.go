package sindex

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// DLLName is the file name of the native SINDEX library.
const DLLName = "sindex64.dll"

type (
	// Species is one entry of the DLL's species catalog.
	Species struct {
		Index int
		Code  string
		Name  string
	}
	// Curve is one site index curve. Each species has one or more curves
	// from different published sources.
	Curve struct {
		Index  int
		Name   string
		Source string
		Notes  string
	}
	// Library is a handle to a loaded SINDEX DLL. All methods are safe for
	// concurrent use; the DLL itself keeps no per-call state.
	Library struct {
		path  string
		p     *procs
		debug *log.Logger
	}
)

// Open loads the SINDEX DLL from the given path. An empty path loads
// sindex64.dll from the directory of the running executable. On platforms
// without DLL support, Open returns ErrUnavailable.
func Open(path string) (*Library, error) {
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(filepath.Dir(exe), DLLName)
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	p, err := loadProcs(path)
	if err != nil {
		return nil, err
	}
	return &Library{path: path, p: p}, nil
}

// Path returns the file path the library was loaded from.
func (l *Library) Path() string { return l.path }

// SetDebugLogger enables per-call tracing to the given logger. Pass nil to
// disable.
func (l *Library) SetDebugLogger(logger *log.Logger) { l.debug = logger }

func (l *Library) logf(format string, args ...interface{}) {
	if l.debug != nil {
		l.debug.Printf(format, args...)
	}
}

// Version returns the DLL version, e.g. "1.54". The DLL reports it as an
// integer scaled by 100.
func (l *Library) Version() string {
	v := l.p.versionNumber()
	l.logf("Sindex_VersionNumber() -> %d", v)
	return fmt.Sprintf("%d.%02d", v/100, v%100)
}

// FirstSpecies returns the index of the first species in the catalog.
func (l *Library) FirstSpecies() (int, error) {
	r := l.p.firstSpecies()
	l.logf("Sindex_FirstSpecies() -> %d", r)
	if r < 0 {
		return 0, dllError("Sindex_FirstSpecies", int(r))
	}
	return int(r), nil
}

// NextSpecies returns the species index following the given one. After the
// last species it returns ok=false.
func (l *Library) NextSpecies(species int) (next int, ok bool, err error) {
	r := l.p.nextSpecies(int16(species))
	l.logf("Sindex_NextSpecies(%d) -> %d", species, r)
	if r == noAnswer {
		return 0, false, nil
	}
	if r < 0 {
		return 0, false, dllError("Sindex_NextSpecies", int(r))
	}
	return int(r), true, nil
}

// SpeciesCode returns the short code (e.g. "FD") for a species index.
func (l *Library) SpeciesCode(species int) string {
	code := l.p.specCode(int16(species))
	l.logf("Sindex_SpecCode(%d) -> %s", species, code)
	return code
}

// SpeciesName returns the common name for a species index.
func (l *Library) SpeciesName(species int) string {
	name := l.p.specName(int16(species))
	l.logf("Sindex_SpecName(%d) -> %s", species, name)
	return name
}

// Species returns the full species catalog in DLL order.
func (l *Library) Species() ([]Species, error) {
	idx, err := l.FirstSpecies()
	if err != nil {
		return nil, err
	}
	var all []Species
	for {
		all = append(all, Species{
			Index: idx,
			Code:  l.SpeciesCode(idx),
			Name:  l.SpeciesName(idx),
		})
		next, ok, err := l.NextSpecies(idx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return all, nil
		}
		idx = next
	}
}

// SpeciesByCode finds a species by its short code. The second return value
// is false if no species has the given code.
func (l *Library) SpeciesByCode(code string) (Species, bool, error) {
	all, err := l.Species()
	if err != nil {
		return Species{}, false, err
	}
	for _, sp := range all {
		if sp.Code == code {
			return sp, true, nil
		}
	}
	return Species{}, false, nil
}

// DefaultCurve returns the default site index curve for a species.
func (l *Library) DefaultCurve(species int) (int, error) {
	r := l.p.defCurve(int16(species))
	l.logf("Sindex_DefCurve(%d) -> %d", species, r)
	if r < 0 {
		return 0, dllError("Sindex_DefCurve", int(r))
	}
	return int(r), nil
}

// DefaultCurveEst returns the default curve for a species given its
// establishment type.
func (l *Library) DefaultCurveEst(species int, regen RegenType) (int, error) {
	r := l.p.defCurveEst(int16(species), int16(regen))
	l.logf("Sindex_DefCurveEst(%d, %d) -> %d", species, regen, r)
	if r < 0 {
		return 0, dllError("Sindex_DefCurveEst", int(r))
	}
	return int(r), nil
}

// DefaultGICurve returns the default growth intercept curve for a species.
func (l *Library) DefaultGICurve(species int) (int, error) {
	r := l.p.defGICurve(int16(species))
	l.logf("Sindex_DefGICurve(%d) -> %d", species, r)
	if r < 0 {
		return 0, dllError("Sindex_DefGICurve", int(r))
	}
	return int(r), nil
}

// FirstCurve returns the index of the first curve defined for a species.
func (l *Library) FirstCurve(species int) (int, error) {
	r := l.p.firstCurve(int16(species))
	l.logf("Sindex_FirstCurve(%d) -> %d", species, r)
	if r < 0 {
		return 0, dllError("Sindex_FirstCurve", int(r))
	}
	return int(r), nil
}

// NextCurve returns the curve index following the given one for a species.
// After the last curve it returns ok=false.
func (l *Library) NextCurve(species, curve int) (next int, ok bool, err error) {
	r := l.p.nextCurve(int16(species), int16(curve))
	l.logf("Sindex_NextCurve(%d, %d) -> %d", species, curve, r)
	if r == noAnswer {
		return 0, false, nil
	}
	if r < 0 {
		return 0, false, dllError("Sindex_NextCurve", int(r))
	}
	return int(r), true, nil
}

// CurveName returns the name of a curve.
func (l *Library) CurveName(curve int) string {
	name := l.p.curveName(int16(curve))
	l.logf("Sindex_CurveName(%d) -> %s", curve, name)
	return name
}

// CurveSource returns the literature citation for a curve.
func (l *Library) CurveSource(curve int) string {
	source := l.p.curveSource(int16(curve))
	l.logf("Sindex_CurveSource(%d) -> %s", curve, source)
	return source
}

// CurveNotes returns usage notes for a curve.
func (l *Library) CurveNotes(curve int) string {
	notes := l.p.curveNotes(int16(curve))
	l.logf("Sindex_CurveNotes(%d) -> %s", curve, notes)
	return notes
}

// Curves returns all curves defined for a species, in DLL order.
func (l *Library) Curves(species int) ([]Curve, error) {
	idx, err := l.FirstCurve(species)
	if err != nil {
		return nil, err
	}
	var all []Curve
	for {
		all = append(all, Curve{
			Index:  idx,
			Name:   l.CurveName(idx),
			Source: l.CurveSource(idx),
			Notes:  l.CurveNotes(idx),
		})
		next, ok, err := l.NextCurve(species, idx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return all, nil
		}
		idx = next
	}
}

// SiteIndexFromHeightAge calculates site index from a height/age pair for a
// species. Height is in metres, age in years of the given AgeType.
func (l *Library) SiteIndexFromHeightAge(species int, height, age float64, ageType AgeType, estimate Estimate) (float64, error) {
	var si float64
	r := l.p.htAgeToSI(int16(species), age, int16(ageType), height, int16(estimate), &si)
	l.logf("Sindex_HtAgeToSI(%d, %g, %d, %g, %d) -> %d, %g", species, age, ageType, height, estimate, r, si)
	if r < 0 {
		return 0, dllError("Sindex_HtAgeToSI", int(r))
	}
	return si, nil
}

// AgeFromHeight calculates the age at which a stand on the given curve and
// site index reaches the given height. y2bh is the years to breast height,
// used when converting between age types.
func (l *Library) AgeFromHeight(curve int, height float64, ageType AgeType, siteIndex, y2bh float64) (float64, error) {
	var age float64
	r := l.p.htSIToAge(int16(curve), height, int16(ageType), siteIndex, y2bh, &age)
	l.logf("Sindex_HtSIToAge(%d, %g, %d, %g, %g) -> %d, %g", curve, height, ageType, siteIndex, y2bh, r, age)
	if r < 0 {
		return 0, dllError("Sindex_HtSIToAge", int(r))
	}
	return age, nil
}

// HeightFromAge calculates stand height at the given age for a curve and
// site index.
func (l *Library) HeightFromAge(curve int, age float64, ageType AgeType, siteIndex, y2bh float64) (float64, error) {
	var height float64
	r := l.p.ageSIToHt(int16(curve), age, int16(ageType), siteIndex, y2bh, &height)
	l.logf("Sindex_AgeSIToHt(%d, %g, %d, %g, %g) -> %d, %g", curve, age, ageType, siteIndex, y2bh, r, height)
	if r < 0 {
		return 0, dllError("Sindex_AgeSIToHt", int(r))
	}
	return height, nil
}

// YearsToBreastHeight calculates the years a stand on the given curve and
// site index needs to reach breast height (1.3m).
func (l *Library) YearsToBreastHeight(curve int, siteIndex float64) (float64, error) {
	var y2bh float64
	r := l.p.y2bh(int16(curve), siteIndex, &y2bh)
	l.logf("Sindex_Y2BH(%d, %g) -> %d, %g", curve, siteIndex, r, y2bh)
	if r < 0 {
		return 0, dllError("Sindex_Y2BH", int(r))
	}
	return y2bh, nil
}

// ConvertSiteIndex converts a site index from one species to another, using
// the DLL's published species conversion functions.
func (l *Library) ConvertSiteIndex(src int, siteIndex float64, dst int) (float64, error) {
	var out float64
	r := l.p.siToSI(int16(src), siteIndex, int16(dst), &out)
	l.logf("Sindex_SIToSI(%d, %g, %d) -> %d, %g", src, siteIndex, dst, r, out)
	if r < 0 {
		return 0, dllError("Sindex_SIToSI", int(r))
	}
	return out, nil
}

// SiteIndexFromClass estimates a site index from a coarse site class rating
// and the inventory zone.
func (l *Library) SiteIndexFromClass(species int, class SiteClass, fiz FIZ) (float64, error) {
	var out float64
	r := l.p.scToSI(int16(species), byte(class), byte(fiz), &out)
	l.logf("Sindex_SCToSI(%d, %d, %d) -> %d, %g", species, class, fiz, r, out)
	if r < 0 {
		return 0, dllError("Sindex_SCToSI", int(r))
	}
	return out, nil
}
