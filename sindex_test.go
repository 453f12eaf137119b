package sindex

import (
	"errors"
	"testing"
)

// fakeProcs models a two-species catalog with deterministic calculations,
// enough to drive every Library method.
func fakeProcs() *procs {
	species := map[int16]struct{ code, name string }{
		1: {"FD", "Douglas Fir"},
		3: {"PL", "Lodgepole Pine"},
	}
	curves := map[int16][]int16{1: {10, 12}, 3: {20}}
	validSpecies := func(sp int16) bool { _, ok := species[sp]; return ok }
	validCurve := func(c int16) bool { return c == 10 || c == 12 || c == 20 }
	return &procs{
		versionNumber: func() int16 { return 154 },
		firstSpecies:  func() int16 { return 1 },
		nextSpecies: func(sp int16) int16 {
			switch sp {
			case 1:
				return 3
			case 3:
				return noAnswer
			}
			return codeBadSpecies
		},
		specCode: func(sp int16) string { return species[sp].code },
		specName: func(sp int16) string { return species[sp].name },
		defCurve: func(sp int16) int16 {
			if !validSpecies(sp) {
				return codeBadSpecies
			}
			return curves[sp][0]
		},
		defCurveEst: func(sp, regen int16) int16 {
			if regen != 0 && regen != 1 {
				return codeBadEstab
			}
			if !validSpecies(sp) {
				return codeBadSpecies
			}
			return curves[sp][0]
		},
		defGICurve: func(sp int16) int16 {
			if !validSpecies(sp) {
				return codeBadSpecies
			}
			return curves[sp][0] + 1
		},
		firstCurve: func(sp int16) int16 {
			if !validSpecies(sp) {
				return codeBadSpecies
			}
			return curves[sp][0]
		},
		nextCurve: func(sp, curve int16) int16 {
			if !validSpecies(sp) {
				return codeBadSpecies
			}
			list := curves[sp]
			for n, c := range list {
				if c == curve && n+1 < len(list) {
					return list[n+1]
				}
			}
			return noAnswer
		},
		curveName:   func(c int16) string { return map[int16]string{10: "Bruce (1981)", 12: "Thrower (1994)", 20: "Goudie (1984)"}[c] },
		curveSource: func(c int16) string { return "For. Sci. Handbook" },
		curveNotes:  func(c int16) string { return "" },
		htAgeToSI: func(sp int16, age float64, ageType int16, height float64, est int16, si *float64) int32 {
			if !validSpecies(sp) {
				return codeBadSpecies
			}
			if height <= 1.3 {
				return codeLowSite
			}
			*si = height / age * 100
			return 0
		},
		htSIToAge: func(curve int16, height float64, ageType int16, si, y2bh float64, age *float64) int32 {
			if !validCurve(curve) {
				return codeBadCurve
			}
			*age = height / si * 100
			return 0
		},
		ageSIToHt: func(curve int16, age float64, ageType int16, si, y2bh float64, height *float64) int32 {
			if !validCurve(curve) {
				return codeBadCurve
			}
			*height = age * si / 100
			return 0
		},
		y2bh: func(curve int16, si float64, out *float64) int32 {
			if !validCurve(curve) {
				return codeBadCurve
			}
			*out = 130 / si
			return 0
		},
		siToSI: func(src int16, si float64, dst int16, out *float64) int32 {
			if !validSpecies(src) || !validSpecies(dst) {
				return codeNoConvert
			}
			*out = si * 0.9
			return 0
		},
		scToSI: func(sp int16, class, fiz byte, out *float64) int32 {
			if !validSpecies(sp) {
				return codeBadSpecies
			}
			if class > byte(ClassGood) {
				return codeBadClass
			}
			if fiz > byte(Interior) {
				return codeBadFIZ
			}
			*out = float64(class) * 5
			return 0
		},
	}
}

func fakeLibrary() *Library { return &Library{path: "sindex64.dll", p: fakeProcs()} }

func TestVersion(t *testing.T) {
	lib := fakeLibrary()
	if got := lib.Version(); got != "1.54" {
		t.Errorf("Version() = %q, want 1.54", got)
	}
	lib.p.versionNumber = func() int16 { return 105 }
	if got := lib.Version(); got != "1.05" {
		t.Errorf("Version() = %q, want 1.05", got)
	}
}

func TestSpeciesCatalog(t *testing.T) {
	lib := fakeLibrary()
	all, err := lib.Species()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d species, want 2", len(all))
	}
	if all[0].Code != "FD" || all[0].Name != "Douglas Fir" || all[0].Index != 1 {
		t.Errorf("unexpected first species: %+v", all[0])
	}
	if all[1].Code != "PL" || all[1].Index != 3 {
		t.Errorf("unexpected second species: %+v", all[1])
	}
}

func TestSpeciesByCode(t *testing.T) {
	lib := fakeLibrary()
	sp, ok, err := lib.SpeciesByCode("PL")
	if err != nil || !ok {
		t.Fatalf("SpeciesByCode(PL) = %v, %v", ok, err)
	}
	if sp.Index != 3 {
		t.Errorf("got index %d, want 3", sp.Index)
	}
	_, ok, err = lib.SpeciesByCode("XX")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("SpeciesByCode(XX) found a species")
	}
}

func TestNextSpeciesBadIndex(t *testing.T) {
	lib := fakeLibrary()
	_, _, err := lib.NextSpecies(99)
	var sindexErr *Error
	if !errors.As(err, &sindexErr) {
		t.Fatalf("NextSpecies(99) = %v, want *Error", err)
	}
	if sindexErr.Code != codeBadSpecies {
		t.Errorf("got code %d, want %d", sindexErr.Code, codeBadSpecies)
	}
}

func TestCurves(t *testing.T) {
	lib := fakeLibrary()
	all, err := lib.Curves(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d curves, want 2", len(all))
	}
	if all[0].Index != 10 || all[0].Name != "Bruce (1981)" {
		t.Errorf("unexpected first curve: %+v", all[0])
	}
	if all[1].Index != 12 {
		t.Errorf("unexpected second curve: %+v", all[1])
	}
	single, err := lib.Curves(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(single) != 1 {
		t.Errorf("got %d curves for species 3, want 1", len(single))
	}
}

func TestDefaultCurves(t *testing.T) {
	lib := fakeLibrary()
	if c, err := lib.DefaultCurve(1); err != nil || c != 10 {
		t.Errorf("DefaultCurve(1) = %d, %v", c, err)
	}
	if c, err := lib.DefaultCurveEst(1, Planted); err != nil || c != 10 {
		t.Errorf("DefaultCurveEst(1, Planted) = %d, %v", c, err)
	}
	if c, err := lib.DefaultGICurve(1); err != nil || c != 11 {
		t.Errorf("DefaultGICurve(1) = %d, %v", c, err)
	}
	if _, err := lib.DefaultCurve(99); err == nil {
		t.Error("DefaultCurve(99) did not fail")
	}
}

func TestSiteIndexFromHeightAge(t *testing.T) {
	lib := fakeLibrary()
	si, err := lib.SiteIndexFromHeightAge(1, 10.0, 50.0, TotalAge, Direct)
	if err != nil {
		t.Fatal(err)
	}
	if si != 20.0 {
		t.Errorf("got %g, want 20", si)
	}
	_, err = lib.SiteIndexFromHeightAge(1, 1.0, 50.0, TotalAge, Direct)
	var sindexErr *Error
	if !errors.As(err, &sindexErr) || sindexErr.Code != codeLowSite {
		t.Errorf("want low-site error, got %v", err)
	}
}

func TestHeightAgeRoundTrip(t *testing.T) {
	lib := fakeLibrary()
	height, err := lib.HeightFromAge(10, 50, TotalAge, 20, 5)
	if err != nil {
		t.Fatal(err)
	}
	age, err := lib.AgeFromHeight(10, height, TotalAge, 20, 5)
	if err != nil {
		t.Fatal(err)
	}
	if age != 50 {
		t.Errorf("round trip age = %g, want 50", age)
	}
}

func TestYearsToBreastHeight(t *testing.T) {
	lib := fakeLibrary()
	y, err := lib.YearsToBreastHeight(10, 13)
	if err != nil {
		t.Fatal(err)
	}
	if y != 10 {
		t.Errorf("got %g, want 10", y)
	}
	if _, err := lib.YearsToBreastHeight(99, 13); err == nil {
		t.Error("bad curve did not fail")
	}
}

func TestConvertSiteIndex(t *testing.T) {
	lib := fakeLibrary()
	si, err := lib.ConvertSiteIndex(1, 20, 3)
	if err != nil {
		t.Fatal(err)
	}
	if si != 18 {
		t.Errorf("got %g, want 18", si)
	}
	_, err = lib.ConvertSiteIndex(1, 20, 99)
	var sindexErr *Error
	if !errors.As(err, &sindexErr) || sindexErr.Code != codeNoConvert {
		t.Errorf("want no-conversion error, got %v", err)
	}
}

func TestSiteIndexFromClass(t *testing.T) {
	lib := fakeLibrary()
	si, err := lib.SiteIndexFromClass(1, ClassMedium, Coast)
	if err != nil {
		t.Fatal(err)
	}
	if si != 15 {
		t.Errorf("got %g, want 15", si)
	}
	if _, err := lib.SiteIndexFromClass(1, SiteClass(9), Coast); err == nil {
		t.Error("bad site class did not fail")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/sindex64.dll")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open on missing file = %v, want ErrNotFound", err)
	}
}
