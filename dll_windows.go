//go:build windows

package sindex

import (
	"math"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

// loadProcs loads the DLL and resolves every entry point up front, so a
// missing or truncated DLL fails at Open rather than mid-calculation.
func loadProcs(path string) (*procs, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return nil, err
	}
	proc := func(name string) *windows.Proc {
		if err != nil {
			return nil
		}
		var p *windows.Proc
		p, err = dll.FindProc(name)
		return p
	}
	versionNumber := proc("Sindex_VersionNumber")
	firstSpecies := proc("Sindex_FirstSpecies")
	nextSpecies := proc("Sindex_NextSpecies")
	specCode := proc("Sindex_SpecCode")
	specName := proc("Sindex_SpecName")
	defCurve := proc("Sindex_DefCurve")
	defCurveEst := proc("Sindex_DefCurveEst")
	defGICurve := proc("Sindex_DefGICurve")
	firstCurve := proc("Sindex_FirstCurve")
	nextCurve := proc("Sindex_NextCurve")
	curveName := proc("Sindex_CurveName")
	curveSource := proc("Sindex_CurveSource")
	curveNotes := proc("Sindex_CurveNotes")
	htAgeToSI := proc("Sindex_HtAgeToSI")
	htSIToAge := proc("Sindex_HtSIToAge")
	ageSIToHt := proc("Sindex_AgeSIToHt")
	y2bh := proc("Sindex_Y2BH")
	siToSI := proc("Sindex_SIToSI")
	scToSI := proc("Sindex_SCToSI")
	if err != nil {
		dll.Release()
		return nil, err
	}

	return &procs{
		versionNumber: func() int16 { return shortCall(versionNumber) },
		firstSpecies:  func() int16 { return shortCall(firstSpecies) },
		nextSpecies:   func(sp int16) int16 { return shortCall(nextSpecies, uintptr(sp)) },
		specCode:      func(sp int16) string { return stringCall(specCode, uintptr(sp)) },
		specName:      func(sp int16) string { return stringCall(specName, uintptr(sp)) },
		defCurve:      func(sp int16) int16 { return shortCall(defCurve, uintptr(sp)) },
		defCurveEst: func(sp, regen int16) int16 {
			return shortCall(defCurveEst, uintptr(sp), uintptr(regen))
		},
		defGICurve: func(sp int16) int16 { return shortCall(defGICurve, uintptr(sp)) },
		firstCurve: func(sp int16) int16 { return shortCall(firstCurve, uintptr(sp)) },
		nextCurve: func(sp, curve int16) int16 {
			return shortCall(nextCurve, uintptr(sp), uintptr(curve))
		},
		curveName:   func(curve int16) string { return stringCall(curveName, uintptr(curve)) },
		curveSource: func(curve int16) string { return stringCall(curveSource, uintptr(curve)) },
		curveNotes:  func(curve int16) string { return stringCall(curveNotes, uintptr(curve)) },

		htAgeToSI: func(sp int16, age float64, ageType int16, height float64, est int16, si *float64) int32 {
			return statusCall(htAgeToSI,
				uintptr(sp), f64(age), uintptr(ageType), f64(height), uintptr(est),
				uintptr(unsafe.Pointer(si)))
		},
		htSIToAge: func(curve int16, height float64, ageType int16, si, y2bhV float64, age *float64) int32 {
			return statusCall(htSIToAge,
				uintptr(curve), f64(height), uintptr(ageType), f64(si), f64(y2bhV),
				uintptr(unsafe.Pointer(age)))
		},
		ageSIToHt: func(curve int16, age float64, ageType int16, si, y2bhV float64, height *float64) int32 {
			return statusCall(ageSIToHt,
				uintptr(curve), f64(age), uintptr(ageType), f64(si), f64(y2bhV),
				uintptr(unsafe.Pointer(height)))
		},
		y2bh: func(curve int16, si float64, out *float64) int32 {
			return statusCall(y2bh, uintptr(curve), f64(si), uintptr(unsafe.Pointer(out)))
		},
		siToSI: func(src int16, si float64, dst int16, out *float64) int32 {
			return statusCall(siToSI,
				uintptr(src), f64(si), uintptr(dst), uintptr(unsafe.Pointer(out)))
		},
		scToSI: func(sp int16, class, fiz byte, out *float64) int32 {
			return statusCall(scToSI,
				uintptr(sp), uintptr(class), uintptr(fiz), uintptr(unsafe.Pointer(out)))
		},
	}, nil
}

// f64 passes a double by value. The windows syscall stub mirrors the first
// four arguments into XMM registers and stack arguments keep their bit
// pattern, so Float64bits round-trips correctly in either position.
func f64(v float64) uintptr { return uintptr(math.Float64bits(v)) }

// shortCall invokes a proc returning a C short.
func shortCall(p *windows.Proc, args ...uintptr) int16 {
	r, _, _ := p.Call(args...)
	return int16(r)
}

// statusCall invokes a proc returning a C int status code.
func statusCall(p *windows.Proc, args ...uintptr) int32 {
	r, _, _ := p.Call(args...)
	return int32(r)
}

// stringCall invokes a proc returning a char pointer into the DLL's static
// tables. The DLL pads entries with spaces.
func stringCall(p *windows.Proc, args ...uintptr) string {
	r, _, _ := p.Call(args...)
	if r == 0 {
		return ""
	}
	return strings.TrimSpace(windows.BytePtrToString((*byte)(unsafe.Pointer(r))))
}
