package sindex

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lukasgolson/sindex/install"
)

const (
	// Terminal command string to clear the current line and reset the cursor
	clearLineVT100 = "\033[2K\r"
	logFilename    = "sindex.log"
)

// Run parses commandline options and runs one of the CLI modes: installing
// the DLL, listing the species or curve catalogs, or one of the
// calculations. It returns the process exit code.
//
// Commandline parameters are:
//
//	-install         // Download and deploy the Sindex DLL
//	-target          // Directory to deploy the DLL to (with -install)
//	-url             // Override the download URL (with -install)
//	-dll             // Path of an already deployed DLL
//	-dll-version     // Print the DLL version
//	-species         // List the species catalog
//	-curves          // List the curves for a species code
//	-site-index      // Site index from height and age
//	-calc-height     // Height from site index and age
//	-calc-age        // Age from site index and height
//	-y2bh            // Years to breast height
//	-convert         // Convert a site index between species
//	-site-class      // Site index from site class and FIZ
//	-lang            // Choose the output language
func Run() int {
	logfile := startLogging(logFilename)
	defer func() { logfile.Close() }()

	config, err := NewConfig()
	if err != nil {
		return 1
	}
	if config.LogFile != "" && config.LogFile != logFilename {
		logfile.Close()
		logfile = startLogging(config.LogFile)
	}
	config.Variables["toolName"] = filepath.Base(os.Args[0])
	translator := NewTranslatorVar(config.Variables)

	var (
		doInstall  = flag.Bool("install", false, translator.Get("cli_help_install"))
		target     = flag.String("target", "", translator.Get("cli_help_target"))
		url        = flag.String("url", "", translator.Get("cli_help_url"))
		dllPath    = flag.String("dll", "", translator.Get("cli_help_dll"))
		dllVersion = flag.Bool("dll-version", false, translator.Get("cli_help_dllversion"))
		species    = flag.Bool("species", false, translator.Get("cli_help_species"))
		curves     = flag.String("curves", "", translator.Get("cli_help_curves"))
		siteIndex  = flag.Bool("site-index", false, translator.Get("cli_help_siteindex"))
		calcHeight = flag.Bool("calc-height", false, translator.Get("cli_help_calcheight"))
		calcAge    = flag.Bool("calc-age", false, translator.Get("cli_help_calcage"))
		y2bh       = flag.Bool("y2bh", false, translator.Get("cli_help_y2bh"))
		convert    = flag.Bool("convert", false, translator.Get("cli_help_convert"))
		siteClass  = flag.Bool("site-class", false, translator.Get("cli_help_siteclass"))

		sp       = flag.String("sp", "", translator.Get("cli_help_sp"))
		toSp     = flag.String("to", "", translator.Get("cli_help_to"))
		curve    = flag.Int("curve", 0, translator.Get("cli_help_curve"))
		height   = flag.Float64("height", 0, translator.Get("cli_help_height"))
		age      = flag.Float64("age", 0, translator.Get("cli_help_age"))
		si       = flag.Float64("si", 0, translator.Get("cli_help_si"))
		y2bhVal  = flag.Float64("y2bh-years", 0, translator.Get("cli_help_y2bhyears"))
		ageType  = flag.String("age-type", "total", translator.Get("cli_help_agetype"))
		estimate = flag.String("estimate", "iterate", translator.Get("cli_help_estimate"))
		class    = flag.String("class", "medium", translator.Get("cli_help_class"))
		fiz      = flag.String("fiz", "coast", translator.Get("cli_help_fiz"))

		lang = flag.String("lang", "", translator.Get("cli_help_lang")+" "+strings.Join(translator.GetLanguages(), ", "))
	)
	flag.Parse()

	if len(config.Language) > 0 {
		translator.SetLanguage(config.Language)
	}
	if len(*lang) > 0 {
		if err := translator.SetLanguage(*lang); err != nil {
			fmt.Printf("Language '%s' not available\n", *lang)
		}
	}

	if *doInstall {
		return runInstall(*target, *url, translator, config)
	}

	lib, err := openLibrary(*dllPath, config)
	if err != nil {
		fmt.Println(translator.Get("err_open_dll"), err)
		log.Println(err)
		return 1
	}

	switch {
	case *dllVersion:
		fmt.Println(translator.Get("dll_version_is"), lib.Version())
	case *species:
		return listSpecies(lib, translator)
	case len(*curves) > 0:
		return listCurves(lib, *curves, translator)
	case *siteIndex:
		return printCalc(translator, func() (float64, error) {
			spec, err := resolveSpecies(lib, *sp)
			if err != nil {
				return 0, err
			}
			at, est, err := parseSiteIndexArgs(*ageType, *estimate)
			if err != nil {
				return 0, err
			}
			return lib.SiteIndexFromHeightAge(spec.Index, *height, *age, at, est)
		})
	case *calcHeight:
		return printCalc(translator, func() (float64, error) {
			at, err := parseAgeType(*ageType)
			if err != nil {
				return 0, err
			}
			return lib.HeightFromAge(*curve, *age, at, *si, *y2bhVal)
		})
	case *calcAge:
		return printCalc(translator, func() (float64, error) {
			at, err := parseAgeType(*ageType)
			if err != nil {
				return 0, err
			}
			return lib.AgeFromHeight(*curve, *height, at, *si, *y2bhVal)
		})
	case *y2bh:
		return printCalc(translator, func() (float64, error) {
			return lib.YearsToBreastHeight(*curve, *si)
		})
	case *convert:
		return printCalc(translator, func() (float64, error) {
			src, err := resolveSpecies(lib, *sp)
			if err != nil {
				return 0, err
			}
			dst, err := resolveSpecies(lib, *toSp)
			if err != nil {
				return 0, err
			}
			return lib.ConvertSiteIndex(src.Index, *si, dst.Index)
		})
	case *siteClass:
		return printCalc(translator, func() (float64, error) {
			spec, err := resolveSpecies(lib, *sp)
			if err != nil {
				return 0, err
			}
			sc, fz, err := parseClassArgs(*class, *fiz)
			if err != nil {
				return 0, err
			}
			return lib.SiteIndexFromClass(spec.Index, sc, fz)
		})
	default:
		fmt.Println(translator.Get("dll_version_is"), lib.Version())
		flag.PrintDefaults()
	}
	return 0
}

// runInstall downloads, verifies, and deploys the DLL into the target
// directory, with a progress line and SIGINT rollback.
func runInstall(target, url string, translator *Translator, config *Config) int {
	if target == "" {
		target = filepath.Dir(os.Args[0])
	}
	if url == "" {
		url = config.DownloadURL
	}
	stagingPath := filepath.Join(os.TempDir(), "sindex-install")
	defer os.RemoveAll(stagingPath)

	fmt.Println(translator.Get("installing"))
	_, err := install.Fetch(context.Background(), url, stagingPath, install.FetchOptions{
		Checksum: config.Checksum,
		Progress: func(written, total int64) {
			if total > 0 {
				fmt.Printf("%s%3d%%", clearLineVT100, written*100/total)
			}
		},
	})
	if err != nil {
		return installError(err, translator)
	}

	installer := install.New(stagingPath, target)
	if err := installer.CheckInstallDir(target); err != nil {
		return installError(err, translator)
	}
	cancelChannel := make(chan os.Signal, 1)
	signal.Notify(cancelChannel, os.Interrupt)
	defer signal.Stop(cancelChannel)
	installer.SetProgressFunction(func(status install.Status) {
		if file := installer.NextFile(); file != nil {
			fmt.Print(clearLineVT100 + file.Target)
		}
	})
	installer.StartInstall()
	go func() {
		for range cancelChannel {
			installer.Rollback()
		}
	}()
	installer.WaitForDone()
	if err := installer.Err(); err != nil {
		return installError(err, translator)
	}
	fmt.Println(clearLineVT100 + installer.SizeString())

	// The deployed DLL can only be opened on windows; elsewhere the version
	// gate has to wait until the target host runs it.
	if lib, err := Open(filepath.Join(target, DLLName)); err == nil {
		if err := install.CheckVersion(lib.Version(), config.MinVersion); err != nil {
			return installError(err, translator)
		}
		fmt.Println(translator.Get("dll_version_is"), lib.Version())
	} else {
		log.Println("Skipping version check:", err)
	}
	fmt.Println(translator.Get("install_done"))
	return 0
}

// installError logs the error and prints the remediation the original
// install guide documents for it.
func installError(err error, translator *Translator) int {
	log.Println(err)
	switch {
	case errors.Is(err, install.ErrAborted):
		fmt.Println(clearLineVT100 + translator.Get("install_aborted"))
	case install.IsPermission(err):
		fmt.Println(translator.Get("err_need_elevation"))
	case install.IsNetwork(err):
		fmt.Println(translator.Get("err_network"))
	default:
		fmt.Println(translator.Get("install_failed"), err)
	}
	return 1
}

func listSpecies(lib *Library, translator *Translator) int {
	all, err := lib.Species()
	if err != nil {
		fmt.Println(translator.Get("err_calc"), err)
		return 1
	}
	for _, sp := range all {
		fmt.Printf("%4d  %-8s %s\n", sp.Index, sp.Code, sp.Name)
	}
	return 0
}

func listCurves(lib *Library, code string, translator *Translator) int {
	spec, err := resolveSpecies(lib, code)
	if err != nil {
		fmt.Println(translator.Get("err_calc"), err)
		return 1
	}
	all, err := lib.Curves(spec.Index)
	if err != nil {
		fmt.Println(translator.Get("err_calc"), err)
		return 1
	}
	defCurve, _ := lib.DefaultCurve(spec.Index)
	for _, c := range all {
		marker := " "
		if c.Index == defCurve {
			marker = "*"
		}
		fmt.Printf("%s %4d  %-24s %s\n", marker, c.Index, c.Name, c.Source)
	}
	return 0
}

func printCalc(translator *Translator, calc func() (float64, error)) int {
	value, err := calc()
	if err != nil {
		fmt.Println(translator.Get("err_calc"), err)
		log.Println(err)
		return 1
	}
	fmt.Printf("%.4f\n", value)
	return 0
}

// openLibrary opens the DLL from the -dll flag, the config, or the default
// location, in that order.
func openLibrary(flagPath string, config *Config) (*Library, error) {
	path := flagPath
	if path == "" {
		path = config.DLLPath
	}
	return Open(path)
}

// resolveSpecies accepts either a species code ("FD") or a bare index.
func resolveSpecies(lib *Library, code string) (Species, error) {
	if code == "" {
		return Species{}, fmt.Errorf("missing species code (-sp)")
	}
	if index, err := strconv.Atoi(code); err == nil {
		return Species{Index: index, Code: lib.SpeciesCode(index), Name: lib.SpeciesName(index)}, nil
	}
	sp, ok, err := lib.SpeciesByCode(strings.ToUpper(code))
	if err != nil {
		return Species{}, err
	}
	if !ok {
		return Species{}, fmt.Errorf("unknown species code '%s'", code)
	}
	return sp, nil
}

func parseSiteIndexArgs(ageType, estimate string) (AgeType, Estimate, error) {
	at, err := parseAgeType(ageType)
	if err != nil {
		return 0, 0, err
	}
	switch estimate {
	case "iterate":
		return at, Iterate, nil
	case "direct":
		return at, Direct, nil
	}
	return 0, 0, fmt.Errorf("unknown estimate method '%s'", estimate)
}

func parseAgeType(ageType string) (AgeType, error) {
	switch ageType {
	case "total":
		return TotalAge, nil
	case "breast":
		return BreastHeightAge, nil
	}
	return 0, fmt.Errorf("unknown age type '%s'", ageType)
}

func parseClassArgs(class, fiz string) (SiteClass, FIZ, error) {
	classes := map[string]SiteClass{
		"none": ClassNone, "low": ClassLow, "poor": ClassPoor,
		"medium": ClassMedium, "good": ClassGood,
	}
	sc, ok := classes[class]
	if !ok {
		return 0, 0, fmt.Errorf("unknown site class '%s'", class)
	}
	switch fiz {
	case "coast":
		return sc, Coast, nil
	case "interior":
		return sc, Interior, nil
	}
	return 0, 0, fmt.Errorf("unknown FIZ '%s'", fiz)
}

// startLogging sets up the logging
func startLogging(logFilename string) *os.File {
	logfile, err := os.OpenFile(logFilename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatal(err)
	}
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(logfile)
	return logfile
}
