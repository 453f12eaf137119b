package sindex

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

const (
	configFilename = "config.yml"
	overrideConfig = "sindex.yml"
)

// Config holds the settings for locating, installing, and checking the
// SINDEX DLL. The defaults ship in the resources box; a sindex.yml in the
// working directory overrides individual fields.
type Config struct {
	// DLLPath is where Open looks for sindex64.dll. Empty means next to the
	// executable.
	DLLPath string `yaml:"dll_path"`
	// DownloadURL is the BC government release archive.
	DownloadURL string `yaml:"download_url"`
	// Checksum is an optional hex sha256 of the release archive. Left empty,
	// verification is skipped.
	Checksum string `yaml:"checksum"`
	// MinVersion is the lowest acceptable DLL version, as a semver string.
	MinVersion string `yaml:"min_version"`
	// Language overrides the auto-detected UI language.
	Language string `yaml:"language"`
	// LogFile is where the CLI writes its log.
	LogFile string `yaml:"log_file"`
	// Variables are template variables available to UI strings.
	Variables StringMap `yaml:"variables"`
}

// NewConfig loads the bundled default config, then applies overrides from an
// optional sindex.yml in the working directory.
func NewConfig() (*Config, error) {
	configFile := MustGetResource(configFilename)
	config := &Config{Variables: make(StringMap)}
	err := yaml.Unmarshal([]byte(configFile), config)
	if err != nil {
		log.Printf("Unable to parse config file %s\n", configFilename)
		return config, err
	}
	if override, errRead := os.ReadFile(overrideConfig); errRead == nil {
		if err = yaml.Unmarshal(override, config); err != nil {
			log.Printf("Unable to parse override config %s\n", overrideConfig)
			return config, err
		}
	}
	return config, nil
}
