package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Layered configuration: built-in defaults, optionally
 *		overridden by a YAML file, in turn overridden by whatever
 *		CLI flags the caller actually set.
 *
 * Grounded on: teacher deviceid.go's yaml.Unmarshal-into-map-then-assert
 *		pattern (no fixed-schema struct tags are used in the
 *		teacher's own YAML handling, so we follow suit).
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config collects every tunable named in spec.md §6 plus the ambient
// components in SPEC_FULL.md §4.I-O.
type Config struct {
	SigRate       int
	FreqHz        int
	LogPath       string
	DebugFormat   string
	MinGroupCount int
	MinToneScore  float64

	RigDevice         string
	CaptureDevice     string
	AnnounceService   bool
	IndicatorGPIOChip string
	IndicatorGPIOLine int
}

// DefaultConfig returns the spec.md §6 defaults.
func DefaultConfig() Config {
	return Config{
		SigRate:       11025,
		FreqHz:        0,
		LogPath:       "./selcal.log",
		DebugFormat:   "compact",
		MinGroupCount: 4,
		MinToneScore:  4.5,
	}
}

// LoadConfigFile reads a YAML file and applies any keys it sets on top of
// cfg, leaving fields the file doesn't mention untouched. A missing file
// is not an error — config files are optional, CLI flags and defaults are
// always sufficient on their own.
func LoadConfigFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if v, ok := raw["sig_rate"].(int); ok {
		cfg.SigRate = v
	}

	if v, ok := raw["freq_hz"].(int); ok {
		cfg.FreqHz = v
	}

	if v, ok := raw["log"].(string); ok {
		cfg.LogPath = v
	}

	if v, ok := raw["debug_fmt"].(string); ok {
		cfg.DebugFormat = v
	}

	if v, ok := raw["min_group_cnt"].(int); ok {
		cfg.MinGroupCount = v
	}

	if v, ok := raw["min_tone_score"].(float64); ok {
		cfg.MinToneScore = v
	}

	if v, ok := raw["rig_device"].(string); ok {
		cfg.RigDevice = v
	}

	if v, ok := raw["capture_device"].(string); ok {
		cfg.CaptureDevice = v
	}

	if v, ok := raw["announce"].(bool); ok {
		cfg.AnnounceService = v
	}

	if v, ok := raw["indicator_chip"].(string); ok {
		cfg.IndicatorGPIOChip = v
	}

	if v, ok := raw["indicator_line"].(int); ok {
		cfg.IndicatorGPIOLine = v
	}

	return cfg, nil
}
