package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const envPrefix = "SPINARENA_"

// ApplyEnv loads the given dotenv files (".env" when none are named; missing
// files are skipped) and overrides cfg from SPINARENA_* variables. Variables
// already set in the process environment win over the files.
func ApplyEnv(cfg *Config, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"GRAVITY", &cfg.Physics.Gravity},
		{"AIR_DENSITY", &cfg.Physics.AirDensity},
		{"DRAG", &cfg.Physics.Drag},
		{"ROT_DRAG", &cfg.Physics.RotationalDrag},
		{"WIDTH", &cfg.Arena.Width},
		{"HEIGHT", &cfg.Arena.Height},
		{"DT", &cfg.Dt},
		{"DURATION", &cfg.Duration},
	}
	for _, f := range floats {
		v, ok := os.LookupEnv(envPrefix + f.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, f.key, err)
		}
		*f.dst = parsed
	}

	if v, ok := os.LookupEnv(envPrefix + "SEED"); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", envPrefix, err)
		}
		cfg.Seed = seed
	}
	if v, ok := os.LookupEnv(envPrefix + "ADDR"); ok && v != "" {
		cfg.Server.Addr = v
	}

	return nil
}
