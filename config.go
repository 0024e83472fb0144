package qsim

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config controls how circuits are executed and compared.
type Config struct {
	// Workers is the number of pool goroutines; 1 or less disables the pool.
	Workers int `mapstructure:"workers"`
	// ParallelThreshold is the smallest qubit count the pool splits up.
	ParallelThreshold int `mapstructure:"parallel_threshold"`
	// ChunksPerWorker is how many chunks each gate is cut into per worker.
	ChunksPerWorker int `mapstructure:"chunks_per_worker"`

	RelativeTolerance float64 `mapstructure:"relative_tolerance"`
	AbsoluteTolerance float64 `mapstructure:"absolute_tolerance"`

	CheckUnitarity     bool    `mapstructure:"check_unitarity"`
	UnitarityTolerance float64 `mapstructure:"unitarity_tolerance"`

	// Reference enables the O(4^N) full-unitary oracle on new circuits.
	Reference bool `mapstructure:"reference"`

	// Seed for the measurement random source; 0 seeds from the clock.
	Seed uint64 `mapstructure:"seed"`
}

func NewConfig() *Config {
	return &Config{
		Workers:            runtime.NumCPU(),
		ParallelThreshold:  14,
		ChunksPerWorker:    4,
		RelativeTolerance:  DefaultRelativeTolerance,
		AbsoluteTolerance:  DefaultAbsoluteTolerance,
		UnitarityTolerance: 1e-9,
	}
}

/*
LoadConfig reads a Config from the optional file at path and from QSIM_*
environment variables, on top of the NewConfig defaults. The file format is
taken from its extension (yaml, json, toml, ...). An empty path reads the
environment only.
*/
func LoadConfig(path string) (*Config, error) {
	defaults := NewConfig()

	v := viper.New()
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("parallel_threshold", defaults.ParallelThreshold)
	v.SetDefault("chunks_per_worker", defaults.ChunksPerWorker)
	v.SetDefault("relative_tolerance", defaults.RelativeTolerance)
	v.SetDefault("absolute_tolerance", defaults.AbsoluteTolerance)
	v.SetDefault("check_unitarity", defaults.CheckUnitarity)
	v.SetDefault("unitarity_tolerance", defaults.UnitarityTolerance)
	v.SetDefault("reference", defaults.Reference)
	v.SetDefault("seed", defaults.Seed)

	v.SetEnvPrefix("qsim")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

func (c *Config) toleranceOptions() []ToleranceOption {
	return []ToleranceOption{
		WithRelativeTolerance(c.RelativeTolerance),
		WithAbsoluteTolerance(c.AbsoluteTolerance),
	}
}
