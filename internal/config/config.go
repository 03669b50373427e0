package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-iostash/internal/types"
)

// Config holds everything the tool needs to talk to the caching engine.
type Config struct {
	Surface SurfaceConfig `mapstructure:"surface" validate:"required"`
	Labels  LabelConfig   `mapstructure:"labels" validate:"required"`
	Engine  EngineConfig  `mapstructure:"engine" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
}

// SurfaceConfig describes the layout of the engine's control surface.
type SurfaceConfig struct {
	// CommandDir holds the write-only command channels
	CommandDir string `mapstructure:"command_dir" validate:"required,abspath"`

	// CacheChannel and TargetChannel are file names inside CommandDir
	CacheChannel  string `mapstructure:"cache_channel" validate:"required,excludes=/"`
	TargetChannel string `mapstructure:"target_channel" validate:"required,excludes=/"`

	// CacheEntries and TargetEntries hold one sub-directory per attached device
	CacheEntries  string `mapstructure:"cache_entries" validate:"required,abspath"`
	TargetEntries string `mapstructure:"target_entries" validate:"required,abspath"`

	NameFile  string `mapstructure:"name_file" validate:"required,excludes=/"`
	StatsFile string `mapstructure:"stats_file" validate:"required,excludes=/"`
}

// LabelConfig is the table of counter labels expected in a stats file.
type LabelConfig struct {
	Allocated        string `mapstructure:"allocated" validate:"required"`
	Valid            string `mapstructure:"valid" validate:"required"`
	Populations      string `mapstructure:"populations" validate:"required"`
	Reads            string `mapstructure:"reads" validate:"required"`
	ReadSectors      string `mapstructure:"read_sectors" validate:"required"`
	ReadHits         string `mapstructure:"read_hits" validate:"required"`
	Writes           string `mapstructure:"writes" validate:"required"`
	WriteSectors     string `mapstructure:"write_sectors" validate:"required"`
	WriteInvalidates string `mapstructure:"write_invalidates" validate:"required"`
}

// EngineConfig controls how a missing engine gets activated.
type EngineConfig struct {
	Module   string `mapstructure:"module" validate:"required"`
	Modprobe string `mapstructure:"modprobe" validate:"required"`
}

// LogConfig controls the diagnostic logger. Command output never goes through it.
type LogConfig struct {
	Format string `mapstructure:"format" validate:"required,oneof=console json"`
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

const sysfsRoot = "/sys/module/iostash/iostash"

// Default returns the configuration used when no file or environment overrides exist.
func Default() Config {
	return Config{
		Surface: SurfaceConfig{
			CommandDir:    filepath.Join(sysfsRoot, "ctl"),
			CacheChannel:  types.EntryKindCache.String(),
			TargetChannel: types.EntryKindTarget.String(),
			CacheEntries:  filepath.Join(sysfsRoot, "ssds"),
			TargetEntries: filepath.Join(sysfsRoot, "hdds"),
			NameFile:      "name",
			StatsFile:     "stats",
		},
		Labels: DefaultLabels(),
		Engine: EngineConfig{
			Module:   "iostash",
			Modprobe: "modprobe",
		},
		Log: LogConfig{
			Format: "console",
			Level:  "warn",
		},
	}
}

// DefaultLabels returns the label table printed by the engine.
func DefaultLabels() LabelConfig {
	return LabelConfig{
		Allocated:        types.LabelAllocated,
		Valid:            types.LabelValid,
		Populations:      types.LabelPopulations,
		Reads:            types.LabelReads,
		ReadSectors:      types.LabelReadSectors,
		ReadHits:         types.LabelReadHits,
		Writes:           types.LabelWrites,
		WriteSectors:     types.LabelWriteSectors,
		WriteInvalidates: types.LabelWriteInvalidates,
	}
}

// setDefaults registers every default with viper so env overrides work on keys
// that never appear in a config file.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("surface.command_dir", d.Surface.CommandDir)
	v.SetDefault("surface.cache_channel", d.Surface.CacheChannel)
	v.SetDefault("surface.target_channel", d.Surface.TargetChannel)
	v.SetDefault("surface.cache_entries", d.Surface.CacheEntries)
	v.SetDefault("surface.target_entries", d.Surface.TargetEntries)
	v.SetDefault("surface.name_file", d.Surface.NameFile)
	v.SetDefault("surface.stats_file", d.Surface.StatsFile)

	v.SetDefault("labels.allocated", d.Labels.Allocated)
	v.SetDefault("labels.valid", d.Labels.Valid)
	v.SetDefault("labels.populations", d.Labels.Populations)
	v.SetDefault("labels.reads", d.Labels.Reads)
	v.SetDefault("labels.read_sectors", d.Labels.ReadSectors)
	v.SetDefault("labels.read_hits", d.Labels.ReadHits)
	v.SetDefault("labels.writes", d.Labels.Writes)
	v.SetDefault("labels.write_sectors", d.Labels.WriteSectors)
	v.SetDefault("labels.write_invalidates", d.Labels.WriteInvalidates)

	v.SetDefault("engine.module", d.Engine.Module)
	v.SetDefault("engine.modprobe", d.Engine.Modprobe)

	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.level", d.Log.Level)
}

// configPaths are searched in order when no explicit file is given.
var configPaths = []string{".", "$HOME/.iostash", "/etc/iostash"}

// Load reads configuration from an optional file, IOSTASH_* environment
// variables and built-in defaults, then validates the result.
// An empty file means "search the usual places"; not finding one there is fine.
func Load(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("iostash")
		v.SetConfigType("yaml")
		for _, p := range configPaths {
			v.AddConfigPath(p)
		}
	}

	setDefaults(v)

	v.SetEnvPrefix("IOSTASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validAbsPath accepts cleaned absolute paths only.
func validAbsPath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	return filepath.IsAbs(p) && filepath.Clean(p) == p
}

// registerValidation is a var so tests can force a registration failure.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("abspath", validAbsPath)
}

// Validate checks a configuration the same way Load does.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := registerValidation(validate); err != nil {
		return fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}
