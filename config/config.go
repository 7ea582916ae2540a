// Package config loads wrapflow's settings: tool executables, core count,
// log level and an optional SLURM allocation to run tools through
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sp "github.com/scipipe/scipipe"
	"github.com/spf13/viper"
)

// Config holds the settings of a wrapflow run
type Config struct {
	Tools ToolsConfig `mapstructure:"tools"`
	Cores int         `mapstructure:"cores"`
	Log   LogConfig   `mapstructure:"log"`
	Slurm SlurmConfig `mapstructure:"slurm"`
}

// ToolsConfig holds the executable used for each external tool
type ToolsConfig struct {
	FastQC        string `mapstructure:"fastqc"`
	Hisat2        string `mapstructure:"hisat2"`
	Hisat2Build   string `mapstructure:"hisat2_build"`
	Hisat2Inspect string `mapstructure:"hisat2_inspect"`
	Samtools      string `mapstructure:"samtools"`
	Rscript       string `mapstructure:"rscript"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SlurmConfig describes the allocation tools are run in. It is off when
// Project is empty.
type SlurmConfig struct {
	Project   string        `mapstructure:"project"`
	Partition PartitionType `mapstructure:"partition"`
	Cores     int           `mapstructure:"cores"`
	Time      time.Duration `mapstructure:"time"`
	JobName   string        `mapstructure:"job_name"`
}

// Load reads the configuration from configPath, or when that is empty from
// wrapflow.yaml in the current directory or in ~/.wrapflow if present.
// Environment variables WRAPFLOW_<KEY> (e.g. WRAPFLOW_TOOLS_SAMTOOLS)
// override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("wrapflow")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".wrapflow"))
		}
	}

	v.SetDefault("tools.fastqc", "fastqc")
	v.SetDefault("tools.hisat2", "hisat2")
	v.SetDefault("tools.hisat2_build", "hisat2-build")
	v.SetDefault("tools.hisat2_inspect", "hisat2-inspect")
	v.SetDefault("tools.samtools", "samtools")
	v.SetDefault("tools.rscript", "Rscript")
	v.SetDefault("cores", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("slurm.project", "")
	v.SetDefault("slurm.partition", string(PartitionCore))
	v.SetDefault("slurm.cores", 1)
	v.SetDefault("slurm.time", "1h")
	v.SetDefault("slurm.job_name", "wrapflow")

	v.SetEnvPrefix("wrapflow")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Cores < 1 {
		return nil, fmt.Errorf("cores must be at least 1, got %d", cfg.Cores)
	}
	return cfg, nil
}

// ToolTable maps the logical tool names wrappers use to executables
func (c *Config) ToolTable() map[string]string {
	return map[string]string{
		"fastqc":         c.Tools.FastQC,
		"hisat2":         c.Tools.Hisat2,
		"hisat2-build":   c.Tools.Hisat2Build,
		"hisat2-inspect": c.Tools.Hisat2Inspect,
		"samtools":       c.Tools.Samtools,
		"Rscript":        c.Tools.Rscript,
	}
}

// SlurmInfo returns the allocation a tool using threads is run in, and
// false when SLURM is not configured
func (c *Config) SlurmInfo(threads int) (SlurmInfo, bool) {
	if c.Slurm.Project == "" {
		return SlurmInfo{}, false
	}
	return SlurmInfo{
		Project:   c.Slurm.Project,
		Partition: c.Slurm.Partition,
		Cores:     c.Slurm.Cores,
		Time:      c.Slurm.Time,
		JobName:   c.Slurm.JobName,
		Threads:   threads,
	}, true
}

// CommandPrefix returns the arguments to put in front of each tool command
// line: an salloc/srun allocation when SLURM is configured, else nothing
func (c *Config) CommandPrefix(threads int) []string {
	si, ok := c.SlurmInfo(threads)
	if !ok {
		return nil
	}
	return si.AsArgs()
}

// InitLogging sets up scipipe's loggers for the configured level
func (c *Config) InitLogging() {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		sp.InitLogDebug()
	case "warning", "warn":
		sp.InitLogWarning()
	case "error":
		sp.InitLogError()
	default:
		sp.InitLogAudit()
	}
}
