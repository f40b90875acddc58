package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Defaults used when neither the yaml config nor flags override a field.
const (
	DefaultListenAddr        = ":8085"
	DefaultWALDir            = "./wal/state"
	defaultInitialPrice      = "12.40"
	defaultNudgeInterval     = 30 * time.Second
	defaultHeadlineDelayMin  = 60 * time.Second
	defaultHeadlineDelayMode = 120 * time.Second
	defaultHeadlineDelayMax  = 240 * time.Second
)

// Config drives the simulator wiring: market seed, scheduler cadences,
// persistence location and the dashboard listener.
type Config struct {
	InitialPrice      decimal.Decimal
	NudgeInterval     time.Duration
	HeadlineDelayMin  time.Duration
	HeadlineDelayMode time.Duration
	HeadlineDelayMax  time.Duration
	WALDir            string
	ListenAddr        string
	TLSDomains        []string
	CertCacheDir      string
}

type configTmp struct {
	InitialPrice      string        `yaml:"initial_price,omitempty"`
	NudgeInterval     time.Duration `yaml:"nudge_interval,omitempty"`
	HeadlineDelayMin  time.Duration `yaml:"headline_delay_min,omitempty"`
	HeadlineDelayMode time.Duration `yaml:"headline_delay_mode,omitempty"`
	HeadlineDelayMax  time.Duration `yaml:"headline_delay_max,omitempty"`
	WALDir            string        `yaml:"wal_dir,omitempty"`
	ListenAddr        string        `yaml:"listen_addr,omitempty"`
	TLSDomains        []string      `yaml:"tls_domains,omitempty"`
	CertCacheDir      string        `yaml:"cert_cache_dir,omitempty"`
}

// Get reads configuration from the --config yaml file when provided,
// otherwise from CLI flags.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	price := flag.String("price", defaultInitialPrice, "initial share price, example: 12.40")
	nudge := flag.Duration("nudgeinterval", defaultNudgeInterval, "price nudge interval")
	walDir := flag.String("waldir", DefaultWALDir, "state snapshot WAL directory")
	listen := flag.String("listen", DefaultListenAddr, "dashboard listen address")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	initialPrice, err := decimal.NewFromString(*price)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect --price param (must be a decimal), error: %w", err)
	}
	if !initialPrice.IsPositive() {
		return Config{}, fmt.Errorf("invalid --price provided, --price=%s", *price)
	}

	return Config{
		InitialPrice:      initialPrice,
		NudgeInterval:     *nudge,
		HeadlineDelayMin:  defaultHeadlineDelayMin,
		HeadlineDelayMode: defaultHeadlineDelayMode,
		HeadlineDelayMax:  defaultHeadlineDelayMax,
		WALDir:            *walDir,
		ListenAddr:        *listen,
	}, nil
}

func getYaml(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var tmp configTmp
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := Config{
		NudgeInterval:     defaultNudgeInterval,
		HeadlineDelayMin:  defaultHeadlineDelayMin,
		HeadlineDelayMode: defaultHeadlineDelayMode,
		HeadlineDelayMax:  defaultHeadlineDelayMax,
		WALDir:            DefaultWALDir,
		ListenAddr:        DefaultListenAddr,
		TLSDomains:        tmp.TLSDomains,
		CertCacheDir:      tmp.CertCacheDir,
	}

	if tmp.InitialPrice == "" {
		tmp.InitialPrice = defaultInitialPrice
	}
	cfg.InitialPrice, err = decimal.NewFromString(tmp.InitialPrice)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'initial_price' param in yaml config (must be a decimal), error: %w", err)
	}
	if !cfg.InitialPrice.IsPositive() {
		return Config{}, fmt.Errorf("'initial_price' must be positive, got %s", tmp.InitialPrice)
	}

	if tmp.NudgeInterval > 0 {
		cfg.NudgeInterval = tmp.NudgeInterval
	}
	if tmp.HeadlineDelayMin > 0 {
		cfg.HeadlineDelayMin = tmp.HeadlineDelayMin
	}
	if tmp.HeadlineDelayMode > 0 {
		cfg.HeadlineDelayMode = tmp.HeadlineDelayMode
	}
	if tmp.HeadlineDelayMax > 0 {
		cfg.HeadlineDelayMax = tmp.HeadlineDelayMax
	}
	if tmp.WALDir != "" {
		cfg.WALDir = tmp.WALDir
	}
	if tmp.ListenAddr != "" {
		cfg.ListenAddr = tmp.ListenAddr
	}

	return cfg, nil
}
