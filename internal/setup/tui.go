// Package setup provides the first-run terminal wizard that writes a yaml
// config file for the simulator.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// generatedConfig mirrors the yaml schema read by config.Get.
type generatedConfig struct {
	InitialPrice      string        `yaml:"initial_price"`
	NudgeInterval     time.Duration `yaml:"nudge_interval"`
	HeadlineDelayMin  time.Duration `yaml:"headline_delay_min"`
	HeadlineDelayMode time.Duration `yaml:"headline_delay_mode"`
	HeadlineDelayMax  time.Duration `yaml:"headline_delay_max"`
	WALDir            string        `yaml:"wal_dir"`
	ListenAddr        string        `yaml:"listen_addr"`
}

// RunTUI launches the terminal configuration wizard and writes
// config.gen.yaml on confirmation.
func RunTUI() error {
	priceStr := "12.40"
	nudgeIntervalStr := "30s"
	headlineMinStr := "1m"
	headlineModeStr := "2m"
	headlineMaxStr := "4m"
	walDir := "./wal/state"
	listenAddr := ":8085"
	confirm := false

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("MARKET SIMULATOR CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("A fictitious market, configured in style.\n"))

	fmt.Println(stepStyle.Render("STEP 1: MARKET"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Initial Share Price").
				Description("USD per share (e.g. 12.40)").
				Value(&priceStr).
				Validate(func(s string) error {
					price, err := decimal.NewFromString(s)
					if err != nil {
						return fmt.Errorf("must be a decimal number")
					}
					if !price.IsPositive() {
						return fmt.Errorf("must be positive")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("MARKET SIMULATOR CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: SCHEDULERS"))
	validateDuration := func(s string) error {
		_, err := time.ParseDuration(s)
		return err
	}
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Price Nudge Interval").
				Description("Duration string (e.g. 30s, 1m)").
				Value(&nudgeIntervalStr).
				Validate(validateDuration),
			huh.NewInput().
				Title("Headline Delay Min").
				Value(&headlineMinStr).
				Validate(validateDuration),
			huh.NewInput().
				Title("Headline Delay Mode").
				Value(&headlineModeStr).
				Validate(validateDuration),
			huh.NewInput().
				Title("Headline Delay Max").
				Value(&headlineMaxStr).
				Validate(validateDuration),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("MARKET SIMULATOR CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: RUNTIME"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Snapshot WAL Directory").
				Value(&walDir),
			huh.NewInput().
				Title("Dashboard Listen Address").
				Description("host:port (e.g. :8085)").
				Value(&listenAddr),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("MARKET SIMULATOR CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Initial Price: %s\nNudge Interval: %s\nHeadline Delays: %s / %s / %s\nWAL Dir: %s\nListen: %s\n",
		priceStr, nudgeIntervalStr, headlineMinStr, headlineModeStr, headlineMaxStr, walDir, listenAddr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	nudgeInterval, _ := time.ParseDuration(nudgeIntervalStr)
	headlineMin, _ := time.ParseDuration(headlineMinStr)
	headlineMode, _ := time.ParseDuration(headlineModeStr)
	headlineMax, _ := time.ParseDuration(headlineMaxStr)

	data, err := yaml.Marshal(generatedConfig{
		InitialPrice:      priceStr,
		NudgeInterval:     nudgeInterval,
		HeadlineDelayMin:  headlineMin,
		HeadlineDelayMode: headlineMode,
		HeadlineDelayMax:  headlineMax,
		WALDir:            walDir,
		ListenAddr:        listenAddr,
	})
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("Saved " + filename))
	return nil
}
