// Package main provides the partysave demo host: a small shell around the
// savestate engine that mimics a console boot sequence. It opens (or
// creates) an EEPROM image on disk, runs the crash-recovery prompt, and
// reports which screen the game would transition to.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/pigeonhole-games/partysave/pkg/logging"
	"github.com/pigeonhole-games/partysave/pkg/recovery"
	"github.com/pigeonhole-games/partysave/pkg/savestate"
)

const (
	version = "0.1.0"

	// eepromCapacity matches a 4kbit console save chip.
	eepromCapacity = 512
)

// Config holds the demo host configuration. Values from the optional YAML
// config file are overridden by CLI flags.
type Config struct {
	SavePath    string `yaml:"save_path"`
	Volatile    bool   `yaml:"volatile"`
	ShowVersion bool   `yaml:"-"`
	ArmCrash    bool   `yaml:"-"`
}

func main() {
	config, err := parseFlags()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if config.ShowVersion {
		fmt.Printf("partysave v%s\n", version)
		return
	}

	if err := run(config); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func parseFlags() (*Config, error) {
	savePath := flag.String("save", "", "Path to the EEPROM image (default ~/.partysave/eeprom.sav)")
	configPath := flag.String("config", "", "Path to an optional YAML config file")
	volatile := flag.Bool("volatile", false, "Use an in-memory store instead of a file (nothing persists)")
	armCrash := flag.Bool("crash", false, "Arm the crash flag and exit, simulating a crashed session")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	config := &Config{}
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// CLI flags win over config file values.
	if *savePath != "" {
		config.SavePath = *savePath
	}
	if *volatile {
		config.Volatile = true
	}
	config.ArmCrash = *armCrash
	config.ShowVersion = *showVersion

	if config.SavePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		config.SavePath = filepath.Join(homeDir, ".partysave", "eeprom.sav")
	}

	return config, nil
}

func run(config *Config) error {
	logger, logErr := logging.NewLogger("main")
	if logErr != nil {
		log.Printf("Warning: file logging unavailable: %v", logErr)
	}
	defer logger.Close()

	store, err := openStore(config)
	if err != nil {
		return err
	}

	game := newDemoGame()
	engine := savestate.NewEngine(store, game, logger)
	engine.Initialize()

	if config.ArmCrash {
		return armCrash(engine)
	}

	nav := &consoleNavigator{}
	model := recovery.New(engine, nav)
	logger.Infof("recovery prompt starting, mode=%d", model.Mode())

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("recovery prompt failed: %w", err)
	}

	fmt.Printf("Transitioned to: %s\n", nav.level)
	if nav.level == recovery.LevelMinigame {
		fmt.Println(game.Summary())
	}
	return nil
}

func openStore(config *Config) (savestate.Store, error) {
	if config.Volatile {
		return savestate.NewMemStore(eepromCapacity), nil
	}
	store, err := savestate.NewFileStore(config.SavePath, eepromCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to open save store: %w", err)
	}
	return store, nil
}

// armCrash saves a full session snapshot, which sets the persisted crash
// flag, then exits without clearing it. The next run sees a crashed
// session and offers recovery.
func armCrash(engine *savestate.Engine) error {
	if !engine.Available() {
		return fmt.Errorf("no store available, cannot arm crash flag")
	}
	engine.Save(false)
	fmt.Println("Crash flag armed. Run again to see the recovery prompt.")
	return nil
}

// consoleNavigator records the level transition the prompt requested.
type consoleNavigator struct {
	level recovery.Level
}

func (n *consoleNavigator) ChangeLevel(level recovery.Level) {
	n.level = level
}
