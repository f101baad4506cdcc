package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"staffplan-cli/api"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	outputJSON    bool
	outputCompact bool
	cfg           Config
	client        = api.NewClient()
)

type Config struct {
	APIBaseURL string `json:"api_base_url"`
	// CompanyID overrides the company scope from the stored session, for
	// coordinators administering several workspaces.
	CompanyID string `json:"company_id"`
	// DefaultBookingHours pre-fills new assignment rows. The platform default
	// is one hour.
	DefaultBookingHours float64 `json:"default_booking_hours"`
}

var rootCmd = &cobra.Command{
	Use:   "staffplan",
	Short: "Staffplan CLI for resource-allocation bookings",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputJSON && outputCompact {
			return fmt.Errorf("choose either --json or --compact")
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(bookCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(moveCmd())
	rootCmd.AddCommand(resizeCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(projectsCmd())
	rootCmd.AddCommand(typesOfWorkCmd())
	rootCmd.AddCommand(syncCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output JSON")
	rootCmd.PersistentFlags().BoolVar(&outputCompact, "compact", false, "Output compact text")
}

func initConfig() {
	// .env is optional and only used for local overrides.
	_ = godotenv.Load()

	if loaded, err := loadConfig(); err == nil {
		cfg = loaded
	}
	if v := os.Getenv("STAFFPLAN_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("STAFFPLAN_COMPANY_ID"); v != "" {
		cfg.CompanyID = v
	}
	if cfg.APIBaseURL != "" {
		client.BaseURL = cfg.APIBaseURL
	}
	if cfg.DefaultBookingHours <= 0 {
		cfg.DefaultBookingHours = 1
	}
}

func loadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if info.IsDir() {
		return Config{}, fmt.Errorf("config path is a directory: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var conf Config
	if err := json.NewDecoder(file).Decode(&conf); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "staffplan", "config.json"), nil
}
