package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"redcreativa/internal/config"
	"redcreativa/internal/events"
	"redcreativa/internal/infra"
	"redcreativa/internal/logger"
	"redcreativa/internal/models/db_models"
	"redcreativa/internal/seed"
)

var (
	configFile   string
	ownerEmail   string
	fixturesFile string

	db *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:   "redcreativa-seed",
	Short: "Load or remove demo content",
	Long: `redcreativa-seed fills the feature tables with demo content for one owner,
or clears them. Seeding is idempotent: items whose title the owner already has
are skipped.`,
	SilenceUsage:      true,
	PersistentPreRunE: connect,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			infra.ClosePostgresql(db)
		}
		_ = logger.Sync()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the fixtures for the owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeeding(cmd.Context(), "Seeding", func(ctx context.Context, s *seed.Seeder, owner *db_models.Profile, f *seed.Fixtures) ([]seed.Result, error) {
			return s.Seed(ctx, owner.ID, f)
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Hard delete every row of the feature tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, _ := pterm.DefaultSpinner.Start("Clearing feature tables")
		results, err := seed.NewSeeder(db, events.NopPublisher{}).Clear(cmd.Context())
		if err != nil {
			spinner.Fail(err.Error())
			return err
		}
		spinner.Success("Cleared")
		return render(results)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear, then seed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeeding(cmd.Context(), "Resetting", func(ctx context.Context, s *seed.Seeder, owner *db_models.Profile, f *seed.Fixtures) ([]seed.Result, error) {
			return s.Reset(ctx, owner.ID, f)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config.yaml (defaults to ./config.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&ownerEmail, "owner-email", db_models.DemoEmail, "Email of the profile that owns the seeded content")
	rootCmd.PersistentFlags().StringVar(&fixturesFile, "fixtures", "", "YAML fixtures file (defaults to the embedded demo set)")
	rootCmd.AddCommand(seedCmd, clearCmd, resetCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func connect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := logger.InitLogger(cfg.Logging); err != nil {
		return err
	}

	db, err = infra.InitPostgresql(cfg.Database)
	if err != nil {
		return err
	}
	if cfg.Database.AutoMigrate {
		if err := infra.Migrate(db, cfg.Database); err != nil {
			return err
		}
	}
	return nil
}

func loadFixtures() (*seed.Fixtures, error) {
	if fixturesFile == "" {
		return seed.DefaultFixtures()
	}
	data, err := os.ReadFile(fixturesFile)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return seed.ParseFixtures(data)
}

type seedFunc func(ctx context.Context, s *seed.Seeder, owner *db_models.Profile, f *seed.Fixtures) ([]seed.Result, error)

func runSeeding(ctx context.Context, verb string, run seedFunc) error {
	fixtures, err := loadFixtures()
	if err != nil {
		return err
	}
	seeder := seed.NewSeeder(db, events.NopPublisher{})
	owner, err := seeder.ResolveOwner(ctx, ownerEmail)
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("%s content for %s", verb, owner.Email))
	results, err := run(ctx, seeder, owner, fixtures)
	if err != nil {
		spinner.Fail(err.Error())
		_ = render(results)
		return err
	}
	spinner.Success(fmt.Sprintf("Done for %s (%s)", owner.Email, owner.ID))
	return render(results)
}

func render(results []seed.Result) error {
	if len(results) == 0 {
		return nil
	}
	data := pterm.TableData{{"Table", "Created", "Skipped", "Deleted"}}
	for _, r := range results {
		data = append(data, []string{
			r.Kind,
			pterm.LightGreen(r.Created),
			strconv.Itoa(r.Skipped),
			pterm.LightRed(r.Deleted),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
