package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"worksim/internal/config"
	"worksim/internal/db"
	"worksim/internal/gen"
	"worksim/internal/migrate"
	"worksim/internal/pipeline"
	"worksim/internal/repo"
	"worksim/internal/research"
	"worksim/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "ws",
	Short: "Worksim CLI",
	Long: `Worksim generates a synthetic project-management workspace: one
organization with users, teams, projects, tasks and their satellite
records, written to a SQLite database. Timestamps respect causality
(nothing predates its parent, nothing postdates the run), and a fixed
seed reproduces the same dataset.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("WS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().String("config", "", "config file (default <workspace>/ws.yml)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func registerCommands() {
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(initCmd())
}

func loadConfig() (*config.Config, error) {
	if path := viper.GetString("config"); path != "" {
		return config.FromFile(path)
	}
	return config.LoadOptional(viper.GetString("workspace"))
}

func newLogger() (*zap.Logger, error) {
	if viper.GetBool("verbose") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func dbConfig(cfg *config.Config) db.Config {
	return db.Config{
		Workspace: viper.GetString("workspace"),
		Path:      cfg.Database.Path,
	}
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := db.Open(dbConfig(cfg))
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	return fn(ctx, repo.Repo{DB: conn})
}

func generateCmd() *cobra.Command {
	var (
		seed        uint64
		companySize int
		orgName     string
		reset       bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a full dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Generation.Seed
			}
			if !cmd.Flags().Changed("company-size") {
				companySize = cfg.Organization.CompanySize
			}
			if orgName == "" {
				orgName = cfg.Organization.Name
			}

			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			data, err := research.Load(cfg.Research.Dir)
			if err != nil {
				return err
			}

			dbCfg := dbConfig(cfg)
			if reset || cfg.Database.ResetOnRun {
				if err := removeDatabase(dbCfg); err != nil {
					return err
				}
			}
			conn, err := db.Open(dbCfg)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			r := repo.Repo{DB: conn}
			if err := requireEmpty(cmd.Context(), r); err != nil {
				return err
			}

			p := &pipeline.Pipeline{
				Log:         logger,
				Gen:         gen.New(seed, time.Now(), cfg.Generation.WindowDays, data),
				Repo:        r,
				OrgName:     orgName,
				CompanySize: companySize,
			}
			res, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (overrides config)")
	cmd.Flags().IntVar(&companySize, "company-size", 0, "user head count (overrides config)")
	cmd.Flags().StringVar(&orgName, "org-name", "", "organization name (overrides config)")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete any existing database first")
	return cmd
}

func requireEmpty(ctx context.Context, r repo.Repo) error {
	counts, err := r.TableCounts(ctx)
	if err != nil {
		return err
	}
	if counts["organizations"] > 0 {
		return fmt.Errorf("database already contains a dataset; re-run with --reset")
	}
	return nil
}

func removeDatabase(cfg db.Config) error {
	path := db.Path(cfg)
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Row counts and database size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				counts, err := r.TableCounts(ctx)
				if err != nil {
					return err
				}
				var size int64
				if fi, err := os.Stat(db.Path(dbConfig(cfg))); err == nil {
					size = fi.Size()
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"counts": counts, "db_size_bytes": size})
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Table", "Rows"})
				tables := make([]string, 0, len(counts))
				for t := range counts {
					tables = append(tables, t)
				}
				sort.Strings(tables)
				total := 0
				for _, t := range tables {
					tw.AppendRow(table.Row{t, counts[t]})
					total += counts[t]
				}
				tw.AppendFooter(table.Row{"total", total})
				tw.Render()
				fmt.Printf("database size: %.1f MB\n", float64(size)/(1<<20))
				return nil
			})
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check referential integrity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				violations, err := r.ValidateForeignKeys(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"ok": len(violations) == 0, "violations": violations})
				}
				if len(violations) == 0 {
					fmt.Println("ok: no foreign key violations")
					return nil
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Table", "RowID", "Parent"})
				for _, v := range violations {
					tw.AppendRow(table.Row{v.Table, v.RowID, v.Parent})
				}
				tw.Render()
				return fmt.Errorf("%d foreign key violations", len(violations))
			})
		},
	}
}

func resetCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the generated database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to delete without --force")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dbCfg := dbConfig(cfg)
			if err := removeDatabase(dbCfg); err != nil {
				return err
			}
			fmt.Println("deleted", db.Path(dbCfg))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "confirm deletion")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the read-only inspection API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if basePath == "" {
				basePath = cfg.Server.BasePath
			}
			conn, err := db.Open(dbConfig(cfg))
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			handler, err := server.New(server.Config{Repo: repo.Repo{DB: conn}, BasePath: basePath})
			if err != nil {
				return err
			}
			fmt.Printf("listening on %s (base path %s)\n", addr, basePath)
			return http.ListenAndServe(addr, handler)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (overrides config)")
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default ws.yml to the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
}

func printResult(res *pipeline.Result) error {
	if viper.GetBool("json") {
		return printJSON(res)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Table", "Rows"})
	tables := make([]string, 0, len(res.Counts))
	for t := range res.Counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	total := 0
	for _, t := range tables {
		tw.AppendRow(table.Row{t, res.Counts[t]})
		total += res.Counts[t]
	}
	tw.AppendFooter(table.Row{"total", total})
	tw.Render()
	if n := len(res.Violations); n > 0 {
		fmt.Printf("warning: %d foreign key violations\n", n)
	}
	fmt.Printf("generated in %s\n", res.Elapsed.Round(time.Millisecond))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
