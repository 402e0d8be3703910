package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/joho/godotenv"
	"github.com/justsurfingit/hunt-assistant/internal/config"
	"github.com/justsurfingit/hunt-assistant/internal/database"
	"github.com/justsurfingit/hunt-assistant/internal/logger"
	"github.com/justsurfingit/hunt-assistant/internal/services"
	"github.com/justsurfingit/hunt-assistant/internal/version"
	"github.com/spf13/cobra"
)

var (
	dbDriver string
	dbURL    string
	outPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:     "huntctl",
	Short:   "Operator tooling for the hunt assistant.",
	Version: version.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long:  `Connects with --driver/--dsn (defaults: HUNT_DB_DRIVER, HUNT_DATABASE_URL) and runs the schema migrations.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dbDriver == "" {
			dbDriver = envOr("HUNT_DB_DRIVER", "postgres")
		}
		if dbURL == "" {
			dbURL = os.Getenv("HUNT_DATABASE_URL")
		}
		if dbURL == "" {
			return fmt.Errorf("database DSN must be set using --dsn or HUNT_DATABASE_URL")
		}

		db, err := database.Connect(config.DatabaseConfig{Driver: dbDriver, URL: dbURL}, logger.New(logLevel, true))
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
		return nil
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the text of a PDF or DOCX résumé",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		text, err := services.NewResumeService().ExtractText(data, fileMimeType(args[0], data))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [markdown-file]",
	Short: "Render a markdown cover letter as DOCX",
	Long:  `Reads markdown from the given file ("-" for stdin) and writes a Word document to --out.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			md  []byte
			err error
		)
		if args[0] == "-" {
			md, err = io.ReadAll(cmd.InOrStdin())
		} else {
			md, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		doc, err := services.NewDocumentService().RenderCoverLetter(string(md))
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := os.WriteFile(outPath, doc, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", outPath, len(doc))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "huntctl %s (commit=%s, built=%s, go=%s)\n",
			version.Version, version.Commit, version.BuildDate, version.GoVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug | info | warn | error")

	migrateCmd.Flags().StringVar(&dbDriver, "driver", "", "postgres | sqlite")
	migrateCmd.Flags().StringVar(&dbURL, "dsn", "", "database connection string")

	renderCmd.Flags().StringVarP(&outPath, "out", "o", services.ExportFileName, "output .docx path")

	rootCmd.AddCommand(migrateCmd, extractCmd, renderCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// fileMimeType goes by extension first and sniffs the bytes otherwise.
func fileMimeType(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return services.MimePDF
	case ".docx":
		return services.MimeDOCX
	}
	detected, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return detected
}
