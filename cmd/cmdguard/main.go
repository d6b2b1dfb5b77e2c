// cmdguard validates a corpus of command documents: it extracts code
// blocks, matches them against a tiered dangerous-pattern catalog,
// optionally re-verifies flagged snippets in a container sandbox, and
// persists a machine-readable command registry.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdguard/cmdguard/internal/api"
	"github.com/cmdguard/cmdguard/internal/catalog"
	"github.com/cmdguard/cmdguard/internal/logging"
	"github.com/cmdguard/cmdguard/internal/pipeline"
	"github.com/cmdguard/cmdguard/internal/report"
	"github.com/cmdguard/cmdguard/internal/reporting"
	"github.com/cmdguard/cmdguard/internal/sandbox"
)

var version = "0.4.0"

func main() {
	var debug bool

	rootCmd := &cobra.Command{
		Use:     "cmdguard",
		Short:   "cmdguard - safety and quality validation for command documents",
		Long:    "Static analysis for command document corpora: dangerous-pattern matching, sandboxed re-verification, quality scoring, and registry generation.",
		Version: version,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(validateCmd(&debug))
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(serveCmd(&debug))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func validateCmd(debug *bool) *cobra.Command {
	var (
		registryPath string
		rulesDir     string
		outputFormat string
		outputPath   string
		noSandbox    bool
		ci           bool
	)

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a corpus of command documents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			log, err := logging.New(*debug)
			if err != nil {
				return err
			}
			defer log.Sync()

			cat, err := catalog.LoadOverlay(catalog.Builtin(), rulesDir)
			if err != nil {
				return err
			}

			if !ci && os.Getenv("CI") != "" {
				ci = true
			}

			opts := pipeline.Options{
				Root:           root,
				RegistryPath:   registryPath,
				RulesDir:       rulesDir,
				CI:             ci,
				DisableSandbox: noSandbox,
			}
			v := pipeline.New(log, cat, sandbox.NewDocker(), opts)
			result, err := v.Run(context.Background())
			if err != nil {
				fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
				os.Exit(1)
			}

			dest := os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return err
				}
				defer f.Close()
				dest = f
			}
			switch strings.ToLower(outputFormat) {
			case "json":
				out, err := reporting.JSON(result.Report)
				if err != nil {
					return err
				}
				fmt.Fprintln(dest, out)
			default:
				report.Render(dest, result.Report)
			}

			// Exit contract: zero errors passes regardless of warnings.
			if len(result.Report.Errors) > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&registryPath, "registry", "command-registry.json", "Registry snapshot output path")
	cmd.Flags().StringVar(&rulesDir, "rules-dir", "", "Directory of YAML overlay rules")
	cmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&noSandbox, "no-sandbox", false, "Disable container re-verification")
	cmd.Flags().BoolVar(&ci, "ci", false, "CI mode (softer sandbox-unavailable wording)")
	return cmd
}

func rulesCmd() *cobra.Command {
	var rulesDir string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the hazard pattern catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadOverlay(catalog.Builtin(), rulesDir)
			if err != nil {
				return err
			}
			fmt.Printf("Catalog %s (%d rules):\n\n", cat.Version, cat.Len())
			for _, rule := range cat.Rules() {
				fmt.Printf("  [%-8s] %-12s %-12s %s\n",
					strings.ToUpper(string(rule.Severity)), rule.ID, rule.Category, rule.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesDir, "rules-dir", "", "Directory of YAML overlay rules")
	return cmd
}

func serveCmd(debug *bool) *cobra.Command {
	var (
		port     int
		rulesDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the cmdguard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(*debug)
			if err != nil {
				return err
			}
			defer log.Sync()

			cat, err := catalog.LoadOverlay(catalog.Builtin(), rulesDir)
			if err != nil {
				return err
			}
			return api.StartServer(log, cat, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Server port")
	cmd.Flags().StringVar(&rulesDir, "rules-dir", "", "Directory of YAML overlay rules")
	return cmd
}
