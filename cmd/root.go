// Package cmd provides CLI commands for metafix.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/metafix/config"
	"github.com/lehigh-university-libraries/metafix/format"
	"github.com/lehigh-university-libraries/metafix/format/dublincore"
	"github.com/lehigh-university-libraries/metafix/namespace"
	"github.com/lehigh-university-libraries/metafix/rules"
)

var (
	cfgFile string
	cfg     *config.Config
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "metafix",
	Short: "Repair malformed Dublin Core and JSON-LD metadata records",
	Long: `Metafix repairs batches of bibliographic metadata records that fail to
parse because of missing namespace declarations, missing container tags,
malformed rdf:Description attributes, stray comments, doubled quoting or a
missing closing brace.

Records that cannot be repaired safely are written to a review directory
and listed in the batch report for manual follow-up.

Settings come from flags, METAFIX_* environment variables and an optional
config.yaml in the working directory or the user config directory.

Examples:
  metafix extract -i records.jsonl.gz -d dc
  metafix check dc -m manifest.json
  metafix repair -m manifest.json -o corrected --report report.json
  metafix audit contexts jsonld`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ./config.yaml or "+config.Dir()+"/config.yaml)")
	pf.StringP("templates", "t", "", "Namespace template set name or YAML file")
	pf.String("rules", "", "Classifier rule set YAML file")

	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(classesCmd)
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"templates":  "templates",
	"rules":      "rules_file",
	"output":     "output_dir",
	"review-dir": "review_dir",
	"workers":    "workers",
	"report":     "report",
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	v, err := config.New(cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	cfg, err = config.Load(v)
	if err != nil {
		return err
	}
	if f := v.ConfigFileUsed(); f != "" {
		slog.Debug("Loaded config", "file", f)
	}

	// Re-register the XML engine so it uses the configured templates.
	tmpl, err := loadTemplates()
	if err != nil {
		return err
	}
	format.Register(dublincore.New(tmpl))
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

func loadTemplates() (*namespace.Templates, error) {
	if cfg.Templates == "" {
		return namespace.Default(), nil
	}
	registry, err := namespace.NewRegistry()
	if err != nil {
		return nil, err
	}
	return registry.Resolve(cfg.Templates)
}

func loadClassifier() (*rules.Classifier, error) {
	if cfg.RulesFile == "" {
		return rules.DefaultClassifier()
	}
	rs, err := rules.LoadRuleSet(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	return rules.NewClassifier(rs)
}
