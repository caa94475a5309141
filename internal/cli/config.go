package cli

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"deploytrace/internal/config"
	"deploytrace/internal/config/schema"
	coreerrors "deploytrace/internal/core/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the effective deploytrace configuration.

Settings are layered: defaults, then the YAML file, then .env files, then
DEPLOYTRACE_* environment variables.

Commands:
  show      Show the effective configuration
  validate  Check the configuration for errors`,
	}

	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigValidateCmd(a))
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var (
		output   string
		defaults bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration after all sources are applied.

Example:
  deploytrace config show
  deploytrace config show --output table
  deploytrace config show --defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *schema.Root
			if defaults {
				cfg = config.GetDefaultConfig()
			} else {
				m, err := a.load(false)
				if err != nil {
					return a.fail(err)
				}
				cfg = m.Get()
			}

			switch output {
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return a.fail(coreerrors.Wrap(err, coreerrors.CodeInternal, "failed to encode configuration"))
				}
				_, _ = a.out.Write(data)
			case "table":
				fmt.Fprint(a.out, renderTable(cfg))
			default:
				return a.fail(coreerrors.Newf(coreerrors.CodeInvalidParam, "unknown output %q, use yaml or table", output))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format: yaml, table")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Show built-in defaults without reading any source")
	return cmd
}

func newConfigValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		Long: `Load every configuration source and report validation errors.

Example:
  deploytrace config validate -c ./deploytrace.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(false)
			if err != nil {
				return a.fail(err)
			}
			if err := m.Validate(); err != nil {
				return a.fail(err)
			}
			if _, err := config.TraceConfig(m.Get()); err != nil {
				return a.fail(err)
			}

			fmt.Fprintln(a.out, "Configuration is valid")
			return nil
		},
	}
}

func renderTable(cfg *schema.Root) string {
	rows := [][]string{
		{"log.format", cfg.Log.Format},
		{"log.directory", cfg.Log.Directory},
		{"log.file_name", cfg.Log.FileName},
		{"log.max_size_mb", strconv.FormatFloat(cfg.Log.MaxSizeMB, 'f', -1, 64)},
		{"log.console", strconv.FormatBool(cfg.Log.Console)},
		{"log.debug", strconv.FormatBool(cfg.Log.Debug)},
		{"log.continue_on_failure", strconv.FormatBool(cfg.Log.ContinueOnFailure)},
		{"log.disabled", strconv.FormatBool(cfg.Log.Disabled)},
		{"toolkit.name", cfg.Toolkit.Name},
		{"toolkit.phase", cfg.Toolkit.Phase},
		{"toolkit.script_file", cfg.Toolkit.ScriptFile},
		{"toolkit.relaunched", strconv.FormatBool(cfg.Toolkit.Relaunched)},
	}

	var buf bytes.Buffer
	table := tablewriter.NewTable(&buf)
	table.Header([]string{"Key", "Value"})
	table.Bulk(rows)
	table.Render()
	return buf.String()
}
