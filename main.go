// Package main provides the chatview CLI entry point.
// chatview converts meeting-transcript DOCX files into chat-view markup.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/chatview/cmd"
	"github.com/otherjamesbrown/chatview/config"
	"github.com/otherjamesbrown/chatview/pkg/buildinfo"
	"github.com/otherjamesbrown/chatview/pkg/logging"
)

// Global flags and state.
var (
	cfgFile string
	debug   bool
	logJSON bool

	// cfg holds the loaded configuration.
	cfg *config.CLIConfig

	// deps is shared by every subcommand so they see the loaded cfg.
	deps = cmd.DefaultDeps()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "chatview",
	Short: "Convert meeting transcripts to chat-view markup",
	Long: `chatview turns meeting-transcript Word documents (.docx) into chat-view
markup: one header per turn carrying the speaker's role, name, timestamp and
icon, followed by what they said.

Three transcript layouts are recognised automatically (simple-label,
timed-caption, legacy). Speaker portraits embedded in the document become
icons; speakers without one get an emoji.

COMMON WORKFLOWS:
  Convert to stdout:     chatview convert meeting.docx
  Convert a batch:       chatview convert *.docx --output-dir ./chat
  Check a document:      chatview inspect meeting.docx
  Structured export:     chatview convert meeting.docx --format json

Run 'chatview <command> --help' for flags and examples.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		// Skip initialization for commands that don't need it.
		if c.Name() == "version" || c.Name() == "help" || c.Name() == "completion" {
			return nil
		}

		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}

		loaded, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		cfg = loaded

		// Override with command-line flags.
		if debug {
			cfg.Debug = true
		}
		if logJSON {
			cfg.LogJSON = true
		}

		deps.Config = cfg
		return nil
	},
}

// loadConfig honours --config before falling back to the default location.
func loadConfig() (*config.CLIConfig, error) {
	if cfgFile != "" {
		path, err := config.ExpandPath(cfgFile)
		if err != nil {
			return nil, err
		}
		return config.LoadConfigFrom(path)
	}
	return config.LoadConfig()
}

var versionOutput string

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version, commit hash, and build time of chatview.

Examples:
  chatview version
  chatview version -o json`,
	RunE: func(c *cobra.Command, args []string) error {
		info := buildinfo.Get("chatview")
		out := c.OutOrStdout()

		switch versionOutput {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		case "yaml":
			enc := yaml.NewEncoder(out)
			defer enc.Close()
			return enc.Encode(info)
		case "text", "":
			fmt.Fprintf(out, "chatview version %s\n", info.Version)
			fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
			fmt.Fprintf(out, "  built:      %s\n", info.BuildTime)
			fmt.Fprintf(out, "  go:         %s (%s)\n", info.GoVersion, info.Platform)
			return nil
		default:
			return fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", versionOutput)
		}
	},
}

// configCmd manages CLI configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `View and modify the chatview configuration settings.`,
}

// configShowCmd displays current configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after file, environment and flag overrides.`,
	RunE: func(c *cobra.Command, args []string) error {
		if cfg == nil {
			loaded, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			cfg = loaded
		}

		configPath := cfgFile
		if configPath == "" {
			configPath, _ = config.ConfigPath()
		}

		out := c.OutOrStdout()
		fmt.Fprintln(out, "Current configuration:")
		fmt.Fprintf(out, "  Config file:      %s\n", configPath)
		fmt.Fprintf(out, "  Merge speakers:   %t\n", cfg.MergeConsecutiveSpeakers)
		fmt.Fprintf(out, "  Show timestamp:   %t\n", cfg.ShowTimestamp)
		fmt.Fprintf(out, "  Show icon:        %t\n", cfg.ShowIcon)
		fmt.Fprintf(out, "  Icon mode:        %s\n", cfg.IconOutputMode)
		fmt.Fprintf(out, "  Output directory: %s\n", valueOrDefault(cfg.OutputDirectory, "(next to input)"))
		fmt.Fprintf(out, "  Output format:    %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "  Log level:        %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "  Log JSON:         %t\n", cfg.LogJSON)
		fmt.Fprintf(out, "  Debug:            %t\n", cfg.Debug)
		return nil
	},
}

// configInitCmd initializes configuration.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with default values if one doesn't exist.`,
	RunE: func(c *cobra.Command, args []string) error {
		configPath, err := config.ConfigPath()
		if err != nil {
			return fmt.Errorf("getting config path: %w", err)
		}

		out := c.OutOrStdout()
		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(out, "Configuration file already exists: %s\n", configPath)
			fmt.Fprintln(out, "Use 'chatview config show' to view current settings.")
			return nil
		}

		defaultCfg := config.DefaultConfig()
		if err := config.SaveConfig(defaultCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Fprintf(out, "Created configuration file: %s\n", configPath)
		fmt.Fprintln(out, "\nDefault settings:")
		fmt.Fprintf(out, "  Show timestamp: %t\n", defaultCfg.ShowTimestamp)
		fmt.Fprintf(out, "  Show icon:      %t\n", defaultCfg.ShowIcon)
		fmt.Fprintf(out, "  Icon mode:      %s\n", defaultCfg.IconOutputMode)
		fmt.Fprintf(out, "  Output format:  %s\n", defaultCfg.OutputFormat)
		return nil
	},
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Available keys:
  merge_consecutive_speakers  - Merge back-to-back turns (true/false)
  show_timestamp              - Include {timestamp} in headers (true/false)
  show_icon                   - Include speaker icons in headers (true/false)
  icon_output_mode            - file or inline
  output_directory            - Default output directory (supports ~)
  output_format               - chatview, json, or yaml
  log_level                   - debug, info, warn, or error
  log_json                    - JSON log lines on stderr (true/false)
  debug                       - Enable debug logging (true/false)

Examples:
  chatview config set merge_consecutive_speakers true
  chatview config set icon_output_mode inline
  chatview config set output_directory ~/transcripts/chat`,
	Args: cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		currentCfg, err := config.LoadConfig()
		if err != nil {
			currentCfg = config.DefaultConfig()
		}

		if err := setConfigValue(currentCfg, key, value); err != nil {
			return err
		}
		if err := currentCfg.Validate(); err != nil {
			return err
		}

		if err := config.SaveConfig(currentCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Fprintf(c.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

func setConfigValue(c *config.CLIConfig, key, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s value: %s (must be true or false)", key, value)
		}
		return b, nil
	}

	var err error
	switch key {
	case "merge_consecutive_speakers":
		c.MergeConsecutiveSpeakers, err = parseBool()
	case "show_timestamp":
		c.ShowTimestamp, err = parseBool()
	case "show_icon":
		c.ShowIcon, err = parseBool()
	case "icon_output_mode":
		c.IconOutputMode = config.IconOutputMode(value)
	case "output_directory":
		if _, err := config.ExpandPath(value); err != nil {
			return fmt.Errorf("invalid output directory: %w", err)
		}
		// Keep the unexpanded form for readability.
		c.OutputDirectory = value
	case "output_format":
		c.OutputFormat = config.OutputFormat(value)
	case "log_level":
		c.LogLevel = logging.Level(value)
	case "log_json":
		c.LogJSON, err = parseBool()
	case "debug":
		c.Debug, err = parseBool()
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return err
}

// completionCmd generates shell completion scripts.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for chatview.

To load completions:

Bash:
  $ source <(chatview completion bash)

Zsh:
  $ chatview completion zsh > "${fpath[1]}/_chatview"

Fish:
  $ chatview completion fish | source

PowerShell:
  PS> chatview completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(c *cobra.Command, args []string) error {
		out := c.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func valueOrDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func init() {
	// Global flags.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.chatview/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON lines")

	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "text", "Output format: text, json, yaml")

	rootCmd.AddGroup(
		&cobra.Group{ID: "transcripts", Title: "Transcripts:"},
		&cobra.Group{ID: "setup", Title: "Setup:"},
	)

	convertCmd := cmd.NewConvertCommand(deps)
	convertCmd.GroupID = "transcripts"
	rootCmd.AddCommand(convertCmd)

	inspectCmd := cmd.NewInspectCommand(deps)
	inspectCmd.GroupID = "transcripts"
	rootCmd.AddCommand(inspectCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.GroupID = "setup"
	rootCmd.AddCommand(configCmd)

	versionCmd.GroupID = "setup"
	rootCmd.AddCommand(versionCmd)
	completionCmd.GroupID = "setup"
	rootCmd.AddCommand(completionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
