package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ebspulse/ebspulse/core/cli/internal"
	"github.com/ebspulse/ebspulse/core/infrastructure/config"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
)

// version stores the version string, set via SetVersion()
var version = "dev"

// SetVersion sets the version string (called from main.init())
func SetVersion(v string) {
	version = v
}

// GetVersion returns the current version string
func GetVersion() string {
	return version
}

var (
	configFile  string
	port        string
	logLevel    int
	verbose     bool
	logTags     string
	logFile     bool
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "ebspulse",
	Short:         "EBS Pulse\nMonitoring reports for Oracle E-Business Suite concurrent requests",
	SilenceUsage:  true,
	SilenceErrors: true, // Errors are already logged, suppress Cobra's error output
}

// completionCmd is a hidden command that prints shell completion scripts
var completionCmd = &cobra.Command{
	Use:          "completion [bash|zsh|fish|powershell]",
	Short:        "Generate shell completion script",
	Hidden:       true,
	ValidArgs:    []string{"bash", "zsh", "fish", "powershell"},
	Args:         cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletion(os.Stdout)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the root command, for tests
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.AddCommand(completionCmd)
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Print the installed version and exit")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "file", "f", "", "Path to a YAML config file (overrides "+config.PathEnvVar+")")
	flags.IntVar(&logLevel, "log-level", 0, "Log level: 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG (overrides config file)")
	flags.BoolVarP(&verbose, "verbose", "", false, "Enable verbose logging (sets log level to DEBUG)")
	flags.StringVar(&logTags, "log-tags", "", "Filter logs by tags (comma-separated, use -tag to exclude). Overrides "+config.EnvLogTags)
	flags.BoolVar(&logFile, "log-file", false, "Stream logs to a file in "+logging.LogDir)

	// Root command should only print help.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		}
		return cmd.Help()
	}
}

// prepareConfig loads the configuration with flag overrides and configures logging
func prepareConfig() (config.Config, error) {
	// Respect CLI log flags for messages emitted while loading.
	if verbose {
		logging.SetLogLevel(logging.LogLevelDebug)
	} else if logLevel > 0 {
		logging.SetLogLevel(logLevel)
	}

	cfg, err := internal.LoadConfig(internal.Flags{
		ConfigFile: configFile,
		Port:       port,
		LogLevel:   logLevel,
		Verbose:    verbose,
		LogTags:    logTags,
		LogFile:    logFile,
	})
	if err != nil {
		return config.Config{}, err
	}

	filePath, err := internal.ConfigureLogging(cfg.Logging)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to initialize log file: %w", err)
	}

	log := logging.New("main")
	if filePath != "" {
		log.Infof("Log file: %s", filePath)
	}
	log.Debugf("Configuration loaded (database %s)", cfg.Database.Redacted())
	return cfg, nil
}
