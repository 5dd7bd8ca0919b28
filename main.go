package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	envFile string
)

// version is the application version, set via ldflags.
var version string = "dev"

// settings is the flat view of everything viper resolved for one run.
type settings struct {
	Root          string
	Output        string
	ExcludeDirs   []string
	Exclude       []string
	Gitignore     bool
	LanguagesFile string
	Detect        bool
	Tokens        bool
	Tokenizer     TokenizerOptions
	Clipboard     bool
	PDF           string
	Repo          string
	Pick          bool
	Verbose       bool
	LogFormat     string
}

var rootCmd = &cobra.Command{
	Use:   "mddoc [ROOT]",
	Short: "mddoc writes a directory's structure and file contents into one Markdown document.",
	Long: `mddoc walks a project directory (by default the directory holding the
mddoc binary), lists its folders and files as a tree and appends the content of
every file in a fenced code block, all in a single Markdown file.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := loadSettings()
		if len(args) == 1 {
			s.Root = args[0]
		}
		logger := newLogger(os.Stderr, s.Verbose, s.LogFormat)
		if err := run(s, logger); err != nil {
			logger.Error("documentation generation failed", "error", err)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/mddoc/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from a dotenv file")

	rootCmd.Flags().String("root", "", "Directory to document (default: directory of the mddoc binary)")
	viper.BindPFlag("root", rootCmd.Flags().Lookup("root"))
	rootCmd.Flags().StringP("output", "o", DefaultOutputFile, "Name of the generated Markdown file")
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))

	// Filtering
	rootCmd.Flags().StringSlice("exclude-dir", DefaultExcludedDirs, "Directory names that are never descended into")
	viper.BindPFlag("exclude_dirs", rootCmd.Flags().Lookup("exclude-dir"))
	rootCmd.Flags().StringP("exclude", "e", "", "Additional file patterns to exclude (comma-separated)")
	viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))
	rootCmd.Flags().Bool("gitignore", false, "Respect the root .gitignore file")
	viper.BindPFlag("gitignore", rootCmd.Flags().Lookup("gitignore"))

	// Languages
	rootCmd.Flags().String("languages", "", "YAML file with extension to fence tag overrides")
	viper.BindPFlag("languages_file", rootCmd.Flags().Lookup("languages"))
	rootCmd.Flags().Bool("detect", false, "Detect the language of files with unknown extensions from their content")
	viper.BindPFlag("detect", rootCmd.Flags().Lookup("detect"))

	// Token Counting
	rootCmd.Flags().Bool("tokens", false, "Count tokens of the documented content")
	viper.BindPFlag("tokens", rootCmd.Flags().Lookup("tokens"))
	rootCmd.Flags().String("tokenizer", "tiktoken", "Tokenizer to use: tiktoken or huggingface")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().String("model", "", "Model name for tokenizer (e.g., gpt-4o, gpt2)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().String("tokenizer-file", "", "Path to local tokenizer file")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Extra outputs
	rootCmd.Flags().BoolP("clipboard", "c", false, "Also copy the document to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.Flags().String("pdf", "", "Also render the document as a PDF to this path")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))

	// Sources
	rootCmd.Flags().String("repo", "", "Clone and document a git repository; the output goes to the working directory")
	viper.BindPFlag("repo", rootCmd.Flags().Lookup("repo"))
	rootCmd.Flags().Bool("pick", false, "Interactively pick the directory to document under the root")
	viper.BindPFlag("pick", rootCmd.Flags().Lookup("pick"))

	rootCmd.Flags().BoolP("verbose", "v", false, "Log every file as it is processed")
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
	rootCmd.Flags().String("log-format", "text", "Log format: text or json")
	viper.BindPFlag("log_format", rootCmd.Flags().Lookup("log-format"))

	viper.SetDefault("output", DefaultOutputFile)
	viper.SetDefault("exclude_dirs", DefaultExcludedDirs)
	viper.SetDefault("tokenizer", "tiktoken")
	viper.SetDefault("log_format", "text")
}

// initConfig reads in the config file, an optional dotenv file and ENV variables.
func initConfig() {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading env file %s: %v\n", envFile, err)
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mddoc"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("MDDOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
	}
}

// loadSettings snapshots viper into a settings value.
func loadSettings() settings {
	return settings{
		Root:          viper.GetString("root"),
		Output:        viper.GetString("output"),
		ExcludeDirs:   viper.GetStringSlice("exclude_dirs"),
		Exclude:       parsePatterns(strings.Join(viper.GetStringSlice("exclude"), ",")),
		Gitignore:     viper.GetBool("gitignore"),
		LanguagesFile: viper.GetString("languages_file"),
		Detect:        viper.GetBool("detect"),
		Tokens:        viper.GetBool("tokens"),
		Tokenizer: TokenizerOptions{
			Type:  viper.GetString("tokenizer"),
			Model: viper.GetString("model"),
			File:  viper.GetString("tokenizer_file"),
		},
		Clipboard: viper.GetBool("clipboard"),
		PDF:       viper.GetString("pdf"),
		Repo:      viper.GetString("repo"),
		Pick:      viper.GetBool("pick"),
		Verbose:   viper.GetBool("verbose"),
		LogFormat: viper.GetString("log_format"),
	}
}

// buildConfig turns settings into a Documenter config. It does not resolve
// the root; ResolveConfig does that.
func buildConfig(s settings, logger *slog.Logger) Config {
	cfg := Config{
		Root:         s.Root,
		OutputFile:   s.Output,
		ExcludedDirs: s.ExcludeDirs,
		Excludes:     s.Exclude,
		Gitignore:    s.Gitignore,
		Detect:       s.Detect,
	}

	overrides, err := LoadLanguageOverrides(s.LanguagesFile)
	if err != nil {
		logger.Warn("could not load language overrides, using built-in table", "error", err)
	}
	cfg.Languages = NewLanguageTable(overrides)
	if len(overrides) > 0 {
		logger.Info("loaded language overrides", "extensions", len(overrides), "total", cfg.Languages.Len())
	}
	return cfg
}

// run performs one documentation run end to end.
func run(s settings, logger *slog.Logger) error {
	cfg := buildConfig(s, logger)

	if s.Repo != "" {
		if !isGitURL(s.Repo) {
			logger.Warn("repository URL does not look like a git URL, trying anyway", "repo", s.Repo)
		}
		tempDir, err := cloneGitRepo(s.Repo, os.Stderr, logger)
		if err != nil {
			return err
		}
		defer func() {
			logger.Info("cleaning up temporary directory", "dir", tempDir)
			_ = os.RemoveAll(tempDir)
		}()
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		cfg.Root = tempDir
		cfg.OutputDir = wd
	}

	cfg, err := ResolveConfig(cfg, logger)
	if err != nil {
		return err
	}

	if s.Pick {
		picked, err := runInteractivePicker(cfg.Root, cfg.ExcludedDirs)
		if err != nil {
			return err
		}
		if picked == "" {
			logger.Info("interactive selection aborted")
			return nil
		}
		cfg.Root = picked
		logger.Info("documenting picked directory", "root", picked)
	}

	if s.Tokens {
		tokenizer, err := NewTokenizer(s.Tokenizer, logger)
		if err != nil {
			logger.Warn("token counting disabled", "error", err)
		} else {
			defer tokenizer.Close()
			cfg.Tokenizer = tokenizer
		}
	}

	report, err := NewDocumenter(cfg, logger).Generate()
	if err != nil {
		return err
	}

	if s.PDF != "" {
		if err := generatePDF(report, s.PDF, logger); err != nil {
			logger.Error("error generating PDF", "error", err)
		}
	}

	if s.Clipboard {
		data, err := os.ReadFile(report.OutputPath)
		if err == nil {
			err = clipboard.WriteAll(string(data))
		}
		if err != nil {
			logger.Error("error writing to clipboard", "error", err)
		} else {
			logger.Info("document copied to clipboard")
		}
	}

	fmt.Printf("Documentation generated at %s (%d files, %d errors", report.OutputPath,
		report.Summary.FilesProcessed, report.Summary.FilesErrored)
	if cfg.Tokenizer != nil {
		fmt.Printf(", %d tokens", report.Summary.TotalTokens)
	}
	fmt.Println(")")
	return nil
}

func main() {
	rootCmd.Execute()
}
