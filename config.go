package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ModelConfig configures the chat-completion API used for action planning
// and test generation.
type ModelConfig struct {
	BaseURL     string  `json:"baseUrl,omitempty"`     // OpenAI-compatible endpoint
	Model       string  `json:"model"`                 // must support image input
	APIKeyEnv   string  `json:"apiKeyEnv,omitempty"`   // env var holding the credential
	MaxTokens   int     `json:"maxTokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Timeout     int     `json:"timeout,omitempty"` // seconds per request
}

// BrowserConfig configures the chromedp session driven by the agent.
type BrowserConfig struct {
	Headless          bool   `json:"headless,omitempty"`
	ExecutablePath    string `json:"executablePath,omitempty"`
	StepTimeout       int    `json:"stepTimeout,omitempty"` // seconds per browser action
	ScreenshotDir     string `json:"screenshotDir,omitempty"`
	MaxActionsPerStep int    `json:"maxActionsPerStep,omitempty"`
}

// OutputConfig configures where generated test files are written.
type OutputConfig struct {
	Dir string `json:"dir,omitempty"`
}

// HistoryConfig configures the SQLite generation history.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// Config is the main configuration loaded from featwright.config.json
type Config struct {
	Model   ModelConfig    `json:"model"`
	Browser *BrowserConfig `json:"browser,omitempty"`
	Output  *OutputConfig  `json:"output,omitempty"`
	History *HistoryConfig `json:"history,omitempty"`
	Logging *LoggingConfig `json:"logging,omitempty"`
}

// ResolvedConfig is the fully resolved configuration
type ResolvedConfig struct {
	ProjectRoot string
	Config      Config
}

const defaultAPIKeyEnv = "OPENAI_API_KEY"

// ConfigPath returns the path to featwright.config.json
func ConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, "featwright.config.json")
}

// LoadConfig loads and validates featwright.config.json.
// A .env file at the project root is loaded first so apiKeyEnv can
// resolve without exporting the credential in the shell.
func LoadConfig(projectRoot string) (*ResolvedConfig, error) {
	godotenv.Load(filepath.Join(projectRoot, ".env"))

	configPath := ConfigPath(projectRoot)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("featwright.config.json not found\n\nRun 'featwright init' to create one")
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid featwright.config.json: %w", err)
	}

	applyConfigDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &ResolvedConfig{
		ProjectRoot: projectRoot,
		Config:      cfg,
	}, nil
}

// applyConfigDefaults fills in defaults for fields the user left unset.
func applyConfigDefaults(cfg *Config) {
	if cfg.Model.BaseURL == "" {
		cfg.Model.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model.APIKeyEnv == "" {
		cfg.Model.APIKeyEnv = defaultAPIKeyEnv
	}
	if cfg.Model.MaxTokens <= 0 {
		cfg.Model.MaxTokens = 4096
	}
	if cfg.Model.Timeout <= 0 {
		cfg.Model.Timeout = 120
	}

	if cfg.Browser == nil {
		cfg.Browser = &BrowserConfig{Headless: true}
	}
	if cfg.Browser.StepTimeout <= 0 {
		cfg.Browser.StepTimeout = 10
	}
	if cfg.Browser.MaxActionsPerStep <= 0 {
		cfg.Browser.MaxActionsPerStep = 5
	}

	if cfg.Output == nil {
		cfg.Output = &OutputConfig{}
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = filepath.Join("tests", "generated")
	}

	if cfg.History == nil {
		cfg.History = &HistoryConfig{Enabled: true}
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(".featwright", "history.db")
	}

	if cfg.Logging == nil {
		cfg.Logging = DefaultLoggingConfig()
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Model.Model == "" {
		return fmt.Errorf("model.model is required")
	}
	return nil
}

// APIKey resolves the credential from the configured environment variable.
func (cfg *Config) APIKey() (string, error) {
	key := os.Getenv(cfg.Model.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s is not set\n\nExport it or add it to .env at the project root", cfg.Model.APIKeyEnv)
	}
	return key, nil
}

// findGitRoot finds the git root from a starting directory
func findGitRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// GetProjectRoot returns the project root (git root or cwd)
func GetProjectRoot() string {
	cwd, _ := os.Getwd()
	return findGitRoot(cwd)
}

// isCommandAvailable checks if a command is available in PATH
func isCommandAvailable(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// browserCandidates are binary names probed when executablePath is unset.
// chromedp does its own lookup at run time; doctor uses this list to warn early.
var browserCandidates = []string{
	"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless-shell",
}

// findBrowserBinary returns the first available browser binary, or "".
func findBrowserBinary(cfg *BrowserConfig) string {
	if cfg != nil && cfg.ExecutablePath != "" {
		if fileExists(cfg.ExecutablePath) {
			return cfg.ExecutablePath
		}
		return ""
	}
	for _, name := range browserCandidates {
		if isCommandAvailable(name) {
			return name
		}
	}
	return ""
}

// WriteDefaultConfig writes a default featwright.config.json
func WriteDefaultConfig(projectRoot, model string) error {
	if model == "" {
		model = "gpt-4o"
	}
	cfg := Config{
		Model: ModelConfig{
			Model:     model,
			APIKeyEnv: defaultAPIKeyEnv,
			MaxTokens: 4096,
			Timeout:   120,
		},
		Browser: &BrowserConfig{
			Headless:          true,
			StepTimeout:       10,
			MaxActionsPerStep: 5,
		},
		Output: &OutputConfig{
			Dir: filepath.Join("tests", "generated"),
		},
		History: &HistoryConfig{
			Enabled: true,
		},
	}

	return AtomicWriteJSON(ConfigPath(projectRoot), cfg)
}
