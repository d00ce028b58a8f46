package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func cmdInit(args []string) {
	force := false
	model := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-f", "--force":
			force = true
		case "--model":
			if i+1 < len(args) {
				model = args[i+1]
				i++
			}
		}
	}

	projectRoot := GetProjectRoot()
	configPath := ConfigPath(projectRoot)
	dataDir := workspaceDir(projectRoot)

	// Check if already initialized
	if fileExists(configPath) && !force {
		fmt.Fprintf(os.Stderr, "featwright.config.json already exists at %s\n", configPath)
		fmt.Fprintln(os.Stderr, "Use --force to overwrite.")
		os.Exit(1)
	}

	if err := WriteDefaultConfig(projectRoot, model); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
		os.Exit(1)
	}

	// Create .featwright directory
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create .featwright directory: %v\n", err)
		os.Exit(1)
	}

	// Create .featwright/.gitignore
	gitignorePath := filepath.Join(dataDir, ".gitignore")
	gitignoreContent := `# Featwright temporary files
featwright.lock
history.db
*.tmp
*/screenshots/
*/logs/
`
	if err := os.WriteFile(gitignorePath, []byte(gitignoreContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write .gitignore: %v\n", err)
	}

	fmt.Println("Initialized featwright:")
	fmt.Printf("  Config: %s\n", configPath)
	fmt.Printf("  Data dir: %s\n", dataDir)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Export your API key (or add it to .env):")
	fmt.Println("       export OPENAI_API_KEY=sk-...")
	fmt.Println("  2. Write a feature file with one Scenario")
	fmt.Println("  3. Run 'featwright run login.feature --url http://localhost:3000'")
}

// parseRunArgs extracts the feature file path and the shared run/record flags.
func parseRunArgs(command string, args []string) (featurePath, targetURL string, wait bool, waitTimeout int) {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	url := fs.String("url", "", "Target URL the scenario runs against (required)")
	waitFlag := fs.Bool("wait", false, "Wait for the target URL to respond before starting")
	waitTimeoutFlag := fs.Int("wait-timeout", 30, "Seconds to wait for the target URL with --wait")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: featwright %s <feature-file> --url URL [options]\n", command)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "Example: featwright %s login.feature --url http://localhost:3000\n", command)
	}

	// Feature file may come before or after the flags
	var flagArgs []string
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") {
			flagArgs = args[i:]
			break
		}
		if featurePath == "" {
			featurePath = arg
		}
	}
	fs.Parse(flagArgs)
	if featurePath == "" && fs.NArg() > 0 {
		featurePath = fs.Arg(0)
	}

	if featurePath == "" {
		fs.Usage()
		os.Exit(1)
	}
	if *url == "" {
		fmt.Fprintln(os.Stderr, "Error: --url is required")
		fmt.Fprintln(os.Stderr, "")
		fs.Usage()
		os.Exit(1)
	}

	return featurePath, *url, *waitFlag, *waitTimeoutFlag
}

func cmdRun(args []string) {
	featurePath, targetURL, wait, waitTimeout := parseRunArgs("run", args)
	runPipeline(featurePath, targetURL, wait, waitTimeout, true)
}

func cmdRecord(args []string) {
	featurePath, targetURL, wait, waitTimeout := parseRunArgs("record", args)
	runPipeline(featurePath, targetURL, wait, waitTimeout, false)
}

// runPipeline records the scenario in the browser and, when generate is set,
// turns the trace into the test artifact. Shared by run and record.
func runPipeline(featurePath, targetURL string, wait bool, waitTimeout int, generate bool) {
	projectRoot := GetProjectRoot()

	cfg, err := LoadConfig(projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scenario, err := ParseFeatureFile(featurePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lock := NewLockFile(projectRoot)
	if err := lock.Acquire(scenario.Slug()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer lock.Release()

	dir := ScenarioDirFor(projectRoot, scenario)
	if err := dir.EnsureExists(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := NewRunLogger(dir.LogsDir(), cfg.Config.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.RunStart(scenario.Name, targetURL, len(scenario.Steps))
	start := time.Now()

	if wait {
		logger.LogPrintln("Waiting for ", targetURL, " ...")
		if err := WaitForTarget(targetURL, time.Duration(waitTimeout)*time.Second); err != nil {
			logger.Error("target not ready", err)
			logger.RunEnd(false, err.Error())
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger.LogPrintln(fmt.Sprintf("Scenario: %s (%d steps)", scenario.Name, len(scenario.Steps)))

	trace, runErr := recordScenario(cfg, scenario, dir, targetURL, logger)

	// Persist whatever was recorded, even on failure. A partial trace is
	// still useful for debugging the step that broke.
	if trace != nil && len(trace.Records) > 0 {
		if err := trace.WriteFile(dir.TracePath()); err != nil {
			logger.Error("failed to write trace", err)
			fmt.Fprintf(os.Stderr, "Warning: failed to write trace: %v\n", err)
		} else {
			logger.TraceWritten(dir.TracePath(), len(trace.Records))
			logger.LogPrintln("Trace: ", dir.TracePath())
		}
	}

	historyRun := &GenerationRun{
		Scenario:  scenario.Name,
		Slug:      scenario.Slug(),
		TargetURL: targetURL,
		Model:     cfg.Config.Model.Model,
		StepCount: len(scenario.Steps),
	}
	if trace != nil {
		historyRun.ActionCount = len(trace.Summarize().Statements)
	}

	if runErr != nil {
		logger.Error("run failed", runErr)
		logger.RunEnd(false, runErr.Error())
		historyRun.Success = false
		historyRun.Error = runErr.Error()
		historyRun.DurationMs = time.Since(start).Milliseconds()
		if err := recordHistory(cfg, historyRun); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record history: %v\n", err)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}

	if !generate {
		logger.RunEnd(true, fmt.Sprintf("recorded %d actions", historyRun.ActionCount))
		historyRun.Success = true
		historyRun.DurationMs = time.Since(start).Milliseconds()
		if err := recordHistory(cfg, historyRun); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record history: %v\n", err)
		}
		fmt.Println()
		fmt.Printf("Recorded %d actions in %s\n", historyRun.ActionCount, FormatDuration(time.Since(start)))
		fmt.Printf("Run 'featwright generate %s' to generate the test file.\n", featurePath)
		return
	}

	artifactPath, usage, genErr := generateArtifact(cfg, scenario, targetURL, trace.Summarize(), logger)
	historyRun.TotalTokens = usage.TotalTokens
	historyRun.DurationMs = time.Since(start).Milliseconds()

	if genErr != nil {
		logger.Error("generation failed", genErr)
		logger.RunEnd(false, genErr.Error())
		historyRun.Success = false
		historyRun.Error = genErr.Error()
		if err := recordHistory(cfg, historyRun); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record history: %v\n", err)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", genErr)
		os.Exit(1)
	}

	historyRun.Success = true
	historyRun.ArtifactPath = artifactPath
	logger.RunEnd(true, "artifact written: "+artifactPath)
	if err := recordHistory(cfg, historyRun); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record history: %v\n", err)
	}

	fmt.Println()
	fmt.Printf("Generated %s in %s (%d tokens)\n", artifactPath, FormatDuration(time.Since(start)), usage.TotalTokens)
}

// recordScenario drives the browser agent and returns the recorded trace.
// On failure the partial trace is returned alongside the error.
func recordScenario(cfg *ResolvedConfig, scenario *Scenario, dir *ScenarioDir, targetURL string, logger *RunLogger) (*Trace, error) {
	apiKey, err := cfg.Config.APIKey()
	if err != nil {
		return nil, err
	}
	client := NewClient(&cfg.Config.Model, apiKey)

	screenshotDir := dir.ScreenshotsDir()
	if cfg.Config.Browser.ScreenshotDir != "" {
		screenshotDir = filepath.Join(cfg.ProjectRoot, cfg.Config.Browser.ScreenshotDir, dir.Slug)
	}

	browser := NewBrowser(cfg.Config.Browser, screenshotDir)
	if err := browser.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	defer browser.Close()

	agent := NewAgent(browser, client, cfg.Config.Browser, logger)
	return agent.Run(context.Background(), scenario, targetURL)
}

// generateArtifact turns a trace summary into the written test file.
func generateArtifact(cfg *ResolvedConfig, scenario *Scenario, targetURL string, summary TraceSummary, logger *RunLogger) (string, Usage, error) {
	if len(summary.Statements) == 0 {
		return "", Usage{}, fmt.Errorf("trace contains no interaction statements")
	}

	apiKey, err := cfg.Config.APIKey()
	if err != nil {
		return "", Usage{}, err
	}
	client := NewClient(&cfg.Config.Model, apiKey)

	gen := NewGenerator(client, logger)
	source, usage, err := gen.Generate(context.Background(), scenario, targetURL, summary)
	if err != nil {
		return "", usage, err
	}

	path, err := WriteArtifact(cfg.ProjectRoot, cfg.Config.Output.Dir, scenario, source)
	if err != nil {
		return "", usage, err
	}

	stepFns := CountStepFunctions(source)
	logger.ArtifactWritten(path, stepFns)
	if stepFns != len(scenario.Steps) {
		logger.Warning(fmt.Sprintf("artifact defines %d step functions, scenario has %d steps", stepFns, len(scenario.Steps)))
	}

	return path, usage, nil
}

func cmdGenerate(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: featwright generate <feature-file>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Example: featwright generate login.feature")
		os.Exit(1)
	}

	featurePath := args[0]
	projectRoot := GetProjectRoot()

	cfg, err := LoadConfig(projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scenario, err := ParseFeatureFile(featurePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dir, err := FindScenarioDir(projectRoot, scenario.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	trace, err := LoadTrace(dir.TracePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := NewRunLogger(dir.LogsDir(), cfg.Config.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.RunStart(scenario.Name, trace.TargetURL, len(scenario.Steps))
	start := time.Now()

	artifactPath, usage, genErr := generateArtifact(cfg, scenario, trace.TargetURL, trace.Summarize(), logger)

	historyRun := &GenerationRun{
		Scenario:    scenario.Name,
		Slug:        scenario.Slug(),
		TargetURL:   trace.TargetURL,
		Model:       cfg.Config.Model.Model,
		StepCount:   len(scenario.Steps),
		ActionCount: len(trace.Summarize().Statements),
		TotalTokens: usage.TotalTokens,
		DurationMs:  time.Since(start).Milliseconds(),
	}

	if genErr != nil {
		logger.Error("generation failed", genErr)
		logger.RunEnd(false, genErr.Error())
		historyRun.Success = false
		historyRun.Error = genErr.Error()
		if err := recordHistory(cfg, historyRun); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record history: %v\n", err)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", genErr)
		os.Exit(1)
	}

	historyRun.Success = true
	historyRun.ArtifactPath = artifactPath
	logger.RunEnd(true, "artifact written: "+artifactPath)
	if err := recordHistory(cfg, historyRun); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record history: %v\n", err)
	}

	fmt.Printf("Generated %s in %s (%d tokens)\n", artifactPath, FormatDuration(time.Since(start)), usage.TotalTokens)
}

func cmdHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Show at most N runs")
	scenarioName := fs.String("scenario", "", "Filter by scenario name or slug")
	fs.Parse(args)

	projectRoot := GetProjectRoot()

	cfg, err := LoadConfig(projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Config.History == nil || !cfg.Config.History.Enabled {
		fmt.Println("History is disabled (history.enabled in featwright.config.json).")
		return
	}

	store, err := OpenHistory(filepath.Join(projectRoot, cfg.Config.History.Path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var runs []GenerationRun
	if *scenarioName != "" {
		runs, err = store.RecentForSlug(slugify(*scenarioName), *limit)
	} else {
		runs, err = store.Recent(*limit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println("Run 'featwright run <feature-file> --url URL' to create one.")
		return
	}

	for _, run := range runs {
		status := "✓"
		if !run.Success {
			status = "✗"
		}
		fmt.Printf("%s #%d %s - %s (%d steps, %d actions, %d tokens, %s)\n",
			status, run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Scenario, run.StepCount, run.ActionCount, run.TotalTokens,
			FormatDuration(time.Duration(run.DurationMs)*time.Millisecond))
		if run.ArtifactPath != "" {
			fmt.Printf("    └─ %s\n", run.ArtifactPath)
		}
		if run.Error != "" {
			fmt.Printf("    └─ %s\n", firstLine(run.Error))
		}
	}
}

// firstLine keeps multi-line errors from breaking list output.
func firstLine(s string) string {
	if i := strings.Index(s, "\n"); i != -1 {
		return s[:i]
	}
	return s
}

func cmdLogs(args []string) {
	fs := flag.NewFlagSet("logs", flag.ExitOnError)
	runNum := fs.Int("run", 0, "Show specific run number (default: latest)")
	listRuns := fs.Bool("list", false, "List all runs with summary")
	tail := fs.Int("tail", 50, "Show last N events")
	eventType := fs.String("type", "", "Filter by event type")
	jsonOutput := fs.Bool("json", false, "Output raw JSONL")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: featwright logs <scenario> [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  featwright logs successful-login              # Latest run, last 50 events")
		fmt.Fprintln(os.Stderr, "  featwright logs successful-login --list       # List all runs")
		fmt.Fprintln(os.Stderr, "  featwright logs successful-login --run 2      # Show run #2")
		fmt.Fprintln(os.Stderr, "  featwright logs successful-login --type error # Show only errors")
	}

	// Find scenario argument before flags
	var scenarioName string
	var flagArgs []string
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") {
			flagArgs = args[i:]
			break
		}
		if scenarioName == "" {
			scenarioName = arg
		}
	}

	if scenarioName == "" {
		fs.Usage()
		os.Exit(1)
	}

	fs.Parse(flagArgs)

	projectRoot := GetProjectRoot()
	dir, err := FindScenarioDir(projectRoot, scenarioName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runs, err := ListRuns(dir.LogsDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading logs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Printf("No logs found for scenario '%s'\n", scenarioName)
		return
	}

	// --list mode: show all runs
	if *listRuns {
		fmt.Printf("Runs for scenario '%s':\n\n", dir.Slug)
		for _, run := range runs {
			status := "○"
			if run.Success != nil {
				if *run.Success {
					status = "✓"
				} else {
					status = "✗"
				}
			}

			duration := ""
			if run.EndTime != nil {
				d := run.EndTime.Sub(run.StartTime)
				duration = fmt.Sprintf(" (%s)", FormatDuration(d))
			}

			fmt.Printf("  %s Run #%d - %s%s\n", status, run.RunNumber,
				run.StartTime.Format("2006-01-02 15:04:05"), duration)
			if run.Summary != "" {
				fmt.Printf("    └─ %s\n", run.Summary)
			}
		}
		return
	}

	// Find the target run
	var targetRun *RunSummary
	if *runNum > 0 {
		for i := range runs {
			if runs[i].RunNumber == *runNum {
				targetRun = &runs[i]
				break
			}
		}
		if targetRun == nil {
			fmt.Fprintf(os.Stderr, "Run #%d not found\n", *runNum)
			os.Exit(1)
		}
	} else {
		// Default to latest run
		targetRun = &runs[0]
	}

	printEvents(targetRun.LogPath, *tail, *eventType, *jsonOutput)
}

func printEvents(logPath string, tailN int, eventTypeFilter string, jsonOutput bool) {
	events, err := ReadEvents(logPath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading log: %v\n", err)
		os.Exit(1)
	}

	var filtered []Event
	for _, e := range events {
		if eventTypeFilter != "" && string(e.Type) != eventTypeFilter {
			continue
		}
		filtered = append(filtered, e)
	}

	if len(filtered) > tailN {
		filtered = filtered[len(filtered)-tailN:]
	}

	for _, e := range filtered {
		if jsonOutput {
			data, _ := json.Marshal(e)
			fmt.Println(string(data))
		} else {
			printEvent(&e)
		}
	}
}

func printEvent(e *Event) {
	timestamp := e.Timestamp.Format("15:04:05")

	switch e.Type {
	case EventRunStart:
		scenario, _ := e.Data["scenario"].(string)
		fmt.Printf("[%s] === Run started: %s ===\n", timestamp, scenario)

	case EventRunEnd:
		result := "failed"
		if e.Success != nil && *e.Success {
			result = "success"
		}
		fmt.Printf("[%s] === Run ended: %s ===\n", timestamp, result)
		if e.Message != "" {
			fmt.Printf("         %s\n", e.Message)
		}

	case EventStepStart:
		line, _ := e.Data["line"].(string)
		fmt.Printf("[%s] ─── Step %d: %s ───\n", timestamp, e.Step+1, line)

	case EventStepEnd:
		status := "✗"
		if e.Success != nil && *e.Success {
			status = "✓"
		}
		duration := ""
		if e.Duration != nil {
			duration = fmt.Sprintf(" (%s)", FormatDuration(time.Duration(*e.Duration)))
		}
		fmt.Printf("[%s] %s Step %d complete%s\n", timestamp, status, e.Step+1, duration)

	case EventAgentAction:
		status := "✗"
		if e.Success != nil && *e.Success {
			status = "✓"
		}
		fmt.Printf("[%s]   %s %s\n", timestamp, status, e.Message)

	case EventLLMRequest:
		kind, _ := e.Data["kind"].(string)
		model, _ := e.Data["model"].(string)
		fmt.Printf("[%s] → %s request (%s)\n", timestamp, kind, model)

	case EventLLMResponse:
		kind, _ := e.Data["kind"].(string)
		status := "✗"
		if e.Success != nil && *e.Success {
			status = "✓"
		}
		duration := ""
		if e.Duration != nil {
			duration = fmt.Sprintf(" (%s)", FormatDuration(time.Duration(*e.Duration)))
		}
		tokens := ""
		if t, ok := e.Data["tokens"].(float64); ok && t > 0 {
			tokens = fmt.Sprintf(", %d tokens", int(t))
		}
		fmt.Printf("[%s] %s %s response%s%s\n", timestamp, status, kind, duration, tokens)

	case EventTraceWritten:
		fmt.Printf("[%s] ◆ Trace written: %s\n", timestamp, e.Message)

	case EventArtifactWritten:
		fmt.Printf("[%s] ◆ Artifact written: %s\n", timestamp, e.Message)

	case EventWarning:
		fmt.Printf("[%s] ! Warning: %s\n", timestamp, e.Message)

	case EventError:
		fmt.Printf("[%s] ✗ Error: %s\n", timestamp, e.Message)
		if errMsg, ok := e.Data["error"].(string); ok {
			fmt.Printf("         %s\n", errMsg)
		}

	default:
		fmt.Printf("[%s] %s", timestamp, e.Type)
		if e.Message != "" {
			fmt.Printf(": %s", e.Message)
		}
		fmt.Println()
	}
}

func cmdDoctor(args []string) {
	projectRoot := GetProjectRoot()
	issues := 0

	fmt.Println("Featwright Environment Check")
	fmt.Println()

	// Check featwright.config.json
	cfg, err := LoadConfig(projectRoot)
	if err != nil {
		fmt.Printf("✗ featwright.config.json: %v\n", firstLine(err.Error()))
		issues++
	} else {
		fmt.Printf("✓ featwright.config.json found\n")

		// Check API key
		if _, keyErr := cfg.Config.APIKey(); keyErr != nil {
			fmt.Printf("✗ %s not set (export it or add it to .env)\n", cfg.Config.Model.APIKeyEnv)
			issues++
		} else {
			fmt.Printf("✓ API key: %s set\n", cfg.Config.Model.APIKeyEnv)
		}

		// Check browser binary
		if bin := findBrowserBinary(cfg.Config.Browser); bin != "" {
			fmt.Printf("✓ Browser binary: %s\n", bin)
		} else {
			fmt.Printf("✗ No browser binary found (install Chrome/Chromium or set browser.executablePath)\n")
			issues++
		}
	}

	// Check .featwright directory
	dataDir := workspaceDir(projectRoot)
	if fileExists(dataDir) {
		fmt.Printf("✓ .featwright directory exists\n")
	} else {
		fmt.Printf("○ .featwright directory: not found (run 'featwright init')\n")
	}

	// Check git repository
	cwd, _ := os.Getwd()
	gitRoot := findGitRoot(cwd)
	if _, err := os.Stat(filepath.Join(gitRoot, ".git")); err == nil {
		fmt.Printf("✓ git repository found\n")
	} else {
		fmt.Printf("○ not inside a git repository (project root falls back to cwd)\n")
	}

	// Check .featwright directory writability
	if fi, statErr := os.Stat(dataDir); statErr == nil && fi.IsDir() {
		testFile := filepath.Join(dataDir, ".write-test")
		if f, writeErr := os.Create(testFile); writeErr != nil {
			fmt.Printf("✗ .featwright directory not writable\n")
			issues++
		} else {
			f.Close()
			os.Remove(testFile)
			fmt.Printf("✓ .featwright directory writable\n")
		}
	}

	// List scenarios
	scenarios, _ := ListScenarios(projectRoot)
	fmt.Println()
	if len(scenarios) > 0 {
		fmt.Printf("Scenarios: %d\n", len(scenarios))
		for _, s := range scenarios {
			state := "no trace"
			if s.HasTrace {
				state = "trace recorded"
			}
			fmt.Printf("  - %s (%s)\n", s.Slug, state)
		}
	} else {
		fmt.Println("Scenarios: none")
	}

	// Check lock status
	lock, _ := ReadLockStatus(projectRoot)
	if lock != nil {
		fmt.Println()
		if isProcessAlive(lock.PID) {
			fmt.Printf("! Featwright is currently running (PID %d, scenario: %s)\n", lock.PID, lock.Scenario)
		} else {
			fmt.Printf("○ Stale lock found (PID %d no longer running)\n", lock.PID)
		}
	}

	fmt.Println()
	if issues > 0 {
		fmt.Printf("%d issue(s) found.\n", issues)
		os.Exit(1)
	} else {
		fmt.Println("All checks passed.")
	}
}
