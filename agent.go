package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Agent acts out a scenario in the browser. For each step it asks the model
// to plan concrete actions from the live page, executes them, and records
// every executed action into the trace.
type Agent struct {
	browser *Browser
	client  *Client
	config  *BrowserConfig
	logger  *RunLogger
}

// NewAgent wires the browser, the planning client, and the run logger.
func NewAgent(browser *Browser, client *Client, config *BrowserConfig, logger *RunLogger) *Agent {
	return &Agent{
		browser: browser,
		client:  client,
		config:  config,
		logger:  logger,
	}
}

// Run acts out the scenario against targetURL and returns the trace.
// The run is single-pass: the first failed action aborts it. The partial
// trace is returned alongside the error so it can still be persisted.
func (a *Agent) Run(ctx context.Context, scenario *Scenario, targetURL string) (*Trace, error) {
	trace := &Trace{
		Scenario:  scenario.Name,
		TargetURL: targetURL,
		StartedAt: time.Now(),
	}

	if err := a.browser.Navigate(targetURL); err != nil {
		return trace, fmt.Errorf("failed to open %s: %w", targetURL, err)
	}
	trace.Append(TraceRecord{
		StepIndex:   -1,
		Description: "navigate to " + targetURL,
		Code:        (&Action{Kind: "navigate", URL: targetURL}).Code(),
		Screenshot:  a.browser.Screenshot("start"),
	})

	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		a.logger.StepStart(i, step.Line())
		stepStart := time.Now()

		actions, err := a.planStep(ctx, scenario, step)
		if err != nil {
			a.logger.StepEnd(i, false, time.Since(stepStart))
			return trace, fmt.Errorf("step %d (%s): planning failed: %w", i+1, step.Line(), err)
		}

		for _, action := range actions {
			if err := a.browser.Execute(&action); err != nil {
				a.logger.AgentAction(i, action.Describe(), false)
				a.logger.StepEnd(i, false, time.Since(stepStart))
				return trace, fmt.Errorf("step %d (%s): %s: %w", i+1, step.Line(), action.Describe(), err)
			}
			a.logger.AgentAction(i, action.Describe(), true)
			trace.Append(TraceRecord{
				StepIndex:   i,
				Keyword:     step.Keyword,
				StepText:    step.Text,
				Description: action.Describe(),
				Code:        action.Code(),
				Screenshot:  a.browser.Screenshot(fmt.Sprintf("step-%d-%s", i+1, action.Kind)),
			})
		}

		a.logger.StepEnd(i, true, time.Since(stepStart))
	}

	// Final page state, for the generator's multimodal prompt.
	if shot := a.browser.Screenshot("final"); shot != "" {
		trace.Append(TraceRecord{
			StepIndex:   len(scenario.Steps),
			Description: "final page state",
			Screenshot:  shot,
		})
	}

	if errs := a.browser.ConsoleErrors(); len(errs) > 0 {
		for _, e := range errs {
			a.logger.Warning("console error: " + e)
		}
	}

	return trace, nil
}

// planStep asks the model for the actions that perform one step.
func (a *Agent) planStep(ctx context.Context, scenario *Scenario, step *Step) ([]Action, error) {
	elements, err := a.browser.VisibleElements()
	if err != nil {
		return nil, err
	}
	title, _ := a.browser.Title()

	prompt := getPrompt("plan", map[string]string{
		"scenario":   scenario.Name,
		"title":      title,
		"step":       step.Line(),
		"elements":   buildElementList(elements),
		"maxActions": strconv.Itoa(a.config.MaxActionsPerStep),
	})

	a.logger.LLMRequest("plan", a.client.Model())
	start := time.Now()
	text, usage, err := a.client.CompleteText(ctx, ChatRequest{
		Messages: []Message{{Role: "user", Content: prompt}},
	})
	a.logger.LLMResponse("plan", usage.TotalTokens, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	actions, err := ParseActions(text)
	if err != nil {
		return nil, err
	}
	if len(actions) > a.config.MaxActionsPerStep {
		actions = actions[:a.config.MaxActionsPerStep]
	}
	return actions, nil
}

// ParseActions decodes the planner's JSON array, tolerating markdown fences
// and surrounding prose that some models add despite instructions.
func ParseActions(text string) ([]Action, error) {
	payload := extractJSONArray(text)
	if payload == "" {
		return nil, fmt.Errorf("no JSON action array in model response: %s", truncateText(strings.TrimSpace(text), 200))
	}

	var actions []Action
	if err := json.Unmarshal([]byte(payload), &actions); err != nil {
		return nil, fmt.Errorf("invalid action array: %w", err)
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("model planned no actions")
	}
	for i := range actions {
		if err := actions[i].Validate(); err != nil {
			return nil, fmt.Errorf("action %d: %w", i+1, err)
		}
	}
	return actions, nil
}

// extractJSONArray returns the first top-level JSON array in text.
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
