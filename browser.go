package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Action is one concrete browser interaction planned for a scenario step.
type Action struct {
	Kind     string `json:"action"` // navigate, click, type, submit, waitFor, assertVisible, assertText
	Selector string `json:"selector,omitempty"`
	Value    string `json:"value,omitempty"`
	URL      string `json:"url,omitempty"`
	Contains string `json:"contains,omitempty"`
}

// validActionKinds are the interaction verbs the agent may plan.
var validActionKinds = map[string]bool{
	"navigate":      true,
	"click":         true,
	"type":          true,
	"submit":        true,
	"waitFor":       true,
	"assertVisible": true,
	"assertText":    true,
}

// Validate checks that the action has the fields its kind requires.
func (a *Action) Validate() error {
	if !validActionKinds[a.Kind] {
		return fmt.Errorf("unknown action: %s", a.Kind)
	}
	switch a.Kind {
	case "navigate":
		if a.URL == "" {
			return fmt.Errorf("navigate action requires url")
		}
	case "type":
		if a.Selector == "" {
			return fmt.Errorf("type action requires selector")
		}
	case "assertText":
		if a.Selector == "" || a.Contains == "" {
			return fmt.Errorf("assertText action requires selector and contains")
		}
	default:
		if a.Selector == "" {
			return fmt.Errorf("%s action requires selector", a.Kind)
		}
	}
	return nil
}

// Describe returns a human-readable one-liner for trace records and logs.
func (a *Action) Describe() string {
	switch a.Kind {
	case "navigate":
		return "navigate to " + a.URL
	case "click":
		return "click " + a.Selector
	case "type":
		return fmt.Sprintf("type %q into %s", a.Value, a.Selector)
	case "submit":
		return "submit " + a.Selector
	case "waitFor":
		return "wait for " + a.Selector
	case "assertVisible":
		return "assert " + a.Selector + " is visible"
	case "assertText":
		return fmt.Sprintf("assert %s contains %q", a.Selector, a.Contains)
	}
	return a.Kind
}

// Code returns the chromedp statement that replays this action. These
// strings make up the trace summary handed to the code generator.
func (a *Action) Code() string {
	switch a.Kind {
	case "navigate":
		return fmt.Sprintf("chromedp.Navigate(%q), chromedp.WaitReady(`body`, chromedp.ByQuery)", a.URL)
	case "click":
		return fmt.Sprintf("chromedp.WaitVisible(%q, chromedp.ByQuery), chromedp.Click(%q, chromedp.ByQuery)", a.Selector, a.Selector)
	case "type":
		return fmt.Sprintf("chromedp.WaitVisible(%q, chromedp.ByQuery), chromedp.Clear(%q, chromedp.ByQuery), chromedp.SendKeys(%q, %q, chromedp.ByQuery)", a.Selector, a.Selector, a.Selector, a.Value)
	case "submit":
		return fmt.Sprintf("chromedp.WaitVisible(%q, chromedp.ByQuery), chromedp.Click(%q, chromedp.ByQuery), chromedp.WaitReady(`body`, chromedp.ByQuery)", a.Selector, a.Selector)
	case "waitFor":
		return fmt.Sprintf("chromedp.WaitVisible(%q, chromedp.ByQuery)", a.Selector)
	case "assertVisible":
		return fmt.Sprintf("chromedp.WaitVisible(%q, chromedp.ByQuery) // assert visible", a.Selector)
	case "assertText":
		return fmt.Sprintf("chromedp.Text(%q, &text, chromedp.ByQuery) // assert contains %q", a.Selector, a.Contains)
	}
	return ""
}

// PageElement is one interactive element extracted from the live page,
// given to the planner as page context.
type PageElement struct {
	Tag      string `json:"tag"`
	Selector string `json:"selector"`
	Text     string `json:"text,omitempty"`
	Type     string `json:"type,omitempty"`
	Name     string `json:"name,omitempty"`
	Href     string `json:"href,omitempty"`
}

// Browser owns one chromedp session for the duration of a scenario run.
type Browser struct {
	config        *BrowserConfig
	screenshotDir string
	ctx           context.Context
	cancel        context.CancelFunc
	consoleErrors []string
}

// NewBrowser creates a browser wrapper; Start opens the actual session.
func NewBrowser(config *BrowserConfig, screenshotDir string) *Browser {
	return &Browser{
		config:        config,
		screenshotDir: screenshotDir,
	}
}

// Start opens the browser session and begins capturing console exceptions.
func (b *Browser) Start(parent context.Context) error {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
	}

	if b.config.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if b.config.ExecutablePath != "" {
		opts = append(opts, chromedp.ExecPath(b.config.ExecutablePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	b.ctx = ctx
	b.cancel = func() {
		cancel()
		allocCancel()
	}

	b.consoleErrors = nil
	chromedp.ListenTarget(b.ctx, func(ev interface{}) {
		if ev, ok := ev.(*runtime.EventExceptionThrown); ok {
			b.consoleErrors = append(b.consoleErrors, ev.ExceptionDetails.Text)
		}
	})

	return nil
}

// Close shuts down the browser session.
func (b *Browser) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// ConsoleErrors returns page exceptions captured since Start.
func (b *Browser) ConsoleErrors() []string {
	return b.consoleErrors
}

// Navigate loads a URL and waits for the document body.
func (b *Browser) Navigate(url string) error {
	ctx, cancel := b.stepContext()
	defer cancel()

	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// Execute runs a single planned action against the live page.
func (b *Browser) Execute(action *Action) error {
	ctx, cancel := b.stepContext()
	defer cancel()

	switch action.Kind {
	case "navigate":
		return chromedp.Run(ctx,
			chromedp.Navigate(action.URL),
			chromedp.WaitReady("body", chromedp.ByQuery),
		)

	case "click":
		return chromedp.Run(ctx,
			chromedp.WaitVisible(action.Selector, chromedp.ByQuery),
			chromedp.Click(action.Selector, chromedp.ByQuery),
		)

	case "type":
		return chromedp.Run(ctx,
			chromedp.WaitVisible(action.Selector, chromedp.ByQuery),
			chromedp.Clear(action.Selector, chromedp.ByQuery),
			chromedp.SendKeys(action.Selector, action.Value, chromedp.ByQuery),
		)

	case "submit":
		return chromedp.Run(ctx,
			chromedp.WaitVisible(action.Selector, chromedp.ByQuery),
			chromedp.Click(action.Selector, chromedp.ByQuery),
			chromedp.WaitReady("body", chromedp.ByQuery),
		)

	case "waitFor":
		return chromedp.Run(ctx,
			chromedp.WaitVisible(action.Selector, chromedp.ByQuery),
		)

	case "assertVisible":
		var nodes []*cdp.Node
		err := chromedp.Run(ctx,
			chromedp.Nodes(action.Selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0)),
		)
		if err == nil && len(nodes) == 0 {
			err = fmt.Errorf("element not found: %s", action.Selector)
		}
		return err

	case "assertText":
		var text string
		err := chromedp.Run(ctx,
			chromedp.WaitVisible(action.Selector, chromedp.ByQuery),
			chromedp.Text(action.Selector, &text, chromedp.ByQuery),
		)
		if err == nil && !strings.Contains(text, action.Contains) {
			err = fmt.Errorf("text %q not found in element (got: %q)", action.Contains, truncateText(text, 100))
		}
		return err
	}

	return fmt.Errorf("unknown action: %s", action.Kind)
}

// visibleElementsJS collects interactive elements and a best-effort stable
// selector for each. Kept deliberately simple: id, then name, then
// tag:nth-of-type.
const visibleElementsJS = `(() => {
	const els = document.querySelectorAll('a, button, input, select, textarea, [role=button]');
	const out = [];
	const counts = {};
	for (const el of els) {
		if (el.offsetParent === null && el.tagName !== 'OPTION') continue;
		const tag = el.tagName.toLowerCase();
		counts[tag] = (counts[tag] || 0) + 1;
		let selector;
		if (el.id) {
			selector = '#' + el.id;
		} else if (el.name) {
			selector = tag + '[name="' + el.name + '"]';
		} else {
			selector = tag + ':nth-of-type(' + counts[tag] + ')';
		}
		out.push({
			tag: tag,
			selector: selector,
			text: (el.innerText || el.value || el.placeholder || '').trim().slice(0, 80),
			type: el.type || '',
			name: el.name || '',
			href: el.getAttribute('href') || '',
		});
		if (out.length >= 60) break;
	}
	return JSON.stringify(out);
})()`

// VisibleElements extracts the interactive elements of the current page.
func (b *Browser) VisibleElements() ([]PageElement, error) {
	ctx, cancel := b.stepContext()
	defer cancel()

	var raw string
	if err := chromedp.Run(ctx, chromedp.Evaluate(visibleElementsJS, &raw)); err != nil {
		return nil, fmt.Errorf("failed to inspect page: %w", err)
	}

	var elements []PageElement
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		return nil, fmt.Errorf("failed to decode page elements: %w", err)
	}
	return elements, nil
}

// Title returns the current document title.
func (b *Browser) Title() (string, error) {
	ctx, cancel := b.stepContext()
	defer cancel()

	var title string
	err := chromedp.Run(ctx, chromedp.Title(&title))
	return title, err
}

// Screenshot captures the full page and saves it under the screenshot dir.
// Returns the saved path, or "" when capture or save failed (non-fatal).
func (b *Browser) Screenshot(label string) string {
	ctx, cancel := b.stepContext()
	defer cancel()

	var buf []byte
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil || len(buf) == 0 {
		return ""
	}
	return b.saveScreenshot(label, buf)
}

// stepContext derives a per-action timeout context from the session.
func (b *Browser) stepContext() (context.Context, context.CancelFunc) {
	timeout := time.Duration(b.config.StepTimeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(b.ctx, timeout)
}

// saveScreenshot writes screenshot bytes to the screenshots directory.
func (b *Browser) saveScreenshot(label string, data []byte) string {
	if err := os.MkdirAll(b.screenshotDir, 0755); err != nil {
		fmt.Printf("Warning: failed to create screenshot dir: %v\n", err)
		return ""
	}

	safe := slugify(label)
	if len(safe) > 50 {
		safe = safe[:50]
	}

	timestamp := time.Now().Format("20060102-150405.000")
	filename := fmt.Sprintf("%s-%s.png", timestamp, safe)
	path := filepath.Join(b.screenshotDir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		fmt.Printf("Warning: failed to save screenshot: %v\n", err)
		return ""
	}

	return path
}

// truncateText truncates text to maxLen characters
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
