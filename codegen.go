package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// generatedPackage is the package name pinned in the generation prompt.
const generatedPackage = "generated"

// Generator turns one trace summary into the source of a test file with a
// single multimodal chat-completion call.
type Generator struct {
	client *Client
	logger *RunLogger
}

// NewGenerator creates a code generator backed by the given client.
func NewGenerator(client *Client, logger *RunLogger) *Generator {
	return &Generator{client: client, logger: logger}
}

// Generate builds the fixed prompt from scenario and trace summary, attaches
// the final screenshot when available, and returns the cleaned source text.
func (g *Generator) Generate(ctx context.Context, scenario *Scenario, targetURL string, summary TraceSummary) (string, Usage, error) {
	screenshotNote := "No screenshot of the final page state is available."
	var imagePart *ContentPart
	if summary.FinalScreenshot != "" {
		if dataURL, err := encodeScreenshot(summary.FinalScreenshot); err == nil {
			screenshotNote = "A screenshot of the final page state is attached; use it to pick sensible assertion targets."
			imagePart = &ContentPart{
				Type:     "image_url",
				ImageURL: &ImageURL{URL: dataURL, Detail: "high"},
			}
		} else {
			g.logger.Warning(fmt.Sprintf("skipping screenshot: %v", err))
		}
	}

	prompt := getPrompt("codegen", map[string]string{
		"scenario":       scenario.Text(),
		"statements":     buildStatements(summary.Statements),
		"screenshotNote": screenshotNote,
		"package":        generatedPackage,
		"testName":       testName(scenario.Name),
		"targetUrl":      targetURL,
		"stepCount":      strconv.Itoa(len(scenario.Steps)),
	})

	content := any(prompt)
	if imagePart != nil {
		content = []ContentPart{
			{Type: "text", Text: prompt},
			*imagePart,
		}
	}

	g.logger.LLMRequest("codegen", g.client.Model())
	start := time.Now()
	text, usage, err := g.client.CompleteText(ctx, ChatRequest{
		Messages: []Message{{Role: "user", Content: content}},
	})
	g.logger.LLMResponse("codegen", usage.TotalTokens, time.Since(start), err)
	if err != nil {
		return "", usage, err
	}

	source := StripCodeFences(text)
	if strings.TrimSpace(source) == "" {
		return "", usage, fmt.Errorf("model returned no source text")
	}

	return source, usage, nil
}

// encodeScreenshot reads a PNG file and returns it as a base64 data URL.
func encodeScreenshot(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read screenshot: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// StripCodeFences removes markdown code fences from a model response.
// When the response contains a fenced block, only the fenced body survives;
// otherwise the text is returned trimmed. Language tags after the opening
// fence are dropped.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)

	start := strings.Index(trimmed, "```")
	if start == -1 {
		return trimmed
	}

	rest := trimmed[start+3:]
	// Drop the language tag line (e.g. "go")
	if nl := strings.Index(rest, "\n"); nl != -1 {
		rest = rest[nl+1:]
	} else {
		return trimmed
	}

	end := strings.LastIndex(rest, "```")
	if end == -1 {
		// Unterminated fence: keep the body as-is
		return strings.TrimSpace(rest)
	}

	return strings.TrimSpace(rest[:end])
}

// testName converts a scenario name into an exported Go identifier.
func testName(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upperNext {
				b.WriteRune(unicode.ToUpper(r))
				upperNext = false
			} else {
				b.WriteRune(r)
			}
		default:
			upperNext = true
		}
	}
	if b.Len() == 0 {
		return "Scenario"
	}
	return b.String()
}

// CountStepFunctions counts functions named step* in generated source.
// Used as a sanity check: the artifact should define one per scenario step.
func CountStepFunctions(source string) int {
	count := 0
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "func step") {
			count++
		}
	}
	return count
}
