// Package script turns a sequence of recorded UI actions into a textual
// Playwright automation script. Selector preference, most to least
// specific: explicit xpath, element id, name/class, text content. Steps
// with no usable hint produce a placeholder comment instead of a locator.
package script

import (
	"fmt"
	"regexp"
	"strings"
)

// Action types of a recorded step.
const (
	ActionClick = "CLICK"
	ActionInput = "INPUT"
)

// Step is one recorded UI action with its selector hints.
type Step struct {
	Type        string `json:"type"`
	TagName     string `json:"tagName,omitempty"`
	URL         string `json:"url,omitempty"`
	XPath       string `json:"xpath,omitempty"`
	ElementID   string `json:"id,omitempty"`
	ClassName   string `json:"className,omitempty"`
	Name        string `json:"name,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Text        string `json:"text,omitempty"`
	Value       string `json:"value,omitempty"`
	DelayMillis int    `json:"delay,omitempty"`
}

const placeholderComment = "  // TODO: improved selector strategy needed for this step\n"

var whitespace = regexp.MustCompile(`\s+`)

// Generate emits a Playwright test exercising the recorded steps in order.
func Generate(steps []Step) string {
	var b strings.Builder
	b.WriteString("import { test, expect } from '@playwright/test';\n\n")
	b.WriteString("test('Generated Automation', async ({ page }) => {\n")
	b.WriteString("  // Auto-generated script from Automation Hub\n")
	b.WriteString("  test.setTimeout(60000);\n\n")

	for i, step := range steps {
		tag := step.TagName
		if tag == "" {
			tag = "Action"
		}
		fmt.Fprintf(&b, "  // Step %d: %s - %s\n", i+1, step.Type, tag)

		if step.DelayMillis > 0 {
			fmt.Fprintf(&b, "  await page.waitForTimeout(%d);\n", step.DelayMillis)
		}
		if step.URL != "" && i == 0 {
			fmt.Fprintf(&b, "  await page.goto('%s');\n", step.URL)
		}

		switch step.Type {
		case ActionClick:
			b.WriteString(clickLine(step))
		case ActionInput:
			b.WriteString(inputLine(step))
		default:
			fmt.Fprintf(&b, "  // Unknown action type: %s\n", step.Type)
		}
		b.WriteString("\n")
	}

	b.WriteString("});")
	return b.String()
}

func clickLine(step Step) string {
	switch {
	case step.XPath != "":
		return fmt.Sprintf("  await page.locator('%s').click();\n", step.XPath)
	case step.ElementID != "":
		return fmt.Sprintf("  await page.locator('#%s').click();\n", step.ElementID)
	case step.ClassName != "":
		selector := strings.Join(whitespace.Split(strings.TrimSpace(step.ClassName), -1), ".")
		return fmt.Sprintf("  await page.locator('.%s').first().click();\n", selector)
	case step.Text != "" && step.TagName != "":
		text := strings.ReplaceAll(step.Text, "\n", " ")
		return fmt.Sprintf("  await page.locator('%s:has-text(\"%s\")').first().click();\n",
			strings.ToLower(step.TagName), text)
	default:
		return placeholderComment
	}
}

func inputLine(step Step) string {
	switch {
	case step.XPath != "":
		return fmt.Sprintf("  await page.locator('%s').fill('%s');\n", step.XPath, step.Value)
	case step.ElementID != "":
		return fmt.Sprintf("  await page.locator('#%s').fill('%s');\n", step.ElementID, step.Value)
	case step.Name != "":
		return fmt.Sprintf("  await page.locator('[name=\"%s\"]').fill('%s');\n", step.Name, step.Value)
	case step.Placeholder != "":
		return fmt.Sprintf("  await page.locator('[placeholder=\"%s\"]').fill('%s');\n", step.Placeholder, step.Value)
	default:
		return placeholderComment
	}
}
