// Package prompt is a small template library for commentary generation.
// Templates live in JSON files and are loaded at startup, so prompt wording
// can change without a code change.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template is one reusable prompt: a fixed system prompt plus a Go
// text/template for the user message.
type Template struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
	UserTmpl     string `json:"user_prompt_template"`
	// ResponseFormat "json" asks the model for a {headline, body} object;
	// anything else means plain markdown.
	ResponseFormat string `json:"response_format"`
	Version        string `json:"version"`
}

// Context holds the runtime values substituted into the user template.
type Context struct {
	Variables map[string]interface{}
}

func NewContext() *Context {
	return &Context{Variables: make(map[string]interface{})}
}

// Set adds a variable and returns the context for chaining.
func (c *Context) Set(key string, value interface{}) *Context {
	c.Variables[key] = value
	return c
}

// Render executes the user template against the context.
func Render(t *Template, ctx *Context) (string, error) {
	if t.UserTmpl == "" {
		return "", nil
	}

	tmpl, err := template.New(t.ID).Parse(t.UserTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", t.ID, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx.Variables); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", t.ID, err)
	}
	return buf.String(), nil
}
