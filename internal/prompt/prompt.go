// Package prompt turns a raw error log into the instruction and response
// schema sent to the model.
package prompt

import (
	"fmt"

	"github.com/sozercan/log-doctor/internal/llm"
)

const (
	DefaultDomain   = "ComfyUI"
	DefaultLanguage = "English"
)

// Delimiter surrounds the log inside the instruction.
const Delimiter = "---"

const instructionTemplate = `Please analyze and answer in %[2]s.
You are a %[1]s expert. Your task is to analyze the error log below.

1.  **Root cause analysis:** Pinpoint the root cause of the error from the error stack.
2.  **Solutions:** Give clear, actionable, numbered step-by-step solutions that a non-expert user can follow. Offer at least two different solutions when possible.
3.  **Formatting:** Strictly follow the provided JSON structure. In solution steps, wrap file paths, commands, package names and other technical identifiers in backticks (` + "`" + `) so they render as inline code.

**Error log to analyze:**
%[3]s
%[4]s
%[3]s
`

type Request struct {
	Instruction string
	Schema      *llm.Schema
}

type Builder struct {
	domain   string
	language string
}

func NewBuilder(domain, language string) *Builder {
	if domain == "" {
		domain = DefaultDomain
	}
	if language == "" {
		language = DefaultLanguage
	}
	return &Builder{domain: domain, language: language}
}

// Build embeds logText verbatim between delimiter lines.
func (b *Builder) Build(logText string) Request {
	return Request{
		Instruction: fmt.Sprintf(instructionTemplate, b.domain, b.language, Delimiter, logText),
		Schema:      AnalysisSchema(),
	}
}

func (b *Builder) Domain() string   { return b.domain }
func (b *Builder) Language() string { return b.language }
