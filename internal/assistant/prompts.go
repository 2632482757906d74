package assistant

import (
	"fmt"
	"strings"
)

// Style selects which Q&A dialect the assistant is asked to write.
type Style string

const (
	StyleBlock  Style = "block"
	StyleInline Style = "inline"
)

// ParseStyle accepts "block" or "inline" in any case.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleBlock:
		return StyleBlock, nil
	case StyleInline:
		return StyleInline, nil
	}
	return "", fmt.Errorf("unknown style %q (want block or inline)", s)
}

const (
	DefaultCount = 10
	MaxCount     = 50
)

const summaryHeading = "## 학습 정리"

// BuildPrompts asks for a study dump covering notes: a markdown summary
// followed by count questions in the requested style.
func BuildPrompts(notes string, style Style, count int) (systemPrompt, userPrompt string) {
	if count <= 0 {
		count = DefaultCount
	}
	if count > MaxCount {
		count = MaxCount
	}

	lines := []string{
		"You are a study assistant for Korean learners.",
		"Turn the learner's notes into a study dump: a concise summary followed by practice questions.",
		"Write all content in Korean unless the notes are in another language.",
		"Strictly follow all rules below.",
		"",
		"### Summary Rules",
		fmt.Sprintf("1. Start the output with the heading '%s' on its own line.", summaryHeading),
		"2. The first line under the heading is a one-sentence overview; it becomes the summary title.",
		"3. Use markdown bullet lists for the key points. Do not use '###' inside the summary.",
		"",
		"### Question Rules",
		fmt.Sprintf("1. Write exactly %d question/answer pairs after the heading '## Q&A'.", count),
		"2. Every question must be answerable from the notes alone.",
		"3. Answers are short: one to three lines.",
	}

	switch style {
	case StyleInline:
		lines = append(lines,
			"",
			"### Output Structure (inline)",
			"1. Group questions by topic under '### <topic>' headings.",
			"2. Write each question on a line starting with 'Q1.', 'Q2.' and so on.",
			"3. Write the answer on the next line starting with the matching 'A1.', 'A2.' marker.",
			"4. Leave one blank line between pairs.",
		)
	default:
		lines = append(lines,
			"",
			"### Output Structure (block)",
			"1. Put a line containing only '###' before every block and after the last block.",
			"2. Inside a block write 'Q: <question>' then 'A: <answer>'.",
			"3. Optionally add 'TAGS: <comma separated tags>' and 'LEVEL: basic|intermediate|advanced'.",
		)
	}
	lines = append(lines,
		"",
		"### Final Review",
		"Before finishing, check that every question has an answer and that no marker is wrapped in bold or code formatting.",
	)
	systemPrompt = strings.Join(lines, "\n")

	userPrompt = strings.Join([]string{
		"Here are my study notes. Create the study dump strictly following the system instructions.",
		"",
		"[Notes]",
		strings.TrimSpace(notes),
	}, "\n")
	return systemPrompt, userPrompt
}
