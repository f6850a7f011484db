package compiler

import "strings"

// LineKind tags a classified line.
type LineKind int

// Possible line kinds
const (
	Unrecognized LineKind = iota
	TitleLine
	DescriptionLine
	QuestionLine
	AnswerLine
)

// String returns a readable name for the kind.
func (k LineKind) String() string {
	switch k {
	case TitleLine:
		return "title"
	case DescriptionLine:
		return "description"
	case QuestionLine:
		return "question"
	case AnswerLine:
		return "answer"
	default:
		return "unrecognized"
	}
}

// Prefix returns the canonical line prefix for the kind, or "" for Unrecognized.
func (k LineKind) Prefix() string {
	for _, p := range prefixes {
		if p.kind == k {
			return p.text
		}
	}
	return ""
}

// ClassifiedLine is a line tagged with its kind. Text holds the content
// after the prefix, trimmed. For Unrecognized lines Text is the whole line.
type ClassifiedLine struct {
	Kind LineKind
	Text string
}

var prefixes = []struct {
	kind LineKind
	text string
}{
	{TitleLine, "Node Title:"},
	{DescriptionLine, "Node Description:"},
	{QuestionLine, "Question:"},
	{AnswerLine, "Answer:"},
}

// Classify tags a single line. Leading and trailing whitespace is ignored.
func Classify(line string) ClassifiedLine {
	line = strings.TrimSpace(line)
	for _, p := range prefixes {
		if hasPrefixFold(line, p.text) {
			return ClassifiedLine{
				Kind: p.kind,
				Text: strings.TrimSpace(line[len(p.text):]),
			}
		}
	}
	return ClassifiedLine{Kind: Unrecognized, Text: line}
}

// Lines splits raw text on line breaks, drops blank lines, and classifies
// the remainder in order.
func Lines(raw string) []ClassifiedLine {
	parts := strings.Split(raw, "\n")
	lines := make([]ClassifiedLine, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		lines = append(lines, Classify(trimmed))
	}
	return lines
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
