package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want ClassifiedLine
	}{
		{"Node Title: JS Basics", ClassifiedLine{TitleLine, "JS Basics"}},
		{"node title:JS Basics", ClassifiedLine{TitleLine, "JS Basics"}},
		{"NODE DESCRIPTION:   closures and scope  ", ClassifiedLine{DescriptionLine, "closures and scope"}},
		{"Question: What is JS?", ClassifiedLine{QuestionLine, "What is JS?"}},
		{"  answer: A scripting language.", ClassifiedLine{AnswerLine, "A scripting language."}},
		{"Question:", ClassifiedLine{QuestionLine, ""}},
		{"Questions: plural", ClassifiedLine{Unrecognized, "Questions: plural"}},
		{"Title: missing node", ClassifiedLine{Unrecognized, "Title: missing node"}},
		{"just some text", ClassifiedLine{Unrecognized, "just some text"}},
		{"Q", ClassifiedLine{Unrecognized, "Q"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestClassifyIsStableUnderReprefixing(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Node Title: Promises",
		"node description: async values",
		"QUESTION: What does await do?",
		"Answer: Pauses until the promise settles.",
	}

	for _, in := range inputs {
		first := Classify(in)
		again := Classify(first.Kind.Prefix() + " " + first.Text)
		assert.Equal(t, first, again, in)
	}
}

func TestLineKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "title", TitleLine.String())
	assert.Equal(t, "answer", AnswerLine.String())
	assert.Equal(t, "unrecognized", Unrecognized.String())
	assert.Equal(t, "", Unrecognized.Prefix())
}

func TestLinesDropsBlanksAndHandlesCRLF(t *testing.T) {
	t.Parallel()

	raw := "Node Title: A\r\n\r\n   \nQuestion: Q?\r\nAnswer: yes\n"
	got := Lines(raw)

	assert.Equal(t, []ClassifiedLine{
		{TitleLine, "A"},
		{QuestionLine, "Q?"},
		{AnswerLine, "yes"},
	}, got)
}
