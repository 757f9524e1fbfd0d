package memtranscript

import "strings"

// ContentBlock is one content element of a transcript message. Concrete
// types close the variant set the teacher's parser handled with a single
// loosely-typed struct and a runtime type-field switch.
type ContentBlock interface {
	// SearchableText returns the text this block contributes to the
	// index, or "" if the block carries nothing searchable.
	SearchableText() string
}

// TextBlock is a plain text segment of a message.
type TextBlock struct {
	Text string
}

func (b TextBlock) SearchableText() string { return b.Text }

// ThinkingBlock is an assistant reasoning segment. It is searchable the
// same as a TextBlock; conversations were never meant to hide their
// thinking from their own memory.
type ThinkingBlock struct {
	Text string
}

func (b ThinkingBlock) SearchableText() string { return b.Text }

// ToolCallBlock is a tool invocation. Its name and a flattened rendering of
// its input parameters both contribute to the index — users search for
// tool names and for argument values alike.
type ToolCallBlock struct {
	Name  string
	Input map[string]string
}

func (b ToolCallBlock) SearchableText() string {
	var sb strings.Builder
	sb.WriteString(b.Name)
	for k, v := range b.Input {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteByte(' ')
		sb.WriteString(v)
	}
	return sb.String()
}

// ToolResultBlock is the output of a tool call, indexed for
// searchability the same way the teacher's parser folds tool results back
// into the conversation text.
type ToolResultBlock struct {
	Text string
}

func (b ToolResultBlock) SearchableText() string { return b.Text }

// OtherBlock is any block type not otherwise recognized. It carries no
// text — unknown variants are tolerated silently rather than treated as a
// parse error.
type OtherBlock struct {
	Type string
}

func (b OtherBlock) SearchableText() string { return "" }
