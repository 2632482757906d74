package studydump

// Grammar is the syntax the Q&A region is written in.
type Grammar int

const (
	GrammarNone Grammar = iota
	GrammarBlock
	GrammarInline
)

func (g Grammar) String() string {
	switch g {
	case GrammarBlock:
		return "block"
	case GrammarInline:
		return "inline"
	default:
		return "none"
	}
}

// grammarRules is evaluated top to bottom; the first match wins.
var grammarRules = []struct {
	grammar Grammar
	match   func(region string) bool
}{
	{GrammarBlock, hasDelimiter},
	{GrammarInline, hasQuestionLine},
}

// DetectGrammar picks the grammar of a Q&A region. GrammarNone means the
// region is noise and yields no entries.
func DetectGrammar(region string) Grammar {
	for _, rule := range grammarRules {
		if rule.match(region) {
			return rule.grammar
		}
	}
	return GrammarNone
}

type extractor func(region string, limit int) []Entry

var extractors = map[Grammar]extractor{
	GrammarBlock:  extractBlocks,
	GrammarInline: extractInline,
}
