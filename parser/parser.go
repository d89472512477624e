package parser

import (
	"errors"
	"fmt"

	pc "github.com/shibukawa/parsercombinator"
	cmn "github.com/shibukawa/snaperl/parser/parsercommon"
	"github.com/shibukawa/snaperl/tokenizer"
)

// Sentinel errors
var (
	ErrDriverUsed = errors.New("parser driver already used")
)

// State of a Driver
type State int

const (
	Ready State = iota
	Matching
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Matching:
		return "Matching"
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Result is a successful parse.
type Result struct {
	Root     Node
	Consumed int // significant tokens consumed, the end of input excluded
	Span     Span
}

// Driver runs one root rule over one token stream. A driver is single use:
// Ready -> Matching -> Succeeded or Failed.
type Driver struct {
	root    RuleName
	options Options
	state   State
	result  *Result
	err     error
}

// NewDriver creates a driver for the given root rule.
func NewDriver(root RuleName, options ...Options) (*Driver, error) {
	if _, ok := registry[root]; !ok {
		return nil, fmt.Errorf("%w: %s", cmn.ErrUnknownRule, root)
	}
	opts := DefaultOptions
	if len(options) > 0 {
		opts = options[0]
	}
	return &Driver{root: root, options: opts}, nil
}

// State returns the current state.
func (d *Driver) State() State {
	return d.state
}

// Run parses tokens with the root rule. The whole stream must be consumed.
func (d *Driver) Run(tokens []tokenizer.Token) (*Result, error) {
	if d.state != Ready {
		return nil, ErrDriverUsed
	}
	d.state = Matching

	if len(tokens) == 0 || tokens[len(tokens)-1].Type != tokenizer.EOF {
		tokens = append(tokens[:len(tokens):len(tokens)], eofAfter(tokens))
	}

	tracker := cmn.NewTracker()
	pcTokens := cmn.ToParserToken(tokens, tracker)

	pctx := pc.NewParseContext[Entity]()
	pctx.TraceEnable = d.options.Trace

	consumed, result, err := pc.Seq(registry[d.root], cmn.EOS)(pctx, pcTokens)
	if d.options.Trace {
		pctx.DumpTrace()
	}
	if err != nil {
		if index, _, _ := tracker.Furthest(); index < 0 {
			cmn.Fail(pcTokens, string(d.root))
		}
		d.state = Failed
		d.err = tracker.Error()
		return nil, d.err
	}

	root := result[0].Val.Node
	d.state = Succeeded
	d.result = &Result{
		Root:     root,
		Consumed: consumed - 1,
		Span:     root.Span(),
	}
	return d.result, nil
}

// eofAfter builds the end of input token that follows tokens.
func eofAfter(tokens []tokenizer.Token) tokenizer.Token {
	pos := tokenizer.Position{Line: 1, Column: 1}
	if len(tokens) > 0 {
		pos = tokens[len(tokens)-1].End
	}
	return tokenizer.Token{Type: tokenizer.EOF, Position: pos, End: pos}
}

// Parse parses a token stream with the given root rule.
func Parse(tokens []tokenizer.Token, root RuleName, options ...Options) (*Result, error) {
	driver, err := NewDriver(root, options...)
	if err != nil {
		return nil, err
	}
	return driver.Run(tokens)
}

// ParseString tokenizes src and parses it with the given root rule.
func ParseString(src string, root RuleName, options ...Options) (*Result, error) {
	tokens, err := tokenizer.NewErlangTokenizer(src).AllTokens()
	if err != nil {
		return nil, err
	}
	return Parse(tokens, root, options...)
}
