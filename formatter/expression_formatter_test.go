package formatter

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/snaperl/parser"
)

func TestExpressionFormatter_FormatSource(t *testing.T) {
	formatter := NewExpressionFormatter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"arithmetic", "6+5*4-3/2", "6 + 5 * 4 - 3 / 2"},
		{"parentheses kept", "(6+5)*((4-3)/2)", "(6 + 5) * ((4 - 3) / 2)"},
		{"match", "A=2", "A = 2"},
		{"tuple", "{asd,ore,{ow,[2,23,as],3}}", "{asd, ore, {ow, [2, 23, as], 3}}"},
		{"cons", "[a|[b|[]]]", "[a | [b | []]]"},
		{"list comprehension", "[X*2||X<-[1,2,3],X>1]", "[X * 2 || X <- [1, 2, 3], X > 1]"},
		{"logical", "not A andalso B or false", "not A andalso B or false"},
		{"double negation", "- -1", "- -1"},
		{"binary", "<<A,B,C:16>> = <<1,17,42:16>>", "<<A, B, C:16>> = <<1, 17, 42:16>>"},
		{"binary types", "<<X:8/integer-unit:1,Rest/binary>>", "<<X:8/integer-unit:1, Rest/binary>>"},
		{"binary comprehension", "<<<<(X*2)>>||<<X>><=<<1,2,3>>>>", "<< <<(X * 2)>> || <<X>> <= <<1, 2, 3>> >>"},
		{"remote call", `io:format("~p~n",[X])`, `io:format("~p~n", [X])`},
		{"catch", "A=(catch 1+2)", "A = (catch 1 + 2)"},
		{"record create", "#person{name=Name,_='_'}", "#person{name = Name, _ = '_'}"},
		{"record update", "User#user{ibuttons=User#user.ibuttons++[IButton]}", "User#user{ibuttons = User#user.ibuttons ++ [IButton]}"},
		{"record chain", "N2#nrec2.nrec1#nrec1.nrec0.nrec00", "N2#nrec2.nrec1#nrec1.nrec0#nrec1.nrec00"},
		{"macro", "server:call(refserver,Request,?MACRO1(a,b))", "server:call(refserver, Request, ?MACRO1(a, b))"},
		{"stringify", "??X", "??X"},
		{"adjacent strings", `"a"   "b"`, `"a" "b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatted, err := formatter.FormatSource(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, formatted)
		})
	}
}

func TestExpressionFormatter_Reparse(t *testing.T) {
	formatter := NewExpressionFormatter()

	sources := []string{
		"[10, 23] -- [X*2 || X <- [1,2,3]] ++ [7,8,9]",
		"(not (A andalso B)) or false",
		"<<G,H/bitstring>> = <<1,17,42:12>>",
		"N2#nrec2.nrec1#nrec1.nrec0.nrec00#nrec0.name.first",
		`N2#nrec2.nrec1#nrec1.nrec0#nrec0{name = "nested0a"}`,
		"[Name,proplists:get_value(description,Spec,[])|proplists:get_value(keywords,Spec,[])]",
		"catch throw(hello)",
		"Pid ! {self(), -X}",
		"?MODULE:start(bnot 1)",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			original, err := parser.ParseString(src, parser.RuleExpression)
			assert.NoError(t, err)

			formatted := formatter.Format(original.Root)
			reparsed, err := parser.ParseString(formatted, parser.RuleExpression)
			assert.NoError(t, err, formatted)
			assert.Equal(t, original.Root.String(), reparsed.Root.String())
		})
	}
}

func TestExpressionFormatter_AddsParentheses(t *testing.T) {
	formatter := NewExpressionFormatter()

	a := parser.Node(&parser.Variable{Name: "A"})
	b := parser.Node(&parser.Variable{Name: "B"})
	c := parser.Node(&parser.Variable{Name: "C"})

	tests := []struct {
		name     string
		node     parser.Node
		expected string
	}{
		{"lower level on the left", &parser.BinaryOp{Left: &parser.BinaryOp{Left: a, Operator: "+", Right: b}, Operator: "*", Right: c}, "(A + B) * C"},
		{"left associative on the right", &parser.BinaryOp{Left: a, Operator: "-", Right: &parser.BinaryOp{Left: b, Operator: "-", Right: c}}, "A - (B - C)"},
		{"right associative on the left", &parser.BinaryOp{Left: &parser.BinaryOp{Left: a, Operator: "++", Right: b}, Operator: "++", Right: c}, "(A ++ B) ++ C"},
		{"comparison chain", &parser.BinaryOp{Left: &parser.BinaryOp{Left: a, Operator: "<", Right: b}, Operator: "==", Right: c}, "(A < B) == C"},
		{"unary on operator", &parser.UnaryOp{Operator: "-", Operand: &parser.BinaryOp{Left: a, Operator: "+", Right: b}}, "-(A + B)"},
		{"catch operand", &parser.BinaryOp{Left: a, Operator: "=", Right: &parser.Catch{Inner: b}}, "A = (catch B)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatter.Format(tt.node))
		})
	}
}

func TestExpressionFormatter_InvalidSource(t *testing.T) {
	_, err := NewExpressionFormatter().FormatSource("1 +")
	assert.IsError(t, err, parser.ErrSyntax)
}

func TestExpressionFormatter_FormatForm(t *testing.T) {
	formatter := NewExpressionFormatter()

	formatted, err := formatter.FormatForm("  lists:map(F,L).\n")
	assert.NoError(t, err)
	assert.Equal(t, "lists:map(F, L).", formatted)

	formatted, err = formatter.FormatForm("{a,b}")
	assert.NoError(t, err)
	assert.Equal(t, "{a, b}", formatted)
}
