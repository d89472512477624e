package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	cmn "github.com/shibukawa/snaperl/parser/parsercommon"
	"github.com/shibukawa/snaperl/tokenizer"
)

// acceptanceCorpus is every expression the grammar must accept.
var acceptanceCorpus = map[string][]string{
	"simple expression": {
		"1+3",
		"true",
		"6 + 5 * 4 - 3 / 2",
		"ok",
	},
	"parenthesized": {
		"(1+3)",
		"(6 + 5) * ((4 - 3) / 2)",
	},
	"variable match": {
		"A=2",
		"B=[2,3]",
		"B={2,3}",
	},
	"list": {
		"[asd,ore,[ow,2,3],[hello,23]]",
		"[]",
		"[d|T]",
		"[c|[]]",
		"[a|[b|[c|[]]]]",
		"[a,2,{c,4}]",
		"[Name,proplists:get_value(description,Spec,[])|proplists:get_value(keywords,Spec,[])]",
	},
	"tuple": {
		"{asd,ore,{ow,[2,23,as],3},[hello,{23,as}]}",
	},
	"list comprehension": {
		"[X*2 || X <- [1,2,3]]",
		"[X*2 || X <- [1,2,3]] ++ [7,8,9]",
		"[X*2 || X <- [1,2,3]] -- [7,8,9]",
		"[10, 23] -- [X*2 || X <- [1,2,3]] ++ [7,8,9]",
		"[756, 877] ++ [X*2 || X <- [1,2,3]] -- [7,8,9]",
	},
	"logical": {
		"not true",
		"true and false",
		"true xor false",
		"true or A",
		"A orelse B",
		"A andalso B",
		"not A andalso B or false",
		"(not (A andalso B)) or false",
	},
	"binary": {
		"<<1,17,42>>",
		"<<1,17,42:16>>",
		"<<1024/utf8>>",
		"<<1024:16/utf8>>",
		"<<$a,$b,$c>>",
		`<<"hello">>`,
		"<<A,B,C:16>> = <<1,17,42:16>>",
		"<<D:16,E,F>> = <<1,17,42:16>>",
		"<<G,H/binary>> = <<1,17,42:16>>",
		"<<G,H/bitstring>> = <<1,17,42:12>>",
		"<< << (X*2) >> || <<X>> <= << 1,2,3 >> >>",
	},
	"function call": {
		`method("hello")`,
		"method(12)",
		`method("hello",234234)`,
		`haho:method("hello")`,
		`io:format("assert error in module ~p on line ~p~n")`,
	},
	"catch": {
		"catch 1+2",
		"catch 1+a",
		"A = (catch 1+2)",
		"catch throw(hello)",
	},
	"record create": {
		"#Name{Field1=Expr1,Field2=Expr2,FieldK=ExprK}",
		"#person{name=Name, _='_'}",
		"A = #Name{Field1=Expr1,Field2=Expr2,FieldK=ExprK}",
		"S = #person{name=Name, _='_'}",
		"User#user{ibuttons = User#user.ibuttons ++ [IButton]}",
	},
	"record access": {
		"#person.name",
		"Expr#Name.Field",
		"N2#nrec2.nrec1#nrec1.nrec0.nrec00#nrec0.name.first",
		`N2#nrec2.nrec1#nrec1.nrec0#nrec0{name = "nested0a"}`,
	},
	"macro": {
		"?TIMEOUT",
		"?MACRO1(a, b)",
		"?MACRO1(X, 123)",
		"server:call(refserver, Request, ?TIMEOUT)",
		"server:call(refserver, Request, ?MACRO1(a, b))",
	},
}

func TestAcceptanceCorpus(t *testing.T) {
	for group, sources := range acceptanceCorpus {
		t.Run(group, func(t *testing.T) {
			for _, src := range sources {
				result, err := ParseString(src, RuleExpression)
				assert.NoError(t, err, src)
				assert.Equal(t, src, result.Span.Text(src), src)
			}
		})
	}
}

func TestParseTree(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"precedence", "6 + 5 * 4 - 3 / 2", "(- (+ 6 (* 5 4)) (/ 3 2))"},
		{"left associative", "1 - 2 - 3", "(- (- 1 2) 3)"},
		{"parenthesized", "(1+3)", "(paren (+ 1 3))"},
		{"nested parens", "(6 + 5) * ((4 - 3) / 2)", "(* (paren (+ 6 5)) (paren (/ (paren (- 4 3)) 2)))"},
		{"match", "A=2", "(= A 2)"},
		{"match right associative", "A = B = C", "(= A (= B C))"},
		{"send", "Pid ! msg", "(! Pid msg)"},
		{"match tuple", "B={2,3}", "(= B (tuple 2 3))"},
		{"empty tuple", "{}", "(tuple)"},
		{"empty list", "[]", "(list)"},
		{"cons", "[d|T]", "(list d | T)"},
		{"nested cons", "[a|[b|[c|[]]]]", "(list a | (list b | (list c | (list))))"},
		{"list comprehension", "[X*2 || X <- [1,2,3]]", "(lc (* X 2) (<- X (list 1 2 3)))"},
		{"comprehension filter", "[X || X <- L, X > 1]", "(lc X (<- X L) (> X 1))"},
		{"list op right associative", "[10, 23] -- [X*2 || X <- [1,2,3]] ++ [7,8,9]",
			"(-- (list 10 23) (++ (lc (* X 2) (<- X (list 1 2 3))) (list 7 8 9)))"},
		{"logical", "not A andalso B or false", "(or (andalso (not A) B) false)"},
		{"parenthesized logical", "(not (A andalso B)) or false", "(or (paren (not (paren (andalso A B)))) false)"},
		{"orelse andalso", "A orelse B andalso C", "(orelse A (andalso B C))"},
		{"and or", "a and b or c", "(or (and a b) c)"},
		{"comparison", "A + 1 =:= B", "(=:= (+ A 1) B)"},
		{"unary", "-X + 1", "(+ (- X) 1)"},
		{"bnot", "bnot 1 band 2", "(band (bnot 1) 2)"},
		{"binary", "<<1,17,42:16>>", "(bin 1 17 42:16)"},
		{"binary types", "<<1024:16/utf8>>", "(bin 1024:16/utf8)"},
		{"binary unit", "<<X:8/integer-unit:1>>", "(bin X:8/integer-unit:1)"},
		{"binary signed", "<<-1:8/signed>>", "(bin (- 1):8/signed)"},
		{"empty binary", "<<>>", "(bin)"},
		{"binary match", "<<G,H/binary>> = <<1,17,42:16>>", "(= (bin G H/binary) (bin 1 17 42:16))"},
		{"binary comprehension", "<< << (X*2) >> || <<X>> <= << 1,2,3 >> >>",
			"(bc (bin (paren (* X 2))) (<= (bin X) (bin 1 2 3)))"},
		{"local call", "method(12)", "(call method 12)"},
		{"empty call", "self()", "(call self)"},
		{"remote call", `haho:method("hello")`, `(call haho:method "hello")`},
		{"nested call", "[Name,proplists:get_value(description,Spec,[])|T]",
			"(list Name (call proplists:get_value description Spec (list)) | T)"},
		{"catch", "catch 1+2", "(catch (+ 1 2))"},
		{"catch call", "catch throw(hello)", "(catch (call throw hello))"},
		{"catch in parens", "A = (catch 1+2)", "(= A (paren (catch (+ 1 2))))"},
		{"record create", "#person{name=Name, _='_'}", "(record person name=Name _='_')"},
		{"record create variable name", "#Name{Field1=Expr1}", "(record Name Field1=Expr1)"},
		{"empty record", "#person{}", "(record person)"},
		{"record update", "User#user{ibuttons = User#user.ibuttons ++ [IButton]}",
			"(update User user ibuttons=(++ (access User user ibuttons) (list IButton)))"},
		{"record index", "#person.name", "(access person name)"},
		{"record access", "Expr#Name.Field", "(access Expr Name Field)"},
		{"record chain", "N2#nrec2.nrec1#nrec1.nrec0.nrec00#nrec0.name.first",
			"(access (access (access (access (access N2 nrec2 nrec1) nrec1 nrec0) nrec1 nrec00) nrec0 name) nrec0 first)"},
		{"record chain update", `N2#nrec2.nrec1#nrec1.nrec0#nrec0{name = "nested0a"}`,
			`(update (access (access N2 nrec2 nrec1) nrec1 nrec0) nrec0 name="nested0a")`},
		{"macro", "?TIMEOUT", "?TIMEOUT"},
		{"macro call", "?MACRO1(a, b)", "(?MACRO1 a b)"},
		{"macro empty call", "?LINE()", "(?LINE)"},
		{"stringify macro", "??X", "??X"},
		{"macro as argument", "server:call(refserver, Request, ?MACRO1(a, b))",
			"(call server:call refserver Request (?MACRO1 a b))"},
		{"macro module", "?MODULE:f()", "(call ?MODULE:f)"},
		{"adjacent strings", `"a" "b"`, `"a" "b"`},
		{"char", "$a", "$a"},
		{"quoted atom", "'hello world'", "'hello world'"},
		{"string prefix match", `"abc" ++ Rest = S`, `(= (++ "abc" Rest) S)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseString(tt.src, RuleExpression)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result.Root.String())
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		found    string
		offset   int
		expected []string
	}{
		{"incomplete operator", "1+", "", 2, []string{"primary expression"}},
		{"empty input", "", "", 0, []string{"primary expression"}},
		{"reserved word", "case", "case", 0, []string{"primary expression"}},
		{"chained comparison", "A =:= B =:= C", "=:=", 8, []string{"end of input"}},
		{"chained equality", "A == B + 1 == C", "==", 11, []string{"end of input"}},
		{"match on expression", "1 + 2 = X", "=", 6, []string{"end of input"}},
		{"match on call", "f(X) = 1", "=", 5, []string{"end of input"}},
		{"two operands", "1 2", "2", 2, []string{"end of input"}},
		{"unclosed list", "[1,2", "", 4, []string{"']'", "','", "'|'"}},
		{"unclosed tuple", "{a", "", 2, []string{"'}'", "','"}},
		{"missing record field", "#person.", "", 8, []string{"record field"}},
		{"missing type", "<<X/>>", ">>", 4, []string{"type specifier"}},
		{"catch without expression", "catch", "", 5, []string{"primary expression"}},
		{"remote without call", "m:f", "", 3, []string{"'('"}},
		{"unclosed call", "f(", "", 2, []string{"primary expression", "')'"}},
		{"unclosed macro call", "?a(", "", 3, []string{"primary expression", "')'"}},
		{"expression as segment value", "<<X+1>>", "+", 3, []string{"'>>'", "','"}},
		{"match between binaries without spaces", "<<A>>=<<1>>", "<", 7, []string{"primary expression"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src, RuleExpression)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax))

			var syntaxErr *SyntaxError
			assert.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.found, syntaxErr.Found.Value)
			assert.Equal(t, tt.offset, syntaxErr.Pos.Offset)
			assert.Equal(t, tt.expected, syntaxErr.Expected)
		})
	}
}

func TestIncompleteOperatorDiagnostic(t *testing.T) {
	_, err := ParseString("1+", RuleExpression)

	var syntaxErr *SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, tokenizer.EOF, syntaxErr.Found.Type)
	assert.Equal(t, "syntax error at line 1, column 3: unexpected end of input, expected primary expression", syntaxErr.Error())
}

func TestRootRules(t *testing.T) {
	tests := []struct {
		name    string
		root    RuleName
		src     string
		wantErr bool
	}{
		{"list", RuleList, "[1,2]", false},
		{"list rejects operators", RuleList, "[1] ++ [2]", true},
		{"tuple", RuleTuple, "{a, b}", false},
		{"binary", RuleBinary, "<<1:8>>", false},
		{"function call", RuleFunctionCall, "m:f(1)", false},
		{"function call rejects atom", RuleFunctionCall, "m", true},
		{"primary", RulePrimary, "(1 + 2)", false},
		{"primary rejects operators", RulePrimary, "1 + 2", true},
		{"macro", RuleMacroUse, "?M(1)", false},
		{"record", RuleRecordExpression, "#r{a = 1}", false},
		{"qualifier", RuleQualifier, "X <- L", false},
		{"catch", RuleCatchExpression, "catch f()", false},
		{"catch requires keyword", RuleCatchExpression, "f()", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src, tt.root)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUnknownRule(t *testing.T) {
	_, err := ParseString("1", RuleName("clause"))
	assert.IsError(t, err, ErrUnknownRule)
}

func TestRules(t *testing.T) {
	rules := Rules()
	assert.Equal(t, 16, len(rules))
	assert.SliceContains(t, rules, RuleExpression)
	assert.SliceContains(t, rules, RuleFunctionCall)
}

func TestDriverStates(t *testing.T) {
	tokens, err := tokenizer.NewErlangTokenizer("{ok, Value}").AllTokens()
	assert.NoError(t, err)

	driver, err := NewDriver(RuleExpression)
	assert.NoError(t, err)
	assert.Equal(t, Ready, driver.State())

	result, err := driver.Run(tokens)
	assert.NoError(t, err)
	assert.Equal(t, Succeeded, driver.State())
	assert.Equal(t, 5, result.Consumed)

	_, err = driver.Run(tokens)
	assert.IsError(t, err, ErrDriverUsed)

	failing, err := NewDriver(RuleExpression)
	assert.NoError(t, err)
	_, err = failing.Run(tokens[:4])
	assert.Error(t, err)
	assert.Equal(t, Failed, failing.State())
}

func TestDriverAppendsEndOfInput(t *testing.T) {
	tokens, err := tokenizer.NewErlangTokenizer("a + b").AllTokens()
	assert.NoError(t, err)

	// drop the EOF token
	result, err := Parse(tokens[:len(tokens)-1], RuleExpression)
	assert.NoError(t, err)
	assert.Equal(t, "(+ a b)", result.Root.String())
	assert.Equal(t, 3, result.Consumed)
}

func TestTriviaIsIgnored(t *testing.T) {
	src := "foo( % first\n  A ,\n  B )"
	result, err := ParseString(src, RuleExpression)
	assert.NoError(t, err)
	assert.Equal(t, "(call foo A B)", result.Root.String())
	assert.Equal(t, src, result.Span.Text(src))
}

func TestSpanInvariants(t *testing.T) {
	for _, sources := range acceptanceCorpus {
		for _, src := range sources {
			result, err := ParseString(src, RuleExpression)
			assert.NoError(t, err, src)

			cmn.Walk(result.Root, func(node cmn.Node) bool {
				children := node.Children()
				for i, child := range children {
					assert.True(t, node.Span().Contains(child.Span()), "%s: %s outside %s", src, child, node)
					if i > 0 {
						prev := children[i-1].Span()
						assert.True(t, prev.End.Offset <= child.Span().Start.Offset, "%s: %s overlaps %s", src, children[i-1], child)
					}
				}
				return true
			})
		}
	}
}

func TestSpanPositions(t *testing.T) {
	src := "A =\n  foo(1)"
	result, err := ParseString(src, RuleExpression)
	assert.NoError(t, err)

	match := result.Root.(*BinaryOp)
	call := match.Right.(*FunctionCall)
	assert.Equal(t, tokenizer.Position{Line: 2, Column: 3, Offset: 6}, call.Span().Start)
	assert.Equal(t, tokenizer.Position{Line: 2, Column: 9, Offset: 12}, call.Span().End)
	assert.Equal(t, "foo(1)", call.Span().Text(src))
}

func TestConcurrentParses(t *testing.T) {
	var sources []string
	for _, group := range acceptanceCorpus {
		sources = append(sources, group...)
	}

	expected := make([]string, len(sources))
	for i, src := range sources {
		result, err := ParseString(src, RuleExpression)
		assert.NoError(t, err)
		expected[i] = result.Root.String()
	}

	const workers = 8
	actual := make([][]string, workers)
	done := make(chan int)
	for w := range workers {
		go func() {
			out := make([]string, len(sources))
			for i, src := range sources {
				if result, err := ParseString(src, RuleExpression); err == nil {
					out[i] = result.Root.String()
				}
			}
			actual[w] = out
			done <- w
		}()
	}
	for range workers {
		<-done
	}

	for _, out := range actual {
		assert.Equal(t, expected, out)
	}
}

func TestDeeplyNestedCollections(t *testing.T) {
	const depth = 30
	tests := []struct {
		name  string
		open  string
		close string
	}{
		{"binary", "<<", ">>"},
		{"parenthesized binary", "<<(", ")>>"},
		{"binary segment with size", "<<", ":8>>"},
		{"list", "[", "]"},
		{"tuple", "{", "}"},
		{"parentheses", "(", ")"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.Repeat(tt.open, depth) + "1" + strings.Repeat(tt.close, depth)

			done := make(chan error, 1)
			go func() {
				_, err := ParseString(src, RuleExpression)
				done <- err
			}()

			select {
			case err := <-done:
				assert.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatalf("parsing %d nested %q did not finish in time", depth, tt.open)
			}
		})
	}
}
