package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyPal/Cafezinho/lib/analyzer"
	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/diag"
	"github.com/vyPal/Cafezinho/lib/memory"
	"github.com/vyPal/Cafezinho/lib/parser"
	"github.com/vyPal/Cafezinho/lib/symtab"
)

type result struct {
	ok    bool
	out   string
	sess  *diag.Session
	alloc *memory.Allocator
}

func execute(t *testing.T, src, stdin string, limit int) result {
	t.Helper()
	table := symtab.New(symtab.DefaultSize)
	sess := diag.NewSession(zerolog.Nop())
	prog := parser.ParseString("test.cfz", src, table, sess)
	require.NotNil(t, prog, "parse failed: %v", sess.Err())
	require.True(t, analyzer.Analyze(prog, table, sess), "analysis failed: %v", sess.Err())

	var out bytes.Buffer
	alloc := memory.New(limit)
	in := New(prog, sess, alloc, Options{Stdout: &out, Stdin: strings.NewReader(stdin)})
	ok := in.Run()
	assert.Equal(t, 0, in.Len(), "runtime stack unwound")
	assert.Equal(t, 0, in.Depth())
	return result{ok: ok, out: out.String(), sess: sess, alloc: alloc}
}

func run(t *testing.T, body string) result {
	t.Helper()
	return execute(t, "principal() {\n"+body+"\n}", "", 0)
}

func TestOutput(t *testing.T) {
	tests := []struct {
		name string
		body string
		out  string
	}{
		{"integer", "inteiro !x = 5; escreva(!x);", "5\n"},
		{"concatenation", `inteiro !x = 10; inteiro !y = 20; escreva("Soma: ", !x + !y);`, "Soma: 30\n"},
		{"right associative", "escreva(10 - 2 - 3);", "11\n"},
		{"parentheses", "escreva((10 - 2) - 3);", "5\n"},
		{"unary minus", "escreva(-4 + 1);", "-3\n"},
		{"power", "escreva(2 ^ 10);", "1024\n"},
		{"integer division", "escreva(7 / 2);", "3\n"},
		{"decimal", "decimal !d = 7.0 / 2; escreva(!d);", "3.50\n"},
		{"decimal widened", "decimal !d = 2; escreva(!d);", "2.00\n"},
		{"truncation", "inteiro !x = 3.7; escreva(!x);", "3\n"},
		{"negative truncation", "inteiro !x = 0 - 3.7; escreva(!x);", "-3\n"},
		{"uninitialized prints nothing", "inteiro !x; escreva(\"[\", !x, \"]\");", "[]\n"},
		{"relational", "escreva(1 < 2, 2 <= 1, 3 == 3.0, 1 <> 1);", "1010\n"},
		{"texto equality", `escreva("a" == "a", "a" <> "a");`, "10\n"},
		{"logical", "escreva(1 && 0, 1 || 0, 0 || 0);", "010\n"},
		{"empty line", "escreva();", "\n"},
		{"sized texto clipped", `texto[3] !t = "abcdef"; escreva(!t);`, "abc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, tt.body)
			require.True(t, r.ok, "%v", r.sess.Err())
			assert.Equal(t, tt.out, r.out)
		})
	}
}

func TestShadowing(t *testing.T) {
	r := run(t, `inteiro !x = 1; { inteiro !x = 2; escreva(!x); } escreva(!x);`)
	require.True(t, r.ok)
	assert.Equal(t, "2\n1\n", r.out)
}

func TestControlFlow(t *testing.T) {
	r := run(t, `
inteiro !soma = 0;
para (inteiro !i = 1; !i <= 4; !i = !i + 1) {
	!soma = !soma + !i;
}
escreva(!soma);
inteiro !n = 3;
enquanto (!n > 0) {
	escreva(!n);
	!n = !n - 1;
}
se (!n == 0) {
	escreva("zero");
} senao se (!n > 0) {
	escreva("positivo");
} senao {
	escreva("negativo");
}`)
	require.True(t, r.ok, "%v", r.sess.Err())
	assert.Equal(t, "10\n3\n2\n1\nzero\n", r.out)
}

func TestRetornoStopsExecution(t *testing.T) {
	r := run(t, `escreva(1); retorno 0; escreva(2);`)
	require.True(t, r.ok)
	assert.Equal(t, "1\n", r.out)

	r = run(t, `enquanto (1) { escreva("x"); retorno 0; }`)
	require.True(t, r.ok)
	assert.Equal(t, "x\n", r.out)
}

func TestDivisionByZero(t *testing.T) {
	for _, body := range []string{
		"inteiro !x = 10 / 0; escreva(!x);",
		"escreva(\"antes \", 1.5 / 0);",
	} {
		r := run(t, body)
		assert.False(t, r.ok)
		assert.Empty(t, r.out)
		require.Equal(t, 1, r.sess.ErrorCount())
		assert.Equal(t, diag.Runtime, r.sess.Err().(diag.Diagnostic).Stage)
		assert.Contains(t, r.sess.Err().Error(), "division by zero")
	}
}

func TestRuntimeErrorIsSticky(t *testing.T) {
	r := run(t, `escreva(1); escreva(1 / 0); escreva(2);`)
	assert.False(t, r.ok)
	assert.Equal(t, "1\n", r.out)
	assert.Equal(t, 1, r.sess.ErrorCount())
}

func TestNoShortCircuit(t *testing.T) {
	r := run(t, `inteiro !r = 0 && 1 / 0;`)
	assert.False(t, r.ok)
	assert.Contains(t, r.sess.Err().Error(), "division by zero")
}

func TestCallStatementIsSkipped(t *testing.T) {
	src := `__f(inteiro !a) { escreva("corpo"); }
principal() {
	escreva("a");
	__f(1 / 0);
	escreva("b");
}`
	r := execute(t, src, "", 0)
	require.True(t, r.ok, "%v", r.sess.Err())
	assert.Equal(t, "a\nb\n", r.out)
}

func TestCallInExpressionUnsupported(t *testing.T) {
	src := `funcao inteiro __g() { retorno 1; }
principal() {
	escreva("a");
	escreva(__g() + 1);
}`
	r := execute(t, src, "", 0)
	assert.False(t, r.ok)
	assert.Equal(t, "a\n", r.out)
	assert.Contains(t, r.sess.Err().Error(), "function calls are not supported: __g")
}

func TestRead(t *testing.T) {
	src := `principal() {
	inteiro !n;
	decimal !d;
	texto !t;
	leia(!n, !d);
	leia(!t);
	escreva(!n * 2, " ", !d, " ", !t);
}`
	r := execute(t, src, "21 1.5\nola mundo\n", 0)
	require.True(t, r.ok, "%v", r.sess.Err())
	assert.Equal(t, "42 1.50 ola\n", r.out)
}

func TestReadPrompt(t *testing.T) {
	table := symtab.New(0)
	sess := diag.NewSession(zerolog.Nop())
	prog := parser.ParseString("test.cfz", "principal() { inteiro !n; leia(!n); escreva(!n); }", table, sess)
	require.NotNil(t, prog)
	require.True(t, analyzer.Analyze(prog, table, sess))

	var out bytes.Buffer
	in := New(prog, sess, nil, Options{Stdout: &out, Stdin: strings.NewReader("7"), ReadPrompt: "> "})
	require.True(t, in.Run())
	assert.Equal(t, "> 7\n", out.String())
}

func TestReadErrors(t *testing.T) {
	src := "principal() { inteiro !n; leia(!n); }"

	r := execute(t, src, "abc", 0)
	assert.False(t, r.ok)
	assert.Contains(t, r.sess.Err().Error(), `invalid input "abc" for inteiro variable !n`)

	r = execute(t, src, "", 0)
	assert.False(t, r.ok)
	assert.Contains(t, r.sess.Err().Error(), "no input available for !n")
}

func TestStorageAccounting(t *testing.T) {
	r := run(t, `inteiro !a = 1; texto !t = "abc"; !t = "abcdefgh"; { decimal !d = 1.0; }`)
	require.True(t, r.ok)

	s := r.alloc.Stats()
	assert.Equal(t, 0, s.Allocated)
	assert.Equal(t, 8+9+8, s.Peak)
	assert.Empty(t, r.alloc.Leaks())
}

func TestQuotaExceeded(t *testing.T) {
	r := execute(t, `principal() { texto !t = "0123456789012345678901234567890"; escreva(!t); }`, "", 16)
	assert.False(t, r.ok)
	assert.Empty(t, r.out)
	d := r.sess.Err().(diag.Diagnostic)
	assert.Equal(t, diag.Allocation, d.Stage)
	assert.Contains(t, d.Msg, "memory quota exceeded")
	assert.Empty(t, r.alloc.Leaks())
}

func TestMissingPrincipal(t *testing.T) {
	sess := diag.NewSession(zerolog.Nop())
	prog := parser.ParseString("test.cfz", "__f() { }", symtab.New(0), sess)
	require.NotNil(t, prog)

	in := New(prog, sess, nil, Options{Stdout: &bytes.Buffer{}})
	assert.False(t, in.Run())
	assert.Contains(t, sess.Err().Error(), "main function 'principal' not found")
}

func TestPopLogsUntrackedBlock(t *testing.T) {
	var logs bytes.Buffer
	ctx := NewContext()
	ctx.push()
	ctx.declare(&variable{name: "!x", typ: ast.Inteiro, block: memory.Block{ID: 99, Size: 8}})

	ctx.pop(memory.New(0), zerolog.New(&logs))
	assert.Equal(t, 0, ctx.Len())
	assert.Equal(t, 0, ctx.Depth())
	assert.Contains(t, logs.String(), `"variable":"!x"`)
	assert.Contains(t, logs.String(), "releasing storage")
	assert.Contains(t, logs.String(), "not tracked")
}
