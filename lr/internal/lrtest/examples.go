package lrtest

// LR0 examples need no look-ahead at all.
var LR0 = []*Example{
	{
		Caption: "minimal with one terminal",
		Grammar: `Root: term;`,
		Sep:     ":",
		Good: []Good{
			{"term", `.'term'`},
		},
		Short: []string{
			"",
		},
		Bad: []string{
			"term term",
		},
	},
	{
		Caption: "minimal with two terminals",
		Grammar: `Root: term term;`,
		Sep:     ":",
		Good: []Good{
			{"term term", `Root0('term', 'term')`},
		},
		Short: []string{
			"",
			"term",
		},
		Bad: []string{
			"term term term",
		},
	},
	{
		Caption: "minimal with a quoted terminal",
		Grammar: `Root: '...';`,
		Sep:     ":",
		Good: []Good{
			{"...", `.'...'`},
		},
		Short: []string{
			"",
		},
		Bad: []string{
			"... ...",
		},
	},
	{
		Caption: "kernel",
		Grammar: `
S: a C a;
S: b C b;
C: c;
`,
		Good: []Good{
			{"a c a", `S0('a', .'c', 'a')`},
			{"b c b", `S1('b', .'c', 'b')`},
		},
		Short: []string{
			"",
			"a",
			"a c",
			"b",
			"b c",
		},
		Bad: []string{
			"a a",
			"b b",
			"a b",
			"b a",
			"a c b",
			"b c a",
		},
	},
	{
		Caption: "terminals after a reduction",
		Grammar: `
S: C a a;
S: C a b;
C: c;
`,
		Good: []Good{
			{"c a a", `S0(.'c', 'a', 'a')`},
			{"c a b", `S1(.'c', 'a', 'b')`},
		},
		Short: []string{
			"",
			"c",
			"c a",
		},
		Bad: []string{
			"a",
			"b",
			"c b",
			"c a c",
		},
	},
	{
		Caption: "non-terminals after a reduction",
		Grammar: `
S: C A a;
S: C A b;
A: a;
C: c;
`,
		Good: []Good{
			{"c a a", `S0(.'c', .'a', 'a')`},
			{"c a b", `S1(.'c', .'a', 'b')`},
		},
		Short: []string{
			"",
			"c",
			"c a",
		},
		Bad: []string{
			"a",
			"b",
			"c b",
			"c a c",
		},
	},
}

// SLR1 examples need FOLLOW sets.
var SLR1 = []*Example{
	{
		Caption: "sums and products",
		Grammar: `
Sums: Sums '+' Products;
Sums: Products;
Products: Products '*' Value;
Products: Value;
Value: '+' Value;
Value: int;
Value: id;
Value: '(' Sums ')';
`,
		Sep: ":",
		Good: []Good{
			{"( int:0 ) + + int:1 * id:a", `Sums0(..Value3('(', ...int('0'), ')'), '+', Products0(.Value0('+', .int('1')), '*', .id('a')))`},
		},
		Short: []string{
			"",
			"int:1 *",
		},
		Bad: []string{
			"int:1 * *",
		},
	},
	{
		Caption: "right recursion",
		Grammar: `
S: E;
E: t E;
E: t;
`,
		Good: []Good{
			{"t", `..'t'`},
			{"t t", `.E0('t', .'t')`},
			{"t t t", `.E0('t', E0('t', .'t'))`},
		},
		Short: []string{
			"",
		},
	},
	{
		Caption: "reductions told apart by the next terminal",
		Grammar: `
E: A a;
E: B b;
A: c;
B: c;
`,
		Good: []Good{
			{"c a", `E0(.'c', 'a')`},
			{"c b", `E1(.'c', 'b')`},
		},
		Short: []string{
			"",
			"c",
		},
		Bad: []string{
			"a",
			"b",
			"c c",
			"c a a",
			"c a b",
			"c a c",
		},
	},
}

// LALR1 examples need look-ahead sets finer than FOLLOW sets.
var LALR1 = []*Example{
	{
		Caption: "reduction next to a shift of a FOLLOW terminal",
		Grammar: `
S: D A;
S: b D c;
S: d c;
S: b d A;
A: a;
A: e;
D: d;
`,
		Good: []Good{
			{"d a", `S0(.'d', .'a')`},
			{"d e", `S0(.'d', .'e')`},
			{"b d c", `S1('b', .'d', 'c')`},
			{"d c", `S2('d', 'c')`},
			{"b d a", `S3('b', 'd', .'a')`},
			{"b d e", `S3('b', 'd', .'e')`},
		},
		Short: []string{
			"",
		},
	},
	{
		Caption: "assignments",
		Grammar: `
E: L '=' R;
E: R;
L: '*' R;
L: id;
R: L;
`,
		Good: []Good{
			{"* id = id", `E0(L0('*', ..'id'), '=', ..'id')`},
			{"id = * id", `E0(.'id', '=', .L0('*', ..'id'))`},
			{"* * id", `..L0('*', .L0('*', ..'id'))`},
			{"id", `...'id'`},
		},
		Short: []string{
			"",
			"*",
			"id = *",
			"* id =",
		},
		Bad: []string{
			"=",
		},
	},
	{
		Caption: "overlapping right recursions",
		Grammar: `
E: a X d;
E: b X c;
E: b Y d;
X: e X;
X: e;
Y: e Y;
Y: e;
`,
		Good: []Good{
			{"a e e d", `E0('a', X0('e', .'e'), 'd')`},
			{"b e c", `E1('b', .'e', 'c')`},
			{"b e e d", `E2('b', Y0('e', .'e'), 'd')`},
		},
		Short: []string{
			"",
			"b e",
		},
		Bad: []string{
			"a e c",
		},
	},
}

// LR1 examples are rejected by every construction that merges states.
var LR1 = []*Example{
	{
		Caption: "reductions told apart by the prefix",
		Grammar: `
S: a E c;
S: a F d;
S: b F c;
S: b E d;
E: e;
F: e;
`,
		Good: []Good{
			{"a e c", `S0('a', .'e', 'c')`},
			{"a e d", `S1('a', .'e', 'd')`},
			{"b e c", `S2('b', .'e', 'c')`},
			{"b e d", `S3('b', .'e', 'd')`},
		},
		Short: []string{
			"",
		},
		Bad: []string{
			"a e e",
			"b c",
		},
	},
	{
		Caption: "reductions of two symbols told apart by the prefix",
		Grammar: `
S: a A a;
S: b A b;
S: a B b;
S: b B a;
A: c c;
B: c c;
`,
		Good: []Good{
			{"a c c a", `S0('a', A0('c', 'c'), 'a')`},
			{"b c c a", `S3('b', B0('c', 'c'), 'a')`},
		},
		Short: []string{
			"a c c",
		},
	},
}

// LR2 examples need two terminals of look-ahead.
var LR2 = []*Example{
	{
		Caption: "one or two terminals between equal ones",
		Grammar: `
S: a A a;
S: b A b;
A: a;
A: a a;
`,
	},
	{
		Caption: "an alternative nested in another non-terminal",
		Grammar: `
S: a A a;
S: b A b;
S: c C;
A: a a;
A: a;
C: a b;
C: A;
`,
	},
	{
		Caption: "two sums",
		Grammar: `
S: A '+' A;
A: T '+' T;
A: T;
T: r;
`,
	},
	{
		Caption: "two or three terminals between equal ones",
		Grammar: `
S: a A a;
S: b A b;
A: a a a;
A: a a;
`,
	},
}

// Ambiguous examples have more than one value tree for some input.
var Ambiguous = []*Example{
	{
		Caption: "two derivations of one terminal",
		Grammar: `
Root: A;
Root: B;
A: term;
B: term;
`,
	},
	{
		Caption: "mixed associativity",
		Grammar: `
Expr: Expr '*' Val;
Expr: Val '+' Expr;
Expr: Val;
`,
	},
}

// Concat joins example lists.
func Concat(lists ...[]*Example) []*Example {
	var examples []*Example
	for _, l := range lists {
		examples = append(examples, l...)
	}
	return examples
}
