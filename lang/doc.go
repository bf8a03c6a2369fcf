// Package lang parses and evaluates spreadsheet formulas.
//
// A formula is text beginning with "=" followed by a single expression:
//
//	=UPPER("hello")
//	=F.DIV(2, 0)
//	=IF(F.GT(LEN('abc'), 2), "long", "short")
//	={'TEST', SUM(1,2); 2, TRUE}
//
// # Grammar
//
// Informal EBNF:
//
//	Root    → '=' Expr EOF
//	Expr    → Call | Boolean | Array | String | Number
//	Call    → Name '(' (Expr (',' Expr)*)? ')'
//	Boolean → ('TRUE' | 'FALSE') ('(' ')')?
//	Array   → '{' (Expr ((',' | ';') Expr)*)? '}'
//	String  → "'" chars "'" | '"' chars '"'
//	Number  → ('+' | '-')? digits ('.' digits)? (('e' | 'E') ('+' | '-')? digits)?
//
// Function names are case-insensitive. A quote character is written inside
// a string of the same quote by doubling it. An array containing ";" is a
// list of rows, each an array; otherwise it is a single flat row.
//
// There are no infix operators. Arithmetic and comparison use the F.*
// functions: F.ADD, F.SUB, F.MUL, F.DIV, F.POW, F.EQ, F.NE, F.GT, F.LT,
// F.GTE, F.LTE, F.PERCENT, and F.NEGATE.
//
// # Values
//
// Evaluation produces a [Value]. Spreadsheet error results such as #DIV/0!
// and #N/A are represented by the null value rather than by Go errors, and
// a null argument makes most functions return null in turn. Go errors are
// reserved for formulas that cannot be evaluated at all: syntax errors,
// unknown functions, wrong argument counts or types ([ErrParse]), and
// recognized functions that are not implemented ([ErrNotImplemented]).
//
// # Concurrency
//
// [Parse], [Evaluate], and [Formula.Eval] are safe for concurrent use.
// Parsed syntax trees are cached and shared; see [ClearCache].
package lang
