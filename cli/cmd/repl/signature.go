package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/formula/lang"
)

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name as typed (e.g., "F.ADD")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// frame is an open parenthesis or array brace preceding the cursor.
type frame struct {
	open  int
	args  int
	paren bool
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. Delimiters inside string literals are
// ignored, and a cursor inside an array literal is not considered in a call.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	var (
		stack []frame
		quote rune
	)

	for i, r := range input[:cursor] {
		if quote != 0 {
			if r == quote {
				quote = 0
			}

			continue
		}

		switch r {
		case '"', '\'':
			quote = r
		case '(', '{':
			stack = append(stack, frame{open: i, paren: r == '('})
		case ')', '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',', ';':
			if len(stack) > 0 {
				stack[len(stack)-1].args++
			}
		}
	}

	if len(stack) == 0 || !stack[len(stack)-1].paren {
		return functionCall{}
	}

	top := stack[len(stack)-1]

	nameStart := top.open

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if r != '.' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		nameStart -= size
	}

	name := input[nameStart:top.open]
	if name == "" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: top.args, inCall: true}
}

// getSignature retrieves the usage string and parameter names of a built-in
// function. Returns an empty signature if the function is not found.
func getSignature(funcName string) (signature string, params []string) {
	fn := lang.Lookup(funcName)
	if fn == nil {
		return "", nil
	}

	return fn.Usage, fn.Params()
}

// activeParam returns the index into params that describes argument argIdx,
// or -1 if the argument is beyond what the signature accepts. A trailing
// "..." repeats the parameter before it.
func activeParam(params []string, argIdx int) int {
	n := len(params)
	if n == 0 {
		return -1
	}

	if params[n-1] == "..." {
		if argIdx < n-1 {
			return argIdx
		}

		if n >= 2 {
			return n - 2
		}

		return -1
	}

	if argIdx < n {
		return argIdx
	}

	return -1
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	funcName := signature[:openParen]

	if len(params) == 0 {
		return signatureNameStyle.Render(funcName) +
			signatureStyle.Render("()")
	}

	active := activeParam(params, currentArgIdx)

	var b strings.Builder
	b.WriteString(signatureNameStyle.Render(funcName))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		if i == active {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
