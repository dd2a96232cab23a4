package patch

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects how a descriptor locates and replaces text.
type Kind string

const (
	// KindReplaceOne replaces the first occurrence of the token in a file.
	KindReplaceOne Kind = "replace-one"

	// KindFunctionBody replaces the entire brace-balanced body of a
	// definition of the form: function <TOKEN>(...) {...}
	// The replacement must carry its own surrounding braces.
	KindFunctionBody Kind = "function-body"
)

// Descriptor describes a single patch inside a file.
type Descriptor struct {
	// Kind selects the replacement strategy.
	Kind Kind `yaml:"kind"`
	// Token is the literal to find (KindReplaceOne) or the function name
	// whose body is replaced (KindFunctionBody).
	Token string `yaml:"token"`
	// Replacement is the text substituted at the located region.
	Replacement string `yaml:"replacement"`
}

var (
	// errTokenNotFound is returned when a descriptor's token is absent from the file.
	errTokenNotFound = errors.New("token not found")
	// errUnterminatedFunction is returned when a function body never balances its braces.
	errUnterminatedFunction = errors.New("unterminated function body")
	// errUnknownKind is returned for descriptors with an unrecognized kind.
	errUnknownKind = errors.New("unknown patch kind")
)

// Apply applies every descriptor in order to contents and returns the result.
// The first descriptor that fails aborts the whole set: the returned error
// names the offending token and the original contents should be kept as-is.
func Apply(contents string, descs []Descriptor) (string, error) {
	for _, desc := range descs {
		var err error

		switch desc.Kind {
		case KindReplaceOne:
			contents, err = replaceOne(contents, desc)
		case KindFunctionBody:
			contents, err = replaceFunctionBody(contents, desc)
		default:
			err = fmt.Errorf("%w: %q", errUnknownKind, desc.Kind)
		}

		if err != nil {
			return "", err
		}
	}

	return contents, nil
}

// replaceOne substitutes the first occurrence of the token.
func replaceOne(contents string, desc Descriptor) (string, error) {
	pos := strings.Index(contents, desc.Token)
	if pos < 0 {
		return "", fmt.Errorf("%w: %q", errTokenNotFound, desc.Token)
	}

	return contents[:pos] + desc.Replacement + contents[pos+len(desc.Token):], nil
}

// replaceFunctionBody substitutes the brace-delimited body of the named function,
// braces included.
func replaceFunctionBody(contents string, desc Descriptor) (string, error) {
	begin, end, err := findFunctionBody(contents, desc.Token)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, desc.Token)
	}

	return contents[:begin] + desc.Replacement + contents[end:], nil
}

// findFunctionBody locates the {begin, end} byte offsets of the body of:
//
//	function <name>(...) {...}
//	                     ^    ^
//
// begin points at the opening brace, end one past the matching close.
// Every brace is assumed to be paired, which holds for the minified
// JavaScript sources this tool targets.
func findFunctionBody(haystack, name string) (begin, end int, err error) {
	definition := strings.Index(haystack, "function "+name+"(")
	if definition < 0 {
		return 0, 0, errTokenNotFound
	}

	var (
		depth      int
		foundBegin bool
	)

	begin = definition
	for end = definition; end < len(haystack); end++ {
		switch haystack[end] {
		case '{':
			if !foundBegin {
				foundBegin = true
				begin = end
			}

			depth++
		case '}':
			depth--
		}

		if foundBegin && depth == 0 {
			return begin, end + 1, nil
		}
	}

	return 0, 0, errUnterminatedFunction
}
