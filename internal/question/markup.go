package question

import "regexp"

var latexTag = regexp.MustCompile(`\[latex\](.*?)\[/latex\]`)

// DisplayMarkup rewrites every [latex]X[/latex] block to $X$.
// It is a pure display transform applied to question and option text.
func DisplayMarkup(text string) string {
	return latexTag.ReplaceAllString(text, "$$${1}$$")
}
