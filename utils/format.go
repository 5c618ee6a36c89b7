package utils

import (
	"math"
	"strings"
)

// ANSI color codes accepted by Indent.
var ansiColors = map[string]string{
	"red":    "\033[31m",
	"green":  "\033[32m",
	"yellow": "\033[33m",
	"blue":   "\033[34m",
	"purple": "\033[35m",
	"cyan":   "\033[36m",
}

const ansiReset = "\033[0m"

// Indent prefixes every line of text with n tab characters. When color names
// a known ANSI color the indented block is wrapped in that color; unknown
// names leave the text uncolored.
func Indent(text string, n int, color string) string {
	if n < 0 {
		n = 0
	}
	prefix := strings.Repeat("\t", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	indented := strings.Join(lines, "\n")
	if code, ok := ansiColors[color]; ok {
		return code + indented + ansiReset
	}
	return indented
}

// RoundSig rounds x to the given number of significant figures. Zero passes
// through unchanged and a non-positive figure count returns x as is.
func RoundSig(x float64, figures int) float64 {
	if x == 0 || figures <= 0 {
		return x
	}
	magnitude := math.Ceil(math.Log10(math.Abs(x)))
	power := float64(figures) - magnitude
	scale := math.Pow(10, power)
	return math.Round(x*scale) / scale
}
