package model

import "regexp"

// AnnotationPattern is one recognizer of a cassette decorator line.
type AnnotationPattern struct {
	Name   string
	Regexp *regexp.Regexp
	// PathGroup is the submatch index holding the explicit cassette path,
	// or 0 when the pattern carries no path.
	PathGroup int
}

// ExplicitPath returns the quoted path captured by match, if any.
func (p AnnotationPattern) ExplicitPath(match []string) string {
	if p.PathGroup <= 0 || p.PathGroup >= len(match) {
		return ""
	}

	return match[p.PathGroup]
}

// PendingAnnotation is a decorator waiting for the function it decorates.
type PendingAnnotation struct {
	LineIndex int
	Match     []string
	Pattern   *AnnotationPattern
}

// CassetteReference ties a decorated test to its cassette file.
type CassetteReference struct {
	AnchorLine         int    `yaml:"anchor_line"` // 0-based line of the decorator
	FixturePath        string `yaml:"fixture_path"`
	SourceFileBaseName string `yaml:"source_base_name"`
	FunctionName       string `yaml:"function"`
	FunctionLine       int    `yaml:"function_line"` // 0-based line of the def
	Explicit           bool   `yaml:"explicit"`
}
