// Package model defines the data structures shared by the scanner, the
// resolvers and the UI.
package model

import (
	"path/filepath"
	"strings"
)

// PythonExt is the extension of the files vcrm scans.
const PythonExt = ".py"

// Path represents a file system path.
type Path string

// Source represents a Python source file selected for scanning.
type Source struct {
	Path Path
	// BaseName is the file name without directory and without the ".py"
	// suffix. It seeds conventional cassette paths.
	BaseName string
}

// BaseName strips the directory and a ".py" suffix from path.
func BaseName(path Path) string {
	return strings.TrimSuffix(filepath.Base(string(path)), PythonExt)
}

// NewSource builds the Source for path.
func NewSource(path Path) Source {
	return Source{Path: path, BaseName: BaseName(path)}
}

// RootContext holds the two roots a fixture path is resolved against.
// It is computed fresh for every request.
type RootContext struct {
	ProjectMarkerDir Path
	CassetteRoot     string
}
