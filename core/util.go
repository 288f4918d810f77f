package core

import (
	"os"
	"path/filepath"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// NormalizeAnswer lowers `s` and collapses every run of whitespace into one space.
func NormalizeAnswer(s string) string {
	return strings.Join(strings.Fields(CleanString(s, true /* lower */)), " ")
}

// ProjectRoot walks up from the working directory looking for the module's go.mod.
// go-test changes the working directory to the package being tested, and deployed binaries
// have no go.mod at all: the working directory is returned when nothing is found.
func ProjectRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
