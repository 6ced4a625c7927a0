package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// scanTraceFiles lists the files in dir matching any of patterns, sorted and
// without duplicates.
func scanTraceFiles(dir string, patterns []string) []string {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		for _, match := range matches {
			name := filepath.Base(match)
			if seen[name] {
				continue
			}
			if info, err := os.Stat(match); err != nil || info.IsDir() {
				continue
			}
			seen[name] = true
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files
}

func (m *model) scanFiles() {
	m.fileList = nil
	m.selectedFileIndex = -1

	dir, err := os.Getwd()
	if err != nil {
		return
	}
	m.fileList = scanTraceFiles(dir, m.config.FilePatterns)
	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		m.input.SetValue(m.fileList[0])
		m.input.CursorEnd()
	}
}
