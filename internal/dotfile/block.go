// Package dotfile manages named, delimiter-bounded text blocks inside
// user configuration files. Each block is fully owned by rigstrap;
// everything outside the markers is never touched.
package dotfile

import (
	"fmt"
	"strings"
)

const (
	blockStartFmt = "# >>> rigstrap %s >>>"
	blockEndFmt   = "# <<< rigstrap %s <<<"
)

// StartMarker returns the opening delimiter line for a named block.
func StartMarker(name string) string {
	return fmt.Sprintf(blockStartFmt, name)
}

// EndMarker returns the closing delimiter line for a named block.
func EndMarker(name string) string {
	return fmt.Sprintf(blockEndFmt, name)
}

// readBlock extracts the content between a named block's markers.
// Returns empty string if the block is not found.
func readBlock(content, name string) string {
	start := StartMarker(name)
	end := EndMarker(name)

	startIdx := strings.Index(content, start)
	if startIdx == -1 {
		return ""
	}

	endIdx := strings.Index(content, end)
	if endIdx == -1 {
		return ""
	}

	blockStart := startIdx + len(start)
	if blockStart < len(content) && content[blockStart] == '\n' {
		blockStart++
	}

	if blockStart >= endIdx {
		return ""
	}

	return content[blockStart:endIdx]
}

// upsertBlock replaces (or appends) a named block in the content.
// An existing block is replaced in place; otherwise the block is
// appended at end of file, separated from prior content by one blank line.
func upsertBlock(content, name, block string) string {
	start := StartMarker(name)
	end := EndMarker(name)

	managed := start + "\n" + block + end + "\n"

	startIdx := strings.Index(content, start)
	if startIdx == -1 {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if content == "" {
			return managed
		}
		return content + "\n" + managed
	}

	endIdx := strings.Index(content, end)
	if endIdx == -1 {
		// Malformed block: start exists but no end. Replace from start to EOF.
		return content[:startIdx] + managed
	}

	afterEnd := endIdx + len(end)
	if afterEnd < len(content) && content[afterEnd] == '\n' {
		afterEnd++
	}

	return content[:startIdx] + managed + content[afterEnd:]
}

// removeBlock deletes a named block, markers inclusive.
// The second return value reports whether a block was found.
func removeBlock(content, name string) (string, bool) {
	start := StartMarker(name)
	end := EndMarker(name)

	startIdx := strings.Index(content, start)
	if startIdx == -1 {
		return content, false
	}

	endIdx := strings.Index(content, end)
	if endIdx == -1 {
		// Malformed block runs to EOF.
		return content[:startIdx], true
	}

	afterEnd := endIdx + len(end)
	if afterEnd < len(content) && content[afterEnd] == '\n' {
		afterEnd++
	}

	// Collapse the separator blank line inserted on append.
	before := content[:startIdx]
	if strings.HasSuffix(before, "\n\n") {
		before = before[:len(before)-1]
	}

	return before + content[afterEnd:], true
}
