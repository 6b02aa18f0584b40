// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// spliceOverlay replaces a rectangular region of a rendered frame
// with overlay content, line by line, starting at (anchorX, anchorY).
// Truncation is ANSI-aware so escape sequences in the frame survive
// on both sides of the overlay, and the overlay is bracketed with SGR
// resets so neither side's attributes bleed into the other.
func spliceOverlay(frame string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return frame
	}

	frameLines := strings.Split(frame, "\n")

	// Grow the frame downward if the overlay extends past its last
	// line, so a tall overlay over a short base still lands whole.
	needed := anchorY + len(overlayLines)
	for len(frameLines) < needed {
		frameLines = append(frameLines, "")
	}

	for index, overlayLine := range overlayLines {
		frameLineIndex := anchorY + index
		if frameLineIndex < 0 {
			continue
		}
		overlayWidth := ansi.StringWidth(overlayLine)

		frameLine := frameLines[frameLineIndex]
		frameLineWidth := ansi.StringWidth(frameLine)

		var result strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(frameLine, anchorX, "")
			result.WriteString(prefix)
			if padding := anchorX - ansi.StringWidth(prefix); padding > 0 {
				result.WriteString(strings.Repeat(" ", padding))
			}
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		suffixStart := anchorX + overlayWidth
		if suffixStart < frameLineWidth {
			result.WriteString(ansi.TruncateLeft(frameLine, suffixStart, ""))
		}

		frameLines[frameLineIndex] = result.String()
	}

	return strings.Join(frameLines, "\n")
}
