// Package format turns provider output into the plain-text block shown in the transcript.
package format

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"hooksy-assistant/internal/provider"
)

const (
	VideoAppendixHeader = "🎥 Video Tutorials:"
	VideoOnlyHeader     = "🎥 Here are some great YouTube tutorials for you:"
	VideoOnlyFooter     = "Happy crocheting! 🧶✨"
)

var (
	emphasis = regexp.MustCompile(`\*{1,3}`)
	heading  = regexp.MustCompile(`#+\s+`)
	numbered = regexp.MustCompile(`^\s*(\d+)[.)]\s+`)
	bullet   = regexp.MustCompile(`^\s*(?:[-•]|\*\s)\s*`)
)

// Format renders text followed by a video appendix. With empty text the
// videos are rendered as a standalone video answer. Format never fails.
func Format(text string, videos []provider.Video) string {
	if strings.TrimSpace(text) == "" {
		return formatVideoOnly(videos)
	}

	var b strings.Builder
	b.WriteString(FormatText(text))

	if len(videos) > 0 {
		b.WriteString("\n\n")
		b.WriteString(VideoAppendixHeader)
		b.WriteString("\n")
		writeVideos(&b, videos)
	}

	return b.String()
}

// FormatText cleans markup line by line and normalises list items
func FormatText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, len(lines))

	for i, line := range lines {
		out[i] = formatLine(line)
	}

	return strings.Join(out, "\n")
}

// StripMarkup removes emphasis and heading markers anywhere in line
func StripMarkup(line string) string {
	line = heading.ReplaceAllString(line, "")
	return emphasis.ReplaceAllString(line, "")
}

func formatLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return ""
	}

	if m := numbered.FindStringSubmatch(line); m != nil {
		content := strings.TrimSpace(StripMarkup(line[len(m[0]):]))
		return fmt.Sprintf("%s. %s", m[1], content)
	}

	if loc := bullet.FindStringIndex(line); loc != nil {
		content := strings.TrimSpace(StripMarkup(line[loc[1]:]))
		return "• " + content
	}

	return strings.TrimRightFunc(StripMarkup(line), unicode.IsSpace)
}

func formatVideoOnly(videos []provider.Video) string {
	var b strings.Builder
	b.WriteString(VideoOnlyHeader)
	b.WriteString("\n")
	writeVideos(&b, videos)
	b.WriteString("\n\n")
	b.WriteString(VideoOnlyFooter)
	return b.String()
}

func writeVideos(b *strings.Builder, videos []provider.Video) {
	for i, video := range videos {
		fmt.Fprintf(b, "\n%d. %s\n   By: %s\n   🔗 %s\n", i+1, video.Title, video.Channel, video.WatchURL())
	}
}
