package model

import (
	"regexp"
	"strings"
)

// Post content markup. Hashtags are #word tokens, media attachments are
// [media|url] references embedded inline by the composer.
var (
	hashtagPattern  = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	mediaRefPattern = regexp.MustCompile(`\[media\|([^\]\s]+)\]`)
)

// ExtractHashtags returns the lowercased tags in content, without the
// leading '#', in order of first appearance and deduplicated.
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, match := range matches {
		tag := strings.ToLower(match[1])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// ExtractMediaUrls returns every [media|url] reference in content, in
// order.
func ExtractMediaUrls(content string) []string {
	matches := mediaRefPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	urls := make([]string, 0, len(matches))
	for _, match := range matches {
		urls = append(urls, match[1])
	}
	return urls
}

// HasMedia reports whether content carries at least one media reference.
func HasMedia(content string) bool {
	return mediaRefPattern.MatchString(content)
}

// StripMediaRefs removes media references from content, leaving the
// caption text clients render above the attachments.
func StripMediaRefs(content string) string {
	return strings.TrimSpace(mediaRefPattern.ReplaceAllString(content, ""))
}
