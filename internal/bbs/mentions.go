// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package bbs

import "regexp"

// mentionPattern matches @ followed by word characters. An @ followed by
// punctuation or whitespace is not a mention.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ParseMentions scans content for @name tokens and returns the candidate
// names in order of appearance. Duplicates are preserved: a name mentioned
// twice yields two entries and therefore two notifications. Resolution and
// delivery are handled separately so both halves test independently.
func ParseMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}
