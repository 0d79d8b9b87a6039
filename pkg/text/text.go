// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package text holds the small string helpers shared by the generators.
package text

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.English)

// 🔠 Title upper-cases the first letter of every word, lower-casing the rest
func Title(s string) string {
	return titler.String(s)
}

var shortcode = regexp.MustCompile(`:[a-z0-9_+-]+:`)

// 🔗 Anchor slugs a heading the way GitHub does: emoji and punctuation are dropped,
// letters are lowercased and every space becomes a dash
func Anchor(heading string) string {
	heading = shortcode.ReplaceAllString(strings.TrimSpace(heading), "")

	var b strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r == '\uFE0E' || r == '\uFE0F' || r == '\u200D':
			// emoji presentation selectors and joiners
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ✂️ Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// ✂️ Ellipsis cuts s to at most n runes, ending in "..." when cut
func Ellipsis(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 3 {
		return Truncate(s, n)
	}
	return Truncate(s, n-3) + "..."
}

// 🔢 Comma formats an integer with thousands separators
func Comma(n int) string {
	return humanize.Comma(int64(n))
}

// 📋 Head returns at most the first n items of list
func Head[T any](list []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(list) <= n {
		return list
	}
	return list[:n]
}

// 📋 JoinMore joins the first n items and notes how many were left out
func JoinMore(items []string, n int, sep string) string {
	out := strings.Join(Head(items, n), sep)
	if extra := len(items) - n; extra > 0 {
		out += fmt.Sprintf(" and %d more", extra)
	}
	return out
}

// 🧮 Words splits s on whitespace
func Words(s string) []string {
	return strings.Fields(s)
}

// 🔍 ContainsAny reports whether s contains any of the needles
func ContainsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// 🔍 CountContaining counts the needles present in s
func CountContaining(s string, needles ...string) int {
	count := 0
	for _, n := range needles {
		if strings.Contains(s, n) {
			count++
		}
	}
	return count
}

// 🧹 Dedupe drops repeated strings, keeping first occurrences
func Dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
