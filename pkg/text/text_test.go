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

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"javascript", "Javascript"},
		{"c++", "C++"},
		{"FULL STACK developer", "Full Stack Developer"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.in), "title should match")
		})
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4), "truncate counts runes")
	assert.Equal(t, "abcd", Truncate("abcd", 10), "short strings are kept")
	assert.Equal(t, "abc...", Ellipsis("abcdefghij", 6), "ellipsis should fit the limit")
	assert.Equal(t, "1,234,567", Comma(1234567), "comma should group thousands")
	assert.Equal(t, []int{1, 2}, Head([]int{1, 2, 3}, 2), "head should cut")
	assert.Equal(t, "a, b and 2 more", JoinMore([]string{"a", "b", "c", "d"}, 2, ", "), "join more should count the rest")
	assert.Equal(t, 2, CountContaining("led and built things", "led", "built", "managed"), "count should match")
	assert.True(t, ContainsAny("docker compose", "compose"), "contains any should match")
	assert.Equal(t, []string{"a", "b"}, Dedupe([]string{"a", "b", "a"}), "dedupe should keep order")
}

func TestAnchor(t *testing.T) {
	tests := []struct {
		heading string
		want    string
	}{
		{"Getting Started", "getting-started"},
		{"🚀 Getting Started", "-getting-started"},
		{"🛠️ Technology Stack", "-technology-stack"},
		{"❤️ Thanks", "-thanks"},
		{":rocket: Getting Started", "-getting-started"},
		{"API Documentation (v2)", "api-documentation-v2"},
		{"C++ & Go: notes", "c--go-notes"},
		{"snake_case-and-dash", "snake_case-and-dash"},
		{"Café Ünïcode", "café-ünïcode"},
		{"  Padded  ", "padded"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Anchor(tt.heading), "anchor for %q", tt.heading)
	}
}
