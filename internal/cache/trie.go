// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package cache provides in-memory indexes rebuilt alongside each corpus snapshot.
package cache

import (
	"sort"
	"strings"
	"sync"
)

// trieNode is one rune step. Terminal nodes keep the original spelling and
// every corpus index that carries it.
type trieNode struct {
	children map[rune]*trieNode
	value    string
	indices  []int
}

// Trie is a prefix tree from titles to corpus indices, used for title
// autocomplete. Keys are normalized (lowercase by default) so lookups are
// case-insensitive; the original spelling is returned in results.
type Trie struct {
	mu        sync.RWMutex
	root      *trieNode
	size      int
	normalize func(string) string
}

// TrieResult is one autocomplete hit.
type TrieResult struct {
	// Value is the title as inserted.
	Value string

	// Index is the corpus index the title belongs to.
	Index int
}

// NewTrie creates an empty trie. A nil normalize lowercases keys.
func NewTrie(normalize func(string) string) *Trie {
	if normalize == nil {
		normalize = strings.ToLower
	}
	return &Trie{root: newTrieNode(), normalize: normalize}
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// Insert associates value with index. Returns true when the normalized key
// was not present before. Empty keys are ignored.
func (t *Trie) Insert(value string, index int) bool {
	key := t.normalize(value)
	if key == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	for _, ch := range key {
		next := node.children[ch]
		if next == nil {
			next = newTrieNode()
			node.children[ch] = next
		}
		node = next
	}

	isNew := len(node.indices) == 0
	if isNew {
		node.value = value
		t.size++
	}
	for _, i := range node.indices {
		if i == index {
			return isNew
		}
	}
	node.indices = append(node.indices, index)
	return isNew
}

// Search returns the indices stored under the exact key.
func (t *Trie) Search(value string) ([]int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.find(t.normalize(value))
	if node == nil || len(node.indices) == 0 {
		return nil, false
	}
	out := make([]int, len(node.indices))
	copy(out, node.indices)
	return out, true
}

// Autocomplete returns titles starting with prefix, at most one per corpus
// index, ordered by ascending index (catalog rank) and limited to limit.
func (t *Trie) Autocomplete(prefix string, limit int) []TrieResult {
	key := t.normalize(prefix)
	if key == "" || limit <= 0 {
		return []TrieResult{}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.find(key)
	if node == nil {
		return []TrieResult{}
	}

	var hits []TrieResult
	collect(node, &hits)

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Index != hits[b].Index {
			return hits[a].Index < hits[b].Index
		}
		if len(hits[a].Value) != len(hits[b].Value) {
			return len(hits[a].Value) < len(hits[b].Value)
		}
		return hits[a].Value < hits[b].Value
	})

	out := make([]TrieResult, 0, limit)
	seen := make(map[int]struct{}, limit)
	for _, h := range hits {
		if _, dup := seen[h.Index]; dup {
			continue
		}
		seen[h.Index] = struct{}{}
		out = append(out, h)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Size returns the number of distinct keys.
func (t *Trie) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// find must be called with mu held.
func (t *Trie) find(key string) *trieNode {
	node := t.root
	for _, ch := range key {
		node = node.children[ch]
		if node == nil {
			return nil
		}
	}
	return node
}

func collect(node *trieNode, out *[]TrieResult) {
	for _, i := range node.indices {
		*out = append(*out, TrieResult{Value: node.value, Index: i})
	}
	for _, child := range node.children {
		collect(child, out)
	}
}
