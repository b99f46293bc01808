// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

// englishStopWords are dropped by the TF-IDF tokenizer.
var englishStopWords = func() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "almost", "alone",
		"along", "already", "also", "although", "always", "am", "among", "an", "and",
		"another", "any", "anyone", "anything", "are", "around", "as", "at", "be",
		"became", "because", "become", "becomes", "been", "before", "being", "below",
		"between", "both", "but", "by", "can", "cannot", "could", "did", "do", "does",
		"doing", "done", "down", "during", "each", "either", "else", "enough", "even",
		"ever", "every", "few", "for", "from", "further", "get", "gets", "had", "has",
		"have", "having", "he", "her", "here", "hers", "herself", "him", "himself",
		"his", "how", "however", "if", "in", "into", "is", "it", "its", "itself",
		"just", "least", "less", "may", "me", "might", "more", "most", "much", "must",
		"my", "myself", "neither", "never", "no", "nor", "not", "now", "of", "off",
		"often", "on", "once", "one", "only", "onto", "or", "other", "others",
		"otherwise", "our", "ours", "ourselves", "out", "over", "own", "per",
		"perhaps", "rather", "same", "she", "should", "since", "so", "some",
		"somehow", "someone", "something", "still", "such", "than", "that", "the",
		"their", "theirs", "them", "themselves", "then", "there", "these", "they",
		"this", "those", "though", "through", "thus", "to", "together", "too",
		"toward", "towards", "under", "until", "up", "upon", "us", "very", "via",
		"was", "we", "well", "were", "what", "whatever", "when", "where", "whether",
		"which", "while", "who", "whoever", "whole", "whom", "whose", "why", "will",
		"with", "within", "without", "would", "yet", "you", "your", "yours",
		"yourself", "yourselves",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

func isStopWord(w string) bool {
	_, ok := englishStopWords[w]
	return ok
}
