package butler

import (
	"regexp"
	"strings"
)

// maxKeywords caps the keyword list that seeds per-source filters
const maxKeywords = 10

var (
	dateLiteralRe = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?\b` +
		`|\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?\b`)

	relativeDateRe = regexp.MustCompile(`\b(?:yesterday|today|tomorrow|tonight` +
		`|last\s+(?:week|month|year|quarter|night)` +
		`|next\s+(?:week|month|year|quarter)` +
		`|this\s+(?:week|month|year|morning|afternoon|evening))\b`)

	emailAddrRe = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)

	fileNameRe = regexp.MustCompile(`\b[\w-]+\.(?:pdf|docx?|xlsx?|pptx?|txt|md|csv|json|png|jpe?g|gif|zip|mp3|mp4|wav)\b`)
)

// domainTerms are assistant-domain nouns whose presence usually means the
// user refers to their own data
var domainTerms = []string{
	"project", "meeting", "deadline", "invoice", "budget", "report",
	"task", "appointment", "contract", "presentation", "reminder", "note",
}

// ExtractEntities pulls structured hints out of the message: date literals
// and relative-date words, email addresses, filename tokens, and domain
// nouns. Detectors run independently and their matches are unioned without
// deduplication: the result is a hint set for source queries, not a unique
// key set, so a token matched by two detectors appears twice.
func ExtractEntities(message string) []string {
	lowered := strings.ToLower(message)

	var entities []string
	entities = append(entities, dateLiteralRe.FindAllString(lowered, -1)...)
	entities = append(entities, relativeDateRe.FindAllString(lowered, -1)...)
	entities = append(entities, emailAddrRe.FindAllString(message, -1)...)
	entities = append(entities, fileNameRe.FindAllString(lowered, -1)...)

	words := wordSet(lowered)
	for _, term := range domainTerms {
		if _, ok := words[term]; ok {
			entities = append(entities, term)
		}
	}

	return entities
}

var nonWordRe = regexp.MustCompile(`[^a-z0-9\s]+`)

// wordSet tokenizes a lowercased message into its distinct words
func wordSet(lowered string) map[string]struct{} {
	stripped := nonWordRe.ReplaceAllString(lowered, " ")
	set := make(map[string]struct{})
	for _, w := range strings.Fields(stripped) {
		set[w] = struct{}{}
	}
	return set
}

// stopWords are dropped from keyword extraction. The list includes the
// personal and temporal markers the classifier keys on, since they carry
// no retrieval value as search terms.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "and", "for", "are", "was", "were", "been", "being", "has",
		"had", "have", "does", "did", "doing", "will", "would", "could",
		"should", "shall", "may", "might", "must", "can", "not", "but",
		"what", "which", "who", "whom", "when", "where", "why", "how",
		"this", "that", "these", "those", "with", "about", "into", "over",
		"after", "before", "under", "from", "they", "them", "their", "there",
		"here", "all", "any", "both", "each", "few", "more", "most", "some",
		"such", "only", "own", "same", "than", "too", "very", "just", "you",
		"your", "yours", "she", "her", "him", "his", "its", "our", "ours",
		"out", "off", "get", "got", "please", "show", "tell", "give", "let",
		"last", "recent", "recently", "yesterday", "today", "tomorrow",
	} {
		stopWords[w] = struct{}{}
	}
}

// ExtractKeywords reduces the message to at most maxKeywords search terms:
// lowercased, punctuation stripped, stop words removed, words of three or
// more characters kept in their original order
func ExtractKeywords(message string) []string {
	stripped := nonWordRe.ReplaceAllString(strings.ToLower(message), " ")

	var keywords []string
	for _, word := range strings.Fields(stripped) {
		if len(word) <= 2 {
			continue
		}
		if _, ok := stopWords[word]; ok {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) >= maxKeywords {
			break
		}
	}

	return keywords
}
