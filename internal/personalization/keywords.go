package personalization

import (
    "strings"
)

// categoryMarkers are the substring tests that bucket an insight into a
// category. Both the question and the answer are checked, lower-cased.
var categoryMarkers = map[Category][]string{
    CategoryDates:      {"date", "romantic", "evening out", "night out"},
    CategoryGifts:      {"gift", "present", "surprise"},
    CategoryInterests:  {"interest", "hobby", "hobbies", "passion", "into"},
    CategoryDislikes:   {"dislike", "hate", "avoid", "annoy", "can't stand"},
    CategoryFavorites:  {"favorite", "favourite", "love", "best"},
    CategoryActivities: {"activity", "activities", "weekend", "together", "do for fun"},
    CategoryPlaces:     {"place", "restaurant", "travel", "visit", "go to"},
    CategoryFoods:      {"food", "eat", "cuisine", "meal", "dinner", "snack", "cook"},
}

// stopwords are skipped when tokenizing answers into keywords.
var stopwords = map[string]bool{
    "that": true, "this": true, "with": true, "they": true, "them": true,
    "their": true, "have": true, "been": true, "would": true, "really": true,
    "when": true, "what": true, "about": true, "some": true, "like": true,
    "likes": true, "love": true, "loves": true, "want": true, "wants": true,
    "always": true, "never": true, "very": true, "just": true, "more": true,
    "partner": true, "because": true, "could": true, "should": true,
}

// ExtractKeywords scans insight records for category markers and returns the
// significant words from each matching answer, bucketed by category. One
// insight may land in several categories. Duplicates are dropped, first-seen
// order is kept, and categories with no matches are omitted entirely.
func ExtractKeywords(insights []Insight) map[Category][]string {
    out := make(map[Category][]string)
    seen := make(map[Category]map[string]bool)

    for _, in := range insights {
        question := strings.ToLower(in.QuestionText)
        answer := strings.ToLower(in.PartnerAnswer)

        for cat, markers := range categoryMarkers {
            if !containsAny(question, markers) && !containsAny(answer, markers) {
                continue
            }
            if seen[cat] == nil {
                seen[cat] = make(map[string]bool)
            }
            for _, word := range Tokenize(in.PartnerAnswer) {
                if seen[cat][word] {
                    continue
                }
                seen[cat][word] = true
                out[cat] = append(out[cat], word)
            }
        }
    }

    return out
}

// ExtractThemes groups the insights themselves by category, for surfacing
// "here's why" detail alongside suggestions.
func ExtractThemes(insights []Insight) map[Category][]Insight {
    out := make(map[Category][]Insight)
    for _, in := range insights {
        question := strings.ToLower(in.QuestionText)
        answer := strings.ToLower(in.PartnerAnswer)
        for cat, markers := range categoryMarkers {
            if containsAny(question, markers) || containsAny(answer, markers) {
                out[cat] = append(out[cat], in)
            }
        }
    }
    return out
}

// Tokenize splits free text into lower-cased significant words: at least four
// characters, punctuation stripped, stopwords removed. Used for both insight
// answers and weekly wishes so keyword overlap checks behave the same way.
func Tokenize(text string) []string {
    fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
        return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\''
    })

    var words []string
    seen := make(map[string]bool)
    for _, f := range fields {
        f = strings.Trim(f, "'")
        if len(f) < 4 || stopwords[f] || seen[f] {
            continue
        }
        seen[f] = true
        words = append(words, f)
    }
    return words
}

func containsAny(s string, subs []string) bool {
    for _, sub := range subs {
        if strings.Contains(s, sub) {
            return true
        }
    }
    return false
}
