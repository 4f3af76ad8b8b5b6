package personalization

import (
    "sort"
    "strings"
    "time"
)

// Scoring point values. The model is a flat additive heuristic: every factor
// is evaluated independently and summed, then the total is floored at zero.
const (
    pointsBase             = 10
    pointsPrimaryLanguage  = 30
    pointsSecondaryLang    = 15
    pointsBudgetMatch      = 20
    pointsDateStyleMatch   = 25
    pointsDateTypePref     = 20
    pointsGiftTypePref     = 15
    pointsPerRequiredData  = 15
    pointsPerKeywordMatch  = 10
    pointsPerWishMatch     = 40
    pointsTierEligible     = 5
    pointsTierIneligible   = -10
    pointsAvoidViolation   = -100
    pointsAvoidSafe        = 25
    pointsSeasonMatch      = 10
)

// MinScore is the generation threshold: templates scoring below it are
// dropped. The avoid-list penalty is sized so a violating template cannot
// clear this bar even with love-language, budget and wish matches stacked.
const MinScore = 30

// ScoredTemplate pairs a template with its relevance score for one context.
type ScoredTemplate struct {
    Template Template
    Score    int
}

// Score computes the additive relevance score of a template for a context.
// Always non-negative. now supplies the season.
func Score(t Template, ctx *Context, now time.Time) int {
    score := pointsBase

    // Love-language factors apply to the love-language variant only.
    if t.Kind == KindLoveLanguage {
        if matchesPrimaryLanguage(t, ctx) {
            score += pointsPrimaryLanguage
        } else if matchesSecondaryLanguage(t, ctx) {
            score += pointsSecondaryLang
        }
    }

    if t.Kind == KindGift {
        if matchesBudget(t, ctx) {
            score += pointsBudgetMatch
        }
        if matchesGiftTypePreference(t, ctx) {
            score += pointsGiftTypePref
        }
    }

    if t.Kind == KindDate {
        if matchesDateStyle(t, ctx) {
            score += pointsDateStyleMatch
        }
        if matchesDateTypePreference(t, ctx) {
            score += pointsDateTypePref
        }
    }

    if len(t.RequiresData) > 0 && requiredDataSatisfied(t, ctx) {
        score += pointsPerRequiredData * len(t.RequiresData)
    }

    score += pointsPerKeywordMatch * keywordMatchCount(t, ctx)
    score += pointsPerWishMatch * wishMatchCount(t, ctx)

    if t.MinTier <= ctx.Tier {
        score += pointsTierEligible
    } else {
        score += pointsTierIneligible
    }

    if len(ctx.Partner.WantsNeeds.Avoid) > 0 {
        if violatesAvoidList(t, ctx) {
            score += pointsAvoidViolation
        } else {
            score += pointsAvoidSafe
        }
    }

    if matchesSeason(t, now) {
        score += pointsSeasonMatch
    }

    if score < 0 {
        return 0
    }
    return score
}

// Rank scores every template and sorts descending. The sort is stable so
// equal scores keep their library order.
func Rank(templates []Template, ctx *Context, now time.Time) []ScoredTemplate {
    scored := make([]ScoredTemplate, 0, len(templates))
    for _, t := range templates {
        scored = append(scored, ScoredTemplate{Template: t, Score: Score(t, ctx, now)})
    }
    sort.SliceStable(scored, func(i, j int) bool {
        return scored[i].Score > scored[j].Score
    })
    return scored
}

// FilterByMinScore drops candidates below the generation threshold.
func FilterByMinScore(scored []ScoredTemplate, min int) []ScoredTemplate {
    out := make([]ScoredTemplate, 0, len(scored))
    for _, s := range scored {
        if s.Score >= min {
            out = append(out, s)
        }
    }
    return out
}

// Factor predicates. These are the single source of truth for "did this
// factor match": both the scorer above and reason generation use them, so
// a reason can never claim a match that did not contribute to the score.

func matchesPrimaryLanguage(t Template, ctx *Context) bool {
    return containsLanguage(t.LoveLanguages, ctx.Partner.LoveLanguages.Primary)
}

func matchesSecondaryLanguage(t Template, ctx *Context) bool {
    return containsLanguage(t.LoveLanguages, ctx.Partner.LoveLanguages.Secondary)
}

func matchesBudget(t Template, ctx *Context) bool {
    return t.Budget != "" && t.Budget == ctx.Partner.Preferences.GiftBudget
}

func matchesDateStyle(t Template, ctx *Context) bool {
    style := ctx.Partner.WantsNeeds.DateStyle
    if style == "" {
        return false
    }
    for _, s := range t.DateStyles {
        if s == style {
            return true
        }
    }
    return false
}

func matchesDateTypePreference(t Template, ctx *Context) bool {
    if t.DateType == "" {
        return false
    }
    for _, dt := range ctx.Partner.Preferences.DateTypes {
        if dt == t.DateType {
            return true
        }
    }
    return false
}

func matchesGiftTypePreference(t Template, ctx *Context) bool {
    if t.GiftType == "" {
        return false
    }
    for _, gt := range ctx.Partner.WantsNeeds.GiftTypes {
        if gt == t.GiftType {
            return true
        }
    }
    return false
}

// requiredDataSatisfied reports whether every field in RequiresData would
// resolve during interpolation for this context.
func requiredDataSatisfied(t Template, ctx *Context) bool {
    for _, field := range t.RequiresData {
        if resolveField(field, ctx) == "" {
            return false
        }
    }
    return true
}

// keywordMatchCount counts extracted insight keywords that appear in the
// template's title or description (case-insensitive substring).
func keywordMatchCount(t Template, ctx *Context) int {
    text := strings.ToLower(t.Title + " " + t.Description)
    count := 0
    for _, kws := range ctx.Keywords {
        for _, kw := range kws {
            if strings.Contains(text, kw) {
                count++
            }
        }
    }
    return count
}

// wishMatchCount counts weekly-wish keywords found in the template text.
// Wishes are the highest-weight signal in the model.
func wishMatchCount(t Template, ctx *Context) int {
    text := strings.ToLower(t.Title + " " + t.Description)
    count := 0
    for _, kw := range ctx.WishKeywords {
        if strings.Contains(text, kw) {
            count++
        }
    }
    return count
}

func violatesAvoidList(t Template, ctx *Context) bool {
    for _, trigger := range t.AvoidTriggers {
        for _, avoided := range ctx.Partner.WantsNeeds.Avoid {
            if strings.EqualFold(trigger, avoided) {
                return true
            }
        }
    }
    return false
}

func matchesSeason(t Template, now time.Time) bool {
    season := SeasonOf(now)
    for _, s := range t.BestSeasons {
        if s == season {
            return true
        }
    }
    return false
}

func containsLanguage(langs []LoveLanguage, target LoveLanguage) bool {
    if target == "" {
        return false
    }
    for _, l := range langs {
        if l == target {
            return true
        }
    }
    return false
}
