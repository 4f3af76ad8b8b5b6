package personalization

import (
    "time"
)

// LoveLanguage is one of the five ways a partner prefers to receive affection.
type LoveLanguage string

const (
    LanguageWords       LoveLanguage = "words"
    LanguageQualityTime LoveLanguage = "quality_time"
    LanguageGifts       LoveLanguage = "gifts"
    LanguageActs        LoveLanguage = "acts"
    LanguageTouch       LoveLanguage = "touch"
)

// Category buckets free-text insights into the themes the scorer understands.
type Category string

const (
    CategoryDates      Category = "dates"
    CategoryGifts      Category = "gifts"
    CategoryInterests  Category = "interests"
    CategoryDislikes   Category = "dislikes"
    CategoryFavorites  Category = "favorites"
    CategoryActivities Category = "activities"
    CategoryPlaces     Category = "places"
    CategoryFoods      Category = "foods"
)

// Season is derived from the current month at scoring time.
type Season string

const (
    SeasonSpring Season = "spring"
    SeasonSummer Season = "summer"
    SeasonFall   Season = "fall"
    SeasonWinter Season = "winter"
)

// SeasonOf maps a point in time to its season (Mar-May spring, Jun-Aug summer,
// Sep-Nov fall, otherwise winter).
func SeasonOf(t time.Time) Season {
    switch t.Month() {
    case time.March, time.April, time.May:
        return SeasonSpring
    case time.June, time.July, time.August:
        return SeasonSummer
    case time.September, time.October, time.November:
        return SeasonFall
    default:
        return SeasonWinter
    }
}

// Insight is one saved Q&A record about the partner.
type Insight struct {
    ID            int64     `json:"id" db:"id"`
    UserID        int64     `json:"user_id" db:"user_id"`
    QuestionText  string    `json:"question_text" db:"question_text"`
    PartnerAnswer string    `json:"partner_answer" db:"partner_answer"`
    CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// LoveLanguages holds the partner's ranked love languages from onboarding.
type LoveLanguages struct {
    Primary   LoveLanguage   `json:"primary"`
    Secondary LoveLanguage   `json:"secondary"`
    All       []LoveLanguage `json:"all"`
}

// Preferences holds the explicit onboarding preferences.
type Preferences struct {
    DateTypes      []string `json:"date_types"`
    GiftBudget     string   `json:"gift_budget"`
    NudgeFrequency string   `json:"nudge_frequency"`
}

// WantsNeeds holds the partner's wants-and-needs onboarding answers.
type WantsNeeds struct {
    Gestures           []string `json:"gestures"`
    SurpriseFrequency  string   `json:"surprise_frequency"`
    DateStyle          string   `json:"date_style"`
    GiftTypes          []string `json:"gift_types"`
    PlanningStyle      string   `json:"planning_style"`
    Avoid              []string `json:"avoid"`
    Notes              string   `json:"notes"`
    FavoriteActivities []string `json:"favorite_activities"`
    FavoriteCuisines   []string `json:"favorite_cuisines"`
}

// Partner is the aggregated view of everything known about the partner.
type Partner struct {
    Name          string        `json:"name"`
    Birthday      *time.Time    `json:"birthday,omitempty"`
    LoveLanguages LoveLanguages `json:"love_languages"`
    Preferences   Preferences   `json:"preferences"`
    WantsNeeds    WantsNeeds    `json:"wants_needs"`
}

// DataSources records where the context's data came from and how much there is.
type DataSources struct {
    OnboardingUpdated        *time.Time `json:"onboarding_updated,omitempty"`
    PartnerOnboardingUpdated *time.Time `json:"partner_onboarding_updated,omitempty"`
    InsightsCount            int        `json:"insights_count"`
    AnswersCount             int        `json:"answers_count"`
}

// Context is the derived personalization context a scoring pass runs against.
// It is recomputed on every generation request and never cached server-side.
type Context struct {
    Tier         int                    `json:"tier"`
    Partner      Partner                `json:"partner"`
    Keywords     map[Category][]string  `json:"keywords"`
    Themes       map[Category][]Insight `json:"themes"`
    InsightCount int                    `json:"insight_count"`
    WishKeywords []string               `json:"wish_keywords"`
    DataSources  DataSources            `json:"data_sources"`
}

// HasPartnerOnboarding reports whether the partner completed onboarding.
func (c *Context) HasPartnerOnboarding() bool {
    return c.DataSources.PartnerOnboardingUpdated != nil
}

// PartnerName returns the partner's name or a neutral fallback.
func (c *Context) PartnerName() string {
    if c.Partner.Name != "" {
        return c.Partner.Name
    }
    return "your partner"
}

// FirstKeyword returns the first extracted keyword for a category, if any.
func (c *Context) FirstKeyword(cat Category) (string, bool) {
    if kws, ok := c.Keywords[cat]; ok && len(kws) > 0 {
        return kws[0], true
    }
    return "", false
}
