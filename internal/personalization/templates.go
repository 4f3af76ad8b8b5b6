package personalization

// Kind discriminates the three template variants. Each kind has its own
// factor scorer; shared factors live in scoring.go.
type Kind string

const (
    KindLoveLanguage Kind = "love_language"
    KindGift         Kind = "gift"
    KindDate         Kind = "date"
)

// Template is one entry in the static suggestion library. The library is
// compiled in and immutable; personalization happens at scoring and
// interpolation time, never by mutating templates.
type Template struct {
    ID          string
    Kind        Kind
    Title       string
    Description string

    // Kind-specific matching fields.
    LoveLanguages []LoveLanguage // love_language kind
    GiftType      string         // gift kind
    Budget        string         // gift kind: low|medium|high
    DateType      string         // date kind
    DateStyles    []string       // date kind: styles this works for

    TimeEstimate string
    Difficulty   string // easy|medium|hard

    // RequiresData lists context fields that must resolve for the template
    // to make sense; OptionalData improves it but is not required.
    RequiresData []string
    OptionalData []string

    // MinTier gates eligibility; lower-tier contexts still score the
    // template (with a penalty) but generation filters on the final score.
    MinTier int

    // AvoidTriggers are checked against the partner's avoid list.
    AvoidTriggers []string

    BestSeasons []Season
}

// TemplatesFor returns the library slice for one kind. Callers must not
// mutate the returned slice.
func TemplatesFor(kind Kind) []Template {
    switch kind {
    case KindLoveLanguage:
        return loveLanguageTemplates
    case KindGift:
        return giftTemplates
    case KindDate:
        return dateTemplates
    default:
        return nil
    }
}

// AllTemplates returns the full library across kinds.
func AllTemplates() []Template {
    out := make([]Template, 0, len(loveLanguageTemplates)+len(giftTemplates)+len(dateTemplates))
    out = append(out, loveLanguageTemplates...)
    out = append(out, giftTemplates...)
    out = append(out, dateTemplates...)
    return out
}

var loveLanguageTemplates = []Template{
    {
        ID: "ll_note_lunch", Kind: KindLoveLanguage,
        Title:       "Hidden note",
        Description: "Leave a short handwritten note for {partner_name} somewhere they'll find it mid-day.",
        LoveLanguages: []LoveLanguage{LanguageWords},
        TimeEstimate:  "5 min", Difficulty: "easy", MinTier: 1,
    },
    {
        ID: "ll_words_three_things", Kind: KindLoveLanguage,
        Title:       "Three things out loud",
        Description: "Tell {partner_name} three specific things you appreciated about them this week.",
        LoveLanguages: []LoveLanguage{LanguageWords},
        TimeEstimate:  "10 min", Difficulty: "easy", MinTier: 1,
    },
    {
        ID: "ll_quality_phone_free", Kind: KindLoveLanguage,
        Title:       "Phone-free hour",
        Description: "Spend an hour with {partner_name} tonight with both phones in another room.",
        LoveLanguages: []LoveLanguage{LanguageQualityTime},
        TimeEstimate:  "1 hour", Difficulty: "easy", MinTier: 1,
    },
    {
        ID: "ll_quality_shared_activity", Kind: KindLoveLanguage,
        Title:       "Do their thing",
        Description: "Join {partner_name} in {favorite_activity} this week, even if it's not your thing.",
        LoveLanguages: []LoveLanguage{LanguageQualityTime},
        TimeEstimate:  "2 hours", Difficulty: "medium",
        RequiresData:  []string{"favorite_activity"}, MinTier: 3,
    },
    {
        ID: "ll_acts_takeover", Kind: KindLoveLanguage,
        Title:       "Quiet takeover",
        Description: "Take over a chore {partner_name} usually handles, without announcing it.",
        LoveLanguages: []LoveLanguage{LanguageActs},
        TimeEstimate:  "30 min", Difficulty: "easy", MinTier: 1,
    },
    {
        ID: "ll_acts_morning", Kind: KindLoveLanguage,
        Title:       "Morning head start",
        Description: "Get up first and handle the morning routine so {partner_name} can sleep in.",
        LoveLanguages: []LoveLanguage{LanguageActs},
        TimeEstimate:  "45 min", Difficulty: "medium", MinTier: 2,
    },
    {
        ID: "ll_touch_slow_morning", Kind: KindLoveLanguage,
        Title:       "Slow start",
        Description: "Set the alarm ten minutes early and stay close before the day starts.",
        LoveLanguages: []LoveLanguage{LanguageTouch},
        TimeEstimate:  "10 min", Difficulty: "easy", MinTier: 1,
        AvoidTriggers: []string{"public affection"},
    },
    {
        ID: "ll_gifts_small_token", Kind: KindLoveLanguage,
        Title:       "Small token",
        Description: "Pick up something small that made you think of {partner_name} — a {mentioned_interest} thing counts double.",
        LoveLanguages: []LoveLanguage{LanguageGifts},
        TimeEstimate:  "20 min", Difficulty: "easy",
        OptionalData:  []string{"mentioned_interest"}, MinTier: 2,
    },
}

var giftTemplates = []Template{
    {
        ID: "gift_interest_book", Kind: KindGift,
        Title:       "The right book",
        Description: "Find a well-reviewed book about {mentioned_interest} and leave it on {partner_name}'s pillow.",
        GiftType:    "thoughtful", Budget: "low",
        TimeEstimate: "30 min", Difficulty: "easy",
        RequiresData: []string{"mentioned_interest"}, MinTier: 3,
    },
    {
        ID: "gift_experience_class", Kind: KindGift,
        Title:       "Class for two",
        Description: "Book a beginner class for two around {favorite_activity} — doing it together is the gift.",
        GiftType:    "experience", Budget: "medium",
        TimeEstimate: "2 hours", Difficulty: "medium",
        RequiresData: []string{"favorite_activity"}, MinTier: 3,
        AvoidTriggers: []string{"crowds", "scheduled events"},
    },
    {
        ID: "gift_food_delivery", Kind: KindGift,
        Title:       "Favorite, delivered",
        Description: "Have {partner_name}'s favorite {favorite_cuisine} meal show up on a day they're stretched thin.",
        GiftType:    "practical", Budget: "low",
        TimeEstimate: "10 min", Difficulty: "easy",
        OptionalData: []string{"favorite_cuisine"}, MinTier: 2,
    },
    {
        ID: "gift_handmade_jar", Kind: KindGift,
        Title:       "Reasons jar",
        Description: "Fill a jar with folded notes, one reason each you're glad {partner_name} is yours.",
        GiftType:    "handmade", Budget: "low",
        TimeEstimate: "1 hour", Difficulty: "medium", MinTier: 1,
    },
    {
        ID: "gift_surprise_weekend", Kind: KindGift,
        Title:       "Sealed envelope",
        Description: "Plan a {season} day trip and hand {partner_name} a sealed envelope with just a departure time inside.",
        GiftType:    "experience", Budget: "high",
        TimeEstimate: "1 day", Difficulty: "hard", MinTier: 4,
        AvoidTriggers: []string{"surprises", "last minute plans"},
        BestSeasons:   []Season{SeasonSpring, SeasonSummer, SeasonFall},
    },
    {
        ID: "gift_upgrade_daily", Kind: KindGift,
        Title:       "Upgrade something daily",
        Description: "Replace something {partner_name} uses every day with a noticeably nicer version.",
        GiftType:    "practical", Budget: "medium",
        TimeEstimate: "45 min", Difficulty: "medium", MinTier: 2,
    },
}

var dateTemplates = []Template{
    {
        ID: "date_cook_together", Kind: KindDate,
        Title:       "Cook-along night",
        Description: "Pick a {favorite_cuisine} recipe neither of you has made and cook it together.",
        DateType:    "at_home", DateStyles: []string{"cozy", "low_key"},
        TimeEstimate: "2 hours", Difficulty: "easy",
        OptionalData: []string{"favorite_cuisine"}, MinTier: 1,
    },
    {
        ID: "date_sunrise_walk", Kind: KindDate,
        Title:       "Sunrise walk",
        Description: "Get up before dawn with {partner_name}, walk somewhere open, and watch the {season} light come in.",
        DateType:    "outdoors", DateStyles: []string{"active", "low_key"},
        TimeEstimate: "2 hours", Difficulty: "medium", MinTier: 1,
        AvoidTriggers: []string{"early mornings"},
        BestSeasons:   []Season{SeasonSpring, SeasonSummer},
    },
    {
        ID: "date_memory_lane", Kind: KindDate,
        Title:       "First-date rerun",
        Description: "Recreate your first date with {partner_name} as closely as you can manage.",
        DateType:    "nostalgia", DateStyles: []string{"romantic", "cozy"},
        TimeEstimate: "3 hours", Difficulty: "medium", MinTier: 2,
    },
    {
        ID: "date_try_their_hobby", Kind: KindDate,
        Title:       "Student for a night",
        Description: "Ask {partner_name} to teach you {favorite_activity} and commit to being a good student.",
        DateType:    "activity", DateStyles: []string{"active", "playful"},
        TimeEstimate: "2 hours", Difficulty: "medium",
        RequiresData: []string{"favorite_activity"}, MinTier: 3,
    },
    {
        ID: "date_night_market", Kind: KindDate,
        Title:       "Graze the market",
        Description: "Find a night market or food hall and make a meal out of small plates — aim for at least one {favorite_cuisine} stop.",
        DateType:    "out_and_about", DateStyles: []string{"playful", "active"},
        TimeEstimate: "3 hours", Difficulty: "easy",
        OptionalData: []string{"favorite_cuisine"}, MinTier: 2,
        AvoidTriggers: []string{"crowds"},
        BestSeasons:   []Season{SeasonSummer, SeasonFall},
    },
    {
        ID: "date_blanket_fort", Kind: KindDate,
        Title:       "Fort night",
        Description: "Build a blanket fort, queue up something {partner_name} has been meaning to watch, and stay in.",
        DateType:    "at_home", DateStyles: []string{"cozy", "playful", "low_key"},
        TimeEstimate: "3 hours", Difficulty: "easy", MinTier: 1,
        BestSeasons:  []Season{SeasonFall, SeasonWinter},
    },
}
