package personalization

import (
    "context"
    "time"
)

// Builder assembles a personalization Context from the user's stored data.
// The context is rebuilt from scratch on every call; nothing is cached here.
type Builder struct {
    repo Repository
}

// NewBuilder creates a context builder over the given repository.
func NewBuilder(repo Repository) *Builder {
    return &Builder{repo: repo}
}

// Build aggregates onboarding, insights, answer counts and weekly wishes into
// a Context. Missing onboarding is a legitimate "no data yet" state (tier 1),
// not an error.
func (b *Builder) Build(ctx context.Context, userID int64) (*Context, error) {
    onboarding, err := b.repo.GetPartnerOnboarding(ctx, userID)
    if err != nil {
        return nil, err
    }

    insights, err := b.repo.GetInsights(ctx, userID, 100)
    if err != nil {
        return nil, err
    }

    answersCount, err := b.repo.CountQuizAnswers(ctx, userID)
    if err != nil {
        return nil, err
    }

    // Wishes from the last two weeks stay in play as ranking signal.
    wishes, err := b.repo.GetRecentWishes(ctx, userID, time.Now().AddDate(0, 0, -14))
    if err != nil {
        return nil, err
    }

    pc := &Context{
        Keywords:     ExtractKeywords(insights),
        Themes:       ExtractThemes(insights),
        InsightCount: len(insights),
        DataSources: DataSources{
            InsightsCount: len(insights),
            AnswersCount:  answersCount,
        },
    }

    if onboarding != nil {
        pc.Partner = onboarding.Partner
        pc.DataSources.PartnerOnboardingUpdated = &onboarding.UpdatedAt
        pc.DataSources.OnboardingUpdated = &onboarding.UpdatedAt
    }

    for _, wish := range wishes {
        pc.WishKeywords = append(pc.WishKeywords, Tokenize(wish)...)
    }

    pc.Tier = CalculateTier(pc.HasPartnerOnboarding(), len(insights), answersCount)

    return pc, nil
}
