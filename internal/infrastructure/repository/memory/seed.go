package memory

import (
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/article"
	"github.com/riskibarqy/livebaz/internal/domain/bookmaker"
	"github.com/riskibarqy/livebaz/internal/domain/language"
	"github.com/riskibarqy/livebaz/internal/domain/seo"
)

const ArticleIDWelcome = "article-welcome"

func SeedLanguages() []language.Language {
	return []language.Language{
		{Code: "en", Name: "English", IsVisible: true},
		{Code: "ar", Name: "Arabic", IsVisible: true},
		{Code: "fa", Name: "Persian", IsVisible: true},
	}
}

func SeedBookmakers() []bookmaker.Bookmaker {
	return []bookmaker.Bookmaker{
		{
			ID:      "bk-bet365",
			Rating:  4.8,
			LogoURL: "https://media.livebaz.com/bookmakers/bet365.png",
			Translations: []bookmaker.Translation{
				{BookmakerID: "bk-bet365", LanguageCode: "en", Name: "bet365", AffiliateURL: "https://www.bet365.com/", BonusText: "Bet credits for new customers"},
				{BookmakerID: "bk-bet365", LanguageCode: "ar", Name: "bet365", AffiliateURL: "https://www.bet365.com/", BonusText: "رصيد رهان للعملاء الجدد"},
			},
		},
		{
			ID:      "bk-1xbet",
			Rating:  4.5,
			LogoURL: "https://media.livebaz.com/bookmakers/1xbet.png",
			Translations: []bookmaker.Translation{
				{BookmakerID: "bk-1xbet", LanguageCode: "en", Name: "1xBet", AffiliateURL: "https://1xbet.com/", BonusText: "100% first deposit bonus"},
				{BookmakerID: "bk-1xbet", LanguageCode: "fa", Name: "وان ایکس بت", AffiliateURL: "https://1xbet.com/", BonusText: "۱۰۰٪ بونوس اولین واریز"},
			},
		},
	}
}

func SeedArticles() []article.Article {
	return []article.Article{
		{
			ID:        ArticleIDWelcome,
			Category:  "news",
			Published: true,
			CreatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
			Translations: []article.Translation{
				{
					ID:           "article-welcome-en",
					ArticleID:    ArticleIDWelcome,
					LanguageCode: "en",
					Title:        "How we build match predictions",
					Slug:         "how-we-build-match-predictions-en",
					Content:      "<h2>From odds to percentages</h2><p>We read decimal prices from several bookmakers, strip the margin and publish what is left as win probabilities.</p>",
					SEO:          seo.Meta{Title: "How we build match predictions", Description: "From bookmaker odds to win probabilities."},
				},
			},
		},
	}
}
