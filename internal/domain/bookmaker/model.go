package bookmaker

// Bookmaker backs the affiliate widgets.
type Bookmaker struct {
	ID           string
	Rating       float64
	LogoURL      string
	Translations []Translation
}

type Translation struct {
	BookmakerID  string
	LanguageCode string
	Name         string
	AffiliateURL string
	BonusText    string
}
