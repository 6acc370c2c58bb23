package prediction

import (
	"errors"
	"time"
)

// Prediction holds normalized win percentages for one match. Values are expected to sum to about 100.
type Prediction struct {
	MatchID     string
	WinProbHome int
	WinProbDraw int
	WinProbAway int
	UpdatedAt   time.Time
}

func (p Prediction) Validate() error {
	if p.MatchID == "" {
		return errors.New("prediction match id is required")
	}
	for _, v := range []int{p.WinProbHome, p.WinProbDraw, p.WinProbAway} {
		if v < 0 || v > 100 {
			return errors.New("prediction probabilities must be within 0..100")
		}
	}
	return nil
}
