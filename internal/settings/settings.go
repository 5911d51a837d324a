package settings

import (
	"errors"
	"fmt"
)

// DisplayCurrency selects the currency used when rendering XRP value.
type DisplayCurrency string

const (
	CurrencyUSD DisplayCurrency = "USD"
	CurrencyBWP DisplayCurrency = "BWP"
)

// SystemSettings is the process-wide configuration read by most views and
// replaced wholesale by an admin save.
type SystemSettings struct {
	SiteTitle             string
	HeroTagline           string
	YoutubeVideoID        string
	DefaultBottleValueBWP float64
	LeaderboardSize       int
	XRPDisplayCurrency    DisplayCurrency
	RegistrationFeeBWP    float64
	PaymentPhoneNumber    string
	CycleMonth            int
	TotalCycleMonths      int
	MinMonthlyTarget      int
}

// Defaults returns the initial program configuration.
func Defaults() SystemSettings {
	return SystemSettings{
		SiteTitle:             "GreenPula",
		HeroTagline:           "The race to 100 pioneers is on. Recycle bottles, earn BWP, and build your XRP portfolio.",
		YoutubeVideoID:        "Q8Cpa1-8jRA",
		DefaultBottleValueBWP: 1.00,
		LeaderboardSize:       25,
		XRPDisplayCurrency:    CurrencyUSD,
		RegistrationFeeBWP:    100,
		PaymentPhoneNumber:    "74470304",
		CycleMonth:            2,
		TotalCycleMonths:      5,
		MinMonthlyTarget:      250,
	}
}

// ErrInvalidSettings indicates a rejected wholesale replacement.
var ErrInvalidSettings = errors.New("invalid settings")

// Validate checks the replacement candidate.
func (s SystemSettings) Validate() error {
	if s.DefaultBottleValueBWP <= 0 {
		return fmt.Errorf("%w: bottle value must be positive", ErrInvalidSettings)
	}
	if s.LeaderboardSize <= 0 {
		return fmt.Errorf("%w: leaderboard size must be positive", ErrInvalidSettings)
	}
	if s.XRPDisplayCurrency != CurrencyUSD && s.XRPDisplayCurrency != CurrencyBWP {
		return fmt.Errorf("%w: display currency must be USD or BWP", ErrInvalidSettings)
	}
	if s.TotalCycleMonths <= 0 || s.CycleMonth < 1 || s.CycleMonth > s.TotalCycleMonths {
		return fmt.Errorf("%w: cycle month out of range", ErrInvalidSettings)
	}
	if s.MinMonthlyTarget < 0 || s.RegistrationFeeBWP < 0 {
		return fmt.Errorf("%w: targets and fees cannot be negative", ErrInvalidSettings)
	}
	return nil
}
