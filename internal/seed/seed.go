// Package seed populates the in-memory registry with demo data for
// development mode, mirroring the mock dataset of the original program:
// one root, two admins and 100 approved pioneers with four months of
// collection history behind them.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenpula/greenpula/internal/registry"
)

const (
	participantCount = 100
	monthsActive     = 4
	baseXRPPriceBWP  = 32.50

	// DemoPassword is the login password for every seeded account.
	DemoPassword = "greenpula"
)

// Load fills the repository with demo users. Deterministic for a fixed
// randSeed. The seeded totals intentionally exceed what the ledger records
// show; only new growth flows through the ledger.
func Load(ctx context.Context, repo registry.Repository, randSeed int64) error {
	rng := rand.New(rand.NewSource(randSeed))

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	staff := []registry.User{
		{Role: registry.RoleRoot, Name: "Root", Email: "root@greenpula.example", PhonePrimary: "74000000"},
		{Role: registry.RoleAdmin, Name: "Admin 1", Email: "admin1@greenpula.example", PhonePrimary: "74000001"},
		{Role: registry.RoleAdmin, Name: "Admin 2", Email: "admin2@greenpula.example", PhonePrimary: "74000002"},
	}
	for _, u := range staff {
		u.ID = uuid.New().String()
		u.RegistrationStatus = registry.StatusApproved
		u.PaymentMethod = registry.PayCash
		u.JoinDate = now.AddDate(0, -monthsActive, 0)
		u.Avatar = fmt.Sprintf("https://picsum.photos/seed/%s/200/200", u.ID)
		u.PasswordHash = hash
		u.CreatedAt = now
		if err := repo.Create(ctx, u); err != nil {
			return err
		}
	}

	for i := 0; i < participantCount; i++ {
		totalBottles := rng.Intn(501) + 1000
		avgPerMonth := totalBottles / monthsActive

		var history []registry.MonthlyEntry
		var runningXRP float64
		for m := 0; m < monthsActive; m++ {
			bottles := avgPerMonth + rng.Intn(50) - 25
			xrpEarned := float64(bottles) * 1.00 / (baseXRPPriceBWP + rng.Float64()*2 - 1)
			runningXRP += xrpEarned
			history = append(history, registry.MonthlyEntry{
				Month:     fmt.Sprintf("Month %d", m+1),
				Bottles:   bottles,
				XRPPrice:  baseXRPPriceBWP,
				XRPEarned: xrpEarned,
			})
		}

		id := uuid.New().String()
		user := registry.User{
			ID:                 id,
			Role:               registry.RoleParticipant,
			Name:               fmt.Sprintf("Pioneer %d", i+1),
			Email:              fmt.Sprintf("pioneer%d@greenpula.example", i+1),
			PhonePrimary:       fmt.Sprintf("75%06d", i+1),
			Avatar:             fmt.Sprintf("https://picsum.photos/seed/%s/200/200", id),
			RegistrationStatus: registry.StatusApproved,
			PaymentMethod:      paymentMethod(rng),
			JoinDate:           now.AddDate(0, -monthsActive, 0),
			TotalBottles:       totalBottles,
			BottlesThisMonth:   rng.Intn(251),
			TotalCashBWP:       float64(totalBottles) * 1.00,
			TotalXRP:           runningXRP,
			History:            history,
			PasswordHash:       hash,
			CreatedAt:          now,
		}
		if err := repo.Create(ctx, user); err != nil {
			return err
		}
	}

	return nil
}

func paymentMethod(rng *rand.Rand) registry.PaymentMethod {
	if rng.Intn(2) == 0 {
		return registry.PayCash
	}
	return registry.PayBottles
}
