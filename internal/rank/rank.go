package rank

// Rank is the cosmetic tier derived from a participant's cumulative bottle count.
type Rank string

const (
	Novice      Rank = "Novice Recycler"
	Contributor Rank = "Eco Contributor"
	Master      Rank = "Bottle Master"
	Whale       Rank = "XRP Whale"
)

// Thresholds, highest first. Contributor opens above 500, not at it.
const (
	whaleThreshold       = 1450
	masterThreshold      = 1250
	contributorThreshold = 500
)

// Classify maps a cumulative bottle count to its rank. Total over all integer
// inputs; negative counts fall through to Novice.
func Classify(totalBottles int) Rank {
	switch {
	case totalBottles >= whaleThreshold:
		return Whale
	case totalBottles >= masterThreshold:
		return Master
	case totalBottles > contributorThreshold:
		return Contributor
	default:
		return Novice
	}
}

// Ordinal returns the tier's position in the rank ordering, Novice first.
// Useful for monotonicity checks and UI sorting.
func Ordinal(r Rank) int {
	switch r {
	case Whale:
		return 3
	case Master:
		return 2
	case Contributor:
		return 1
	default:
		return 0
	}
}
