package setlist

import (
	"math/rand"

	"github.com/Mrjmbjmb/setlist-manager/internal/models"
)

// Generate picks an ordered subset of the pool whose summed duration gets as
// close to targetSeconds as possible without going over.
//
// A target of zero (or less) means "no target": the whole pool comes back in
// a shuffled order. Otherwise the shuffled pool is run through a single
// forward subset-sum pass: a map from achievable total to the sequence that
// reached it, seeded with {0: empty}, where each song may extend any total
// recorded before it was visited. The first sequence to claim a total keeps
// it. This is a heuristic, not an exhaustive knapsack - the payoff is that
// it stays fast and the ordering falls out of the randomized traversal.
//
// When not even one song fits under the target, the shortest song in the
// pool is returned alone, so a non-empty pool never produces an empty
// setlist.
func Generate(targetSeconds int, pool []models.Song, rng *rand.Rand) []models.Song {
	if len(pool) == 0 {
		return nil
	}

	shuffled := make([]models.Song, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if targetSeconds <= 0 {
		return shuffled
	}

	// bestFit maps achievable total -> sequence reaching it. totals records
	// insertion order so the pass stays deterministic for a given shuffle.
	bestFit := map[int][]models.Song{0: nil}
	totals := []int{0}

	for _, song := range shuffled {
		// Snapshot the totals known before this song, so a song never
		// combines with a total it produced itself.
		snapshot := append([]int(nil), totals...)

		for _, total := range snapshot {
			newTotal := total + song.DurationSeconds
			if newTotal > targetSeconds {
				continue
			}

			candidate := make([]models.Song, 0, len(bestFit[total])+1)
			candidate = append(candidate, bestFit[total]...)
			candidate = append(candidate, song)

			existing, ok := bestFit[newTotal]
			if !ok {
				bestFit[newTotal] = candidate
				totals = append(totals, newTotal)
				continue
			}
			// Ties keep the existing sequence (first-found wins).
			if sumSeconds(candidate) > sumSeconds(existing) {
				bestFit[newTotal] = candidate
			}
		}
	}

	best := 0
	for _, total := range totals {
		if total > best {
			best = total
		}
	}
	if best > 0 {
		return bestFit[best]
	}

	// Every song alone overshoots the target. Return the shortest one so
	// the caller still gets something to play.
	shortest := shuffled[0]
	for _, song := range shuffled[1:] {
		if song.DurationSeconds < shortest.DurationSeconds {
			shortest = song
		}
	}
	return []models.Song{shortest}
}

func sumSeconds(songs []models.Song) int {
	var total int
	for _, song := range songs {
		total += song.DurationSeconds
	}
	return total
}
