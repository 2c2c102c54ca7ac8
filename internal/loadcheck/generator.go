package loadcheck

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/rating/pkg/logger"
)

const randomFloatDivisor = 1000000

// Score bands, picked uniformly, give a spread with frequent near-ties.
var scoreBands = []struct{ min, span float64 }{
	{30, 40},  // average
	{70, 20},  // strong
	{1, 29},   // weak
	{90, 10},  // elite
	{0, 100},  // anything
	{50, 0.5}, // crowded band
}

var nameStems = []string{"Ann", "Bo", "Cy", "Dee", "Eli", "Fay", "Gus", "Hal"}

// getRandomFloat returns a random float64 in [0, 1) using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// randomScore draws a score rounded to three decimals so it survives any
// float formatting on the way through the service.
func randomScore() float64 {
	b := scoreBands[randomIndex(len(scoreBands))]
	v := b.min + getRandomFloat()*b.span
	return float64(int64(v*1000)) / 1000
}

// generatePlayers creates n players with unique UUID user ids.
func generatePlayers(ctx context.Context, n int) []Player {
	logger.Get().Info(ctx, "generating players with unique user ids", logger.Int("players", n))
	players := make([]Player, n)
	for i := range players {
		players[i] = Player{
			UserID: uuid.NewString(),
			Name:   fmt.Sprintf("%s-%d", nameStems[randomIndex(len(nameStems))], i),
			Score:  randomScore(),
		}
	}
	return players
}

// rescore returns a copy of players with fresh scores and renamed entries,
// so overwrites are observable in both fields.
func rescore(players []Player, round int) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = Player{
			UserID: p.UserID,
			Name:   fmt.Sprintf("%s-r%d", p.Name, round),
			Score:  randomScore(),
		}
	}
	return out
}
