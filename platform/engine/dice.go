package engine

import (
	"math/rand"
	"sync"
	"time"
)

// Roller produces a pair of dice. Dice are only ever rolled by the engine.
type Roller interface {
	Roll() (int, int)
}

type randomRoller struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomRoller returns a Roller backed by math/rand. A zero seed uses the
// current time.
func NewRandomRoller(seed int64) Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randomRoller{r: rand.New(rand.NewSource(seed))}
}

func (d *randomRoller) Roll() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Intn(6) + 1, d.r.Intn(6) + 1
}
