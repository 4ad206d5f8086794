package engine

import (
	"math/rand"
	"testing"

	"github.com/DedS3t/minopolis/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckDrawsWithoutReplacement(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cards := []models.Card{{Id: "a"}, {Id: "b"}, {Id: "c"}}
	d := NewDeck(models.KindChance, cards, rng)
	require.Equal(t, 3, d.Len())

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		c, ok := d.Take(rng)
		require.True(t, ok)
		assert.False(t, seen[c.Id], "drew %s twice", c.Id)
		seen[c.Id] = true
		d.Return(c)
	}
	assert.Equal(t, 0, d.Len())

	_, ok := d.Take(rng)
	require.True(t, ok, "discards are reshuffled")
	assert.Equal(t, 2, d.Len())
}

func TestDeckEmptyWhileCardsHeld(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := NewDeck(models.KindCommunityChest, []models.Card{{Id: "free", Kind: models.CardJailFree}}, rng)

	_, ok := d.Take(rng)
	require.True(t, ok)
	_, ok = d.Take(rng)
	assert.False(t, ok)
}

func TestRandomRollerRange(t *testing.T) {
	r := NewRandomRoller(3)
	for i := 0; i < 200; i++ {
		d1, d2 := r.Roll()
		assert.True(t, d1 >= 1 && d1 <= 6)
		assert.True(t, d2 >= 1 && d2 <= 6)
	}
}

func TestRulesValidate(t *testing.T) {
	assert.NoError(t, DefaultRules().Validate())

	r := DefaultRules()
	r.AuctionMinIncrement = 0
	assert.Error(t, r.Validate())

	r = DefaultRules()
	r.MaxPlayers = 1
	assert.Error(t, r.Validate())
}
