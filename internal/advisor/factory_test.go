package advisor

import (
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackjack/internal/domain"
)

type warnRecorder struct {
	runtime.Logger
	warnings []string
}

func (w *warnRecorder) Warn(format string, v ...interface{}) {
	w.warnings = append(w.warnings, format)
}

func TestLookup(t *testing.T) {
	for _, kind := range Kinds() {
		a, err := Lookup(kind)
		require.NoError(t, err, kind)
		assert.NotNil(t, a)
	}
	_, err := Lookup("card-counter")
	assert.Error(t, err)
}

func TestNewFallsBackToBasic(t *testing.T) {
	logger := &warnRecorder{}
	a := New("card-counter", logger)
	assert.IsType(t, BasicStrategy{}, a)
	assert.Len(t, logger.warnings, 1)

	a = New(KindNeverBust, logger)
	assert.IsType(t, NeverBust{}, a)
	assert.Len(t, logger.warnings, 1)
}

func TestBaselines(t *testing.T) {
	up := card(domain.Ten)
	assert.Equal(t, Hit, MimicDealer{}.Recommend(hand(domain.Ten, domain.Six), up, Flags{}).Action)
	assert.Equal(t, Stand, MimicDealer{}.Recommend(hand(domain.Ten, domain.Seven), up, Flags{}).Action)
	assert.Equal(t, Hit, MimicDealer{}.Recommend(hand(domain.Ace, domain.Six), up, Flags{DealerHitsSoft17: true}).Action)

	assert.Equal(t, Stand, NeverBust{}.Recommend(hand(domain.Ten, domain.Two), up, Flags{}).Action)
	assert.Equal(t, Hit, NeverBust{}.Recommend(hand(domain.Six, domain.Five), up, Flags{}).Action)
	assert.Equal(t, Hit, NeverBust{}.Recommend(hand(domain.Ace, domain.Six), up, Flags{}).Action)
}
