package domain

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestSettlementGuard_AcquiresExactlyOnce(t *testing.T) {
	var g SettlementGuard

	check.False(t, g.Settled())
	check.True(t, g.TryAcquire())
	check.True(t, g.Settled())

	// Every further attempt is refused until a release.
	for i := 0; i < 5; i++ {
		check.False(t, g.TryAcquire())
	}
}

func TestSettlementGuard_ReleaseAllowsRetry(t *testing.T) {
	var g SettlementGuard

	check.True(t, g.TryAcquire())
	g.Release()
	check.False(t, g.Settled())
	check.True(t, g.TryAcquire())
	check.False(t, g.TryAcquire())
}
