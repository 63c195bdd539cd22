package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	Register()
	// registering twice must not panic
	Register()

	before := testutil.ToFloat64(reservationAttempts.WithLabelValues("booked"))
	IncReservation("booked")
	IncReservation("booked")
	assert.Equal(t, before+2, testutil.ToFloat64(reservationAttempts.WithLabelValues("booked")))

	ticksBefore := testutil.ToFloat64(refreshTicks)
	IncRefreshTick()
	assert.Equal(t, ticksBefore+1, testutil.ToFloat64(refreshTicks))

	annBefore := testutil.ToFloat64(announcements)
	IncAnnouncement()
	assert.Equal(t, annBefore+1, testutil.ToFloat64(announcements))
}
