package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBounds, "bounds"},
		{KindLabel, "label"},
		{KindRange, "range"},
		{KindTimezone, "timezone"},
		{KindInterval, "interval"},
		{KindZoom, "zoom"},
		{KindPosition, "position"},
		{KindMarkers, "markers"},
		{KindTracks, "tracks"},
		{KindRegions, "regions"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.kind.String())
	}
}

func TestNotifier_Subscribe(t *testing.T) {
	n := New()
	defer n.Close()

	var received []Change
	sub := n.Subscribe(func(change Change) {
		received = append(received, change)
	})

	n.NotifyChange(KindBounds, "region-1", 1, 2)
	require.Len(t, received, 1)
	require.Equal(t, KindBounds, received[0].Kind)
	require.Equal(t, "region-1", received[0].Source)
	require.Equal(t, 1, received[0].OldValue)
	require.Equal(t, 2, received[0].NewValue)

	sub.Unsubscribe()
	sub.Unsubscribe()

	n.NotifyChange(KindBounds, "region-1", 2, 3)
	require.Len(t, received, 1)
	require.Equal(t, 0, n.Len())
}

func TestNotifier_SubscribeKinds(t *testing.T) {
	n := New()
	defer n.Close()

	var bounds, all int
	n.SubscribeKinds(func(Change) { bounds++ }, KindBounds)
	n.Subscribe(func(Change) { all++ })

	n.NotifyChange(KindBounds, "", nil, nil)
	n.NotifyChange(KindLabel, "", nil, nil)
	n.NotifyChange(KindRange, "", nil, nil)

	require.Equal(t, 1, bounds)
	require.Equal(t, 3, all)
}

func TestNotifier_DeliveryOrder(t *testing.T) {
	n := New()
	defer n.Close()

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		n.Subscribe(func(Change) { order = append(order, i) })
	}

	n.NotifyChange(KindRegions, "", nil, nil)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestNotifier_UnsubscribeDuringDelivery(t *testing.T) {
	n := New()
	defer n.Close()

	calls := 0
	var sub *Subscription
	sub = n.Subscribe(func(Change) {
		calls++
		sub.Unsubscribe()
	})

	n.NotifyChange(KindBounds, "", nil, nil)
	n.NotifyChange(KindBounds, "", nil, nil)
	require.Equal(t, 1, calls)
}

func TestNotifier_Close(t *testing.T) {
	n := New()

	calls := 0
	n.Subscribe(func(Change) { calls++ })

	n.Close()
	n.Close()

	n.NotifyChange(KindBounds, "", nil, nil)
	require.Equal(t, 0, calls)
	require.Equal(t, 0, n.Len())
}

func TestSubscription_NilSafe(t *testing.T) {
	var sub *Subscription
	require.NotPanics(t, sub.Unsubscribe)
}
