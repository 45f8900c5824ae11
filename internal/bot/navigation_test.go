package bot

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boostbot/internal/state"
)

func advance(t *testing.T, store state.Store, chatID int64, step state.Step, mutate func(*state.Frame)) {
	t.Helper()
	_, err := store.Push(chatID, func(f *state.Frame) {
		if mutate != nil {
			mutate(f)
		}
		f.Step = step
	})
	require.NoError(t, err)
}

// walk a chat to the point where the QR was shown and a screenshot is
// awaited
func stackAtAwaitingProof(t *testing.T, store state.Store, chatID int64) {
	t.Helper()
	advance(t, store, chatID, state.StepCategory, func(f *state.Frame) { f.Platform = "Instagram" })
	advance(t, store, chatID, state.StepService, func(f *state.Frame) { f.Category = "Likes" })
	advance(t, store, chatID, state.StepDetails, func(f *state.Frame) { f.ServiceID = 101 })
	advance(t, store, chatID, state.StepLink, nil)
	advance(t, store, chatID, state.StepQuantity, func(f *state.Frame) { f.Link = "https://instagram.com/p/x" })
	advance(t, store, chatID, state.StepSummary, func(f *state.Frame) { f.Quantity = 500 })
	advance(t, store, chatID, state.StepPayment, func(f *state.Frame) { f.OrderID = "7-100" })
	advance(t, store, chatID, state.StepAwaitingProof, nil)
}

func TestBackUnwindsFromPaymentRegion(t *testing.T) {
	store := state.NewStore()
	chatID := int64(7)
	stackAtAwaitingProof(t, store, chatID)

	// the payment region is still navigable
	require.False(t, backBlocked(store.Current(chatID).Step))

	frame := store.Pop(chatID)
	assert.Equal(t, state.StepPayment, frame.Step)
	assert.Equal(t, "7-100", frame.OrderID)

	frame = store.Pop(chatID)
	assert.Equal(t, state.StepSummary, frame.Step)
	assert.Equal(t, 500, frame.Quantity)
	assert.Equal(t, "https://instagram.com/p/x", frame.Link)
	assert.Equal(t, int64(101), frame.ServiceID)
}

func TestBackBlockedOnlyAfterHandoff(t *testing.T) {
	assert.False(t, backBlocked(state.StepSummary))
	assert.False(t, backBlocked(state.StepPhone))
	assert.False(t, backBlocked(state.StepPayment))
	assert.False(t, backBlocked(state.StepAwaitingProof))

	assert.True(t, backBlocked(state.StepPendingApproval))
	assert.True(t, backBlocked(state.StepProcessing))
}

func TestRepeatedConfirmTapKeepsStack(t *testing.T) {
	store := state.NewStore()
	chatID := int64(7)
	stackAtAwaitingProof(t, store, chatID)

	// a second confirm tap re-prompts the live step; the frame with the
	// order id must survive so the screenshot still lands
	frame := store.Current(chatID)
	require.True(t, repromptable(frame.Step))
	assert.Equal(t, "7-100", frame.OrderID)

	// pre-checkout steps restart instead
	assert.False(t, repromptable(state.StepSummary))
	assert.False(t, repromptable(state.StepQuantity))
	assert.False(t, repromptable(state.StepPlatform))

	assert.True(t, repromptable(state.StepPhone))
	assert.True(t, repromptable(state.StepPayment))
	assert.True(t, repromptable(state.StepPendingApproval))
}

func TestTruncatePreservesRunes(t *testing.T) {
	name := "🔥 इंस्टाग्राम लाइक्स — तेज़ डिलीवरी और गारंटी 🔥"
	out := truncate(name, 10)

	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 10, len([]rune(out)))

	assert.Equal(t, "short", truncate("short", 40))
	assert.Equal(t, "exact", truncate("exact", 5))
}
