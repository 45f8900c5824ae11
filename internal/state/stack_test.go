package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chat = int64(42)

func TestCurrentLazyRoot(t *testing.T) {
	s := NewStore()
	f := s.Current(chat)
	assert.Equal(t, StepPlatform, f.Step)
	assert.Empty(t, f.Platform)
}

func TestPushInheritsAndPopRestores(t *testing.T) {
	s := NewStore()

	_, err := s.Push(chat, func(f *Frame) {
		f.Step = StepCategory
		f.Platform = "Instagram"
	})
	require.NoError(t, err)

	f, err := s.Push(chat, func(f *Frame) {
		f.Step = StepService
		f.Category = "Followers"
	})
	require.NoError(t, err)
	// the new frame carries the earlier platform selection
	assert.Equal(t, "Instagram", f.Platform)
	assert.Equal(t, "Followers", f.Category)

	back := s.Pop(chat)
	assert.Equal(t, StepCategory, back.Step)
	assert.Equal(t, "Instagram", back.Platform)
	assert.Empty(t, back.Category)
}

func TestPushRejectsIllegalTransition(t *testing.T) {
	s := NewStore()
	_, err := s.Push(chat, func(f *Frame) {
		f.Step = StepPayment
	})
	assert.Error(t, err)
	// stack untouched
	assert.Equal(t, StepPlatform, s.Current(chat).Step)
}

func TestRootNeverPopped(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		f := s.Pop(chat)
		assert.Equal(t, StepPlatform, f.Step)
	}
}

func TestResetDiscardsAll(t *testing.T) {
	s := NewStore()
	_, err := s.Push(chat, func(f *Frame) {
		f.Step = StepCategory
		f.Platform = "YouTube"
	})
	require.NoError(t, err)

	s.Reset(chat)
	f := s.Current(chat)
	assert.Equal(t, StepPlatform, f.Step)
	assert.Empty(t, f.Platform)
}

func TestFullFlowRoundTrip(t *testing.T) {
	s := NewStore()
	steps := []struct {
		to     Step
		mutate func(*Frame)
	}{
		{StepCategory, func(f *Frame) { f.Platform = "Instagram" }},
		{StepService, func(f *Frame) { f.Category = "Likes" }},
		{StepDetails, func(f *Frame) { f.ServiceID = 101 }},
		{StepLink, nil},
		{StepQuantity, func(f *Frame) { f.Link = "https://instagram.com/p/x" }},
		{StepSummary, func(f *Frame) { f.Quantity = 500 }},
		{StepPayment, nil},
	}
	for _, st := range steps {
		to := st.to
		mut := st.mutate
		_, err := s.Push(chat, func(f *Frame) {
			f.Step = to
			if mut != nil {
				mut(f)
			}
		})
		require.NoError(t, err)
	}

	f := s.Current(chat)
	assert.Equal(t, StepPayment, f.Step)
	assert.Equal(t, "Instagram", f.Platform)
	assert.Equal(t, 500, f.Quantity)

	// walk all the way back; every pop lands on the prior step
	want := []Step{StepSummary, StepQuantity, StepLink, StepDetails, StepService, StepCategory, StepPlatform}
	for _, w := range want {
		assert.Equal(t, w, s.Pop(chat).Step)
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(StepProcessing))
	assert.False(t, Terminal(StepPayment))
}
