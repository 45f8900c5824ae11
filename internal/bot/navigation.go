package bot

import "boostbot/internal/state"

// backBlocked reports whether back-navigation can no longer unwind the
// order. Once a proof is submitted or a payment link has been issued
// the flow is one-way; everything before that pops cleanly, payment
// included.
func backBlocked(step state.Step) bool {
	switch step {
	case state.StepPendingApproval, state.StepProcessing:
		return true
	}
	return false
}

// repromptable reports whether a repeated tap on an old button should
// repeat the live step's prompt instead of restarting the conversation.
// Past checkout a reset would orphan an order the user may already have
// paid for.
func repromptable(step state.Step) bool {
	switch step {
	case state.StepPhone, state.StepPayment, state.StepAwaitingProof, state.StepPendingApproval:
		return true
	}
	return false
}
