package state

// Step identifies where in the order conversation a chat currently is.
type Step string

const (
	StepPlatform        Step = "platform"
	StepCategory        Step = "category"
	StepService         Step = "service"
	StepDetails         Step = "details"
	StepLink            Step = "link"
	StepQuantity        Step = "quantity"
	StepCustomQuantity  Step = "custom_quantity"
	StepSummary         Step = "summary"
	StepPhone           Step = "phone"
	StepPayment         Step = "payment"
	StepAwaitingProof   Step = "awaiting_proof"
	StepPendingApproval Step = "pending_approval"
	StepProcessing      Step = "processing"
)

// transitions lists the legal forward moves. Anything not listed is
// rejected by Push.
var transitions = map[Step][]Step{
	StepPlatform:        {StepCategory},
	StepCategory:        {StepService},
	StepService:         {StepDetails},
	StepDetails:         {StepLink},
	StepLink:            {StepQuantity, StepSummary},
	StepQuantity:        {StepCustomQuantity, StepSummary},
	StepCustomQuantity:  {StepSummary},
	StepSummary:         {StepPhone, StepPayment},
	StepPhone:           {StepPayment},
	StepPayment:         {StepAwaitingProof, StepPendingApproval},
	StepAwaitingProof:   {StepPendingApproval},
	StepPendingApproval: {StepProcessing},
}

// CanAdvance reports whether moving from one step to the next is legal.
func CanAdvance(from, to Step) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a step ends the conversation flow. After a
// terminal step the stack is reset to the root.
func Terminal(s Step) bool {
	return s == StepProcessing
}
