package types

// Intent is the coarse classification of a user utterance. It drives the
// decision of whether context gathering is worth the latency at all.
type Intent string

const (
	IntentRecall            Intent = "recall"
	IntentScheduling        Intent = "scheduling"
	IntentCommunication     Intent = "communication"
	IntentFiles             Intent = "files"
	IntentProjectManagement Intent = "project_management"
	IntentSearch            Intent = "search"
	IntentGeneral           Intent = "general"
)

// String returns the string representation of the Intent
func (x Intent) String() string {
	return string(x)
}

// Actionable returns true when the intent alone justifies context gathering
func (x Intent) Actionable() bool {
	switch x {
	case IntentRecall, IntentScheduling, IntentCommunication,
		IntentFiles, IntentProjectManagement, IntentSearch:
		return true
	}
	return false
}
