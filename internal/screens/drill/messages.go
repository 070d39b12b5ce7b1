package drill

import (
	sess "github.com/abhisek/drillsergeant/internal/session"
)

// analyzedMsg is sent when the submitted answers have been diagnosed.
type analyzedMsg struct {
	Results []sess.Result
	Err     error
}

// summaryReadyMsg is sent when the coach message is available.
type summaryReadyMsg struct {
	Payload sess.SummaryPayload
}
