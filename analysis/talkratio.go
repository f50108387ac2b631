package analysis

import "github.com/kbukum/callanalyzer/transcription"

// Speaker is the positional speaker attribution of a segment.
type Speaker string

const (
	SpeakerAgent    Speaker = "Agent"
	SpeakerCustomer Speaker = "Customer"
)

// SpeakerAt attributes even indices to the agent and odd ones to the
// customer. It is a positional proxy, not diarization.
func SpeakerAt(i int) Speaker {
	if i%2 == 0 {
		return SpeakerAgent
	}
	return SpeakerCustomer
}

// TalkRatio returns agent speaking time divided by customer speaking time.
// A customer total of exactly zero is replaced by 1, so no segments gives 0
// and agent-only calls give the agent total.
func TalkRatio(segments []transcription.Segment) float64 {
	var agent, customer float64
	for i, seg := range segments {
		if SpeakerAt(i) == SpeakerAgent {
			agent += seg.Duration()
		} else {
			customer += seg.Duration()
		}
	}
	if customer == 0 {
		customer = 1
	}
	return agent / customer
}
