package models

import "encoding/json"

// EventPollVote tags a tally update pushed to websocket subscribers.
const EventPollVote = "poll_vote"

// OptionResult is one option's current vote count in a tally payload.
type OptionResult struct {
	ID         string `json:"id"`
	OptionText string `json:"option_text"`
	Votes      int64  `json:"votes"`
}

// VoteEvent is the wire message fanned out to every subscriber of a poll
// after a vote commits. Payload preserves the poll's option order.
type VoteEvent struct {
	Type    string         `json:"type"`
	Payload []OptionResult `json:"payload"`
}

// NewVoteEvent builds the tagged tally-update message for a poll.
func NewVoteEvent(results []OptionResult) VoteEvent {
	return VoteEvent{Type: EventPollVote, Payload: results}
}

// Marshal encodes the event for the wire.
func (e VoteEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
