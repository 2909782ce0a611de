package comprehension

// PlaybackGate decides whether listening answers are enabled. Answers open
// once the recording has been played at least once.
type PlaybackGate struct {
	Played bool
}

// OpenGate returns a gate that always allows answering.
func OpenGate() PlaybackGate { return PlaybackGate{Played: true} }

// MarkPlayed records that the recording was played.
func (g *PlaybackGate) MarkPlayed() { g.Played = true }

// Reset closes the gate again.
func (g *PlaybackGate) Reset() { g.Played = false }

// CanAnswer reports whether answer input is enabled.
func (g PlaybackGate) CanAnswer() bool { return g.Played }
