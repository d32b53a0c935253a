package spectrogram

// State is the render pipeline stage a Spectrogram is in.
type State int32

const (
	Idle State = iota
	Computing
	Composing
	Quantizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Computing:
		return "computing"
	case Composing:
		return "composing"
	case Quantizing:
		return "quantizing"
	}
	return "unknown"
}
