package match3

// Phase is the current step of move resolution.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSwapping
	PhaseEvaluating
	PhaseExploding
	PhaseFalling
	PhaseRefilling
)

// String returns the string representation of a phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSwapping:
		return "swapping"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseExploding:
		return "exploding"
	case PhaseFalling:
		return "falling"
	case PhaseRefilling:
		return "refilling"
	default:
		return "unknown"
	}
}
