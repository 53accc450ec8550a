package jsonpath

// Matches reports whether step satisfies c. atRoot must be true only for the
// search's own root frame; a Root criterion accepts nothing else, whatever
// its step says.
func (c Criterion) Matches(step Step, atRoot bool) bool {
	switch c.Kind {
	case MatchRoot:
		return atRoot
	case MatchName:
		return step.Kind == StepKey && step.Key == c.Name
	case MatchAny:
		return step.Kind == StepKey || step.Kind == StepIndex
	case MatchIndex:
		return step.Kind == StepIndex && step.Index == c.Index
	}
	return false
}
