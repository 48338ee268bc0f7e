package conflict

// Decider answers conflict prompts. DecideItem is only consulted after
// DecideBatch returned AskEach.
type Decider interface {
	DecideBatch(conflicts []Conflict) Policy
	DecideItem(c Conflict) Decision
}

// Fixed returns a Decider that always answers with p. Under AskEach it skips
// every item, so a non-interactive caller never overwrites by accident.
func Fixed(p Policy) Decider { return fixed(p) }

type fixed Policy

func (f fixed) DecideBatch([]Conflict) Policy { return Policy(f) }

func (f fixed) DecideItem(Conflict) Decision {
	switch Policy(f) {
	case ReplaceAll:
		return Replace
	case Cancel:
		return Stop
	default:
		return Skip
	}
}

// Funcs adapts plain functions to a Decider.
type Funcs struct {
	Batch func(conflicts []Conflict) Policy
	Item  func(c Conflict) Decision
}

func (f Funcs) DecideBatch(c []Conflict) Policy {
	if f.Batch == nil {
		return Cancel
	}
	return f.Batch(c)
}

func (f Funcs) DecideItem(c Conflict) Decision {
	if f.Item == nil {
		return Stop
	}
	return f.Item(c)
}
