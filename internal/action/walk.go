package action

// Walk calls fn for a and every action nested inside it, depth first.
func Walk(a Action, fn func(Action)) {
	if a == nil {
		return
	}
	fn(a)
	switch v := a.(type) {
	case *Chain:
		for _, child := range v.actions {
			Walk(child, fn)
		}
	case *Conditional:
		Walk(v.then, fn)
		Walk(v.otherwise, fn)
	case *TakeInput:
		for _, c := range v.cases {
			Walk(c.Action, fn)
		}
		Walk(v.fallback, fn)
	}
}
