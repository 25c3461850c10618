package action

import "context"

// Chain executes its children in declaration order.
type Chain struct {
	actions []Action
}

// NewChain creates a chain. Nil children are dropped.
func NewChain(actions ...Action) *Chain {
	kept := make([]Action, 0, len(actions))
	for _, a := range actions {
		if a != nil {
			kept = append(kept, a)
		}
	}
	return &Chain{actions: kept}
}

func (c *Chain) Kind() Kind { return KindChain }

// Actions returns the chained children.
func (c *Chain) Actions() []Action { return c.actions }

// Execute runs every child in order, whatever the earlier children did.
// The one exception is an error: it stops the chain and is returned, and
// the caller undoes what the earlier children changed.
func (c *Chain) Execute(ctx context.Context, s State) error {
	for _, a := range c.actions {
		if err := a.Execute(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// SetInput forwards input to every child that takes it.
func (c *Chain) SetInput(text string) {
	for _, a := range c.actions {
		forwardInput(a, text)
	}
}

func (c *Chain) sealed() {}

// Conditional executes one of two branches depending on a predicate.
type Conditional struct {
	predicate Predicate
	then      Action
	otherwise Action
}

// NewConditional creates a conditional. elseAction may be nil.
func NewConditional(predicate Predicate, ifAction, elseAction Action) *Conditional {
	return &Conditional{predicate: predicate, then: ifAction, otherwise: elseAction}
}

func (c *Conditional) Kind() Kind { return KindConditional }

func (c *Conditional) Execute(ctx context.Context, s State) error {
	if c.predicate != nil && c.predicate(s) {
		if c.then != nil {
			return c.then.Execute(ctx, s)
		}
		return nil
	}
	if c.otherwise != nil {
		return c.otherwise.Execute(ctx, s)
	}
	return nil
}

// SetInput forwards input to both branches.
func (c *Conditional) SetInput(text string) {
	forwardInput(c.then, text)
	forwardInput(c.otherwise, text)
}

func (c *Conditional) sealed() {}

// Default does nothing. Content uses it as a placeholder.
type Default struct{}

// NewDefault returns the no-op action.
func NewDefault() Default { return Default{} }

func (Default) Kind() Kind { return KindDefault }

func (Default) Execute(context.Context, State) error { return nil }

func (Default) sealed() {}

func forwardInput(a Action, text string) {
	if r, ok := a.(InputReceiver); ok {
		r.SetInput(text)
	}
}
