package taskpool

// OnSuccess calls onValue on a worker once f settles with a value.
// The returned error only reports a refused dispatch.
func OnSuccess[T any](p *TaskPool, f *Future[T], onValue func(T)) error {
	return onSettled(p, f, onValue, nil, onValue != nil)
}

// OnFailure calls onError on a worker once f settles with an error.
func OnFailure[T any](p *TaskPool, f *Future[T], onError func(error)) error {
	return onSettled(p, f, nil, onError, onError != nil)
}

// OnComplete calls exactly one of onValue or onError once f settles.
func OnComplete[T any](p *TaskPool, f *Future[T], onValue func(T), onError func(error)) error {
	return onSettled(p, f, onValue, onError, onValue != nil && onError != nil)
}

// onSettled occupies one worker until f settles, so a pool needs more workers
// than pending continuations plus the tasks they wait on.
func onSettled[T any](p *TaskPool, f *Future[T], onValue func(T), onError func(error), valid bool) error {
	return p.admit(func() error {
		if !f.valid() || !valid {
			return NewInvalidTaskError(0)
		}
		p.put(variantCombinator, func() {
			v, err := f.Get()
			switch {
			case err != nil && onError != nil:
				onError(err)
			case err == nil && onValue != nil:
				onValue(v)
			}
		})
		return nil
	})
}
