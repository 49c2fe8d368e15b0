package ui

// quietPresenter consumes events but produces no output.
type quietPresenter struct{}

func (p *quietPresenter) Run(events <-chan Event) error {
	for range events { //nolint:revive // drain so the engine never sees a full channel
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
