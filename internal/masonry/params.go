package masonry

// Params are the settings that shape a layout. Any change to them invalidates
// incremental reuse.
type Params struct {
	CardSize   float64
	MinColumns int
	Gap        float64
	// Revision is bumped when styling changes in a way the other fields do
	// not capture.
	Revision int
}

// Normalize clamps out-of-range values instead of rejecting them.
func (p Params) Normalize() Params {
	if p.CardSize <= 0 {
		p.CardSize = 1
	}
	if p.MinColumns < 1 {
		p.MinColumns = 1
	}
	if p.Gap < 0 {
		p.Gap = 0
	}
	return p
}

// Provider hands Params to the controller and notifies subscribers when they
// change. It replaces reading layout settings from shared global state.
type Provider struct {
	params Params
	subs   map[int]func(Params)
	nextID int
}

// NewProvider returns a provider seeded with p.
func NewProvider(p Params) *Provider {
	return &Provider{params: p.Normalize(), subs: make(map[int]func(Params))}
}

// Params returns the current parameters.
func (p *Provider) Params() Params {
	return p.params
}

// Set replaces the parameters and notifies subscribers if anything changed.
func (p *Provider) Set(next Params) {
	next = next.Normalize()
	if next == p.params {
		return
	}
	p.params = next
	p.notify()
}

// Update applies fn to a copy of the parameters and stores the result.
func (p *Provider) Update(fn func(*Params)) {
	next := p.params
	fn(&next)
	p.Set(next)
}

// BumpRevision signals a styling change that affects card geometry.
func (p *Provider) BumpRevision() {
	p.params.Revision++
	p.notify()
}

// Subscribe registers fn for change notifications and returns a function that
// removes it.
func (p *Provider) Subscribe(fn func(Params)) func() {
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() { delete(p.subs, id) }
}

func (p *Provider) notify() {
	for _, fn := range p.subs {
		fn(p.params)
	}
}
