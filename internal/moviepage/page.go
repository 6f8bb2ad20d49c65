package moviepage

import (
	"context"
	"sync"
)

// Snapshot is one published transition of a Page
type Snapshot struct {
	ID         string
	Generation uint64
	State      ViewState
}

// Page owns the ViewState of one navigation context. Each Navigate starts a
// fresh Loading generation; completions from older generations are dropped.
type Page struct {
	loader   *Loader
	onChange func(Snapshot)

	// emitMu serialises state changes with their notifications so observers
	// see transitions in generation order.
	emitMu sync.Mutex

	mu      sync.Mutex
	id      string
	gen     uint64
	state   ViewState
	cancel  context.CancelFunc
	settled chan struct{}
	closed  bool
}

// NewPage creates a Page. onChange may be nil; it is called for every applied
// transition and must not call Navigate or Close.
func NewPage(loader *Loader, onChange func(Snapshot)) *Page {
	settled := make(chan struct{})
	close(settled)
	return &Page{
		loader:   loader,
		onChange: onChange,
		state:    Loading(),
		settled:  settled,
	}
}

// Navigate switches the page to id: the state resets to Loading, any in-flight
// fetch is cancelled and a new one is started.
func (p *Page) Navigate(ctx context.Context, id string) {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	p.gen++
	p.id = id
	p.state = Loading()
	p.cancel = cancel
	release(p.settled)
	p.settled = make(chan struct{})
	snap := Snapshot{ID: id, Generation: p.gen, State: p.state}
	settled := p.settled
	p.mu.Unlock()

	p.notify(snap)

	go p.run(fetchCtx, snap.Generation, id, settled)
}

func (p *Page) run(ctx context.Context, gen uint64, id string, settled chan struct{}) {
	state := p.loader.Load(ctx, id)

	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	if p.closed || gen != p.gen || id != p.id {
		p.mu.Unlock()
		return
	}
	p.state = state
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	snap := Snapshot{ID: id, Generation: gen, State: state}
	p.mu.Unlock()

	p.notify(snap)

	p.mu.Lock()
	release(settled)
	p.mu.Unlock()
}

func (p *Page) notify(snap Snapshot) {
	if p.onChange != nil {
		p.onChange(snap)
	}
}

// current returns the identifier and state
func (p *Page) current() (string, ViewState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id, p.state
}

// wait blocks until the current navigation settles and its outcome has been
// published, or ctx is done. A page that was never navigated, or is closed,
// returns its current state.
func (p *Page) wait(ctx context.Context) (ViewState, error) {
	for {
		p.mu.Lock()
		settled, state, idle := p.settled, p.state, p.closed || p.gen == 0
		p.mu.Unlock()

		if idle {
			return state, nil
		}

		select {
		case <-settled:
			p.mu.Lock()
			current, state := p.settled, p.state
			p.mu.Unlock()
			if current == settled {
				return state, nil
			}
		case <-ctx.Done():
			return ViewState{}, ctx.Err()
		}
	}
}

// Close tears the page down. The in-flight fetch is cancelled and no further
// transitions are published.
func (p *Page) Close() {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	release(p.settled)
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// release closes ch unless it is already closed. Callers hold p.mu.
func release(ch chan struct{}) {
	select {
	case <-ch:
	default:
		close(ch)
	}
}
