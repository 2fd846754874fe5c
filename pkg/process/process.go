package process

import (
	"context"
	"sync"

	"github.com/tauraamui/signclips/pkg/log"
)

type Process interface {
	Start(context.Context)
	Stop()
	Wait()
}

// Settings describes a process. Process is handed a context which is
// cancelled on Stop, and returns one channel per goroutine it started
// which must be closed once that goroutine exits.
type Settings struct {
	WaitForShutdownMsg string
	Process            func(context.Context) []chan interface{}
}

func New(settings Settings) Process {
	return &process{
		waitForShutdownMsg: settings.WaitForShutdownMsg,
		process:            settings.Process,
	}
}

type process struct {
	process            func(context.Context) []chan interface{}
	waitForShutdownMsg string
	mu                 sync.Mutex
	canceller          context.CancelFunc
	signals            []chan interface{}
}

func (p *process) logShutdown() {
	if len(p.waitForShutdownMsg) > 0 {
		log.Info(p.waitForShutdownMsg)
	}
}

func (p *process) Start(parent context.Context) {
	ctx, canceller := context.WithCancel(parent)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.canceller = canceller
	p.signals = append(p.signals, p.process(ctx)...)
}

func (p *process) Stop() {
	p.logShutdown()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.canceller != nil {
		p.canceller()
	}
}

// Wait blocks until every goroutine the process started has exited.
func (p *process) Wait() {
	p.mu.Lock()
	signals := p.signals
	p.mu.Unlock()
	for _, sig := range signals {
		<-sig
	}
}
