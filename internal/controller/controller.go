// Package controller owns the state of one conversion widget: raw amount text,
// source and target currency, the converted value, a loading flag and an error
// message. Input changes are debounced; only the latest scheduled recomputation
// runs, and a response that arrives after a newer recomputation has started is
// dropped.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/Gehlin/Currency-calculator/internal/model"

	"go.uber.org/zap"
)

const (
	DefaultDelay  = 500 * time.Millisecond
	DefaultAmount = "1"
)

type Controller struct {
	conv   Converter
	logger *zap.Logger
	deb    *debouncer

	mu       sync.Mutex
	state    model.State
	inFlight uint64
	cancel   context.CancelFunc
	closed   bool
}

type Option func(*options)

type options struct {
	delay  time.Duration
	logger *zap.Logger
	input  Input
}

func WithDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithInput(in Input) Option {
	return func(o *options) { o.input = in }
}

// New создаёт контроллер и сразу планирует первый пересчёт.
func New(conv Converter, opts ...Option) *Controller {
	o := options{
		delay:  DefaultDelay,
		logger: zap.NewNop(),
		input:  Input{Amount: DefaultAmount, From: model.DefaultSource, To: model.DefaultTarget},
	}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Controller{
		conv:   conv,
		logger: o.logger,
		deb:    newDebouncer(o.delay),
		state: model.State{
			Amount: o.input.Amount,
			From:   o.input.From,
			To:     o.input.To,
		},
	}

	c.mu.Lock()
	c.scheduleLocked()
	c.mu.Unlock()
	return c
}

// Change - частичное изменение ввода; nil поле не меняется.
type Change struct {
	Amount *string
	From   *model.Currency
	To     *model.Currency
}

// Apply применяет изменение атомарно. Смена валюты во время загрузки
// отклоняется с ErrBusy (селекторы заблокированы), и тогда не меняется ничего.
func (c *Controller) Apply(ch Change) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fromChanged := ch.From != nil && *ch.From != c.state.From
	toChanged := ch.To != nil && *ch.To != c.state.To
	amountChanged := ch.Amount != nil && *ch.Amount != c.state.Amount

	if (fromChanged || toChanged) && c.state.Loading {
		return ErrBusy
	}
	if fromChanged {
		c.state.From = *ch.From
	}
	if toChanged {
		c.state.To = *ch.To
	}
	if amountChanged {
		c.state.Amount = *ch.Amount
	}
	if fromChanged || toChanged || amountChanged {
		c.scheduleLocked()
	}
	return nil
}

func (c *Controller) SetAmount(text string) {
	_ = c.Apply(Change{Amount: &text})
}

func (c *Controller) SetSource(cur model.Currency) error {
	return c.Apply(Change{From: &cur})
}

func (c *Controller) SetTarget(cur model.Currency) error {
	return c.Apply(Change{To: &cur})
}

// SetInput заменяет все три поля одним изменением: максимум один пересчёт.
func (c *Controller) SetInput(in Input) error {
	return c.Apply(Change{Amount: &in.Amount, From: &in.From, To: &in.To})
}

// Clear сбрасывает сумму, результат и ошибку одним обновлением.
// Недоступно во время загрузки или при уже пустой сумме.
func (c *Controller) Clear() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Loading || c.state.Amount == "" {
		return false
	}
	c.state.Amount = ""
	c.state.Result = ""
	c.state.Error = ""
	c.scheduleLocked()
	return true
}

func (c *Controller) Snapshot() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) View() model.Display {
	return Render(c.Snapshot())
}

// Close останавливает таймер и отменяет запрос в полёте.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.deb.Stop()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) scheduleLocked() {
	if c.closed {
		return
	}
	c.state.Generation = c.deb.Schedule(c.run)
}

func (c *Controller) run(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.deb.Current() {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.inFlight = gen
	in := Input{Amount: c.state.Amount, From: c.state.From, To: c.state.To}
	c.state.Error = ""
	c.state.Loading = true
	c.mu.Unlock()

	start := time.Now()
	result, errMsg := Evaluate(ctx, c.conv, in)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if gen != c.inFlight {
		c.logger.Debug("Dropping stale conversion",
			zap.Uint64("generation", gen),
			zap.Uint64("current", c.inFlight),
		)
		return
	}
	c.cancel = nil
	c.state.Result = result
	c.state.Error = errMsg
	c.state.Loading = false

	c.logger.Debug("Conversion recomputed",
		zap.Uint64("generation", gen),
		zap.String("amount", in.Amount),
		zap.String("from", in.From.String()),
		zap.String("to", in.To.String()),
		zap.String("result", result),
		zap.String("error", errMsg),
		zap.Duration("took", time.Since(start)),
	)
}
