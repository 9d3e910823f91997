package controller

import (
	"sync"
	"time"
)

// debouncer откладывает задачу на delay; новый Schedule отменяет предыдущий.
// Каждая запись получает номер поколения, задача знает свой номер.
type debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// Schedule отменяет ожидающую задачу и ставит fn с новым поколением.
func (d *debouncer) Schedule(fn func(gen uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { fn(gen) })
	return gen
}

// Current - поколение последней запланированной задачи
func (d *debouncer) Current() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
