// Package session keeps one conversion controller per widget session in memory.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gehlin/Currency-calculator/internal/config"
	"github.com/Gehlin/Currency-calculator/internal/controller"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("session not found")

type entry struct {
	ctrl     *controller.Controller
	lastSeen time.Time
}

// Store - реестр сессий с периодической очисткой неактивных.
type Store struct {
	conv   controller.Converter
	delay  time.Duration
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry

	cron *cron.Cron
}

func NewStore(conv controller.Converter, cfg config.SessionConfig, delay time.Duration, logger *zap.Logger) (*Store, error) {
	s := &Store{
		conv:    conv,
		delay:   delay,
		ttl:     cfg.TTL,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*entry),
		cron:    cron.New(),
	}
	if cfg.Sweep != "" {
		if _, err := s.cron.AddFunc(cfg.Sweep, func() { s.Sweep(s.now()) }); err != nil {
			return nil, fmt.Errorf("invalid session sweep schedule %q: %w", cfg.Sweep, err)
		}
	}
	return s, nil
}

// Create заводит новую сессию с контроллером в начальном состоянии.
func (s *Store) Create() (string, *controller.Controller) {
	id := uuid.NewString()
	ctrl := controller.New(s.conv,
		controller.WithDelay(s.delay),
		controller.WithLogger(s.logger.With(zap.String("session", id))),
	)

	s.mu.Lock()
	s.entries[id] = &entry{ctrl: ctrl, lastSeen: s.now()}
	s.mu.Unlock()

	s.logger.Debug("Session created", zap.String("session", id))
	return id, ctrl
}

// Get возвращает контроллер и продлевает жизнь сессии.
func (s *Store) Get(id string) (*controller.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = s.now()
	return e.ctrl, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	e.ctrl.Close()
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep удаляет сессии, не использовавшиеся дольше ttl. Возвращает число удалённых.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-s.ttl)

	var expired []*entry
	s.mu.Lock()
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, e := range expired {
		e.ctrl.Close()
	}
	if len(expired) > 0 {
		s.logger.Info("Idle sessions swept", zap.Int("removed", len(expired)))
	}
	return len(expired)
}

// Start запускает очистку по расписанию.
func (s *Store) Start() {
	s.cron.Start()
}

// Stop останавливает расписание и закрывает все контроллеры.
func (s *Store) Stop() {
	<-s.cron.Stop().Done()

	s.mu.Lock()
	entries := s.entries
	s.entries = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range entries {
		e.ctrl.Close()
	}
}
