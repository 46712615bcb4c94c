package preview

import (
	"context"
	"sync"
	"time"

	"github.com/romdo/go-debounce"
	"go.uber.org/zap"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

const (
	DefaultWait      = time.Second
	DefaultMinLength = 10
)

// Preview is what a field shows after its text settles. A nil Candidate with
// a nil Err means the preview was cleared.
type Preview struct {
	FieldID   string
	Text      string
	Candidate *domain.TaskCandidate
	Err       error
}

type Callback func(Preview)

type Options struct {
	Wait      time.Duration
	MinLength int
	Now       func() time.Time
}

// Scheduler runs a debounced single-task parse per input field. Only the
// latest text of a field is ever parsed and stale results are dropped.
type Scheduler struct {
	parser    ports.TaskParser
	deliver   Callback
	wait      time.Duration
	minLength int
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	fields map[string]*field
	closed bool
	wg     sync.WaitGroup
}

type field struct {
	text       string
	generation uint64
	trigger    func()
	stop       func()
}

func NewScheduler(parser ports.TaskParser, deliver Callback, opts Options) *Scheduler {
	if opts.Wait <= 0 {
		opts.Wait = DefaultWait
	}
	if opts.MinLength < 0 {
		opts.MinLength = DefaultMinLength
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		parser:    parser,
		deliver:   deliver,
		wait:      opts.Wait,
		minLength: opts.MinLength,
		now:       opts.Now,
		ctx:       ctx,
		cancel:    cancel,
		fields:    map[string]*field{},
	}
}

// Update records the current text of a field. Text no longer than the
// minimum length clears the preview immediately.
func (s *Scheduler) Update(fieldID, text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	f, ok := s.fields[fieldID]
	if !ok {
		f = &field{}
		f.trigger, f.stop = debounce.New(s.wait, func() { go s.run(fieldID) })
		s.fields[fieldID] = f
	}
	f.text = text
	f.generation++

	if len([]rune(text)) <= s.minLength {
		f.stop()
		s.mu.Unlock()
		s.deliver(Preview{FieldID: fieldID, Text: text})
		return
	}

	f.trigger()
	s.mu.Unlock()
}

// Cancel drops any pending parse for the field.
func (s *Scheduler) Cancel(fieldID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.fields[fieldID]; ok {
		f.stop()
		f.generation++
		delete(s.fields, fieldID)
	}
}

// Close stops every pending parse, aborts in-flight ones and waits for them
// to return. No callback runs after Close returns.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, f := range s.fields {
		f.stop()
		delete(s.fields, id)
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) run(fieldID string) {
	s.mu.Lock()
	f, ok := s.fields[fieldID]
	if s.closed || !ok {
		s.mu.Unlock()
		return
	}
	text, generation := f.text, f.generation
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	candidate, err := s.parser.ParseOne(s.ctx, text, s.now())

	s.mu.Lock()
	current, ok := s.fields[fieldID]
	stale := s.closed || !ok || current != f || f.generation != generation
	s.mu.Unlock()
	if stale {
		zap.L().Debug("dropping stale preview", zap.String("field", fieldID))
		return
	}

	result := Preview{FieldID: fieldID, Text: text}
	if err != nil {
		result.Err = err
	} else {
		result.Candidate = &candidate
	}
	s.deliver(result)
}
