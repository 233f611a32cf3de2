package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

type manualJob struct {
	id       int
	due      time.Duration
	interval time.Duration
	job      func()
}

// ManualScheduler runs scheduled jobs on a virtual clock that only moves
// when Advance is called. Jobs run synchronously inside Advance.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	jobs   map[int]*manualJob
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{jobs: make(map[int]*manualJob)}
}

func (s *ManualScheduler) Every(interval time.Duration, job func()) func() {
	return s.add(interval, interval, job)
}

func (s *ManualScheduler) After(delay time.Duration, job func()) func() {
	return s.add(delay, 0, job)
}

func (s *ManualScheduler) add(delay, interval time.Duration, job func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.jobs[id] = &manualJob{id: id, due: s.now + delay, interval: interval, job: job}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.jobs, id)
	}
}

// Advance moves the clock forward by d, running every job that falls due in
// order of due time.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.due
		if next.interval > 0 {
			next.due += next.interval
		} else {
			delete(s.jobs, next.id)
		}
		job := next.job
		s.mu.Unlock()

		job()
	}
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualJob {
	due := make([]*manualJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		if j.due <= target {
			due = append(due, j)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, k int) bool {
		if due[i].due == due[k].due {
			return due[i].id < due[k].id
		}
		return due[i].due < due[k].due
	})
	return due[0]
}

// Pending returns the number of scheduled jobs, periodic ones included.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// ActivityCall is one call made to a RecordingRecorder.
type ActivityCall struct {
	Action model.Action
	Status model.ActivityStatus
	Detail string
}

// RecordingRecorder collects recorded activities in memory.
type RecordingRecorder struct {
	mu    sync.Mutex
	calls []ActivityCall
}

func (r *RecordingRecorder) Record(_ context.Context, action model.Action, status model.ActivityStatus, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ActivityCall{Action: action, Status: status, Detail: detail})
}

func (r *RecordingRecorder) Calls() []ActivityCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ActivityCall(nil), r.calls...)
}

// StaticTokenSource returns a fixed token or error.
type StaticTokenSource struct {
	Value string
	Err   error
}

func (s StaticTokenSource) Token(context.Context) (string, error) {
	return s.Value, s.Err
}

// Confirmer is a scripted confirmation prompt that records the questions asked.
type Confirmer struct {
	mu       sync.Mutex
	answers  []bool
	Messages []string
}

// NewConfirmer answers prompts with answers in order; once exhausted it answers no.
func NewConfirmer(answers ...bool) *Confirmer {
	return &Confirmer{answers: answers}
}

// Confirm matches dashboard.Confirm.
func (c *Confirmer) Confirm(message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Messages = append(c.Messages, message)
	if len(c.answers) == 0 {
		return false
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer
}
