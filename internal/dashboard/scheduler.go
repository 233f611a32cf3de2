package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronScheduler runs periodic jobs on a robfig/cron scheduler and one-shot
// delayed jobs on runtime timers.
type CronScheduler struct {
	cron *cron.Cron

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
}

// NewCronScheduler creates and starts a scheduler. Panics inside jobs are
// recovered and logged.
func NewCronScheduler(log logrus.FieldLogger) *CronScheduler {
	logger := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger)),
	)
	c.Start()

	return &CronScheduler{
		cron:   c,
		timers: make(map[*time.Timer]struct{}),
	}
}

// Every schedules job at a fixed interval. cron rounds intervals below one
// second up to one second.
func (s *CronScheduler) Every(interval time.Duration, job func()) func() {
	id := s.cron.Schedule(cron.Every(interval), cron.FuncJob(job))
	return func() {
		s.cron.Remove(id)
	}
}

// After runs job once after delay.
func (s *CronScheduler) After(delay time.Duration, job func()) func() {
	var t *time.Timer
	s.mu.Lock()
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, t)
		s.mu.Unlock()
		job()
	})
	s.timers[t] = struct{}{}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.Stop()
		delete(s.timers, t)
	}
}

// Stop halts all scheduling. The returned context is done once running
// periodic jobs have finished.
func (s *CronScheduler) Stop() context.Context {
	s.mu.Lock()
	for t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[*time.Timer]struct{})
	s.mu.Unlock()

	return s.cron.Stop()
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	log logrus.FieldLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Debug("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).WithError(err).Error("cron: " + msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
