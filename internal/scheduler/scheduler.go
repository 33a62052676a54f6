// Package scheduler runs background work on a single worker goroutine.
// Tasks submitted by request handlers take precedence over periodic ones.
package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("texlab.scheduler")

var ErrStopped = errors.New("scheduler: stopped")

type Task struct {
	Name    string
	Execute func() error
}

type Scheduler struct {
	high chan Task
	low  chan Task

	mu      sync.Mutex
	stopped bool

	stopChan chan struct{}
	wg       sync.WaitGroup
	tickers  sync.WaitGroup
}

// NewScheduler creates a Scheduler whose queues hold queueSize tasks.
func NewScheduler(queueSize int) *Scheduler {
	return &Scheduler{
		high:     make(chan Task, queueSize),
		low:      make(chan Task, queueSize),
		stopChan: make(chan struct{}),
	}
}

// RunScheduler starts the worker loop.
func (s *Scheduler) RunScheduler() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case task := <-s.high:
				run(task)
				continue
			default:
			}

			select {
			case task := <-s.high:
				run(task)
			case task := <-s.low:
				run(task)
			case <-s.stopChan:
				s.drain()
				return
			}
		}
	}()
}

func (s *Scheduler) drain() {
	for {
		select {
		case task := <-s.high:
			log.Debugf("draining task %s", task.Name)
			run(task)
		case task := <-s.low:
			log.Debugf("draining task %s", task.Name)
			run(task)
		default:
			return
		}
	}
}

func run(task Task) {
	log.Debugf("executing %s", task.Name)
	if err := task.Execute(); err != nil {
		log.Errorf("task %s failed: %v", task.Name, err)
	}
}

// SchedulePeriodicTask queues task once now and then at every interval.
// A tick is skipped when the low priority queue is full.
func (s *Scheduler) SchedulePeriodicTask(interval time.Duration, task Task) {
	s.enqueue(s.low, task, false)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	s.tickers.Add(1)
	go func() {
		defer s.tickers.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.enqueue(s.low, task, false)
			case <-s.stopChan:
				return
			}
		}
	}()
}

// ScheduleHighPriorityTask queues task ahead of any periodic work.
func (s *Scheduler) ScheduleHighPriorityTask(task Task) error {
	if !s.enqueue(s.high, task, true) {
		return ErrStopped
	}
	return nil
}

func (s *Scheduler) enqueue(queue chan Task, task Task, block bool) bool {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return false
	}
	if block {
		select {
		case queue <- task:
			log.Debugf("scheduled %s", task.Name)
			return true
		case <-s.stopChan:
			return false
		}
	}
	select {
	case queue <- task:
		log.Debugf("scheduled %s", task.Name)
		return true
	default:
		log.Warningf("skipped scheduling %s, queue is full", task.Name)
		return false
	}
}

// StopScheduler rejects new tasks, runs the queued ones and waits for
// the worker to exit.
func (s *Scheduler) StopScheduler() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopChan)
	s.mu.Unlock()

	s.tickers.Wait()
	s.wg.Wait()
	log.Infof("scheduler stopped")
}
