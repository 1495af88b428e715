package worker

import (
	"container/list"
	"sync"
	"time"

	"voxrelay/internal/models"
)

// Handler processes one normalized update to completion.
type Handler interface {
	Handle(update models.Update)
}

type userQueue struct {
	jobs     []Job
	enqueued bool
	running  bool
}

type DispatcherConfig struct {
	MinWorkers        int
	MaxWorkers        int
	QueueSize         int
	WorkerIdleTimeout time.Duration
}

// Dispatcher fans inbound updates out to a worker pool with per-user
// FIFO queues and LRU fairness across users. At most one job per user is
// in flight at any time, so same-user updates never interleave; distinct
// users run in parallel.
type Dispatcher struct {
	pool     *jobChannelPool
	jobQueue chan Job
	handler  Handler

	mu        sync.Mutex
	queues    map[int64]*userQueue // pending jobs for each user
	ready     *list.List           // LRU queue storing user IDs
	positions map[int64]*list.Element
	wake      chan struct{}
}

func NewDispatcher(cfg DispatcherConfig, handler Handler) *Dispatcher {
	if cfg.MinWorkers <= 0 {
		cfg.MinWorkers = 2
	}
	if cfg.MaxWorkers < cfg.MinWorkers {
		cfg.MaxWorkers = cfg.MinWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}

	d := &Dispatcher{
		jobQueue:  make(chan Job, cfg.QueueSize),
		handler:   handler,
		queues:    make(map[int64]*userQueue),
		ready:     list.New(),
		positions: make(map[int64]*list.Element),
		wake:      make(chan struct{}, 1),
	}
	d.pool = newJobChannelPool(cfg.MinWorkers, cfg.MaxWorkers, cfg.WorkerIdleTimeout, handler, d.finish)

	// Warm up workers so the first updates are not delayed by spawning.
	for i := 0; i < cfg.MinWorkers; i++ {
		d.pool.spawnWorker()
	}

	go d.run()
	return d
}

// Submit enqueues an update without blocking. It returns false when the
// inbound queue is full; the caller acks the webhook regardless.
func (d *Dispatcher) Submit(update models.Update) bool {
	select {
	case d.jobQueue <- Job{Type: Handle, Update: update}:
		return true
	default:
		return false
	}
}

func (d *Dispatcher) run() {
	for {
		// dispatch one job of the user in the front of the LRU queue
		if !d.dispatchOne() {
			select {
			case job := <-d.jobQueue:
				d.enqueueJob(job)
			case <-d.wake:
			}
			continue
		}
		select {
		case job := <-d.jobQueue:
			d.enqueueJob(job)
		default:
		}
	}
}

func (d *Dispatcher) enqueueJob(job Job) {
	userID := job.userID()

	d.mu.Lock()
	defer d.mu.Unlock()

	q := d.queues[userID]
	if q == nil {
		q = &userQueue{}
		d.queues[userID] = q
	}
	q.jobs = append(q.jobs, job)
	if q.enqueued || q.running {
		// already queued, or the user's in-flight job will requeue on finish
		return
	}
	q.enqueued = true
	elem := d.ready.PushBack(userID)
	d.positions[userID] = elem
}

// dispatchOne takes the first ready user and hands their oldest job to a
// worker. The user leaves the ready list until the job finishes.
func (d *Dispatcher) dispatchOne() bool {
	d.mu.Lock()
	elem := d.ready.Front()
	if elem == nil {
		d.mu.Unlock()
		return false
	}
	userID := elem.Value.(int64)
	q := d.queues[userID]
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	q.running = true
	q.enqueued = false
	d.ready.Remove(elem)
	delete(d.positions, userID)
	d.mu.Unlock()

	workerChan := d.pool.acquire()
	workerID := d.pool.workerID(workerChan)
	debugLog("[dispatcher] assign %v job for user %d to worker-%d", job.Update.Kind, userID, workerID)
	workerChan <- job
	return true
}

// finish marks the user's in-flight job done and requeues the user when
// more jobs are pending. Called from the worker goroutine.
func (d *Dispatcher) finish(userID int64) {
	d.mu.Lock()
	q := d.queues[userID]
	if q != nil {
		q.running = false
		if len(q.jobs) > 0 && !q.enqueued {
			q.enqueued = true
			elem := d.ready.PushBack(userID)
			d.positions[userID] = elem
		} else if len(q.jobs) == 0 {
			delete(d.queues, userID)
		}
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}
