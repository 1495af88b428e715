package worker

// Worker pulls jobs off its channel and runs them through the handler.
// After each job it reports completion so the dispatcher can release the
// user's queue, then parks itself back in the pool.
type Worker struct {
	pool       *jobChannelPool
	handler    Handler
	onDone     func(userID int64)
	jobChannel chan Job
}

func NewWorker(pool *jobChannelPool, handler Handler, onDone func(int64)) *Worker {
	return &Worker{
		pool:       pool,
		handler:    handler,
		onDone:     onDone,
		jobChannel: make(chan Job),
	}
}

func (w *Worker) Start() {
	go func() {
		for {
			w.pool.release(w.jobChannel)
			job := <-w.jobChannel
			switch job.Type {
			case Stop:
				w.pool.retire(w.jobChannel)
				return
			case Handle:
				w.handler.Handle(job.Update)
				if w.onDone != nil {
					w.onDone(job.userID())
				}
			}
		}
	}()
}
