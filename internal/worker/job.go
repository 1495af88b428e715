package worker

import "voxrelay/internal/models"

type JobType int

const (
	Handle JobType = iota
	Stop
)

// Job carries one normalized update through the dispatcher to a worker.
type Job struct {
	Type   JobType
	Update models.Update
}

func (job Job) userID() int64 {
	return job.Update.UserID
}
