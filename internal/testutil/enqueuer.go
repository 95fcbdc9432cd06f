package testutil

import (
	"context"
	"sync"

	"github.com/hibiken/asynq"
)

// FakeEnqueuer stands in for an asynq.Client. It records enqueued tasks,
// or fails every call when Err is set.
type FakeEnqueuer struct {
	mu    sync.Mutex
	Err   error
	Tasks []*asynq.Task
}

func (f *FakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.Tasks = append(f.Tasks, task)
	return &asynq.TaskInfo{ID: "fake", Type: task.Type(), Payload: task.Payload()}, nil
}

// TypeCount returns how many recorded tasks have the given type.
func (f *FakeEnqueuer) TypeCount(taskType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.Tasks {
		if t.Type() == taskType {
			n++
		}
	}
	return n
}
