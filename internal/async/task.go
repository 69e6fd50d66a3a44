package async

import "sync"

// TaskState is the lifecycle of one parallel branch.
type TaskState int

const (
	// TaskRunning is the initial state after dispatch.
	TaskRunning TaskState = iota + 1
	// TaskResolved means the branch returned a result.
	TaskResolved
	// TaskRejected means the branch returned an error or panicked.
	TaskRejected
	// TaskTimedOut means the branch exceeded its time bound.
	TaskTimedOut
)

// String returns the lowercase state name.
func (s TaskState) String() string {
	switch s {
	case TaskRunning:
		return "running"
	case TaskResolved:
		return "resolved"
	case TaskRejected:
		return "rejected"
	case TaskTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Task is one branch of a parallel group. It transitions from Running to
// exactly one terminal state; later transition attempts are ignored so a
// slow branch finishing after its timeout cannot overwrite the verdict.
type Task struct {
	mu     sync.Mutex
	state  TaskState
	result any
	err    error
}

func newTask() *Task {
	return &Task{state: TaskRunning}
}

// State returns the current task state.
func (t *Task) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Result returns the branch result. Valid only in TaskResolved.
func (t *Task) Result() any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Err returns the branch failure reason. Valid in TaskRejected and
// TaskTimedOut.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Task) resolve(result any) {
	t.transition(TaskResolved, result, nil)
}

func (t *Task) reject(err error) {
	t.transition(TaskRejected, nil, err)
}

func (t *Task) timeout(err *TimeoutError) {
	t.transition(TaskTimedOut, nil, err)
}

func (t *Task) transition(state TaskState, result any, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TaskRunning {
		return // Already terminal; first transition wins.
	}
	t.state = state
	t.result = result
	t.err = err
}
