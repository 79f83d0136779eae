package mention

// TaskQueue runs deferred work once the current event has been handled.
// Tasks queued while draining run in the same drain, after the ones already queued.
type TaskQueue struct {
	tasks []func()
}

// Defer schedules fn to run on the next Drain
func (q *TaskQueue) Defer(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// Len returns the number of pending tasks
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Drain runs pending tasks in FIFO order and returns how many ran
func (q *TaskQueue) Drain() int {
	ran := 0
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		task()
		ran++
	}
	return ran
}
