// Package schedule provides a cooperative "run after the current handler" queue.
//
// Work deferred while handling one input event runs on the next Drain, in the
// order it was scheduled. There is no cancellation: deferred work must re-check
// the state it depends on when it runs.
package schedule

type task struct {
	name string
	fn   func()
}

type Queue struct {
	tasks []task
}

func NewQueue() *Queue {
	return &Queue{}
}

// Defer appends fn to the queue. A nil fn is ignored.
func (q *Queue) Defer(name string, fn func()) {
	if q == nil || fn == nil {
		return
	}
	q.tasks = append(q.tasks, task{name: name, fn: fn})
}

func (q *Queue) Pending() int {
	if q == nil {
		return 0
	}
	return len(q.tasks)
}

// Names lists pending task names in schedule order.
func (q *Queue) Names() []string {
	if q == nil {
		return nil
	}
	names := make([]string, 0, len(q.tasks))
	for _, t := range q.tasks {
		names = append(names, t.name)
	}
	return names
}

// Drain runs the tasks queued at call time. Tasks deferred by those tasks are
// left for the next Drain.
func (q *Queue) Drain() int {
	if q == nil || len(q.tasks) == 0 {
		return 0
	}
	batch := q.tasks
	q.tasks = nil
	for _, t := range batch {
		t.fn()
	}
	return len(batch)
}
