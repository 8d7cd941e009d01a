package sequencefield

// markQueue walks a changeset one run at a time, splitting the head mark
// when a caller consumes fewer cells than it covers.
type markQueue struct {
	marks Changeset
	index int
	head  *Mark
}

func newMarkQueue(marks Changeset) *markQueue {
	return &markQueue{marks: marks}
}

func (q *markQueue) isEmpty() bool {
	return q.head == nil && q.index >= len(q.marks)
}

func (q *markQueue) peek() Mark {
	if q.head != nil {
		return *q.head
	}
	return q.marks[q.index]
}

// dequeue pops the whole head mark.
func (q *markQueue) dequeue() Mark {
	if q.head != nil {
		var mark = *q.head
		q.head = nil
		return mark
	}
	var mark = q.marks[q.index]
	q.index++
	return mark
}

// dequeueUpTo pops at most n cells of the head mark, leaving the remainder
// queued.
func (q *markQueue) dequeueUpTo(n int) Mark {
	var mark = q.peek()
	if mark.Count <= n {
		return q.dequeue()
	}
	head, tail := mark.Split(n)
	if q.head == nil {
		q.index++
	}
	q.head = &tail
	return head
}
