package bubble

// FrameID identifies a scheduled frame callback. Zero is never issued.
type FrameID uint64

// Scheduler calls back once on the next display frame, like
// requestAnimationFrame. CancelFrame must accept unknown or already fired ids.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// FrameQueue is a Scheduler fired explicitly by its owner. Callbacks requested
// while Fire runs wait for the next Fire, matching display-frame semantics.
type FrameQueue struct {
	next    FrameID
	order   []FrameID
	pending map[FrameID]func()
	fired   int
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{pending: make(map[FrameID]func())}
}

func (q *FrameQueue) RequestFrame(fn func()) FrameID {
	q.next++
	q.pending[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

func (q *FrameQueue) CancelFrame(id FrameID) {
	delete(q.pending, id)
}

// Fire runs every callback pending at entry and returns how many ran.
func (q *FrameQueue) Fire() int {
	batch := q.order
	q.order = nil
	n := 0
	for _, id := range batch {
		fn, ok := q.pending[id]
		if !ok {
			continue
		}
		delete(q.pending, id)
		fn()
		n++
	}
	q.fired += n
	return n
}

// Pending returns the number of callbacks waiting for the next Fire.
func (q *FrameQueue) Pending() int { return len(q.pending) }

// Fired returns the total number of callbacks run so far.
func (q *FrameQueue) Fired() int { return q.fired }
