// Intrusive doubly-linked list support.

package coopsched_internal

// The scheduler queue is a circular, sentinel-headed, doubly-linked list. The
// link cell is embedded in the task it belongs to, so queue membership needs
// no extra storage and removal is a pair of pointer operations. The sentinel
// head is not part of the list; head.next is the first element and head.prev
// the last, which makes empty- and one-element lists indistinguishable from
// any other for insertion and removal.
//
// Cell states:
//   - sentinel / empty head: prev and next point to the cell itself
//   - linked element: prev and next are non-nil, part of a circular chain
//   - detached element: prev and next are nil
//
// The owner back reference replaces the container-of offset arithmetic of the
// C-style intrusive list; it is set once at task init and never changes.

type DListCell struct {
	prev, next *DListCell
	// The containing task, nil for sentinel heads:
	owner *Task
}

// InitHead makes the cell a sentinel head of an empty list. Idempotent on a
// fresh cell.
func (head *DListCell) InitHead() {
	head.prev = head
	head.next = head
}

// Owner returns the task the cell is embedded in, nil for sentinel heads.
func (cell *DListCell) Owner() *Task {
	return cell.owner
}

// IsEmpty returns true iff the head references no elements.
func (head *DListCell) IsEmpty() bool {
	return head.next == head
}

// IsLinked returns true iff the cell is currently a member of a list.
func (cell *DListCell) IsLinked() bool {
	return cell.next != nil
}

// First returns the earliest element, nil if the list is empty.
func (head *DListCell) First() *DListCell {
	if head.next == head {
		return nil
	}
	return head.next
}

// Last returns the latest element, nil if the list is empty.
func (head *DListCell) Last() *DListCell {
	if head.prev == head {
		return nil
	}
	return head.prev
}

// InsertBefore splices the detached cell e immediately before ref. ref may be
// the sentinel head, in which case e becomes the last element.
func (ref *DListCell) InsertBefore(e *DListCell) {
	prev := ref.prev
	e.prev = prev
	e.next = ref
	prev.next = e
	ref.prev = e
}

// InsertAfter splices the detached cell e immediately after ref. ref may be
// the sentinel head, in which case e becomes the first element.
func (ref *DListCell) InsertAfter(e *DListCell) {
	next := ref.next
	e.prev = ref
	e.next = next
	next.prev = e
	ref.next = e
}

// PushFront inserts the detached cell e at the front of the list.
func (head *DListCell) PushFront(e *DListCell) {
	head.InsertAfter(e)
}

// PushBack inserts the detached cell e at the back of the list.
func (head *DListCell) PushBack(e *DListCell) {
	head.InsertBefore(e)
}

// PopFront detaches and returns the first element, nil if the list is empty.
func (head *DListCell) PopFront() *DListCell {
	e := head.First()
	if e != nil {
		e.Unlink()
	}
	return e
}

// PopBack detaches and returns the last element, nil if the list is empty.
func (head *DListCell) PopBack() *DListCell {
	e := head.Last()
	if e != nil {
		e.Unlink()
	}
	return e
}

// Unlink splices the cell out of whatever list holds it and nulls its
// pointers. Safe to call unconditionally: a detached cell is a no-op and the
// return value tells whether the cell was actually linked.
func (cell *DListCell) Unlink() bool {
	if cell.next == nil {
		return false
	}
	cell.prev.next = cell.next
	cell.next.prev = cell.prev
	cell.prev = nil
	cell.next = nil
	return true
}

// Traverse walks the list head to tail invoking fn on each element until fn
// returns a non-nil value, which becomes the traversal result. A full walk w/
// all nil returns yields nil.
func (head *DListCell) Traverse(fn func(e *DListCell) any) any {
	for e := head.next; e != head; e = e.next {
		if v := fn(e); v != nil {
			return v
		}
	}
	return nil
}

// Len counts the elements; O(n).
func (head *DListCell) Len() int {
	n := 0
	for e := head.next; e != head; e = e.next {
		n++
	}
	return n
}
