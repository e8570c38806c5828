package cache

// lruNode is a node in a doubly-linked recency list.
// It stores the key so the tail can be dropped from the owning map in O(1).
type lruNode[K comparable] struct {
	key  K
	prev *lruNode[K]
	next *lruNode[K]
}

// lruList orders keys from most recently used (head) to least recently
// used (tail). Not thread-safe; the owning shard holds its lock.
type lruList[K comparable] struct {
	head *lruNode[K]
	tail *lruNode[K]
	len  int
}

// Len returns the number of nodes in the list.
func (l *lruList[K]) Len() int {
	return l.len
}

// PushFront inserts key as the most recently used node.
func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	node := &lruNode[K]{key: key}
	l.link(node)
	return node
}

// MoveToFront marks node as the most recently used.
func (l *lruList[K]) MoveToFront(node *lruNode[K]) {
	if node == nil || node == l.head {
		return
	}
	l.unlink(node)
	l.link(node)
}

// Remove removes a node from the list.
func (l *lruList[K]) Remove(node *lruNode[K]) {
	if node == nil {
		return
	}
	l.unlink(node)
}

// Back returns the least recently used node, or nil if the list is empty.
func (l *lruList[K]) Back() *lruNode[K] {
	return l.tail
}

// Clear removes all nodes from the list.
func (l *lruList[K]) Clear() {
	l.head = nil
	l.tail = nil
	l.len = 0
}

// link places a detached node at the head.
func (l *lruList[K]) link(node *lruNode[K]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

// unlink detaches a node and clears its pointers.
func (l *lruList[K]) unlink(node *lruNode[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}

	node.prev = nil
	node.next = nil
	l.len--
}
