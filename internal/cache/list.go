package cache

// node is an element of list. It stores the key so the oldest entry can be
// removed from the map in O(1).
type node[K comparable, V any] struct {
	key   K
	value V

	prev, next *node[K, V]
}

// list is a circular doubly-linked list with a sentinel root. root.next is
// the most recently used node, root.prev the least recently used.
//
// list is not thread-safe.
type list[K comparable, V any] struct {
	root node[K, V]
	len  int
}

func (l *list[K, V]) init() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
}

// pushFront inserts a new node after root.
func (l *list[K, V]) pushFront(key K, value V) *node[K, V] {
	n := &node[K, V]{key: key, value: value}
	l.insertAfter(n, &l.root)
	l.len++
	return n
}

func (l *list[K, V]) insertAfter(n, at *node[K, V]) {
	n.prev = at
	n.next = at.next
	at.next.prev = n
	at.next = n
}

func (l *list[K, V]) unlink(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

// moveToFront marks n as the most recently used.
func (l *list[K, V]) moveToFront(n *node[K, V]) {
	if l.root.next == n {
		return
	}
	l.unlink(n)
	l.insertAfter(n, &l.root)
}

func (l *list[K, V]) remove(n *node[K, V]) {
	l.unlink(n)
	l.len--
}

// back returns the least recently used node, or nil.
func (l *list[K, V]) back() *node[K, V] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}
