// Package lru_cache is a fixed-capacity least recently used cache. It is not
// safe for concurrent use.
package lru_cache

type Node[K comparable, V any] struct {
	Key K
	Val V

	Prev *Node[K, V]
	Next *Node[K, V]
}

type LRU[K comparable, V any] struct {
	capacity int
	cache    map[K]*Node[K, V]

	// left.Next is the least recently used entry, right.Prev the most recent
	left  *Node[K, V]
	right *Node[K, V]
}

func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	left, right := &Node[K, V]{}, &Node[K, V]{}

	left.Next = right
	right.Prev = left

	return &LRU[K, V]{
		left:     left,
		right:    right,
		capacity: capacity,
		cache:    make(map[K]*Node[K, V]),
	}
}

func (l *LRU[K, V]) Put(key K, value V) {
	if l.capacity <= 0 {
		return
	}

	node, exists := l.cache[key]
	if exists {
		l.deleteNode(node)
	}

	node = &Node[K, V]{Key: key, Val: value}
	l.cache[key] = node
	l.insertNode(node)

	if l.CapacityReached() {
		l.Evict()
	}
}

func (l *LRU[K, V]) Get(key K) (V, bool) {
	node, exists := l.cache[key]
	if !exists {
		var zero V
		return zero, false
	}

	l.deleteNode(node)
	l.insertNode(node)

	return node.Val, true
}

func (l *LRU[K, V]) Delete(key K) {
	node, exists := l.cache[key]
	if !exists {
		return
	}

	l.deleteNode(node)
	delete(l.cache, key)
}

func (l *LRU[K, V]) Len() int {
	return len(l.cache)
}

func (l *LRU[K, V]) CapacityReached() bool {
	return len(l.cache) > l.capacity
}

func (l *LRU[K, V]) Evict() {
	lru := l.left.Next
	if lru == l.right {
		return
	}

	l.deleteNode(lru)
	delete(l.cache, lru.Key)
}

func (l *LRU[K, V]) insertNode(node *Node[K, V]) {
	prev, next := l.right.Prev, l.right

	node.Prev = prev
	node.Next = next

	prev.Next = node
	next.Prev = node
}

func (l *LRU[K, V]) deleteNode(node *Node[K, V]) {
	prev, next := node.Prev, node.Next

	prev.Next = next
	next.Prev = prev
}
