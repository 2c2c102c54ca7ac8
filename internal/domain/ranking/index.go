package ranking

import (
	"math/rand"
	"sync"

	"github.com/okian/rating/internal/domain/model"
)

// Index is a treap keyed by (score DESC, user_id ASC). In-order traversal
// yields the same sequence as Rank over the same table, and Put costs
// O(log n) expected instead of a full re-sort.
type Index struct {
	mu   sync.RWMutex
	root *node
	byID map[string]model.Record
}

type node struct {
	id    string
	score float64
	prio  uint64
	left  *node
	right *node
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byID: make(map[string]model.Record)}
}

// Put inserts r or replaces the record previously stored for r.UserID.
func (x *Index) Put(r model.Record) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if old, ok := x.byID[r.UserID]; ok {
		x.root = deleteNode(x.root, old.UserID, old.Score)
	}
	x.byID[r.UserID] = r
	x.root = insert(x.root, &node{id: r.UserID, score: r.Score, prio: rand.Uint64()})
}

// Replace discards the current contents and rebuilds from t.
func (x *Index) Replace(t model.Table) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.root = nil
	x.byID = make(map[string]model.Record, len(t))
	for id, r := range t {
		x.byID[id] = r
		x.root = insert(x.root, &node{id: id, score: r.Score, prio: rand.Uint64()})
	}
}

// All returns every record in rank order.
func (x *Index) All() []model.Record {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]model.Record, 0, len(x.byID))
	collect(x.root, x.byID, &out)
	return out
}

// Len returns the number of indexed records.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byID)
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	return y
}

func insert(n, nn *node) *node {
	if n == nil {
		return nn
	}
	if less(nn.score, nn.id, n.score, n.id) {
		n.left = insert(n.left, nn)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, nn)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	return n
}

func deleteNode(n *node, id string, score float64) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.id == id && n.score == score:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		// Rotate the higher-priority child up and keep sinking the target.
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	case less(score, id, n.score, n.id):
		n.left = deleteNode(n.left, id, score)
	default:
		n.right = deleteNode(n.right, id, score)
	}
	return n
}

func collect(n *node, byID map[string]model.Record, out *[]model.Record) {
	if n == nil {
		return
	}
	collect(n.left, byID, out)
	if r, ok := byID[n.id]; ok {
		*out = append(*out, r)
	}
	collect(n.right, byID, out)
}
