// Copyright 2025 Certen Protocol
//
// Logical-Entanglement Engine: a content-addressed dependency DAG.
// A Node holds a payload (e.g. an article's headline, body, source, or
// author block) and an ordered list of dependency nodes it is entangled
// with. A node's digest covers its own payload and the digests of all of
// its dependencies, so tampering with any ancestor changes every digest
// downstream of it.

package entanglement

import (
	"crypto/sha256"
	"sync"
)

// Init performs a self-check of the entanglement engine: building and
// digesting a throwaway node. It is safe to call repeatedly.
func Init() error {
	n, err := NewNode([]byte("entanglement-engine-self-check"))
	if err != nil {
		return err
	}
	if _, err := n.Digest(); err != nil {
		return err
	}
	return nil
}

// Node is one element of an entanglement graph.
type Node struct {
	mu sync.Mutex

	payload []byte
	deps    []*Node
	digest  []byte // nil until first computed; frozen thereafter
}

// NewNode creates a node wrapping the given payload. An empty payload is
// permitted — its absence still participates in the node's digest — and
// the payload is copied, so later mutation of the caller's slice does not
// affect the node.
func NewNode(payload []byte) (*Node, error) {
	owned := make([]byte, len(payload))
	copy(owned, payload)
	return &Node{payload: owned}, nil
}

// AddDependency entangles node n with dependency dep: n's digest will cover
// dep's digest. Edges are ordered — dependencies entangle in the order they
// are added. An edge that would create a cycle, or that is added to n after
// n's digest has already been computed, is rejected.
func (n *Node) AddDependency(dep *Node) error {
	if dep == nil {
		return ErrNilDependency
	}
	if dep == n {
		return ErrSelfDependency
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.digest != nil {
		return ErrFrozenNode
	}
	if reaches(dep, n) {
		return ErrCycle
	}

	n.deps = append(n.deps, dep)
	return nil
}

// reaches reports whether target is reachable from start by walking
// dependency edges (start itself counts as reaching start).
func reaches(start, target *Node) bool {
	if start == target {
		return true
	}

	visited := make(map[*Node]bool)
	stack := []*Node{start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[cur] {
			continue
		}
		visited[cur] = true

		if cur == target {
			return true
		}

		cur.mu.Lock()
		deps := cur.deps
		cur.mu.Unlock()

		stack = append(stack, deps...)
	}
	return false
}

// Digest computes this node's digest, memoizing the result. The digest is
// SHA-256 over the node's payload followed by the digest of each
// dependency, in insertion order. Once computed, the node's dependency
// list is frozen: further AddDependency calls fail.
func (n *Node) Digest() ([]byte, error) {
	n.mu.Lock()
	if n.digest != nil {
		d := n.digest
		n.mu.Unlock()
		return d, nil
	}
	deps := make([]*Node, len(n.deps))
	copy(deps, n.deps)
	payload := n.payload
	n.mu.Unlock()

	h := sha256.New()
	h.Write(payload)
	for _, dep := range deps {
		depDigest, err := dep.Digest()
		if err != nil {
			return nil, err
		}
		h.Write(depDigest)
	}
	digest := h.Sum(nil)

	n.mu.Lock()
	n.digest = digest
	n.mu.Unlock()

	return digest, nil
}

// recomputeDigest recomputes a node's digest from scratch, bypassing the
// memoized value, for use by VerifyNode — this is how tampering with a
// node's payload after its digest was memoized gets detected.
func (n *Node) recomputeDigest() []byte {
	n.mu.Lock()
	payload := n.payload
	deps := make([]*Node, len(n.deps))
	copy(deps, n.deps)
	n.mu.Unlock()

	h := sha256.New()
	h.Write(payload)
	for _, dep := range deps {
		h.Write(dep.recomputeDigest())
	}
	return h.Sum(nil)
}
