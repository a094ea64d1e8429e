// Copyright 2025 Certen Protocol

package entanglement

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Graph is an immutable view over a set of entanglement nodes, used to
// compute and verify a single root digest covering all of them. The graph
// does not own its nodes — it holds references into caller-owned nodes, so
// multiple graphs may share nodes.
type Graph struct {
	nodes []*Node
	root  []byte
}

// NewGraph builds a graph from the given nodes and computes its root
// digest. Node order is significant: the root absorbs node digests in the
// order given.
func NewGraph(nodes []*Node) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	for _, n := range nodes {
		if n == nil {
			return nil, ErrNilNode
		}
	}

	owned := make([]*Node, len(nodes))
	copy(owned, nodes)
	g := &Graph{nodes: owned}

	if err := g.computeRoot(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) computeRoot() error {
	h := sha256.New()
	for _, n := range g.nodes {
		d, err := n.Digest()
		if err != nil {
			return err
		}
		h.Write(d)
	}
	g.root = h.Sum(nil)
	return nil
}

// Root returns the graph's root digest.
func (g *Graph) Root() []byte {
	root := make([]byte, len(g.root))
	copy(root, g.root)
	return root
}

// VerifyRoot reports whether expectedRoot matches the root this graph was
// built with, using a constant-time comparison.
func (g *Graph) VerifyRoot(expectedRoot []byte) bool {
	return subtle.ConstantTimeCompare(g.root, expectedRoot) == 1
}

// VerifyGraph recomputes every node's digest from its current payload and
// dependency structure — bypassing memoization — and compares the
// resulting root against the root the graph was built with. This detects
// any payload mutated after the graph was constructed.
func (g *Graph) VerifyGraph() bool {
	h := sha256.New()
	for _, n := range g.nodes {
		h.Write(n.recomputeDigest())
	}
	recomputed := h.Sum(nil)
	return subtle.ConstantTimeCompare(recomputed, g.root) == 1
}

// VerifyNode reports whether a single node's current payload and
// dependency digests are consistent with its memoized digest, recomputing
// from scratch rather than trusting the memoized value.
func VerifyNode(n *Node) bool {
	if n == nil {
		return false
	}
	n.mu.Lock()
	memoized := n.digest
	n.mu.Unlock()
	if memoized == nil {
		return false
	}
	return subtle.ConstantTimeCompare(n.recomputeDigest(), memoized) == 1
}
