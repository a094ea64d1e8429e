package entanglement

import (
	"bytes"
	"testing"
)

func TestNewNodeAllowsEmptyPayload(t *testing.T) {
	n, err := NewNode(nil)
	if err != nil {
		t.Fatalf("new node with empty payload: %v", err)
	}
	if _, err := n.Digest(); err != nil {
		t.Fatalf("digest of empty-payload node: %v", err)
	}
}

func TestDigestLeafNode(t *testing.T) {
	n, err := NewNode([]byte("head"))
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	d1, err := n.Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	d2, err := n.Digest()
	if err != nil {
		t.Fatalf("digest again: %v", err)
	}
	if !bytes.Equal(d1, d2) {
		t.Error("memoized digest changed between calls")
	}
}

func TestDigestAbsorbsDependencies(t *testing.T) {
	head, _ := NewNode([]byte("head"))
	body, _ := NewNode([]byte("body"))

	if err := body.AddDependency(head); err != nil {
		t.Fatalf("add dependency: %v", err)
	}

	withDep, err := body.Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}

	bodyAlone, _ := NewNode([]byte("body"))
	withoutDep, err := bodyAlone.Digest()
	if err != nil {
		t.Fatalf("digest alone: %v", err)
	}

	if bytes.Equal(withDep, withoutDep) {
		t.Error("digest did not change when a dependency was added")
	}
}

func TestAddDependencyRejectsSelf(t *testing.T) {
	n, _ := NewNode([]byte("x"))
	if err := n.AddDependency(n); err != ErrSelfDependency {
		t.Errorf("err = %v, want ErrSelfDependency", err)
	}
}

func TestAddDependencyRejectsCycle(t *testing.T) {
	a, _ := NewNode([]byte("a"))
	b, _ := NewNode([]byte("b"))
	c, _ := NewNode([]byte("c"))

	if err := b.AddDependency(a); err != nil {
		t.Fatalf("b -> a: %v", err)
	}
	if err := c.AddDependency(b); err != nil {
		t.Fatalf("c -> b: %v", err)
	}
	if err := a.AddDependency(c); err != ErrCycle {
		t.Errorf("err = %v, want ErrCycle", err)
	}
}

func TestAddDependencyRejectsAfterDigest(t *testing.T) {
	a, _ := NewNode([]byte("a"))
	b, _ := NewNode([]byte("b"))

	if _, err := a.Digest(); err != nil {
		t.Fatalf("digest: %v", err)
	}
	if err := a.AddDependency(b); err != ErrFrozenNode {
		t.Errorf("err = %v, want ErrFrozenNode", err)
	}
}

func TestVerifyNodeDetectsTamper(t *testing.T) {
	n, _ := NewNode([]byte("head"))
	if _, err := n.Digest(); err != nil {
		t.Fatalf("digest: %v", err)
	}
	if !VerifyNode(n) {
		t.Error("untampered node failed verification")
	}

	n.mu.Lock()
	n.payload = []byte("Head")
	n.mu.Unlock()

	if VerifyNode(n) {
		t.Error("tampered node passed verification")
	}
}
