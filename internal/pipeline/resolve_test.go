package pipeline_test

import (
	"testing"

	"github.com/gyaneshwarpardhi/pipetree/internal/pipeline"
)

func TestResolve_RejectsMalformedIDs(t *testing.T) {
	b := newFakeBackend()
	b.add(7, "Sphere1")
	sess := pipeline.NewSession(b, nil)

	for _, raw := range []string{"-1", "abc", "0", "", "7.0", "99"} {
		if p, ok := pipeline.Resolve(sess, raw); ok {
			t.Errorf("Resolve(%q) = %v, want not found", raw, p.GlobalID())
		}
	}
}

func TestResolve_LiveNode(t *testing.T) {
	b := newFakeBackend()
	b.add(7, "Sphere1")
	sess := pipeline.NewSession(b, nil)

	p, ok := pipeline.Resolve(sess, "7")
	if !ok {
		t.Fatal("expected 7 to resolve")
	}
	if p.ID() != 7 || p.Name() != "Sphere1" {
		t.Errorf("resolved wrong proxy: %d %s", p.ID(), p.Name())
	}
	if _, ok := pipeline.Resolve(sess, " 7 "); !ok {
		t.Error("expected surrounding whitespace to be ignored")
	}
}

func TestResolve_DetachedSession(t *testing.T) {
	if _, ok := pipeline.Resolve(pipeline.NewSession(nil, nil), "1"); ok {
		t.Error("detached session must not resolve")
	}
	if _, ok := pipeline.Resolve(nil, "1"); ok {
		t.Error("nil session must not resolve")
	}
}
