package kernel

import "testing"

func TestZeroSeedSubstitutedWithOne(t *testing.T) {
	sm := NewSeedManager(0)
	if sm.MasterSeed() != 1 {
		t.Fatalf("expected zero seed to be replaced with 1, got %d", sm.MasterSeed())
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	a := NewSeedManager(7)
	b := NewSeedManager(7)

	sa := a.Stream(DomainMain)
	sb := b.Stream(DomainMain)

	for i := 0; i < 50; i++ {
		va, vb := sa.NextInt(0, 1000), sb.NextInt(0, 1000)
		if va != vb {
			t.Fatalf("streams diverged at draw %d: %d != %d", i, va, vb)
		}
	}
}

func TestDomainsAreIndependent(t *testing.T) {
	sm := NewSeedManager(7)
	main := sm.Stream(DomainMain)
	physics := sm.Stream(DomainPhysics)

	same := true
	for i := 0; i < 20; i++ {
		if main.NextInt(0, 1<<30) != physics.NextInt(0, 1<<30) {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected DomainMain and DomainPhysics to diverge, got identical draws")
	}
}

func TestCloneNilSeedIsBitIdentical(t *testing.T) {
	sm := NewSeedManager(123)
	clone := sm.clone(nil)

	sa := sm.Stream(DomainRefill)
	sb := clone.Stream(DomainRefill)
	for i := 0; i < 20; i++ {
		if sa.NextInt(0, 1<<20) != sb.NextInt(0, 1<<20) {
			t.Fatalf("clone(nil) diverged at draw %d", i)
		}
	}
}

func TestCloneWithNewSeedDiverges(t *testing.T) {
	sm := NewSeedManager(123)
	newSeed := int32(999)
	clone := sm.clone(&newSeed)

	if clone.MasterSeed() != 999 {
		t.Fatalf("expected clone master seed 999, got %d", clone.MasterSeed())
	}

	sa := sm.Stream(DomainSpawn)
	sb := clone.Stream(DomainSpawn)
	same := true
	for i := 0; i < 20; i++ {
		if sa.NextInt(0, 1<<20) != sb.NextInt(0, 1<<20) {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected reseeded clone to diverge from the original")
	}
}

func TestNextIntPanicsOnEmptyRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected NextInt(n, n) to panic")
		}
	}()
	NewSeedManager(1).Stream(DomainMain).NextInt(5, 5)
}
