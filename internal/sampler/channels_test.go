// internal/sampler/channels_test.go
package sampler

import "testing"

func TestResolve_MandatoryAlwaysIncluded(t *testing.T) {
	masks := []uint32{0, 1 << 2, 1<<2 | 1<<5, 1 << 7}
	const mandatory = uint32(1 << 7)

	for _, mask := range masks {
		set := Resolve(mask, mandatory, 8)
		if !set.Contains(7) {
			t.Fatalf("mask=%#x: mandatory channel 7 missing from %v", mask, set.Channels())
		}
	}
}

func TestResolve_OrderAscendingNoDuplicates(t *testing.T) {
	// Mandatory bit overlaps a requested bit; must not duplicate.
	set := Resolve(1<<5|1<<2|1<<7, 1<<7, 8)

	chs := set.Channels()
	for i := 1; i < len(chs); i++ {
		if chs[i] <= chs[i-1] {
			t.Fatalf("order not strictly ascending: %v", chs)
		}
	}
}

func TestResolve_Scenario(t *testing.T) {
	// mask {2,5}, mandatory 7, total 8 => [2 5 7]
	set := Resolve(1<<2|1<<5, 1<<7, 8)

	want := []int{2, 5, 7}
	got := set.Channels()
	if len(got) != len(want) {
		t.Fatalf("resolved %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("resolved %v, want %v", got, want)
		}
	}
}

func TestResolve_TotalBoundsMask(t *testing.T) {
	// Bits at and above total are ignored.
	set := Resolve(1<<3|1<<9, 1<<1, 8)

	if set.Contains(9) {
		t.Fatalf("channel 9 outside total=8 resolved: %v", set.Channels())
	}
	if set.Len() != 2 {
		t.Fatalf("expected [1 3], got %v", set.Channels())
	}
}

func TestResolve_OversizedSetKept(t *testing.T) {
	// 20 channels resolve fine; truncation is the assembler's job.
	set := Resolve(0xFFFFF, 0, 32)
	if set.Len() != 20 {
		t.Fatalf("expected 20 channels, got %d", set.Len())
	}
}
