package inventory

import (
	"reflect"
	"testing"
)

func TestCounts_UnknownIsZero(t *testing.T) {
	var c Counts
	if got := c.Count("Nothing"); got != 0 {
		t.Errorf("nil Counts.Count = %d, want 0", got)
	}
	c = Counts{"Key": 1}
	if got := c.Count("Torch"); got != 0 {
		t.Errorf("Count(Torch) = %d, want 0", got)
	}
}

func TestCounts_AddRemove(t *testing.T) {
	c := Counts{}
	c.Add("Dive", 1)
	c.Add("Dive", 1)
	c.Add("Dive", 0)
	c.Add("Dive", -3)
	if got := c.Count("Dive"); got != 2 {
		t.Fatalf("Count after adds = %d, want 2", got)
	}

	c.Remove("Dive", 1)
	if got := c.Count("Dive"); got != 1 {
		t.Errorf("Count after remove = %d, want 1", got)
	}
	c.Remove("Dive", 5)
	if got := c.Count("Dive"); got != 0 {
		t.Errorf("Count after over-remove = %d, want 0", got)
	}
	if _, ok := c["Dive"]; ok {
		t.Error("entry should be deleted when it reaches zero")
	}
}

func TestCounts_CloneIsIndependent(t *testing.T) {
	c := Counts{"Key": 1, "Ghost": 0}
	cp := c.Clone()
	cp.Add("Key", 1)
	if c.Count("Key") != 1 {
		t.Error("mutating the clone changed the original")
	}
	if _, ok := cp["Ghost"]; ok {
		t.Error("zero entries should not be cloned")
	}
}

func TestCounts_NamesAndTotal(t *testing.T) {
	c := Counts{"Torch": 1, "Key": 2, "Empty": 0}
	if got, want := c.Names(), []string{"Key", "Torch"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
	if got := c.Total(); got != 3 {
		t.Errorf("Total = %d, want 3", got)
	}
}

func TestCounts_Fingerprint(t *testing.T) {
	a := Counts{"Key": 1, "Torch": 2}
	b := Counts{"Torch": 2, "Key": 1, "Unused": 0}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal inventories should share a fingerprint")
	}
	c := Counts{"Key": 1, "Torch": 1}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different counts should change the fingerprint")
	}
}

func TestCounts_FingerprintSeparatorsInNames(t *testing.T) {
	tests := []struct {
		name string
		a, b Counts
	}{
		{"newline and equals", Counts{"Mail bag=1\nNoisemaker": 1}, Counts{"Mail bag": 1, "Noisemaker": 1}},
		{"space and count", Counts{"Key\" 1\n\"Torch": 1}, Counts{"Key": 1, "Torch": 1}},
		{"quote", Counts{`Key"`: 1}, Counts{"Key": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.Fingerprint() == tt.b.Fingerprint() {
				t.Errorf("%q and %q share a fingerprint", tt.a, tt.b)
			}
		})
	}
}

func TestOverlay(t *testing.T) {
	base := Counts{"Key": 1}
	o := Overlay{Base: base, Extra: Counts{"Key": 1, "Victory": 1}}
	if got := o.Count("Key"); got != 2 {
		t.Errorf("Overlay Count(Key) = %d, want 2", got)
	}
	if got := o.Count("Victory"); got != 1 {
		t.Errorf("Overlay Count(Victory) = %d, want 1", got)
	}
	if base.Count("Victory") != 0 {
		t.Error("overlay must not write to its base")
	}
	if got := (Overlay{}).Count("Key"); got != 0 {
		t.Errorf("empty Overlay Count = %d, want 0", got)
	}
}
