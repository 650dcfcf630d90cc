package sha256

import "testing"

// TestFingerprintDeterministic pins the digest of a known input.
func TestFingerprintDeterministic(t *testing.T) {
	t.Parallel()

	got := Fingerprint([]byte("hello world"))
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if again := Fingerprint([]byte("hello world")); again != got {
		t.Fatalf("expected deterministic digest, got %s vs %s", got, again)
	}
}

func TestKeyFragmentIsDigestPrefix(t *testing.T) {
	t.Parallel()

	data := []byte("payload")
	frag := KeyFragment(data)
	if len(frag) != FragmentLen {
		t.Fatalf("expected fragment of %d chars, got %d", FragmentLen, len(frag))
	}
	if full := Fingerprint(data); full[:FragmentLen] != frag {
		t.Fatalf("fragment %s is not a prefix of %s", frag, full)
	}
}
