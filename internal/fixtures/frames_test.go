package fixtures

import "testing"

func TestBlobFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f := BlobFrame(64, 48, 32, 24, 10)
	defer f.Close()

	if f.Cols() != 64 || f.Rows() != 48 {
		t.Fatalf("size = %dx%d, want 64x48", f.Cols(), f.Rows())
	}
	if got := f.GetUCharAt3(24, 32, 0); got != 255 {
		t.Errorf("blob center blue = %d, want 255", got)
	}
	if got := f.GetUCharAt3(0, 0, 0); got != 90 {
		t.Errorf("corner blue = %d, want 90", got)
	}
}

func TestSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frames := Sequence(64, 48, 4, 5)
	defer CloseAll(frames)

	if len(frames) != 4 {
		t.Fatalf("frames = %d, want 4", len(frames))
	}
	// Blob center moves from x=21 to x=36
	if got := frames[3].GetUCharAt3(24, 36, 0); got != 255 {
		t.Errorf("last frame blob blue = %d, want 255", got)
	}
}
