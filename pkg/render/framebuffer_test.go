package render

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferPutDepthTest(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	red, green, blue := RGB(255, 0, 0), RGB(0, 255, 0), RGB(0, 0, 255)

	steps := []struct {
		depth float64
		c     Color
		ok    bool
		want  Color
	}{
		{5.0, red, true, red},
		{3.0, green, true, green},
		{7.0, blue, false, green},
		{3.0, blue, false, green}, // equal depth keeps the earlier write
	}

	for i, s := range steps {
		if got := fb.Put(1, 2, s.depth, s.c); got != s.ok {
			t.Errorf("step %d: Put = %v, want %v", i, got, s.ok)
		}
		if got := fb.GetPixel(1, 2); got != s.want {
			t.Errorf("step %d: pixel = %v, want %v", i, got, s.want)
		}
	}
	if d := fb.DepthAt(1, 2); d != 3.0 {
		t.Errorf("depth = %v, want 3", d)
	}
}

func TestFramebufferPutOutOfBounds(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	tests := []struct{ x, y int }{
		{-1, 0}, {0, -1}, {3, 0}, {0, 2}, {100, 100},
	}

	for _, tc := range tests {
		if fb.Put(tc.x, tc.y, 0, RGB(1, 2, 3)) {
			t.Errorf("Put(%d, %d) reported a write", tc.x, tc.y)
		}
	}
	for i, p := range fb.Pixels {
		if p != (Color{}) {
			t.Errorf("pixel %d modified: %v", i, p)
		}
	}
}

func TestFramebufferClear(t *testing.T) {
	fb := NewFramebuffer(5, 3)
	fb.Put(2, 1, 0.5, RGB(9, 9, 9))

	bg := RGB(10, 20, 30)
	fb.Clear(bg)

	for i := range fb.Pixels {
		if fb.Pixels[i] != bg {
			t.Fatalf("pixel %d = %v, want %v", i, fb.Pixels[i], bg)
		}
		if !math.IsInf(fb.Depth[i], 1) {
			t.Fatalf("depth %d = %v, want +Inf", i, fb.Depth[i])
		}
	}
	if !fb.Put(2, 1, 1e300, bg) {
		t.Error("any finite depth should pass after Clear")
	}
}

func TestNewFramebufferEmpty(t *testing.T) {
	fb := NewFramebuffer(0, 10)
	fb.Clear(RGB(1, 1, 1))
	if len(fb.Pixels) != 0 || len(fb.Depth) != 0 {
		t.Errorf("planes = %d, %d, want empty", len(fb.Pixels), len(fb.Depth))
	}
}

func TestSaveBMP(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Clear(RGB(0, 0, 0))
	fb.Put(0, 0, 1, RGB(1, 2, 3))    // top-left
	fb.Put(0, 1, 1, RGB(10, 20, 30)) // bottom-left

	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := fb.SaveBMP(path); err != nil {
		t.Fatalf("SaveBMP: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	rowSize := (3*3 + 3) &^ 3
	wantSize := 54 + rowSize*2

	if string(data[:2]) != "BM" {
		t.Fatalf("signature = %q", data[:2])
	}
	if got := binary.LittleEndian.Uint32(data[2:]); int(got) != wantSize {
		t.Errorf("file size field = %d, want %d", got, wantSize)
	}
	if len(data) != wantSize {
		t.Errorf("file length = %d, want %d", len(data), wantSize)
	}
	if got := binary.LittleEndian.Uint32(data[10:]); got != 54 {
		t.Errorf("pixel offset = %d, want 54", got)
	}
	if got := binary.LittleEndian.Uint16(data[28:]); got != 24 {
		t.Errorf("bits per pixel = %d, want 24", got)
	}

	// Rows are stored bottom-up in BGR order.
	if got := data[54:57]; !bytes.Equal(got, []byte{30, 20, 10}) {
		t.Errorf("first stored pixel = %v, want bottom-left in BGR", got)
	}
	if got := data[54+rowSize : 54+rowSize+3]; !bytes.Equal(got, []byte{3, 2, 1}) {
		t.Errorf("second row first pixel = %v, want top-left in BGR", got)
	}
}

func TestSaveByExtension(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Clear(ColorBackground)
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		magic   string
		wantErr bool
	}{
		{"bmp", "a.bmp", "BM", false},
		{"png upper", "a.PNG", "\x89PNG", false},
		{"unsupported", "a.jpg", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			err := fb.Save(path)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, []byte(tc.magic)) {
				t.Errorf("file starts with %q, want %q", data[:4], tc.magic)
			}
		})
	}
}

func TestSaveBMPBadPath(t *testing.T) {
	fb := NewFramebuffer(1, 1)
	if err := fb.SaveBMP(filepath.Join(t.TempDir(), "missing", "out.bmp")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func BenchmarkFramebufferClear(b *testing.B) {
	fb := NewFramebuffer(320, 240)
	for b.Loop() {
		fb.Clear(ColorBackground)
	}
}
