package rope

import "testing"

func TestInsertErase(t *testing.T) {
	type test struct {
		op       func(r Rope) Rope
		expected string
	}
	const init = "hello world"
	tests := []test{
		{func(r Rope) Rope { return r.Insert(0, "hello") }, "hellohello world"},
		{func(r Rope) Rope { return r.Insert(1, "hello") }, "hhelloello world"},
		{func(r Rope) Rope { return r.Insert(11, "hello") }, "hello worldhello"},
		{func(r Rope) Rope { return r.Delete(0, 1) }, "ello world"},
		{func(r Rope) Rope { return r.Delete(3, 6) }, "helworld"},
		{func(r Rope) Rope { return r.Replace(0, 5, "goodbye") }, "goodbye world"},
	}
	for i, tc := range tests {
		base := New(init)
		got := tc.op(base).String()
		if got != tc.expected {
			t.Errorf("test %d: expected %q, got %q", i, tc.expected, got)
		}
		// Immutability: the original rope must be untouched.
		if base.String() != init {
			t.Errorf("test %d: base rope mutated to %q", i, base.String())
		}
	}
}

func TestInsertEraseUTF(t *testing.T) {
	const init = "€þıœəßðĸʒ×ŋµåäö𝄞"
	r := New(init)
	r2 := r.Insert(0, "𝄞€ŋ")
	if got, want := r2.String(), "𝄞€ŋ€þıœəßðĸʒ×ŋµåäö𝄞"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if r.String() != init {
		t.Errorf("base mutated: %q", r.String())
	}
}

func TestLargeInsertSplitsLeaves(t *testing.T) {
	big := make([]rune, 5000)
	for i := range big {
		big[i] = 'a' + rune(i%26)
	}
	r := New(string(big))
	if r.LenChars() != 5000 {
		t.Fatalf("expected 5000 chars, got %d", r.LenChars())
	}
	r2 := r.Insert(2500, "MARK")
	if r2.LenChars() != 5004 {
		t.Fatalf("expected 5004 chars, got %d", r2.LenChars())
	}
	if got := r2.Slice(2500, 2504); got != "MARK" {
		t.Fatalf("expected MARK at 2500, got %q", got)
	}
}

func TestRowCol(t *testing.T) {
	r := New("one\ntwo\nthree\n")
	cases := []struct {
		point   int
		row     int
		col     int
	}{
		{0, 0, 0},
		{3, 0, 3},
		{4, 1, 0},
		{8, 2, 0},
		{-1, 0, 0},
		{1000, 3, 0},
	}
	for _, c := range cases {
		row, col := r.RowCol(c.point)
		if row != c.row || col != c.col {
			t.Errorf("RowCol(%d) = (%d,%d), want (%d,%d)", c.point, row, col, c.row, c.col)
		}
	}
}

func TestTextPointRoundTrip(t *testing.T) {
	r := New("one\ntwo\nthree\n")
	for p := 0; p <= r.LenChars(); p++ {
		row, col := r.RowCol(p)
		got := r.TextPoint(row, col)
		if got != p {
			t.Errorf("TextPoint(RowCol(%d)) = %d, want %d", p, got, p)
		}
	}
}

func TestEmptyRopeMotionsAreNoops(t *testing.T) {
	r := New("")
	if r.LenChars() != 0 {
		t.Fatal("expected empty rope")
	}
	if got := r.Delete(0, 5); got.LenChars() != 0 {
		t.Errorf("deleting from empty rope should be a no-op, got %q", got.String())
	}
	row, col := r.RowCol(0)
	if row != 0 || col != 0 {
		t.Errorf("cursor on empty doc should be (0,0), got (%d,%d)", row, col)
	}
}

func TestUtf8CharCount(t *testing.T) {
	s := "a€𝄞b"
	if got, want := Utf8CharCount(s), 4; got != want {
		t.Errorf("Utf8CharCount(%q) = %d, want %d", s, got, want)
	}
}

func TestUtf16RoundTrip(t *testing.T) {
	s := "a€𝄞b"
	for i := 0; i <= Utf8CharCount(s); i++ {
		u := CharToUTF16(s, i)
		back := UTF16ToChar(s, u)
		if back != i {
			t.Errorf("UTF16 round trip failed at char %d: got %d after utf16 offset %d", i, back, u)
		}
	}
}

func TestSingleGraphemeMultibyte(t *testing.T) {
	r := New("𝄞")
	if r.LenChars() != 1 {
		t.Fatalf("expected 1 rune, got %d", r.LenChars())
	}
	b := []byte("𝄞")
	if got, want := Utf8CodepointSizeFromByte(b[0]), len(b); got != want {
		t.Errorf("Utf8CodepointSizeFromByte = %d, want %d", got, want)
	}
}
