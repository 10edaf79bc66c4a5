// Package transaction implements the retain/insert/delete edit log
// that every buffer mutation is expressed as: a single composable
// value type that can be applied, inverted, composed, and used to rebase
// selections — the "canonical rebase map" called for in the design notes
// for multi-cursor transactions.
package transaction

import (
	"fmt"

	"github.com/rowan-editor/rowan/internal/rope"
)

// OpKind distinguishes the three primitive operations a Transaction is
// built from.
type OpKind int

const (
	// Retain copies N characters from the source unchanged.
	Retain OpKind = iota
	// Insert adds Text, consuming no characters from the source.
	Insert
	// Delete drops N characters from the source.
	Delete
)

// Op is a single retain/insert/delete step.
type Op struct {
	Kind OpKind
	N    int
	Text string
}

// Transaction is an ordered, immutable sequence of ops that consumes
// exactly baseLen characters from its source document.
type Transaction struct {
	ops     []Op
	baseLen int
}

// Builder incrementally constructs a Transaction, verifying as it goes
// that the ops consume input in document order.
type Builder struct {
	ops     []Op
	base    int
	consumed int
}

// NewBuilder starts building a transaction against a document of length
// baseLen chars.
func NewBuilder(baseLen int) *Builder {
	return &Builder{base: baseLen}
}

// Retain appends a retain of n chars.
func (b *Builder) Retain(n int) *Builder {
	if n <= 0 {
		return b
	}
	if last := b.lastOp(); last != nil && last.Kind == Retain {
		last.N += n
	} else {
		b.ops = append(b.ops, Op{Kind: Retain, N: n})
	}
	b.consumed += n
	return b
}

// InsertText appends an insertion. Insertions never consume source chars.
func (b *Builder) InsertText(s string) *Builder {
	if s == "" {
		return b
	}
	if last := b.lastOp(); last != nil && last.Kind == Insert {
		last.Text += s
	} else {
		b.ops = append(b.ops, Op{Kind: Insert, Text: s})
	}
	return b
}

// Delete appends a deletion of n source chars.
func (b *Builder) Delete(n int) *Builder {
	if n <= 0 {
		return b
	}
	if last := b.lastOp(); last != nil && last.Kind == Delete {
		last.N += n
	} else {
		b.ops = append(b.ops, Op{Kind: Delete, N: n})
	}
	b.consumed += n
	return b
}

func (b *Builder) lastOp() *Op {
	if len(b.ops) == 0 {
		return nil
	}
	return &b.ops[len(b.ops)-1]
}

// Build finalizes the transaction, retaining any remaining unconsumed
// length and validating the invariant that total consumed length equals
// the source document length.
func (b *Builder) Build() (Transaction, error) {
	if b.consumed < b.base {
		b.Retain(b.base - b.consumed)
	}
	if b.consumed > b.base {
		return Transaction{}, fmt.Errorf("transaction: consumed %d chars, document only has %d", b.consumed, b.base)
	}
	return Transaction{ops: append([]Op(nil), b.ops...), baseLen: b.base}, nil
}

// BaseLen returns the document length this transaction expects as input.
func (t Transaction) BaseLen() int { return t.baseLen }

// Ops returns a copy of the transaction's ops.
func (t Transaction) Ops() []Op { return append([]Op(nil), t.ops...) }

// IsEmpty reports whether the transaction changes nothing (all retains).
func (t Transaction) IsEmpty() bool {
	for _, op := range t.ops {
		if op.Kind != Retain {
			return false
		}
	}
	return true
}

// Len returns the resulting document length after applying t.
func (t Transaction) Len() int {
	n := 0
	for _, op := range t.ops {
		switch op.Kind {
		case Retain:
			n += op.N
		case Insert:
			n += rope.Utf8CharCount(op.Text)
		}
	}
	return n
}

// Apply runs the transaction against r, returning the resulting rope. The
// caller is responsible for ensuring r.LenChars() == t.BaseLen().
func (t Transaction) Apply(r rope.Rope) rope.Rope {
	out := rope.New("")
	pos := 0
	for _, op := range t.ops {
		switch op.Kind {
		case Retain:
			out = out.Insert(out.LenChars(), r.Slice(pos, pos+op.N))
			pos += op.N
		case Insert:
			out = out.Insert(out.LenChars(), op.Text)
		case Delete:
			pos += op.N
		}
	}
	return out
}

// Invert returns the transaction that undoes t, given the document it was
// built against (needed to recover the text of deleted spans, which t
// itself does not carry). Applying t then t.Invert(before) to `before`
// yields `before` again.
func (t Transaction) Invert(before rope.Rope) Transaction {
	b := &Builder{base: t.Len()}
	pos := 0
	for _, op := range t.ops {
		switch op.Kind {
		case Retain:
			b.Retain(op.N)
			pos += op.N
		case Insert:
			b.Delete(rope.Utf8CharCount(op.Text))
		case Delete:
			b.InsertText(before.Slice(pos, pos+op.N))
			pos += op.N
		}
	}
	tx, err := b.Build()
	if err != nil {
		// Building the inverse from a well-formed transaction cannot
		// fail: consumed length is exactly t.Len() by construction.
		panic(err)
	}
	return tx
}

// Compose returns a transaction equivalent to applying t then next in
// sequence. next must have been built against a document of length
// t.Len().
func Compose(t, next Transaction) (Transaction, error) {
	if next.baseLen != t.Len() {
		return Transaction{}, fmt.Errorf("transaction: cannot compose, length mismatch %d != %d", next.baseLen, t.Len())
	}
	b := NewBuilder(t.baseLen)
	ti, ni := 0, 0
	var tRemaining, nRemaining int
	var tOp, nOp Op
	loadT := func() bool {
		if ti >= len(t.ops) {
			return false
		}
		tOp = t.ops[ti]
		if tOp.Kind == Insert {
			tRemaining = rope.Utf8CharCount(tOp.Text)
		} else {
			tRemaining = tOp.N
		}
		ti++
		return true
	}
	loadN := func() bool {
		if ni >= len(next.ops) {
			return false
		}
		nOp = next.ops[ni]
		if nOp.Kind == Insert {
			nRemaining = rope.Utf8CharCount(nOp.Text)
		} else {
			nRemaining = nOp.N
		}
		ni++
		return true
	}

	haveT := loadT()
	haveN := loadN()

	for haveT || haveN {
		// next's inserts are free-standing: they go straight to output.
		if haveN && nOp.Kind == Insert {
			b.InsertText(nOp.Text)
			haveN = loadN()
			continue
		}
		// t's deletes remove source chars that next never sees.
		if haveT && tOp.Kind == Delete {
			b.Delete(tRemaining)
			haveT = loadT()
			continue
		}
		if !haveT || !haveN {
			break
		}
		n := min(tRemaining, nRemaining)
		switch {
		case tOp.Kind == Insert && nOp.Kind == Retain:
			b.InsertText(sliceRunes(tOp.Text, sliceOffset(tOp.Text, rope.Utf8CharCount(tOp.Text), tRemaining), n))
		case tOp.Kind == Insert && nOp.Kind == Delete:
			// next deletes text that t just inserted: net no-op.
		case tOp.Kind == Retain && nOp.Kind == Retain:
			b.Retain(n)
		case tOp.Kind == Retain && nOp.Kind == Delete:
			b.Delete(n)
		}
		tRemaining -= n
		nRemaining -= n
		if tRemaining == 0 {
			haveT = loadT()
		}
		if nRemaining == 0 {
			haveN = loadN()
		}
	}
	return b.Build()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func sliceOffset(s string, total, remaining int) int {
	return total - remaining
}

// sliceRunes returns the n runes of s starting at rune offset off.
func sliceRunes(s string, off, n int) string {
	runes := []rune(s)
	if off < 0 {
		off = 0
	}
	if off > len(runes) {
		off = len(runes)
	}
	end := off + n
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[off:end])
}
