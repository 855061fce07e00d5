// Package classfile reads the debug-relevant parts of a JVM class file:
// the declared class name, the line numbers recorded in every method's
// LineNumberTable and the SourceFile attribute.
//
// Read drives a Visitor with the events in file order:
//
//	VisitClass -> VisitLineNumber* -> VisitSource? -> VisitEnd
//
// Names are decoded from the class-file string encoding (modified UTF-8)
// into ordinary Go strings.
//
// Any structural problem aborts the read with a single error wrapping
// ErrMalformed. Events already delivered before the failure must be
// discarded by the caller.
package classfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf16"
)

// Magic is the four-byte header every class file starts with.
const Magic uint32 = 0xCAFEBABE

// ErrMalformed is wrapped by every error caused by the class file content
// rather than by the underlying reader.
var ErrMalformed = errors.New("malformed class file")

// Visitor receives the structural events of one class file.
type Visitor interface {
	VisitClass(name string)
	VisitLineNumber(line int)
	VisitSource(name string)
	VisitEnd()
}

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

type constant struct {
	tag  byte
	utf8 string
	ref  uint16
}

// parser keeps the first error it hits; every later read is a no-op.
type parser struct {
	r    io.Reader
	err  error
	pool []constant
}

// Read parses one class file from r and reports its events to v.
func Read(r io.Reader, v Visitor) error {
	p := &parser{r: bufio.NewReader(r)}
	return p.parseClass(v)
}

func (p *parser) parseClass(v Visitor) error {
	if magic := p.u4(); p.err == nil && magic != Magic {
		return fmt.Errorf("%w: bad magic %#x", ErrMalformed, magic)
	}
	p.u2() // minor
	p.u2() // major
	if err := p.readPool(); err != nil {
		return err
	}

	p.u2() // access flags
	thisClass := p.u2()
	p.u2() // super
	if p.err != nil {
		return p.err
	}
	name, err := p.className(thisClass)
	if err != nil {
		return err
	}
	v.VisitClass(name)

	interfaces := p.u2()
	p.skip(int64(interfaces) * 2)

	fieldCount := p.u2()
	for i := 0; i < int(fieldCount) && p.err == nil; i++ {
		p.skip(6) // access, name, descriptor
		p.skipAttributes()
	}

	methodCount := p.u2()
	for i := 0; i < int(methodCount) && p.err == nil; i++ {
		p.skip(6)
		p.readMethodAttributes(v)
	}

	attrCount := p.u2()
	for i := 0; i < int(attrCount) && p.err == nil; i++ {
		attrName, body := p.attribute()
		if p.err != nil {
			break
		}
		if attrName != "SourceFile" {
			continue
		}
		if len(body) != 2 {
			return fmt.Errorf("%w: SourceFile attribute length %d", ErrMalformed, len(body))
		}
		source, err := p.utf8At(binary.BigEndian.Uint16(body))
		if err != nil {
			return err
		}
		v.VisitSource(source)
	}
	if p.err != nil {
		return p.err
	}

	v.VisitEnd()
	return nil
}

func (p *parser) readPool() error {
	count := p.u2()
	if p.err != nil {
		return p.err
	}
	if count == 0 {
		return fmt.Errorf("%w: empty constant pool", ErrMalformed)
	}
	// Index 0 is unused; long and double occupy two slots.
	p.pool = make([]constant, count)
	for i := 1; i < int(count); i++ {
		tag := p.u1()
		if p.err != nil {
			return p.err
		}
		c := constant{tag: tag}
		switch tag {
		case tagUtf8:
			n := p.u2()
			raw := p.readN(int64(n))
			if p.err != nil {
				return p.err
			}
			text, err := decodeModifiedUTF8(raw)
			if err != nil {
				return fmt.Errorf("%w: constant %d: %v", ErrMalformed, i, err)
			}
			c.utf8 = text
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			c.ref = p.u2()
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			p.skip(4)
		case tagMethodHandle:
			p.skip(3)
		case tagLong, tagDouble:
			p.skip(8)
			p.pool[i] = c
			i++
			continue
		default:
			return fmt.Errorf("%w: unknown constant tag %d at index %d", ErrMalformed, tag, i)
		}
		p.pool[i] = c
	}
	return p.err
}

func (p *parser) readMethodAttributes(v Visitor) {
	count := p.u2()
	for i := 0; i < int(count) && p.err == nil; i++ {
		name, body := p.attribute()
		if p.err != nil || name != "Code" {
			continue
		}
		if err := p.readCode(body, v); err != nil {
			p.err = err
		}
	}
}

// readCode walks a Code attribute body looking for LineNumberTable entries.
func (p *parser) readCode(body []byte, v Visitor) error {
	code := &parser{r: bytes.NewReader(body), pool: p.pool}
	code.skip(4) // max_stack, max_locals
	codeLength := code.u4()
	code.skip(int64(codeLength))
	exceptions := code.u2()
	code.skip(int64(exceptions) * 8)

	count := code.u2()
	for i := 0; i < int(count) && code.err == nil; i++ {
		name, attr := code.attribute()
		if code.err != nil || name != "LineNumberTable" {
			continue
		}
		if len(attr) < 2 {
			return fmt.Errorf("%w: short LineNumberTable", ErrMalformed)
		}
		entries := int(binary.BigEndian.Uint16(attr))
		if len(attr) != 2+entries*4 {
			return fmt.Errorf("%w: LineNumberTable length %d for %d entries", ErrMalformed, len(attr), entries)
		}
		for e := 0; e < entries; e++ {
			off := 2 + e*4 + 2 // skip start_pc
			v.VisitLineNumber(int(binary.BigEndian.Uint16(attr[off:])))
		}
	}
	if code.err != nil {
		return fmt.Errorf("%w: Code attribute: %v", ErrMalformed, code.err)
	}
	return nil
}

func (p *parser) skipAttributes() {
	count := p.u2()
	for i := 0; i < int(count) && p.err == nil; i++ {
		p.skip(2)
		p.skip(int64(p.u4()))
	}
}

// attribute reads one attribute header and its body.
func (p *parser) attribute() (string, []byte) {
	nameIndex := p.u2()
	length := p.u4()
	if p.err != nil {
		return "", nil
	}
	name, err := p.utf8At(nameIndex)
	if err != nil {
		p.err = err
		return "", nil
	}
	return name, p.readN(int64(length))
}

func (p *parser) className(index uint16) (string, error) {
	c, err := p.constantAt(index, tagClass)
	if err != nil {
		return "", err
	}
	return p.utf8At(c.ref)
}

func (p *parser) utf8At(index uint16) (string, error) {
	c, err := p.constantAt(index, tagUtf8)
	if err != nil {
		return "", err
	}
	return c.utf8, nil
}

func (p *parser) constantAt(index uint16, tag byte) (constant, error) {
	if index == 0 || int(index) >= len(p.pool) {
		return constant{}, fmt.Errorf("%w: constant index %d out of range", ErrMalformed, index)
	}
	c := p.pool[index]
	if c.tag != tag {
		return constant{}, fmt.Errorf("%w: constant %d has tag %d, want %d", ErrMalformed, index, c.tag, tag)
	}
	return c, nil
}

func (p *parser) u1() byte {
	b := p.readN(1)
	if p.err != nil {
		return 0
	}
	return b[0]
}

func (p *parser) u2() uint16 {
	b := p.readN(2)
	if p.err != nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (p *parser) u4() uint32 {
	b := p.readN(4)
	if p.err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// readN reads exactly n bytes. The buffer grows with the data actually read
// so a bogus length in a truncated file cannot force a huge allocation.
func (p *parser) readN(n int64) []byte {
	if p.err != nil {
		return nil
	}
	var buf bytes.Buffer
	copied, err := io.CopyN(&buf, p.r, n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			p.err = fmt.Errorf("%w: truncated after %d of %d bytes", ErrMalformed, copied, n)
		} else {
			p.err = fmt.Errorf("reading class file: %w", err)
		}
		return nil
	}
	return buf.Bytes()
}

func (p *parser) skip(n int64) {
	if p.err != nil || n == 0 {
		return
	}
	copied, err := io.CopyN(io.Discard, p.r, n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			p.err = fmt.Errorf("%w: truncated after %d of %d bytes", ErrMalformed, copied, n)
		} else {
			p.err = fmt.Errorf("reading class file: %w", err)
		}
	}
}

// decodeModifiedUTF8 converts the class-file string encoding to a Go string.
// It differs from UTF-8 in two ways: NUL is written as C0 80, and characters
// outside the BMP are written as two three-byte surrogates.
func decodeModifiedUTF8(b []byte) (string, error) {
	ascii := true
	for _, c := range b {
		if c == 0 || c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b), nil
	}

	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == 0:
			return "", fmt.Errorf("raw NUL byte at offset %d", i)
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("bad two-byte sequence at offset %d", i)
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("bad three-byte sequence at offset %d", i)
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("invalid lead byte %#x at offset %d", c, i)
		}
	}
	return string(utf16.Decode(units)), nil
}
