// Package classfiletest builds minimal, valid class files for tests.
package classfiletest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

// Method is one method of a generated class. Lines become its
// LineNumberTable; an empty Lines produces a Code attribute without one.
type Method struct {
	Name  string
	Lines []int
}

// Class describes a class file to generate.
type Class struct {
	Name       string // internal form, e.g. "com/acme/Foo"
	SourceFile string // omitted when empty
	Methods    []Method
	// WithLong adds a long constant to exercise two-slot pool entries.
	WithLong bool
}

type pool struct {
	entries [][]byte // nil marks the unusable slot after a long
	utf8s   map[string]uint16
}

func (p *pool) add(entry []byte) uint16 {
	p.entries = append(p.entries, entry)
	return uint16(len(p.entries))
}

func (p *pool) utf8(s string) uint16 {
	if idx, ok := p.utf8s[s]; ok {
		return idx
	}
	encoded := ModifiedUTF8(s)
	entry := []byte{1}
	entry = binary.BigEndian.AppendUint16(entry, uint16(len(encoded)))
	entry = append(entry, encoded...)
	idx := p.add(entry)
	p.utf8s[s] = idx
	return idx
}

func (p *pool) class(name string) uint16 {
	nameIdx := p.utf8(name)
	return p.add(binary.BigEndian.AppendUint16([]byte{7}, nameIdx))
}

func (p *pool) long(v int64) {
	p.add(binary.BigEndian.AppendUint64([]byte{5}, uint64(v)))
	p.entries = append(p.entries, nil)
}

// Bytes renders the class file.
func (c Class) Bytes() []byte {
	p := &pool{utf8s: make(map[string]uint16)}
	thisIdx := p.class(c.Name)
	superIdx := p.class("java/lang/Object")
	codeIdx := p.utf8("Code")
	lntIdx := p.utf8("LineNumberTable")
	descIdx := p.utf8("()V")
	fieldName := p.utf8("value")
	fieldDesc := p.utf8("I")
	if c.WithLong {
		p.long(1 << 40)
	}
	var sourceAttrIdx, sourceIdx uint16
	if c.SourceFile != "" {
		sourceAttrIdx = p.utf8("SourceFile")
		sourceIdx = p.utf8(c.SourceFile)
	}
	methodNames := make([]uint16, len(c.Methods))
	for i, m := range c.Methods {
		methodNames[i] = p.utf8(m.Name)
	}

	var out []byte
	out = binary.BigEndian.AppendUint32(out, 0xCAFEBABE)
	out = binary.BigEndian.AppendUint16(out, 0)
	out = binary.BigEndian.AppendUint16(out, 52)
	out = binary.BigEndian.AppendUint16(out, uint16(len(p.entries)+1))
	for _, e := range p.entries {
		out = append(out, e...)
	}
	out = binary.BigEndian.AppendUint16(out, 0x0021)
	out = binary.BigEndian.AppendUint16(out, thisIdx)
	out = binary.BigEndian.AppendUint16(out, superIdx)
	out = binary.BigEndian.AppendUint16(out, 0) // interfaces

	out = binary.BigEndian.AppendUint16(out, 1) // fields
	out = binary.BigEndian.AppendUint16(out, 0x0002)
	out = binary.BigEndian.AppendUint16(out, fieldName)
	out = binary.BigEndian.AppendUint16(out, fieldDesc)
	out = binary.BigEndian.AppendUint16(out, 0)

	out = binary.BigEndian.AppendUint16(out, uint16(len(c.Methods)))
	for i, m := range c.Methods {
		out = binary.BigEndian.AppendUint16(out, 0x0001)
		out = binary.BigEndian.AppendUint16(out, methodNames[i])
		out = binary.BigEndian.AppendUint16(out, descIdx)
		out = binary.BigEndian.AppendUint16(out, 1)

		var code []byte
		code = binary.BigEndian.AppendUint16(code, 1) // max_stack
		code = binary.BigEndian.AppendUint16(code, 1) // max_locals
		code = binary.BigEndian.AppendUint32(code, 1)
		code = append(code, 0xb1) // return
		code = binary.BigEndian.AppendUint16(code, 0)
		if len(m.Lines) == 0 {
			code = binary.BigEndian.AppendUint16(code, 0)
		} else {
			code = binary.BigEndian.AppendUint16(code, 1)
			code = binary.BigEndian.AppendUint16(code, lntIdx)
			code = binary.BigEndian.AppendUint32(code, uint32(2+4*len(m.Lines)))
			code = binary.BigEndian.AppendUint16(code, uint16(len(m.Lines)))
			for pc, line := range m.Lines {
				code = binary.BigEndian.AppendUint16(code, uint16(pc))
				code = binary.BigEndian.AppendUint16(code, uint16(line))
			}
		}
		out = binary.BigEndian.AppendUint16(out, codeIdx)
		out = binary.BigEndian.AppendUint32(out, uint32(len(code)))
		out = append(out, code...)
	}

	if c.SourceFile == "" {
		out = binary.BigEndian.AppendUint16(out, 0)
	} else {
		out = binary.BigEndian.AppendUint16(out, 1)
		out = binary.BigEndian.AppendUint16(out, sourceAttrIdx)
		out = binary.BigEndian.AppendUint32(out, 2)
		out = binary.BigEndian.AppendUint16(out, sourceIdx)
	}
	return out
}

// Jar packs entries (entry name -> content) into a jar archive.
func Jar(entries map[string][]byte) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write(content); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// ModifiedUTF8 encodes s the way class files store strings: NUL as C0 80 and
// supplementary characters as a pair of three-byte surrogates.
func ModifiedUTF8(s string) []byte {
	var out []byte
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			out = appendThreeByte(out, uint16(r))
		default:
			hi, lo := utf16.EncodeRune(r)
			out = appendThreeByte(out, uint16(hi))
			out = appendThreeByte(out, uint16(lo))
		}
	}
	return out
}

func appendThreeByte(out []byte, u uint16) []byte {
	return append(out, 0xE0|byte(u>>12), 0x80|byte(u>>6&0x3F), 0x80|byte(u&0x3F))
}
