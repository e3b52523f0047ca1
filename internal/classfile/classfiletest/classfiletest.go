// Package classfiletest builds class file bytes for tests.
//
//	data := classfiletest.New("com.acme.Foo").
//		Super("com.acme.Base").
//		Annotate(classfiletest.Ann("com.acme.Marker", classfiletest.Str("value", "x"))).
//		Bytes()
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

// Access flags.
const (
	AccPublic     = 0x0001
	AccInterface  = 0x0200
	AccAbstract   = 0x0400
	AccAnnotation = 0x2000
	AccEnum       = 0x4000
)

// Value is an annotation element value.
type Value struct {
	tag   byte
	i     int64
	f     float64
	s     string
	cname string
	ann   *Annotation
	arr   []Value
}

// Pair is a named element value.
type Pair struct {
	Name  string
	Value Value
}

// Annotation is an annotation instance to write.
type Annotation struct {
	Type  string
	Pairs []Pair
}

// Ann creates an annotation of the given dotted type name.
func Ann(typ string, pairs ...Pair) Annotation {
	return Annotation{Type: typ, Pairs: pairs}
}

// Str creates a string element.
func Str(name, v string) Pair { return Pair{name, StrValue(v)} }

// Int creates an int element.
func Int(name string, v int32) Pair { return Pair{name, Value{tag: 'I', i: int64(v)}} }

// Long creates a long element.
func Long(name string, v int64) Pair { return Pair{name, Value{tag: 'J', i: v}} }

// Bool creates a boolean element.
func Bool(name string, v bool) Pair {
	var i int64
	if v {
		i = 1
	}
	return Pair{name, Value{tag: 'Z', i: i}}
}

// Double creates a double element.
func Double(name string, v float64) Pair { return Pair{name, Value{tag: 'D', f: v}} }

// Enum creates an enum constant element.
func Enum(name, typ, constant string) Pair {
	return Pair{name, Value{tag: 'e', s: typ, cname: constant}}
}

// Class creates a class literal element.
func Class(name, typ string) Pair { return Pair{name, Value{tag: 'c', s: typ}} }

// Nested creates a nested annotation element.
func Nested(name string, a Annotation) Pair { return Pair{name, NestedValue(a)} }

// Array creates an array element.
func Array(name string, values ...Value) Pair { return Pair{name, Value{tag: '[', arr: values}} }

// StrValue creates a string value for use in arrays.
func StrValue(v string) Value { return Value{tag: 's', s: v} }

// NestedValue creates a nested annotation value for use in arrays.
func NestedValue(a Annotation) Value { return Value{tag: '@', ann: &a} }

type member struct {
	name, desc  string
	annotations []Annotation
	params      [][]Annotation
}

// ClassFile accumulates the parts of a class file.
type ClassFile struct {
	name       string
	super      string
	noSuper    bool
	interfaces []string
	access     uint16
	anns       []Annotation
	hidden     []Annotation
	fields     []member
	methods    []member
}

// New starts a public class extending java.lang.Object.
func New(name string) *ClassFile {
	return &ClassFile{name: name, super: "java.lang.Object", access: AccPublic}
}

// NewAnnotationType starts an annotation interface.
func NewAnnotationType(name string) *ClassFile {
	return New(name).
		Access(AccPublic | AccInterface | AccAbstract | AccAnnotation).
		Interfaces("java.lang.annotation.Annotation")
}

// Super sets the superclass. An empty name writes no superclass.
func (c *ClassFile) Super(name string) *ClassFile {
	c.super = name
	c.noSuper = name == ""
	return c
}

// Interfaces sets the implemented interfaces.
func (c *ClassFile) Interfaces(names ...string) *ClassFile {
	c.interfaces = names
	return c
}

// Access sets the class access flags.
func (c *ClassFile) Access(flags uint16) *ClassFile {
	c.access = flags
	return c
}

// Annotate adds runtime-visible class annotations.
func (c *ClassFile) Annotate(anns ...Annotation) *ClassFile {
	c.anns = append(c.anns, anns...)
	return c
}

// AnnotateInvisible adds class-retention (invisible) class annotations.
func (c *ClassFile) AnnotateInvisible(anns ...Annotation) *ClassFile {
	c.hidden = append(c.hidden, anns...)
	return c
}

// Field adds a field with runtime-visible annotations.
func (c *ClassFile) Field(name, desc string, anns ...Annotation) *ClassFile {
	c.fields = append(c.fields, member{name: name, desc: desc, annotations: anns})
	return c
}

// Method adds a method with runtime-visible annotations.
func (c *ClassFile) Method(name, desc string, anns ...Annotation) *ClassFile {
	c.methods = append(c.methods, member{name: name, desc: desc, annotations: anns})
	return c
}

// MethodParams adds a method whose parameters carry runtime-visible annotations.
func (c *ClassFile) MethodParams(name, desc string, params ...[]Annotation) *ClassFile {
	c.methods = append(c.methods, member{name: name, desc: desc, params: params})
	return c
}

// Bytes encodes the class file.
func (c *ClassFile) Bytes() []byte {
	cp := newPool()
	var body bytes.Buffer

	put16(&body, c.access)
	put16(&body, cp.class(c.name))
	if c.noSuper {
		put16(&body, 0)
	} else {
		put16(&body, cp.class(c.super))
	}
	put16(&body, uint16(len(c.interfaces)))
	for _, i := range c.interfaces {
		put16(&body, cp.class(i))
	}

	for _, members := range [][]member{c.fields, c.methods} {
		put16(&body, uint16(len(members)))
		for _, m := range members {
			put16(&body, AccPublic)
			put16(&body, cp.utf8(m.name))
			put16(&body, cp.utf8(m.desc))
			var attrs [][]byte
			if len(m.annotations) > 0 {
				attrs = append(attrs, annotationsAttr(cp, "RuntimeVisibleAnnotations", m.annotations))
			}
			if len(m.params) > 0 {
				attrs = append(attrs, paramsAttr(cp, m.params))
			}
			put16(&body, uint16(len(attrs)))
			for _, a := range attrs {
				body.Write(a)
			}
		}
	}

	var attrs [][]byte
	if len(c.anns) > 0 {
		attrs = append(attrs, annotationsAttr(cp, "RuntimeVisibleAnnotations", c.anns))
	}
	if len(c.hidden) > 0 {
		attrs = append(attrs, annotationsAttr(cp, "RuntimeInvisibleAnnotations", c.hidden))
	}
	attrs = append(attrs, sourceFileAttr(cp, c.name))
	put16(&body, uint16(len(attrs)))
	for _, a := range attrs {
		body.Write(a)
	}

	var out bytes.Buffer
	put32(&out, 0xCAFEBABE)
	put16(&out, 0)
	put16(&out, 61)
	cp.writeTo(&out)
	out.Write(body.Bytes())
	return out.Bytes()
}

func sourceFileAttr(cp *pool, name string) []byte {
	simple := name[strings.LastIndex(name, ".")+1:]
	var b bytes.Buffer
	put16(&b, cp.utf8("SourceFile"))
	put32(&b, 2)
	put16(&b, cp.utf8(simple+".java"))
	return b.Bytes()
}

func annotationsAttr(cp *pool, attr string, anns []Annotation) []byte {
	var payload bytes.Buffer
	put16(&payload, uint16(len(anns)))
	for _, a := range anns {
		writeAnnotation(cp, &payload, a)
	}
	return wrapAttr(cp, attr, payload.Bytes())
}

func paramsAttr(cp *pool, params [][]Annotation) []byte {
	var payload bytes.Buffer
	payload.WriteByte(byte(len(params)))
	for _, anns := range params {
		put16(&payload, uint16(len(anns)))
		for _, a := range anns {
			writeAnnotation(cp, &payload, a)
		}
	}
	return wrapAttr(cp, "RuntimeVisibleParameterAnnotations", payload.Bytes())
}

func wrapAttr(cp *pool, name string, payload []byte) []byte {
	var b bytes.Buffer
	put16(&b, cp.utf8(name))
	put32(&b, uint32(len(payload)))
	b.Write(payload)
	return b.Bytes()
}

func writeAnnotation(cp *pool, b *bytes.Buffer, a Annotation) {
	put16(b, cp.utf8(descriptor(a.Type)))
	put16(b, uint16(len(a.Pairs)))
	for _, p := range a.Pairs {
		put16(b, cp.utf8(p.Name))
		writeValue(cp, b, p.Value)
	}
}

func writeValue(cp *pool, b *bytes.Buffer, v Value) {
	b.WriteByte(v.tag)
	switch v.tag {
	case 'I', 'Z', 'B', 'C', 'S':
		put16(b, cp.integer(int32(v.i)))
	case 'J':
		put16(b, cp.long(v.i))
	case 'D':
		put16(b, cp.double(v.f))
	case 's':
		put16(b, cp.utf8(v.s))
	case 'e':
		put16(b, cp.utf8(descriptor(v.s)))
		put16(b, cp.utf8(v.cname))
	case 'c':
		put16(b, cp.utf8(descriptor(v.s)))
	case '@':
		writeAnnotation(cp, b, *v.ann)
	case '[':
		put16(b, uint16(len(v.arr)))
		for _, e := range v.arr {
			writeValue(cp, b, e)
		}
	}
}

func descriptor(name string) string {
	return "L" + strings.ReplaceAll(name, ".", "/") + ";"
}

type pool struct {
	buf   bytes.Buffer
	next  uint16
	index map[string]uint16
}

func newPool() *pool {
	return &pool{next: 1, index: make(map[string]uint16)}
}

func (p *pool) add(key string, slots uint16, write func(b *bytes.Buffer)) uint16 {
	if idx, ok := p.index[key]; ok {
		return idx
	}
	idx := p.next
	write(&p.buf)
	p.index[key] = idx
	p.next += slots
	return idx
}

func (p *pool) utf8(s string) uint16 {
	return p.add("u:"+s, 1, func(b *bytes.Buffer) {
		b.WriteByte(1)
		put16(b, uint16(len(s)))
		b.WriteString(s)
	})
}

func (p *pool) class(name string) uint16 {
	nameIdx := p.utf8(strings.ReplaceAll(name, ".", "/"))
	return p.add("c:"+name, 1, func(b *bytes.Buffer) {
		b.WriteByte(7)
		put16(b, nameIdx)
	})
}

func (p *pool) integer(v int32) uint16 {
	return p.add("i:"+strconv.FormatInt(int64(v), 10), 1, func(b *bytes.Buffer) {
		b.WriteByte(3)
		put32(b, uint32(v))
	})
}

func (p *pool) long(v int64) uint16 {
	return p.add("j:"+strconv.FormatInt(v, 10), 2, func(b *bytes.Buffer) {
		b.WriteByte(5)
		put32(b, uint32(uint64(v)>>32))
		put32(b, uint32(uint64(v)))
	})
}

func (p *pool) double(v float64) uint16 {
	bits := math.Float64bits(v)
	return p.add("d:"+strconv.FormatUint(bits, 16), 2, func(b *bytes.Buffer) {
		b.WriteByte(6)
		put32(b, uint32(bits>>32))
		put32(b, uint32(bits))
	})
}

func (p *pool) writeTo(b *bytes.Buffer) {
	put16(b, p.next)
	b.Write(p.buf.Bytes())
}

func put16(b *bytes.Buffer, v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	b.Write(buf[:])
}

func put32(b *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	b.Write(buf[:])
}
