// Package classfile extracts the structural summary of a JVM class file:
// its name, supertypes, kind and every annotation on the class, its fields,
// its methods and their parameters.
//
// Only the parts needed for indexing are decoded. Code, stack maps and other
// attributes are skipped by length, and bytecode is never verified.
package classfile

import (
	"fmt"
	"strings"

	"github.com/opmodel/classidx/internal/index"
)

// Magic is the class file signature.
const Magic = 0xCAFEBABE

// Suffix is the file name suffix of class file entries.
const Suffix = ".class"

// Access flags relevant to classification.
const (
	AccInterface  = 0x0200
	AccAbstract   = 0x0400
	AccAnnotation = 0x2000
	AccEnum       = 0x4000
	AccModule     = 0x8000
)

const (
	attrVisibleAnnotations            = "RuntimeVisibleAnnotations"
	attrInvisibleAnnotations          = "RuntimeInvisibleAnnotations"
	attrVisibleParameterAnnotations   = "RuntimeVisibleParameterAnnotations"
	attrInvisibleParameterAnnotations = "RuntimeInvisibleParameterAnnotations"
)

// Parse decodes class file bytes into a class record.
func Parse(data []byte) (*index.ClassRecord, error) {
	r := &reader{data: data}

	if magic := r.u4(); r.err == nil && magic != Magic {
		return nil, &FormatError{Offset: 0, Msg: fmt.Sprintf("bad magic 0x%08X", magic)}
	}
	r.u2() // minor
	r.u2() // major
	pool := readConstantPool(r)
	if r.err != nil {
		return nil, r.err
	}

	p := &parser{r: r, pool: pool}
	rec := p.parseClass()
	if p.err() != nil {
		return nil, p.err()
	}
	return rec, nil
}

type parser struct {
	r    *reader
	pool constantPool
	fail error
}

func (p *parser) err() error {
	if p.r.err != nil {
		return p.r.err
	}
	return p.fail
}

func (p *parser) setErr(err error) {
	if err != nil && p.fail == nil {
		p.fail = &FormatError{Offset: p.r.pos, Msg: err.Error()}
	}
}

func (p *parser) parseClass() *index.ClassRecord {
	rec := &index.ClassRecord{}
	rec.AccessFlags = p.r.u2()
	rec.Kind = kindOf(rec.AccessFlags)

	thisIdx := p.r.u2()
	superIdx := p.r.u2()
	if p.err() != nil {
		return nil
	}

	// module-info.class names itself "module-info" through this constant.
	name, err := p.pool.className(thisIdx)
	p.setErr(err)
	rec.Name = name

	if superIdx != 0 {
		super, err := p.pool.className(superIdx)
		p.setErr(err)
		rec.Superclass = super
	}

	n := int(p.r.u2())
	for i := 0; i < n && p.err() == nil; i++ {
		iface, err := p.pool.className(p.r.u2())
		p.setErr(err)
		rec.Interfaces = append(rec.Interfaces, iface)
	}

	// Fields then methods share the member_info layout.
	for _, kind := range []index.TargetKind{index.TargetField, index.TargetMethod} {
		count := int(p.r.u2())
		for i := 0; i < count && p.err() == nil; i++ {
			p.parseMember(rec, kind)
		}
	}

	count := int(p.r.u2())
	for i := 0; i < count && p.err() == nil; i++ {
		p.parseAttribute(rec, index.Target{Kind: index.TargetClass, Class: rec.Name})
	}

	if p.err() == nil && p.r.pos != len(p.r.data) {
		p.r.fail("%d trailing bytes after class attributes", len(p.r.data)-p.r.pos)
	}
	return rec
}

func (p *parser) parseMember(rec *index.ClassRecord, kind index.TargetKind) {
	p.r.u2() // access flags
	name, err := p.pool.utf8(p.r.u2())
	p.setErr(err)
	desc, err := p.pool.utf8(p.r.u2())
	p.setErr(err)

	target := index.Target{Kind: kind, Class: rec.Name, Name: name, Descriptor: desc}
	count := int(p.r.u2())
	for i := 0; i < count && p.err() == nil; i++ {
		p.parseAttribute(rec, target)
	}
}

func (p *parser) parseAttribute(rec *index.ClassRecord, target index.Target) {
	name, err := p.pool.utf8(p.r.u2())
	p.setErr(err)
	length := int(p.r.u4())
	body := p.r.take(length)
	if p.err() != nil {
		return
	}

	switch name {
	case attrVisibleAnnotations, attrInvisibleAnnotations:
		sub := &parser{r: &reader{data: body}, pool: p.pool}
		for _, a := range sub.annotations() {
			rec.Annotations = append(rec.Annotations, index.AnnotationUse{
				Annotation: a,
				Target:     target,
				Visible:    name == attrVisibleAnnotations,
			})
		}
		p.adopt(sub, length)
	case attrVisibleParameterAnnotations, attrInvisibleParameterAnnotations:
		sub := &parser{r: &reader{data: body}, pool: p.pool}
		params := int(sub.r.u1())
		for i := 0; i < params && sub.err() == nil; i++ {
			pt := target
			pt.Kind = index.TargetParameter
			pt.Parameter = i
			for _, a := range sub.annotations() {
				rec.Annotations = append(rec.Annotations, index.AnnotationUse{
					Annotation: a,
					Target:     pt,
					Visible:    name == attrVisibleParameterAnnotations,
				})
			}
		}
		p.adopt(sub, length)
	}
}

// adopt carries a sub-parser failure over to p and checks the attribute body
// was consumed exactly.
func (p *parser) adopt(sub *parser, length int) {
	if err := sub.err(); err != nil {
		p.setErr(fmt.Errorf("annotation attribute: %w", err))
		return
	}
	if sub.r.pos != length {
		p.setErr(fmt.Errorf("annotation attribute length %d, consumed %d", length, sub.r.pos))
	}
}

func (p *parser) annotations() []index.Annotation {
	n := int(p.r.u2())
	out := make([]index.Annotation, 0, n)
	for i := 0; i < n && p.err() == nil; i++ {
		out = append(out, p.annotation())
	}
	return out
}

func (p *parser) annotation() index.Annotation {
	desc, err := p.pool.utf8(p.r.u2())
	p.setErr(err)
	a := index.Annotation{Type: DescriptorToName(desc)}

	pairs := int(p.r.u2())
	for i := 0; i < pairs && p.err() == nil; i++ {
		name, err := p.pool.utf8(p.r.u2())
		p.setErr(err)
		v := p.elementValue()
		if a.Values == nil {
			a.Values = make(map[string]index.Value, pairs)
		}
		a.Values[name] = v
	}
	return a
}

func (p *parser) elementValue() index.Value {
	tag := p.r.u1()
	if p.err() != nil {
		return index.Value{}
	}

	switch tag {
	case 'B', 'C', 'I', 'S', 'Z':
		c, err := p.pool.entry(p.r.u2(), tagInteger)
		p.setErr(err)
		return index.Value{Kind: primitiveKinds[tag], Int: c.ival}
	case 'J':
		c, err := p.pool.entry(p.r.u2(), tagLong)
		p.setErr(err)
		return index.Value{Kind: index.ValueLong, Int: c.ival}
	case 'F':
		c, err := p.pool.entry(p.r.u2(), tagFloat)
		p.setErr(err)
		return index.Value{Kind: index.ValueFloat, Float: c.fval}
	case 'D':
		c, err := p.pool.entry(p.r.u2(), tagDouble)
		p.setErr(err)
		return index.Value{Kind: index.ValueDouble, Float: c.fval}
	case 's':
		s, err := p.pool.utf8(p.r.u2())
		p.setErr(err)
		return index.Value{Kind: index.ValueString, String: s}
	case 'e':
		typ, err := p.pool.utf8(p.r.u2())
		p.setErr(err)
		constName, err := p.pool.utf8(p.r.u2())
		p.setErr(err)
		return index.Value{Kind: index.ValueEnum, String: DescriptorToName(typ), Constant: constName}
	case 'c':
		desc, err := p.pool.utf8(p.r.u2())
		p.setErr(err)
		return index.Value{Kind: index.ValueClass, String: DescriptorToName(desc)}
	case '@':
		a := p.annotation()
		return index.Value{Kind: index.ValueAnnotation, Annotation: &a}
	case '[':
		n := int(p.r.u2())
		arr := make([]index.Value, 0, n)
		for i := 0; i < n && p.err() == nil; i++ {
			arr = append(arr, p.elementValue())
		}
		return index.Value{Kind: index.ValueArray, Array: arr}
	default:
		p.setErr(fmt.Errorf("unknown element value tag %q", tag))
		return index.Value{}
	}
}

var primitiveKinds = map[uint8]index.ValueKind{
	'B': index.ValueByte,
	'C': index.ValueChar,
	'I': index.ValueInt,
	'S': index.ValueShort,
	'Z': index.ValueBoolean,
}

func kindOf(flags uint16) index.Kind {
	switch {
	case flags&AccModule != 0:
		return index.KindModule
	case flags&AccAnnotation != 0:
		return index.KindAnnotation
	case flags&AccInterface != 0:
		return index.KindInterface
	case flags&AccEnum != 0:
		return index.KindEnum
	default:
		return index.KindClass
	}
}

// InternalToName converts an internal name (com/acme/Foo) to a binary name (com.acme.Foo).
func InternalToName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// NameToInternal converts a binary name (com.acme.Foo) to an internal name (com/acme/Foo).
func NameToInternal(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// NameToPath returns the class file path of a binary name: com/acme/Foo.class.
func NameToPath(name string) string {
	return NameToInternal(name) + Suffix
}

// PathToName returns the binary name of a class file path, or false when the
// path is not a class file.
func PathToName(path string) (string, bool) {
	if !strings.HasSuffix(path, Suffix) {
		return "", false
	}
	return InternalToName(strings.TrimSuffix(strings.TrimPrefix(path, "/"), Suffix)), true
}

var primitiveNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// DescriptorToName converts a field descriptor to a type name:
// Lcom/acme/Foo; becomes com.acme.Foo, [I becomes int[].
func DescriptorToName(desc string) string {
	dims := 0
	for dims < len(desc) && desc[dims] == '[' {
		dims++
	}
	base := desc[dims:]
	var name string
	switch {
	case len(base) >= 2 && base[0] == 'L' && base[len(base)-1] == ';':
		name = InternalToName(base[1 : len(base)-1])
	case len(base) == 1 && primitiveNames[base[0]] != "":
		name = primitiveNames[base[0]]
	default:
		name = InternalToName(base)
	}
	return name + strings.Repeat("[]", dims)
}
