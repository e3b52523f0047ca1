package classfile

import "fmt"

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
	tag uint8

	// str is the decoded text of Utf8 entries.
	str string

	// ref is the first index operand (Class name, String value, ...).
	ref uint16

	ival int64
	fval float64
}

type constantPool []constant

func readConstantPool(r *reader) constantPool {
	count := int(r.u2())
	if count == 0 {
		r.fail("constant pool count is zero")
		return nil
	}
	pool := make(constantPool, count)
	for i := 1; i < count && r.err == nil; i++ {
		tag := r.u1()
		c := constant{tag: tag}
		switch tag {
		case tagUtf8:
			n := int(r.u2())
			raw := r.take(n)
			if r.err != nil {
				break
			}
			s, ok := decodeModifiedUTF8(raw)
			if !ok {
				r.fail("invalid modified UTF-8 in constant %d", i)
				break
			}
			c.str = s
		case tagInteger:
			c.ival = int64(int32(r.u4()))
		case tagFloat:
			c.fval = float64(r.f4())
		case tagLong:
			c.ival = int64(r.u8())
		case tagDouble:
			c.fval = r.f8()
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			c.ref = r.u2()
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType,
			tagDynamic, tagInvokeDynamic:
			c.ref = r.u2()
			r.u2()
		case tagMethodHandle:
			r.u1()
			c.ref = r.u2()
		default:
			r.fail("unknown constant pool tag %d at index %d", tag, i)
		}
		pool[i] = c
		// Long and double entries occupy two slots.
		if tag == tagLong || tag == tagDouble {
			i++
		}
	}
	return pool
}

func (p constantPool) entry(idx uint16, tag uint8) (constant, error) {
	if idx == 0 || int(idx) >= len(p) {
		return constant{}, fmt.Errorf("constant index %d out of range", idx)
	}
	c := p[idx]
	if c.tag != tag {
		return constant{}, fmt.Errorf("constant %d has tag %d, want %d", idx, c.tag, tag)
	}
	return c, nil
}

func (p constantPool) utf8(idx uint16) (string, error) {
	c, err := p.entry(idx, tagUtf8)
	if err != nil {
		return "", err
	}
	return c.str, nil
}

// className resolves a Class constant to a dotted binary name.
func (p constantPool) className(idx uint16) (string, error) {
	c, err := p.entry(idx, tagClass)
	if err != nil {
		return "", err
	}
	internal, err := p.utf8(c.ref)
	if err != nil {
		return "", err
	}
	return InternalToName(internal), nil
}
