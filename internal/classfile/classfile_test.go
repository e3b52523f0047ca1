package classfile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cft "github.com/opmodel/classidx/internal/classfile/classfiletest"
	"github.com/opmodel/classidx/internal/index"
)

func TestParseWithoutAnnotations(t *testing.T) {
	data := cft.New("com.acme.Baz").Super("com.acme.Base").Interfaces("java.io.Serializable").Bytes()

	rec, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "com.acme.Baz", rec.Name)
	assert.Equal(t, "com.acme.Base", rec.Superclass)
	assert.Equal(t, []string{"java.io.Serializable"}, rec.Interfaces)
	assert.Equal(t, index.KindClass, rec.Kind)
	assert.Empty(t, rec.Annotations)
}

func TestParseClassAnnotations(t *testing.T) {
	data := cft.New("com.acme.Foo").
		Annotate(cft.Ann("com.acme.Component",
			cft.Str("name", "foo"),
			cft.Int("priority", 7),
			cft.Bool("enabled", true),
			cft.Long("timeout", 1<<40),
			cft.Double("ratio", 0.5),
			cft.Enum("scope", "com.acme.Scope", "SINGLETON"),
			cft.Class("type", "com.acme.Bar"),
			cft.Nested("qualifier", cft.Ann("com.acme.Named", cft.Str("value", "primary"))),
			cft.Array("tags", cft.StrValue("a"), cft.StrValue("b")),
		)).
		AnnotateInvisible(cft.Ann("com.acme.Generated")).
		Bytes()

	rec, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, rec.Annotations, 2)

	use := rec.Annotations[0]
	assert.Equal(t, "com.acme.Component", use.Type)
	assert.True(t, use.Visible)
	assert.Equal(t, index.Target{Kind: index.TargetClass, Class: "com.acme.Foo"}, use.Target)

	v := use.Values
	assert.Equal(t, index.Value{Kind: index.ValueString, String: "foo"}, v["name"])
	assert.Equal(t, index.Value{Kind: index.ValueInt, Int: 7}, v["priority"])
	assert.Equal(t, index.Value{Kind: index.ValueBoolean, Int: 1}, v["enabled"])
	assert.Equal(t, index.Value{Kind: index.ValueLong, Int: 1 << 40}, v["timeout"])
	assert.Equal(t, index.Value{Kind: index.ValueDouble, Float: 0.5}, v["ratio"])
	assert.Equal(t, index.Value{Kind: index.ValueEnum, String: "com.acme.Scope", Constant: "SINGLETON"}, v["scope"])
	assert.Equal(t, index.Value{Kind: index.ValueClass, String: "com.acme.Bar"}, v["type"])

	nested := v["qualifier"]
	require.Equal(t, index.ValueAnnotation, nested.Kind)
	assert.Equal(t, "com.acme.Named", nested.Annotation.Type)
	assert.Equal(t, "primary", nested.Annotation.Values["value"].String)

	tags := v["tags"]
	require.Len(t, tags.Array, 2)
	assert.Equal(t, "b", tags.Array[1].String)

	hidden := rec.Annotations[1]
	assert.Equal(t, "com.acme.Generated", hidden.Type)
	assert.False(t, hidden.Visible)

	assert.Equal(t, []string{"com.acme.Component", "com.acme.Generated", "com.acme.Named"}, rec.AnnotationTypes())
}

func TestParseMemberAnnotations(t *testing.T) {
	data := cft.New("com.acme.Service").
		Field("repo", "Lcom/acme/Repo;", cft.Ann("com.acme.Inject")).
		Method("start", "()V", cft.Ann("com.acme.PostConstruct")).
		MethodParams("handle", "(Ljava/lang/String;I)V",
			nil,
			[]cft.Annotation{cft.Ann("com.acme.Min", cft.Int("value", 1))},
		).
		Bytes()

	rec, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, rec.Annotations, 3)

	field := rec.Annotations[0]
	assert.Equal(t, index.Target{
		Kind: index.TargetField, Class: "com.acme.Service", Name: "repo", Descriptor: "Lcom/acme/Repo;",
	}, field.Target)

	method := rec.Annotations[1]
	assert.Equal(t, index.TargetMethod, method.Target.Kind)
	assert.Equal(t, "start", method.Target.Name)

	param := rec.Annotations[2]
	assert.Equal(t, "com.acme.Min", param.Type)
	assert.Equal(t, index.TargetParameter, param.Target.Kind)
	assert.Equal(t, "handle", param.Target.Name)
	assert.Equal(t, 1, param.Target.Parameter)
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name  string
		class *cft.ClassFile
		want  index.Kind
	}{
		{"class", cft.New("a.C"), index.KindClass},
		{"interface", cft.New("a.I").Access(cft.AccPublic | cft.AccInterface | cft.AccAbstract), index.KindInterface},
		{"annotation", cft.NewAnnotationType("a.A"), index.KindAnnotation},
		{"enum", cft.New("a.E").Super("java.lang.Enum").Access(cft.AccPublic | cft.AccEnum), index.KindEnum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(tt.class.Bytes())
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Kind)
		})
	}
}

func TestParseRootHasNoSuperclass(t *testing.T) {
	rec, err := Parse(cft.New("java.lang.Object").Super("").Bytes())
	require.NoError(t, err)
	assert.Empty(t, rec.Superclass)
	assert.True(t, rec.HasRootSuperclass())
}

func TestParseMalformed(t *testing.T) {
	good := cft.New("com.acme.Foo").Annotate(cft.Ann("com.acme.Marker")).Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte{0xCA, 0xFE, 0xBA, 0xBF}, good[4:]...)},
		{"truncated", good[:len(good)/2]},
		{"trailing bytes", append(append([]byte{}, good...), 0x00)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.Error(t, err)
			var fe *FormatError
			assert.True(t, errors.As(err, &fe))
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, "com.acme.Foo", DescriptorToName("Lcom/acme/Foo;"))
	assert.Equal(t, "int[]", DescriptorToName("[I"))
	assert.Equal(t, "java.lang.String[][]", DescriptorToName("[[Ljava/lang/String;"))
	assert.Equal(t, "void", DescriptorToName("V"))

	assert.Equal(t, "com/acme/Foo.class", NameToPath("com.acme.Foo"))
	name, ok := PathToName("com/acme/Foo$Inner.class")
	assert.True(t, ok)
	assert.Equal(t, "com.acme.Foo$Inner", name)
	_, ok = PathToName("META-INF/MANIFEST.MF")
	assert.False(t, ok)
}

func TestDecodeModifiedUTF8(t *testing.T) {
	s, ok := decodeModifiedUTF8([]byte{0xC0, 0x80, 'a'})
	require.True(t, ok)
	assert.Equal(t, "\x00a", s)

	// U+1F600 as a surrogate pair, each half in three bytes.
	s, ok = decodeModifiedUTF8([]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80})
	require.True(t, ok)
	assert.Equal(t, "\U0001F600", s)

	_, ok = decodeModifiedUTF8([]byte{0x00})
	assert.False(t, ok)
}
