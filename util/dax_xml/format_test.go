package dax_xml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "NestedElements",
			in:   `<?xml version="1.0" encoding="UTF-8"?><a><b x="1"/><c>text</c><d><e/></d></a>`,
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<a>\n" +
				"  <b x=\"1\"/>\n" +
				"  <c>text</c>\n" +
				"  <d>\n" +
				"    <e/>\n" +
				"  </d>\n" +
				"</a>\n",
		},
		{
			name: "SelfClosingKeepsLevel",
			in:   `<profile id="p"><preset id="a" type="ieq"/><preset id="b" type="geq"/></profile>`,
			want: "<profile id=\"p\">\n" +
				"  <preset id=\"a\" type=\"ieq\"/>\n" +
				"  <preset id=\"b\" type=\"geq\"/>\n" +
				"</profile>\n",
		},
		{
			name: "Comment",
			in:   `<a><!-- note --><b/></a>`,
			want: "<a>\n  <!-- note -->\n  <b/>\n</a>\n",
		},
		{
			name: "UnbalancedCloseStaysAtZero",
			in:   `</a></b><c/>`,
			want: "</a>\n</b>\n<c/>\n",
		},
		{
			name: "PlainText",
			in:   "plain",
			want: "plain\n",
		},
		{
			name: "Empty",
			in:   "  \n",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestSerializeDoesNotModifyDocument(t *testing.T) {
	doc, err := ReadDocument(sampleDocument)
	if !assert.NoError(t, err) {
		return
	}
	before, err := doc.WriteToString()
	assert.NoError(t, err)

	_, err = Serialize(doc)
	assert.NoError(t, err)

	after, err := doc.WriteToString()
	assert.NoError(t, err)
	assert.Equal(t, before, after)
}
