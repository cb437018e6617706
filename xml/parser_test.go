package xml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	sax "github.com/meiqinyan/SimpleSaxParser"
	"github.com/tdewolff/test"
)

func helperParse(input string, limit int, enc sax.Encoding) ([]Event, error) {
	r := &Recorder{}
	p := NewParser()
	p.SetLimit(limit)
	err := p.Parse(bytes.NewBufferString(input), r, enc)
	return r.Events, err
}

func helperError(t *testing.T, err error, code sax.ErrorCode, line, column int, context string) {
	t.Helper()
	var e *sax.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected %v, got %v", code, err)
	}
	test.T(t, e.Code, code, "code")
	test.T(t, e.Line, line, "line")
	test.T(t, e.Column, column, "column")
	test.String(t, e.Context, context, "context")
}

////////////////////////////////////////////////////////////////

func TestErrors(t *testing.T) {
	var errorTests = []struct {
		xml     string
		code    sax.ErrorCode
		line    int
		column  int
		context string
	}{
		// document structure
		{"", sax.ErrEmpty, 1, 0, ""},
		{"  \n\t ", sax.ErrEmpty, 2, 2, ""},
		{"text", sax.ErrTextBeforeRoot, 1, 1, ""},
		{"<?xml version=\"1.0\"?> text <a/>", sax.ErrTextBeforeRoot, 1, 23, ""},
		{"<a/> text", sax.ErrTextAfterRoot, 1, 6, ""},
		{"&amp;<a/>", sax.ErrEntityDocOpen, 1, 1, ""},
		{"<![CDATA[x]]><a/>", sax.ErrCDATADocOpen, 1, 3, ""},
		{"<a/>&amp;", sax.ErrRootData, 1, 5, ""},
		{"<a/><![CDATA[x]]>", sax.ErrRootData, 1, 7, ""},
		{"<a/><b/>", sax.ErrRootClose, 1, 6, "b"},
		{"<?xml version=\"1.0\"?>", sax.ErrEOF, 1, 21, "no root element"},
		{"<!-- c -->", sax.ErrEOF, 1, 10, "no root element"},
		{"<!DOCTYPE a><a/>", sax.ErrDTDSupport, 1, 9, "DOCTYPE"},
		{"<!ENTITY x 'y'><a/>", sax.ErrDTDSupport, 1, 8, "ENTITY"},

		// elements
		{"</a><a>", sax.ErrMissingClosing, 1, 4, "a"},
		{"<a/></a>", sax.ErrMissingClosing, 1, 8, "a"},
		{"<a>", sax.ErrMissingClosing, 1, 3, "a"},
		{"<a><b>text", sax.ErrMissingClosing, 1, 10, "b"},
		{"<a><b></a></b>", sax.ErrMatch, 1, 10, "</a> does not close <b>"},
		{"<a></b>", sax.ErrMatch, 1, 7, "</b> does not close <a>"},
		{"<a>\n<b>\n</c>", sax.ErrMatch, 3, 4, "</c> does not close <b>"},
		{"<a>\r\n</b>", sax.ErrMatch, 2, 4, "</b> does not close <a>"},
		{"<a", sax.ErrEOF, 1, 2, ""},
		{"<a></a", sax.ErrEOF, 1, 6, ""},
		{"< a/>", sax.ErrWhitespaceOpen, 1, 2, ""},
		{"<a></ a>", sax.ErrWhitespaceClose, 1, 6, ""},
		{"<a/ >", sax.ErrWhitespaceClose, 1, 4, "a"},
		{"<a/x>", sax.ErrInvalidFormat, 1, 4, "a"},
		{"<a>x]]>y</a>", sax.ErrInvalidFormat, 1, 7, "]]>"},
		{"<a>]]]></a>", sax.ErrInvalidFormat, 1, 7, "]]>"},
		{"<a>\x01</a>", sax.ErrInvalidFormat, 1, 4, "character 0x01"},
		{"<a b=\"\x01\"/>", sax.ErrInvalidFormat, 1, 7, "character 0x01"},
		{"<a/>\x1F", sax.ErrInvalidFormat, 1, 5, "character 0x1f"},
		{"<1/>", sax.ErrElementName, 1, 2, "1"},
		{"<a#/>", sax.ErrElementName, 1, 3, "a#"},
		{"<a></a b>", sax.ErrElementName, 1, 8, "a"},
		{"<a></1>", sax.ErrElementName, 1, 6, "1"},

		// attributes
		{"<a attr=\"x\" attr=\"y\"/>", sax.ErrDuplicateAttribute, 1, 20, "attr"},
		{"<a b=c/>", sax.ErrMissingQuote, 1, 6, "b"},
		{"<a b=\"c", sax.ErrMissingQuote, 1, 7, ""},
		{"<a b=\"c'/>", sax.ErrMissingQuote, 1, 10, ""},
		{"<a b=\"<\"/>", sax.ErrAttrDescr, 1, 7, "b"},
		{"<a b=\"1\"c=\"2\"/>", sax.ErrAttrDescr, 1, 9, "a"},
		{"<a b/>", sax.ErrAttrDescr, 1, 5, "b"},
		{"<a =\"\"/>", sax.ErrAttrName, 1, 4, "="},

		// references
		{"<a>&;</a>", sax.ErrEmptyRef, 1, 5, ""},
		{"<a>&foo;</a>", sax.ErrUnknownEntity, 1, 8, "foo"},
		{"<a>&amp</a>", sax.ErrMissingSemi, 1, 8, "amp"},
		{"<a>&am", sax.ErrMissingSemi, 1, 6, ""},
		{"<a>& </a>", sax.ErrRefSymbol, 1, 5, " "},
		{"<a>&#12a;</a>", sax.ErrRefSymbol, 1, 8, "#12a"},
		{"<a>&#65</a>", sax.ErrMissingSemi, 1, 8, "#65"},
		{"<a>&#;</a>", sax.ErrRefSymbol, 1, 6, "#"},
		{"<a>&#0;</a>", sax.ErrRefSymbol, 1, 7, "#0"},
		{"<a>&#x110000;</a>", sax.ErrRefSymbol, 1, 13, "#110000"},
		{"<a b=\"&lt\"/>", sax.ErrMissingSemi, 1, 10, "lt"},

		// comments, CDATA and processing instructions
		{"<!-- a -- b -->", sax.ErrComment, 1, 10, "--"},
		{"<!-x-><a/>", sax.ErrComment, 1, 4, ""},
		{"<a><!-- x", sax.ErrCommentClose, 1, 9, ""},
		{"<a><![CDAT[x]]></a>", sax.ErrCDATA, 1, 11, ""},
		{"<a><![CDA", sax.ErrCDATA, 1, 9, ""},
		{"<a><![CDATA[x", sax.ErrCDATAClose, 1, 13, ""},
		{"<a><![CDATA[x]]", sax.ErrCDATAClose, 1, 15, ""},
		{"<? pi?><a/>", sax.ErrWhitespaceProcess, 1, 3, ""},
		{"<?1?><a/>", sax.ErrProcessingName, 1, 3, "1"},
		{"<?pi?x?><a/>", sax.ErrProcessingName, 1, 6, "pi"},
		{"<a><?pi x", sax.ErrProcessingClose, 1, 9, ""},
		{"<a><?XmL x?></a>", sax.ErrReservedName, 1, 8, "XmL"},
		{"<a/><?xml version=\"1.0\"?>", sax.ErrReservedName, 1, 9, "xml"},
		{" <?xml version=\"1.0\"?><a/>", sax.ErrReservedName, 1, 6, "xml"},
		{"<a><!x></a>", sax.ErrInvalidFormat, 1, 6, "<!x"},
		{"<a><!FOO></a>", sax.ErrInvalidFormat, 1, 8, "<!FOO"},

		// declaration
		{"<?xml?><a/>", sax.ErrVersion, 1, 7, ""},
		{"<?xml version=\"2.0\"?><a/>", sax.ErrVersion, 1, 19, "2.0"},
		{"<?xml version=\"1.\"?><a/>", sax.ErrVersion, 1, 18, "1."},
		{"<?xml encoding=\"UTF-8\"?><a/>", sax.ErrVersion, 1, 22, "encoding"},
		{"<?xml version=\"1.0\" standalone=\"yes\" encoding=\"UTF-8\"?><a/>", sax.ErrInvalidDecl, 1, 53, "encoding"},
		{"<?xml version=\"1.0\" standalone=\"maybe\"?><a/>", sax.ErrInvalidDecl, 1, 38, "standalone=maybe"},
		{"<?xml version=\"1.0\" foo=\"bar\"?><a/>", sax.ErrInvalidDecl, 1, 29, "foo"},
		{"<?xml version=\"1.0\"encoding=\"UTF-8\"?><a/>", sax.ErrInvalidDecl, 1, 20, "missing whitespace"},
		{"<?xml version=1.0?><a/>", sax.ErrInvalidDecl, 1, 15, "version"},
		{"<?xml version=\"1.0\" encoding=\"UTF-16\"?><a/>", sax.ErrEncoding, 1, 39, "UTF-16"},
		{"<?xml version=\"1.0\" encoding=\"UCS-4\"?><a/>", sax.ErrEncoding32, 1, 38, "UCS-4"},
		{"<?xml version=\"1.0\" encoding=\"1x\"?><a/>", sax.ErrEncoding, 1, 33, "1x"},
		{"<?xml version=\"1.0\"", sax.ErrDeclarationClose, 1, 19, ""},
		{"<?xml version=\"1.0\"><a/>", sax.ErrDeclarationClose, 1, 20, ""},
		{"<?xml version=\"1.0\"?<a/>", sax.ErrDeclarationClose, 1, 21, ""},

		// signature
		{"\xFE\xFF\x00<\x00a\x00/\x00>", sax.ErrEncoding, 1, 0, "UTF-16"},
		{"<\x00?\x00x\x00m\x00l\x00", sax.ErrEncoding, 1, 0, "UTF-16"},
		{"\x00\x00\xFE\xFF\x00\x00\x00<", sax.ErrEncoding32, 1, 0, "UTF-32"},
		{"\xEF<a/>", sax.ErrInvalidFormat, 1, 0, "byte order mark"},
		{"\xEF\xBB\xBF<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><a/>", sax.ErrEncoding, 1, 43, "ISO-8859-1"},
		{"\xEF\xBB\xBF", sax.ErrEmpty, 1, 0, ""},
	}
	for _, tt := range errorTests {
		t.Run(fmt.Sprintf("%q", tt.xml), func(t *testing.T) {
			events, err := helperParse(tt.xml, 0, sax.EncodingUnknown)
			helperError(t, err, tt.code, tt.line, tt.column, tt.context)
			test.That(t, events[len(events)-1].Type != DocumentEndEvent, "DocumentEnd must not fire on failure")
		})
	}
}

func TestLimit(t *testing.T) {
	var limitTests = []struct {
		xml     string
		code    sax.ErrorCode
		column  int
		context string
	}{
		{"<a>abc</a>", 0, 0, ""},
		{"<a>abcd</a>", sax.ErrTooBigValue, 7, "a"},
		{"<a b=\"abc\"/>", 0, 0, ""},
		{"<a b=\"abcd\"/>", sax.ErrTooBigValue, 10, "b"},
		{"<a>&amp;&lt;&gt;</a>", 0, 0, ""},
		{"<a>&amp;&lt;&gt;&quot;</a>", sax.ErrTooBigValue, 22, "a"},
		{"<a><!--abc--></a>", 0, 0, ""},
		{"<a><!--abcd--></a>", sax.ErrTooBigValue, 11, "comment"},
		{"<a><![CDATA[abcd]]></a>", sax.ErrTooBigValue, 16, "CDATA"},
		{"<a><?pi abcd?></a>", sax.ErrTooBigValue, 12, "pi"},
		{"<abcdef abcdef=\"\"/>", 0, 0, ""},
	}
	for _, tt := range limitTests {
		t.Run(tt.xml, func(t *testing.T) {
			_, err := helperParse(tt.xml, 3, sax.EncodingUnknown)
			if tt.code == 0 {
				test.Error(t, err, nil)
				return
			}
			helperError(t, err, tt.code, 1, tt.column, tt.context)
		})
	}
}

func TestSetLimit(t *testing.T) {
	p := NewParser()
	test.T(t, p.Limit(), 0)
	p.SetLimit(5)
	test.T(t, p.Limit(), 5)
	p.SetLimit(-1)
	test.T(t, p.Limit(), 0)
}

func TestWellFormed(t *testing.T) {
	var wellFormedTests = []string{
		"<a/>",
		"\xEF\xBB\xBF<a/>",
		"  <a></a>  ",
		"<?xml version=\"1.0\"?>\n<a/>\n",
		"<?xml version=\"1.1\" encoding=\"utf-8\" standalone=\"no\"?><a/>",
		"<?xml version='1.0' standalone='yes'?><a/>",
		"<?xml-stylesheet href=\"a.xsl\"?><!-- c --><a/><!-- d --><?pi?>",
		"<a><b><c/></b><b x='1'/></a>",
		"<a  b = \"1\"\n\tc='2' ></a >",
		"<a:b xmlns:a=\"urn:x\"><a:c.d-e_f/></a:b>",
		"<a><![CDATA[]]><!----></a>",
		"<a>x]]&gt;y</a>",
		"<a>]]x]></a>",
		"<a><![CDATA[]]]]></a>",
		"<a><!-- - --></a>",
	}
	for _, input := range wellFormedTests {
		t.Run(input, func(t *testing.T) {
			events, err := helperParse(input, 0, sax.EncodingUnknown)
			test.Error(t, err, nil)

			test.T(t, events[0].Type, DocumentBeginEvent, "first event")
			test.T(t, events[len(events)-1].Type, DocumentEndEvent, "last event")
			var open []string
			for i, e := range events {
				test.That(t, i == 0 || e.Type != DocumentBeginEvent, "DocumentBegin fires once")
				test.That(t, i == len(events)-1 || e.Type != DocumentEndEvent, "DocumentEnd fires once")
				switch e.Type {
				case ElementBeginEvent:
					open = append(open, e.Name)
				case ElementEndEvent:
					test.That(t, 0 < len(open), "ElementEnd without ElementBegin")
					test.String(t, e.Name, open[len(open)-1], "ElementEnd must close the innermost element")
					open = open[:len(open)-1]
				}
			}
			test.T(t, len(open), 0, "balanced elements")
		})
	}
}

////////////////////////////////////////////////////////////////

type failingHandler struct {
	NopHandler
	err error
}

func (h failingHandler) ElementBegin(string) error {
	return h.err
}

func TestHandlerError(t *testing.T) {
	stop := errors.New("stop")
	err := Parse(strings.NewReader("<a><b/></a>"), failingHandler{err: stop}, sax.EncodingUnknown)
	test.T(t, err, stop, "handler errors are returned unchanged")
}

type reentrantHandler struct {
	NopHandler
	p *Parser
}

func (h reentrantHandler) ElementBegin(string) error {
	return h.p.Parse(strings.NewReader("<b/>"), NopHandler{}, sax.EncodingUnknown)
}

func TestReentrancy(t *testing.T) {
	p := NewParser()
	err := p.Parse(strings.NewReader("<a></a>"), reentrantHandler{p: p}, sax.EncodingUnknown)
	helperError(t, err, sax.ErrInvalidInstance, 1, 0, "parser is already running")

	// the parser is usable again afterwards
	test.Error(t, p.Parse(strings.NewReader("<a/>"), NopHandler{}, sax.EncodingUnknown), nil)
}

func TestReuse(t *testing.T) {
	p := NewParser()
	err := p.Parse(strings.NewReader("<a><b></a>"), NopHandler{}, sax.EncodingUnknown)
	test.T(t, sax.CodeOf(err), sax.ErrMatch)

	for i := 0; i < 3; i++ {
		r := &Recorder{}
		test.Error(t, p.Parse(strings.NewReader("<a><b/></a>"), r, sax.EncodingUnknown), nil)
		test.T(t, len(r.Events), 11)
		test.That(t, p.Parse(strings.NewReader("<a><b>"), r, sax.EncodingUnknown) != nil, "stack must not leak into the next parse")
	}
}

func TestInvalidInstance(t *testing.T) {
	err := Parse(nil, NopHandler{}, sax.EncodingUnknown)
	helperError(t, err, sax.ErrInvalidInstance, 1, 0, "nil reader or handler")
	err = Parse(strings.NewReader("<a/>"), nil, sax.EncodingUnknown)
	helperError(t, err, sax.ErrInvalidInstance, 1, 0, "nil reader or handler")
}

func TestInputError(t *testing.T) {
	failure := errors.New("connection reset")

	err := Parse(iotest.ErrReader(failure), NopHandler{}, sax.EncodingUnknown)
	test.T(t, sax.CodeOf(err), sax.ErrInputData)
	test.That(t, errors.Is(err, failure), "cause must be kept")

	r := io.MultiReader(strings.NewReader("<a>text"), iotest.ErrReader(failure))
	err = Parse(iotest.OneByteReader(r), NopHandler{}, sax.EncodingUnknown)
	test.T(t, sax.CodeOf(err), sax.ErrInputData)
	test.That(t, errors.Is(err, failure), "cause must be kept")
}
