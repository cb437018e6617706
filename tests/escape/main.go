//go:build gofuzz
// +build gofuzz

package fuzz

import (
	"strings"
	"unicode/utf8"

	sax "github.com/meiqinyan/SimpleSaxParser"
	"github.com/meiqinyan/SimpleSaxParser/xml"
)

// Fuzz checks that escaped text and attribute values parse back to the original.
func Fuzz(data []byte) int {
	s := string(data)
	if !utf8.ValidString(s) {
		return -1
	}
	for _, r := range s {
		if !sax.IsXMLChar(r) {
			return -1
		}
	}

	r := &xml.Recorder{}
	input := "<a v=" + xml.EscapeAttrVal(s) + ">" + xml.Escape(s) + "</a>"
	if err := xml.Parse(strings.NewReader(input), r, sax.EncodingUTF8); err != nil {
		panic(err)
	}
	for _, e := range r.Events {
		if (e.Type == xml.AttributeEvent || e.Type == xml.TextEvent) && e.Value != s {
			panic("escaped value does not parse back: " + e.Value)
		}
	}
	return 1
}
