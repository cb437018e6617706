//go:build gofuzz
// +build gofuzz

package fuzz

import (
	"bytes"
	"errors"

	sax "github.com/meiqinyan/SimpleSaxParser"
	"github.com/meiqinyan/SimpleSaxParser/xml"
)

// Fuzz parses arbitrary input, malformed input must fail with a positioned *sax.Error and well-formed input must report balanced elements.
func Fuzz(data []byte) int {
	r := &xml.Recorder{}
	p := xml.NewParser()
	p.SetLimit(1024)
	err := p.Parse(bytes.NewReader(data), r, sax.EncodingUnknown)
	if err != nil {
		var e *sax.Error
		if !errors.As(err, &e) {
			panic("unexpected error type: " + err.Error())
		} else if e.Line < 1 || e.Column < 0 {
			panic("invalid position: " + err.Error())
		} else if len(r.Events) == 0 || r.Events[len(r.Events)-1].Type == xml.DocumentEndEvent {
			panic("document end reported for malformed input")
		}
		return 0
	}

	var open []string
	for _, e := range r.Events {
		switch e.Type {
		case xml.ElementBeginEvent:
			open = append(open, e.Name)
		case xml.ElementEndEvent:
			if len(open) == 0 || open[len(open)-1] != e.Name {
				panic("unbalanced element " + e.Name)
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) != 0 {
		panic("unclosed elements")
	}
	return 1
}
