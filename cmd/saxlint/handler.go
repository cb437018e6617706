package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/meiqinyan/SimpleSaxParser/xml"
	"go.uber.org/zap"
)

// multiHandler passes each event to all its handlers in order.
type multiHandler []xml.Handler

func (m multiHandler) each(f func(xml.Handler) error) error {
	for _, h := range m {
		if err := f(h); err != nil {
			return err
		}
	}
	return nil
}

func (m multiHandler) OpenTag() error { return m.each(xml.Handler.OpenTag) }
func (m multiHandler) CloseTag() error { return m.each(xml.Handler.CloseTag) }
func (m multiHandler) NotLeadingChar(c byte) error {
	return m.each(func(h xml.Handler) error { return h.NotLeadingChar(c) })
}
func (m multiHandler) DocumentBegin() error { return m.each(xml.Handler.DocumentBegin) }
func (m multiHandler) DocumentEnd() error { return m.each(xml.Handler.DocumentEnd) }
func (m multiHandler) ElementBegin(name string) error {
	return m.each(func(h xml.Handler) error { return h.ElementBegin(name) })
}
func (m multiHandler) ElementEnd(name string) error {
	return m.each(func(h xml.Handler) error { return h.ElementEnd(name) })
}
func (m multiHandler) CloseSingleElement(name string) error {
	return m.each(func(h xml.Handler) error { return h.CloseSingleElement(name) })
}
func (m multiHandler) Attribute(name, value string) error {
	return m.each(func(h xml.Handler) error { return h.Attribute(name, value) })
}
func (m multiHandler) Text(value string) error {
	return m.each(func(h xml.Handler) error { return h.Text(value) })
}
func (m multiHandler) CDATA(value string) error {
	return m.each(func(h xml.Handler) error { return h.CDATA(value) })
}
func (m multiHandler) Comment(text string) error {
	return m.each(func(h xml.Handler) error { return h.Comment(text) })
}
func (m multiHandler) Declaration(version, encoding, standalone string) error {
	return m.each(func(h xml.Handler) error { return h.Declaration(version, encoding, standalone) })
}
func (m multiHandler) Processing(value string) error {
	return m.each(func(h xml.Handler) error { return h.Processing(value) })
}

////////////////////////////////////////////////////////////////

// traceHandler logs every event at debug level.
type traceHandler struct {
	*xml.Recorder
	log *zap.SugaredLogger
}

func newTraceHandler(log *zap.SugaredLogger) *traceHandler {
	return &traceHandler{&xml.Recorder{}, log}
}

func (h *traceHandler) trace(err error) error {
	e := h.Events[len(h.Events)-1]
	h.Events = h.Events[:0]
	h.log.Debugw("event", "type", e.Type.String(), "event", e.String())
	return err
}

func (h *traceHandler) OpenTag() error { return h.trace(h.Recorder.OpenTag()) }
func (h *traceHandler) CloseTag() error { return h.trace(h.Recorder.CloseTag()) }
func (h *traceHandler) NotLeadingChar(c byte) error {
	return h.trace(h.Recorder.NotLeadingChar(c))
}
func (h *traceHandler) DocumentBegin() error { return h.trace(h.Recorder.DocumentBegin()) }
func (h *traceHandler) DocumentEnd() error { return h.trace(h.Recorder.DocumentEnd()) }
func (h *traceHandler) ElementBegin(name string) error {
	return h.trace(h.Recorder.ElementBegin(name))
}
func (h *traceHandler) ElementEnd(name string) error { return h.trace(h.Recorder.ElementEnd(name)) }
func (h *traceHandler) CloseSingleElement(name string) error {
	return h.trace(h.Recorder.CloseSingleElement(name))
}
func (h *traceHandler) Attribute(name, value string) error {
	return h.trace(h.Recorder.Attribute(name, value))
}
func (h *traceHandler) Text(value string) error { return h.trace(h.Recorder.Text(value)) }
func (h *traceHandler) CDATA(value string) error { return h.trace(h.Recorder.CDATA(value)) }
func (h *traceHandler) Comment(text string) error { return h.trace(h.Recorder.Comment(text)) }
func (h *traceHandler) Processing(v string) error { return h.trace(h.Recorder.Processing(v)) }
func (h *traceHandler) Declaration(version, encoding, standalone string) error {
	return h.trace(h.Recorder.Declaration(version, encoding, standalone))
}

////////////////////////////////////////////////////////////////

// eventPrinter records the events and writes them one per line on flush, including those before a failure.
type eventPrinter struct {
	xml.Recorder
	w io.Writer
}

func (p *eventPrinter) flush() error {
	for _, e := range p.Events {
		if _, err := fmt.Fprintln(p.w, e); err != nil {
			return err
		}
	}
	p.Events = p.Events[:0]
	return nil
}

////////////////////////////////////////////////////////////////

// echoWriter writes the document back as XML, escaping texts and attribute values.
type echoWriter struct {
	w      *bufio.Writer
	single bool // the current tag is self-closing
}

func newEchoWriter(w io.Writer) *echoWriter {
	return &echoWriter{w: bufio.NewWriter(w)}
}

func (w *echoWriter) write(ss ...string) error {
	for _, s := range ss {
		if _, err := w.w.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

func (w *echoWriter) OpenTag() error { return w.write("<") }
func (w *echoWriter) CloseTag() error {
	if w.single {
		w.single = false
		return w.write("/>")
	}
	return w.write(">")
}
func (w *echoWriter) NotLeadingChar(byte) error { return nil }
func (w *echoWriter) DocumentBegin() error { return nil }
func (w *echoWriter) DocumentEnd() error {
	if err := w.write("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}
func (w *echoWriter) ElementBegin(name string) error { return w.write(name) }
func (w *echoWriter) ElementEnd(name string) error { return w.write("/", name) }
func (w *echoWriter) CloseSingleElement(name string) error {
	w.single = true
	return w.write(name)
}
func (w *echoWriter) Attribute(name, value string) error {
	return w.write(" ", name, "=", xml.EscapeAttrVal(value))
}
func (w *echoWriter) Text(value string) error { return w.write(xml.Escape(value)) }
func (w *echoWriter) CDATA(value string) error { return w.write("<![CDATA[", value, "]]>") }
func (w *echoWriter) Comment(text string) error {
	return w.write("<!--", text, "-->")
}
func (w *echoWriter) Processing(value string) error { return w.write("<?", value, "?>") }

// Declaration omits the encoding, the echoed document is written as the parser decoded it.
func (w *echoWriter) Declaration(version, _, standalone string) error {
	if err := w.write(`<?xml version="`, version, `"`); err != nil {
		return err
	}
	if standalone != "" {
		if err := w.write(` standalone="`, standalone, `"`); err != nil {
			return err
		}
	}
	return w.write("?>")
}
