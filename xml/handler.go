package xml // import "github.com/meiqinyan/SimpleSaxParser/xml"

import "strconv"

// Handler receives the events of a parse, synchronously and in document order. Any error returned by a Handler method stops the parse and is returned by Parse unchanged.
// A Handler must not call Parse on the parser that invokes it.
type Handler interface {
	OpenTag() error              // '<' of a start or end tag
	CloseTag() error             // '>' of a start or end tag
	NotLeadingChar(c byte) error // stray byte where only a specific leading character was valid
	DocumentBegin() error
	DocumentEnd() error
	ElementBegin(name string) error
	ElementEnd(name string) error
	CloseSingleElement(name string) error // self-closing tag, in lieu of ElementBegin and ElementEnd
	Attribute(name, value string) error
	Text(value string) error
	CDATA(value string) error
	Comment(text string) error
	Declaration(version, encoding, standalone string) error
	Processing(value string) error
}

// NopHandler implements Handler by ignoring all events. Embed it to implement only the events of interest.
type NopHandler struct{}

func (NopHandler) OpenTag() error { return nil }
func (NopHandler) CloseTag() error { return nil }
func (NopHandler) NotLeadingChar(byte) error { return nil }
func (NopHandler) DocumentBegin() error { return nil }
func (NopHandler) DocumentEnd() error { return nil }
func (NopHandler) ElementBegin(string) error { return nil }
func (NopHandler) ElementEnd(string) error { return nil }
func (NopHandler) CloseSingleElement(string) error { return nil }
func (NopHandler) Attribute(string, string) error { return nil }
func (NopHandler) Text(string) error { return nil }
func (NopHandler) CDATA(string) error { return nil }
func (NopHandler) Comment(string) error { return nil }
func (NopHandler) Declaration(string, string, string) error { return nil }
func (NopHandler) Processing(string) error { return nil }

////////////////////////////////////////////////////////////////

// EventType determines the type of event, eg. an element begin or a text.
type EventType uint32

// EventType values.
const (
	OpenTagEvent EventType = iota
	CloseTagEvent
	NotLeadingCharEvent
	DocumentBeginEvent
	DocumentEndEvent
	ElementBeginEvent
	ElementEndEvent
	CloseSingleElementEvent
	AttributeEvent
	TextEvent
	CDATAEvent
	CommentEvent
	DeclarationEvent
	ProcessingEvent
)

// String returns the string representation of an EventType.
func (et EventType) String() string {
	switch et {
	case OpenTagEvent:
		return "OpenTag"
	case CloseTagEvent:
		return "CloseTag"
	case NotLeadingCharEvent:
		return "NotLeadingChar"
	case DocumentBeginEvent:
		return "DocumentBegin"
	case DocumentEndEvent:
		return "DocumentEnd"
	case ElementBeginEvent:
		return "ElementBegin"
	case ElementEndEvent:
		return "ElementEnd"
	case CloseSingleElementEvent:
		return "CloseSingleElement"
	case AttributeEvent:
		return "Attribute"
	case TextEvent:
		return "Text"
	case CDATAEvent:
		return "CDATA"
	case CommentEvent:
		return "Comment"
	case DeclarationEvent:
		return "Declaration"
	case ProcessingEvent:
		return "Processing"
	}
	return "Invalid(" + strconv.Itoa(int(et)) + ")"
}

// Event is a single recorded event. Name holds element and attribute names and the version of a declaration, Value holds values, texts and the encoding of a declaration, Extra holds the standalone value of a declaration.
type Event struct {
	Type  EventType
	Name  string
	Value string
	Extra string
}

func (e Event) String() string {
	switch e.Type {
	case ElementBeginEvent, ElementEndEvent, CloseSingleElementEvent:
		return e.Type.String() + "(" + e.Name + ")"
	case AttributeEvent:
		return e.Type.String() + "(" + e.Name + "=" + strconv.Quote(e.Value) + ")"
	case TextEvent, CDATAEvent, CommentEvent, ProcessingEvent, NotLeadingCharEvent:
		return e.Type.String() + "(" + strconv.Quote(e.Value) + ")"
	case DeclarationEvent:
		return e.Type.String() + "(" + e.Name + "," + e.Value + "," + e.Extra + ")"
	}
	return e.Type.String()
}

// Recorder is a Handler that records all events in order.
type Recorder struct {
	Events []Event
}

func (r *Recorder) add(et EventType, name, value string) error {
	r.Events = append(r.Events, Event{Type: et, Name: name, Value: value})
	return nil
}

func (r *Recorder) OpenTag() error { return r.add(OpenTagEvent, "", "") }
func (r *Recorder) CloseTag() error { return r.add(CloseTagEvent, "", "") }
func (r *Recorder) NotLeadingChar(c byte) error {
	return r.add(NotLeadingCharEvent, "", string([]byte{c}))
}
func (r *Recorder) DocumentBegin() error { return r.add(DocumentBeginEvent, "", "") }
func (r *Recorder) DocumentEnd() error { return r.add(DocumentEndEvent, "", "") }
func (r *Recorder) ElementBegin(name string) error { return r.add(ElementBeginEvent, name, "") }
func (r *Recorder) ElementEnd(name string) error { return r.add(ElementEndEvent, name, "") }
func (r *Recorder) CloseSingleElement(name string) error {
	return r.add(CloseSingleElementEvent, name, "")
}
func (r *Recorder) Attribute(name, value string) error { return r.add(AttributeEvent, name, value) }
func (r *Recorder) Text(value string) error { return r.add(TextEvent, "", value) }
func (r *Recorder) CDATA(value string) error { return r.add(CDATAEvent, "", value) }
func (r *Recorder) Comment(text string) error { return r.add(CommentEvent, "", text) }
func (r *Recorder) Processing(value string) error { return r.add(ProcessingEvent, "", value) }
func (r *Recorder) Declaration(version, encoding, standalone string) error {
	r.Events = append(r.Events, Event{Type: DeclarationEvent, Name: version, Value: encoding, Extra: standalone})
	return nil
}
