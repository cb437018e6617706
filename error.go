package sax

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorCode identifies the kind of well-formedness failure. It implements error so that a returned *Error can be matched with errors.Is.
type ErrorCode uint32

// ErrorCode values.
const (
	ErrEmpty              ErrorCode = iota + 1 // document is empty or whitespace only
	ErrInvalidFormat                           // malformed markup that fits no narrower code
	ErrInvalidInstance                         // nil reader or handler, or a parser already running
	ErrTooBigValue                             // value exceeds the configured limit
	ErrProcessingName                          // invalid processing instruction target
	ErrReservedName                            // reserved name 'xml' used as a target
	ErrMissingClosing                          // closing tag without an open element, or unclosed element at EOF
	ErrInvalidDecl                             // malformed XML declaration
	ErrVersion                                 // missing or bad version in declaration
	ErrEncoding                                // bad, unknown or 16-bit encoding
	ErrElementName                             // invalid element name
	ErrMatch                                   // closing tag does not match the open element
	ErrComment                                 // malformed comment
	ErrCDATA                                   // malformed CDATA section opener
	ErrEmptyRef                                // empty reference '&;'
	ErrRefSymbol                               // invalid symbol in reference
	ErrAttrName                                // invalid attribute name
	ErrAttrDescr                               // malformed attribute
	ErrRootData                                // character data construct after the root element
	ErrUnknownEntity                           // unknown named entity
	ErrRootClose                               // element after the root element was closed
	ErrDTDSupport                              // DTD constructs are not supported
	ErrEOF                                     // unexpected end of input
	ErrCDATAClose                              // unterminated CDATA section
	ErrMissingSemi                             // reference not terminated by ';'
	ErrMissingQuote                            // attribute value not quoted or unterminated
	ErrTextBeforeRoot                          // text before the root element
	ErrTextAfterRoot                           // text after the root element
	ErrWhitespaceOpen                          // whitespace after '<'
	ErrWhitespaceClose                         // whitespace after '</' or between '/' and '>'
	ErrWhitespaceProcess                       // whitespace after '<?'
	ErrCommentClose                            // unterminated comment
	ErrEncoding32                              // 32-bit encoding
	ErrEntityDocOpen                           // reference before the root element
	ErrCDATADocOpen                            // CDATA section before the root element
	ErrDeclarationClose                        // declaration not terminated by '?>'
	ErrProcessingClose                         // processing instruction not terminated by '?>'
	ErrDuplicateAttribute                      // attribute given twice in one tag
	ErrInputData                               // reading from the input failed
)

var codeMessages = [...]string{
	ErrEmpty:              "empty document",
	ErrInvalidFormat:      "invalid format",
	ErrInvalidInstance:    "invalid parser instance",
	ErrTooBigValue:        "value exceeds limit",
	ErrProcessingName:     "invalid processing instruction name",
	ErrReservedName:       "reserved name",
	ErrMissingClosing:     "missing closing tag",
	ErrInvalidDecl:        "invalid declaration",
	ErrVersion:            "invalid version",
	ErrEncoding:           "unsupported encoding",
	ErrElementName:        "invalid element name",
	ErrMatch:              "closing tag does not match",
	ErrComment:            "invalid comment",
	ErrCDATA:              "invalid CDATA section",
	ErrEmptyRef:           "empty reference",
	ErrRefSymbol:          "invalid symbol in reference",
	ErrAttrName:           "invalid attribute name",
	ErrAttrDescr:          "invalid attribute",
	ErrRootData:           "invalid data at root level",
	ErrUnknownEntity:      "unknown entity",
	ErrRootClose:          "root element already closed",
	ErrDTDSupport:         "DTD is not supported",
	ErrEOF:                "unexpected end of input",
	ErrCDATAClose:         "unterminated CDATA section",
	ErrMissingSemi:        "missing semicolon",
	ErrMissingQuote:       "missing quote",
	ErrTextBeforeRoot:     "text before root element",
	ErrTextAfterRoot:      "text after root element",
	ErrWhitespaceOpen:     "whitespace after '<'",
	ErrWhitespaceClose:    "whitespace in closing tag",
	ErrWhitespaceProcess:  "whitespace after '<?'",
	ErrCommentClose:       "unterminated comment",
	ErrEncoding32:         "32-bit encoding is not supported",
	ErrEntityDocOpen:      "reference before root element",
	ErrCDATADocOpen:       "CDATA section before root element",
	ErrDeclarationClose:   "unterminated declaration",
	ErrProcessingClose:    "unterminated processing instruction",
	ErrDuplicateAttribute: "duplicate attribute",
	ErrInputData:          "input read error",
}

// String returns the message of an ErrorCode.
func (c ErrorCode) String() string {
	if 0 < c && int(c) < len(codeMessages) {
		return codeMessages[c]
	}
	return "Invalid(" + strconv.Itoa(int(c)) + ")"
}

// Error returns the message of an ErrorCode.
func (c ErrorCode) Error() string {
	return c.String()
}

////////////////////////////////////////////////////////////////

// Error is a parsing error returned by the parser. It contains the kind of failure, the line and column at which it was detected and an optional context such as the offending name.
type Error struct {
	Code    ErrorCode
	Line    int
	Column  int
	Context string
	Err     error // underlying read error for ErrInputData
}

// NewError creates a new error at the given position.
func NewError(code ErrorCode, pos Pos, context string) *Error {
	return &Error{
		Code:    code,
		Line:    pos.Line,
		Column:  pos.Column,
		Context: context,
	}
}

// Position returns the line and column of the error and its context.
func (e *Error) Position() (int, int, string) {
	return e.Line, e.Column, e.Context
}

// Error returns the error string, containing the message, line and column number and the context.
func (e *Error) Error() string {
	s := fmt.Sprintf("%s on line %d and column %d", e.Code, e.Line, e.Column)
	if e.Context != "" {
		s += ": " + e.Context
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the error code and the underlying error, if any.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Code, e.Err}
	}
	return []error{e.Code}
}

// Substitute returns err with its code replaced by code when err is an *Error of kind check. Other errors, including handler errors, are returned unchanged.
// It lets a sub-parser turn a generic failure such as ErrEOF into the specific one it knows about.
func Substitute(err error, check, code ErrorCode) error {
	e, ok := err.(*Error)
	if !ok || e.Code != check {
		return err
	}
	sub := *e
	sub.Code = code
	return &sub
}

// CodeOf returns the ErrorCode of err, or 0 when err is not a parsing error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
