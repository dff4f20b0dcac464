package typedmux

import "strings"

type methodTag uint8

const (
	mGET methodTag = iota
	mHEAD
	mPOST
	mPUT
	mDELETE
	mCONNECT
	mOPTIONS
	mTRACE
	mOther
)

// Method is an HTTP request method: one of the eight named verbs, or an
// arbitrary Other method. Named verbs compare by tag; Other methods compare
// by ASCII-case-insensitive name.
type Method struct {
	tag   methodTag
	other string
}

var (
	GET     = Method{tag: mGET}
	HEAD    = Method{tag: mHEAD}
	POST    = Method{tag: mPOST}
	PUT     = Method{tag: mPUT}
	DELETE  = Method{tag: mDELETE}
	CONNECT = Method{tag: mCONNECT}
	OPTIONS = Method{tag: mOPTIONS}
	TRACE   = Method{tag: mTRACE}
)

var methodNames = [...]string{"GET", "HEAD", "POST", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE"}

// Other returns a Method for a non-standard verb.
func Other(name string) Method {
	return Method{tag: mOther, other: name}
}

// ParseMethod maps the canonical uppercase verbs to their named Method and
// anything else to Other.
func ParseMethod(s string) Method {
	for i, name := range methodNames {
		if s == name {
			return Method{tag: methodTag(i)}
		}
	}
	return Other(s)
}

// String returns the method name. Other methods return their raw name.
func (m Method) String() string {
	if m.tag == mOther {
		return m.other
	}
	return methodNames[m.tag]
}

func (m Method) equal(o Method) bool {
	if m.tag != o.tag {
		return false
	}
	if m.tag != mOther {
		return true
	}
	return strings.EqualFold(m.other, o.other)
}
