package catalog

import (
	"encoding/json"
	"strconv"
)

// Ident identifies a row in a reference table. The remote tables mix serial
// integers and UUID strings, and the two id spaces are never assumed to be
// shared; both forms are carried. The zero value means "no id".
type Ident struct {
	num   int64
	str   string
	isNum bool
}

func NumID(n int64) Ident { return Ident{num: n, isNum: true} }

func StrID(s string) Ident { return Ident{str: s} }

// ParseIdent coerces a raw token: all-digit tokens become numeric ids,
// anything else stays an opaque string id.
func ParseIdent(s string) Ident {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NumID(n)
	}
	return StrID(s)
}

// identFromJSON converts a decoded id value (json.Number from the REST
// client, float64 or string elsewhere) into an Ident.
func identFromJSON(v any) Ident {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return NumID(n)
		}
		return StrID(t.String())
	case float64:
		return NumID(int64(t))
	case int64:
		return NumID(t)
	case int:
		return NumID(int64(t))
	case string:
		return StrID(t)
	default:
		return Ident{}
	}
}

func (id Ident) IsZero() bool { return !id.isNum && id.str == "" }

func (id Ident) IsNum() bool { return id.isNum }

func (id Ident) Num() int64 { return id.num }

// Value returns the form suitable for query filters and JSON payloads.
func (id Ident) Value() any {
	if id.isNum {
		return id.num
	}
	return id.str
}

func (id Ident) String() string {
	if id.isNum {
		return strconv.FormatInt(id.num, 10)
	}
	return id.str
}

func (id Ident) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(id.Value())
}
