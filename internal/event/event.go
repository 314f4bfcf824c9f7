package event

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// TimeLayout is the local date-time layout of the @timestamp field.
const TimeLayout = "2006-01-02T15:04:05.000"

// Access is one synthetic client-to-domain request.
type Access struct {
	Timestamp time.Time
	ClientIP  string
	Domain    string
}

func NewAccess(timestamp time.Time, clientIP, domain string) Access {
	return Access{
		Timestamp: timestamp,
		ClientIP:  clientIP,
		Domain:    domain,
	}
}

// AppendLine appends the event as a single newline-terminated JSON object:
//
//	{ "@timestamp": "2024-01-02T10:00:00.000", "clientIp": "10.0.0.1", "domain": "example.com" }
//
// Strings are JSON-escaped. Invalid UTF-8 is replaced with U+FFFD.
func (a Access) AppendLine(dst []byte) []byte {
	dst = append(dst, `{ "@timestamp": "`...)
	dst = a.Timestamp.AppendFormat(dst, TimeLayout)
	dst = append(dst, `", "clientIp": `...)

	stream := jsonAPI.BorrowStream(nil)
	stream.SetBuffer(dst)
	stream.WriteStringWithHTMLEscaped(a.ClientIP)
	stream.WriteRaw(`, "domain": `)
	stream.WriteStringWithHTMLEscaped(a.Domain)
	stream.WriteRaw(" }\n")
	dst = stream.Buffer()
	// the pooled stream must not keep the caller's buffer
	stream.SetBuffer(nil)
	jsonAPI.ReturnStream(stream)

	return dst
}
