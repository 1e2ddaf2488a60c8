package xmlrpc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Client is the HTTP client used by Call.
var Client = &http.Client{Timeout: 30 * time.Second}

// Fault is an XML-RPC fault returned by the remote side.
type Fault struct {
	Code   int32
	String string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("XMLRPC Fault: code=%d string=%s", f.Code, f.String)
}

// Call invokes method on the XML-RPC server at url.
func Call(url string, method string, args ...interface{}) (interface{}, error) {
	var buf bytes.Buffer
	if err := emitRequest(&buf, method, args...); err != nil {
		return nil, errors.Wrap(err, "building request failed")
	}
	r, err := Client.Post(url, "text/xml", &buf)
	if err != nil {
		return nil, errors.Wrap(err, "sending request failed")
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return nil, errors.Errorf("HTTP failed with code %v", r.Status)
	}

	ok, result, err := parseResponse(xml.NewDecoder(r.Body))
	if err != nil {
		return nil, errors.Wrap(err, "parsing response failed")
	}
	if ok {
		return result, nil
	}
	m, isMap := result.(map[string]interface{})
	if !isMap {
		return nil, errors.New("malformed XMLRPC fault response")
	}
	code, codeOK := m["faultCode"].(int32)
	msg, msgOK := m["faultString"].(string)
	if !codeOK || !msgOK {
		return nil, errors.New("malformed XMLRPC fault response")
	}
	return nil, &Fault{Code: code, String: msg}
}
