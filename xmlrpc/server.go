package xmlrpc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"sync"
)

// Method is a function taking XML-RPC decoded arguments and returning
// (interface{}, error).
type Method interface{}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Handler serves XML-RPC requests by dispatching them to Methods.
type Handler struct {
	mapping map[string]Method
	wait    sync.WaitGroup
}

func NewHandler(mapping map[string]Method) *Handler {
	return &Handler{mapping: mapping}
}

// WaitForShutdown blocks until in-flight requests have completed.
func (h *Handler) WaitForShutdown() {
	h.wait.Wait()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.wait.Add(1)
	defer h.wait.Done()

	var buf bytes.Buffer
	result, code, msg := h.dispatch(req)
	if msg == "" {
		if err := emitResponse(&buf, result); err != nil {
			buf.Reset()
			emitFault(&buf, 1, "Method returned an invalid result type.")
		}
	} else {
		emitFault(&buf, code, msg)
	}
	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func (h *Handler) dispatch(req *http.Request) (interface{}, int32, string) {
	name, args, err := parseRequest(xml.NewDecoder(req.Body))
	if err != nil {
		return nil, 1, "Invalid request."
	}
	method, ok := h.mapping[name]
	if !ok {
		return nil, 1, fmt.Sprintf("No method named '%v'.", name)
	}

	fn := reflect.ValueOf(method)
	ft := fn.Type()
	if ft.NumIn() != len(args) {
		return nil, 1, fmt.Sprintf("Method '%v' takes %d arguments but %d given.", name, ft.NumIn(), len(args))
	}
	if ft.NumOut() != 2 || !ft.Out(1).Implements(errorType) {
		return nil, 1, fmt.Sprintf("Method '%v' has an invalid signature.", name)
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		want := ft.In(i)
		if arg == nil {
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(want) {
			return nil, 1, fmt.Sprintf("Method '%v' argument %d has type %s, want %s.", name, i, v.Type(), want)
		}
		in[i] = v
	}

	out := fn.Call(in)
	if errValue := out[1]; !errValue.IsNil() {
		return nil, 1, fmt.Sprintf("Method '%v' call failed: %v", name, errValue.Interface())
	}
	return out[0].Interface(), 0, ""
}
