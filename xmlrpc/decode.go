package xmlrpc

import (
	"encoding/base64"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// nextStart returns the next start element, skipping character data,
// comments and processing instructions.
func nextStart(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

func expectStart(d *xml.Decoder, name string) error {
	se, err := nextStart(d)
	if err != nil {
		return err
	}
	if se.Name.Local != name {
		return errors.Errorf("expected <%s> but got <%s>", name, se.Name.Local)
	}
	return nil
}

// readText collects character data up to the end tag of the element whose
// start tag has just been read.
func readText(d *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			return "", errors.Errorf("unexpected <%s> in scalar", t.Name.Local)
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}

// skipToEnd consumes tokens until the end tag called name.
func skipToEnd(d *xml.Decoder, name string) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local != name {
				return errors.Errorf("expected </%s> but got </%s>", name, t.Name.Local)
			}
			return nil
		}
	}
}

// parseValue decodes the body of a <value> element whose start tag has been
// consumed. On success the closing </value> has been consumed too.
func parseValue(d *xml.Decoder) (interface{}, error) {
	var text []byte
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text = append(text, t...)
		case xml.StartElement:
			v, err := parseTyped(d, t)
			if err != nil {
				return nil, err
			}
			if err := skipToEnd(d, "value"); err != nil {
				return nil, err
			}
			return v, nil
		case xml.EndElement:
			// A value without a type element is a string.
			return string(text), nil
		}
	}
}

func parseTyped(d *xml.Decoder, se xml.StartElement) (interface{}, error) {
	switch se.Name.Local {
	case "array":
		return parseArray(d)
	case "struct":
		return parseStruct(d)
	}

	text, err := readText(d)
	if err != nil {
		return nil, err
	}
	switch se.Name.Local {
	case "boolean":
		switch strings.TrimSpace(text) {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
		return nil, errors.Errorf("invalid boolean %q", text)
	case "int", "i4":
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return nil, errors.Wrap(err, "int")
		}
		return int32(i), nil
	case "double":
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, errors.Wrap(err, "double")
		}
		return f, nil
	case "string":
		return text, nil
	case "base64":
		bs, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return nil, errors.Wrap(err, "base64")
		}
		return bs, nil
	}
	return nil, errors.Errorf("unsupported type <%s>", se.Name.Local)
}

func parseArray(d *xml.Decoder) (interface{}, error) {
	a := []interface{}{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "value" {
				continue
			}
			v, err := parseValue(d)
			if err != nil {
				return nil, err
			}
			a = append(a, v)
		case xml.EndElement:
			if t.Name.Local == "array" {
				return a, nil
			}
		}
	}
}

func parseStruct(d *xml.Decoder) (interface{}, error) {
	m := make(map[string]interface{})
	var name string
	var value interface{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				if name, err = readText(d); err != nil {
					return nil, err
				}
			case "value":
				if value, err = parseValue(d); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "member":
				m[name] = value
				name, value = "", nil
			case "struct":
				return m, nil
			}
		}
	}
}

func parseRequest(d *xml.Decoder) (string, []interface{}, error) {
	if err := expectStart(d, "methodCall"); err != nil {
		return "", nil, err
	}
	if err := expectStart(d, "methodName"); err != nil {
		return "", nil, err
	}
	name, err := readText(d)
	if err != nil {
		return "", nil, err
	}
	name = strings.TrimSpace(name)

	var args []interface{}
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return name, args, nil
		} else if err != nil {
			return "", nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "value" {
				v, err := parseValue(d)
				if err != nil {
					return "", nil, err
				}
				args = append(args, v)
			}
		case xml.EndElement:
			if t.Name.Local == "methodCall" {
				return name, args, nil
			}
		}
	}
}

// parseResponse returns the decoded result. ok is false when the response
// is a fault, in which case result holds the fault struct.
func parseResponse(d *xml.Decoder) (ok bool, result interface{}, err error) {
	if err = expectStart(d, "methodResponse"); err != nil {
		return
	}
	var se xml.StartElement
	if se, err = nextStart(d); err != nil {
		return
	}
	switch se.Name.Local {
	case "params":
		ok = true
	case "fault":
		ok = false
	default:
		err = errors.Errorf("unexpected <%s> in response", se.Name.Local)
		return
	}
	for {
		if se, err = nextStart(d); err != nil {
			return
		}
		if se.Name.Local == "value" {
			break
		}
	}
	result, err = parseValue(d)
	return
}
