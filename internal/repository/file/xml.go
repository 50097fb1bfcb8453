package file

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"clinic/internal/model"
)

// XML stores the working set as one Root element holding an Item element per entity.
// Field elements come from the model's xml tags.
type XML[T any] struct {
	Root string
	Item string
}

// PatientXML returns the codec for <patients><patient>...</patient></patients>.
func PatientXML() XML[model.Patient] {
	return XML[model.Patient]{Root: "patients", Item: "patient"}
}

// AppointmentXML returns the codec for <appointments><appointment>...</appointment></appointments>.
func AppointmentXML() XML[model.Appointment] {
	return XML[model.Appointment]{Root: "appointments", Item: "appointment"}
}

// Encode writes an XML header and one Item element per entity under Root.
func (c XML[T]) Encode(items []T) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	root := xml.StartElement{Name: xml.Name{Local: c.Root}}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := enc.EncodeElement(item, xml.StartElement{Name: xml.Name{Local: c.Item}}); err != nil {
			return nil, err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode reads a Root element of Item elements. Any other element or stray text is an error.
func (c XML[T]) Decode(data []byte) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		out      []T
		depth    int
		seenRoot bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if seenRoot || el.Name.Local != c.Root {
					return nil, fmt.Errorf("unexpected root element <%s>, want <%s>", el.Name.Local, c.Root)
				}
				seenRoot = true
				depth++
				continue
			}
			if el.Name.Local != c.Item {
				return nil, fmt.Errorf("unexpected element <%s> in <%s>", el.Name.Local, c.Root)
			}
			var item T
			if err := dec.DecodeElement(&item, &el); err != nil {
				return nil, err
			}
			out = append(out, item)
		case xml.EndElement:
			depth--
		case xml.CharData:
			if len(bytes.TrimSpace(el)) > 0 {
				return nil, fmt.Errorf("unexpected text %q", el)
			}
		}
	}
	if !seenRoot {
		return nil, fmt.Errorf("missing <%s> root element", c.Root)
	}
	if err := validateAll(out); err != nil {
		return nil, err
	}
	return out, nil
}
