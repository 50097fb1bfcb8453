package file

import (
	"bytes"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"clinic/internal/model"
)

// Binary files start with a magic header and version, followed by repeated length-delimited
// records (field 1). Records use protobuf wire encoding:
//
//	patient:     1 id (zigzag varint), 2 name, 3 email, 4 disease
//	appointment: 1 id (zigzag varint), 2 patient (embedded record), 3 date (ISO string)
//
// Unknown fields are skipped.

var binaryMagic = []byte("CLNC")

const binaryVersion = 1

const recordField protowire.Number = 1

// PatientBinary is the binary codec for patients.
type PatientBinary struct{}

// AppointmentBinary is the binary codec for appointments, embedding the patient record.
type AppointmentBinary struct{}

// Encode writes the header followed by one record per patient.
func (PatientBinary) Encode(items []model.Patient) ([]byte, error) {
	return encodeBinary(items, appendPatient), nil
}

// Decode checks the header and reads every patient record.
func (PatientBinary) Decode(data []byte) ([]model.Patient, error) {
	return decodeBinary(data, consumePatient)
}

// Encode writes the header followed by one record per appointment.
func (AppointmentBinary) Encode(items []model.Appointment) ([]byte, error) {
	return encodeBinary(items, appendAppointment), nil
}

// Decode checks the header and reads every appointment record; each must carry a date.
func (AppointmentBinary) Decode(data []byte) ([]model.Appointment, error) {
	return decodeBinary(data, consumeAppointment)
}

func appendPatient(b []byte, p model.Patient) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(p.ID)))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, p.Name)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, p.Email)
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendString(b, p.Disease)
	return b
}

func appendAppointment(b []byte, a model.Appointment) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(a.ID)))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, appendPatient(nil, a.Patient))
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, a.Date.String())
	return b
}

func consumePatient(b []byte) (model.Patient, error) {
	var p model.Patient
	err := eachField(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			p.ID = int(protowire.DecodeZigZag(v))
			return n, nil
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			p.Name = v
			return n, nil
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			p.Email = v
			return n, nil
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			p.Disease = v
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return p, err
}

func consumeAppointment(b []byte) (model.Appointment, error) {
	var a model.Appointment
	err := eachField(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			a.ID = int(protowire.DecodeZigZag(v))
			return n, nil
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			p, err := consumePatient(v)
			if err != nil {
				return 0, fmt.Errorf("patient: %w", err)
			}
			a.Patient = p
			return n, nil
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return n, nil
			}
			d, err := model.ParseDate(v)
			if err != nil {
				return 0, err
			}
			a.Date = d
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return a, err
	}
	return a, a.Validate()
}

// eachField walks the fields of one record. fn consumes the value that follows the tag and
// returns its length, or a negative protowire error code.
func eachField(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func encodeBinary[T any](items []T, appendRecord func([]byte, T) []byte) []byte {
	b := append([]byte(nil), binaryMagic...)
	b = append(b, binaryVersion)
	for _, item := range items {
		b = protowire.AppendTag(b, recordField, protowire.BytesType)
		b = protowire.AppendBytes(b, appendRecord(nil, item))
	}
	return b
}

func decodeBinary[T any](data []byte, consume func([]byte) (T, error)) ([]T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	header := len(binaryMagic) + 1
	if len(data) < header || !bytes.Equal(data[:len(binaryMagic)], binaryMagic) {
		return nil, errors.New("not a clinic binary file")
	}
	if v := data[len(binaryMagic)]; v != binaryVersion {
		return nil, fmt.Errorf("unsupported binary version %d", v)
	}

	var out []T
	err := eachField(data[header:], func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != recordField || typ != protowire.BytesType {
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, nil
		}
		item, err := consume(v)
		if err != nil {
			return 0, fmt.Errorf("record %d: %w", len(out)+1, err)
		}
		out = append(out, item)
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
