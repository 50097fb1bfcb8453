package file

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"clinic/internal/model"
)

// Text formats store one comma-separated record per line. Fields containing commas,
// quotes or newlines are quoted.
//
//	patient:     id,name,email,disease
//	appointment: id,patientId,patientName,patientEmail,patientDisease,date

// PatientText is the line codec for patients.
type PatientText struct{}

// AppointmentText is the line codec for appointments; the patient is flattened inline.
type AppointmentText struct{}

// Encode writes one id,name,email,disease line per patient.
func (PatientText) Encode(items []model.Patient) ([]byte, error) {
	return encodeRecords(items, patientFields)
}

// Decode parses patient lines, reporting the line of the first bad record.
func (PatientText) Decode(data []byte) ([]model.Patient, error) {
	return decodeRecords(data, 4, parsePatientFields)
}

// Encode writes one line per appointment with the patient fields inline.
func (AppointmentText) Encode(items []model.Appointment) ([]byte, error) {
	return encodeRecords(items, func(a model.Appointment) []string {
		rec := append([]string{strconv.Itoa(a.ID)}, patientFields(a.Patient)...)
		return append(rec, a.Date.String())
	})
}

// Decode parses appointment lines, reporting the line of the first bad record.
func (AppointmentText) Decode(data []byte) ([]model.Appointment, error) {
	return decodeRecords(data, 6, func(rec []string) (model.Appointment, error) {
		id, err := parseID(rec[0])
		if err != nil {
			return model.Appointment{}, err
		}
		p, err := parsePatientFields(rec[1:5])
		if err != nil {
			return model.Appointment{}, err
		}
		date, err := model.ParseDate(rec[5])
		if err != nil {
			return model.Appointment{}, err
		}
		return model.Appointment{ID: id, Patient: p, Date: date}, nil
	})
}

func patientFields(p model.Patient) []string {
	return []string{strconv.Itoa(p.ID), p.Name, p.Email, p.Disease}
}

func parsePatientFields(rec []string) (model.Patient, error) {
	id, err := parseID(rec[0])
	if err != nil {
		return model.Patient{}, err
	}
	return model.Patient{ID: id, Name: rec[1], Email: rec[2], Disease: rec[3]}, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func encodeRecords[T any](items []T, fields func(T) []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, item := range items {
		if err := w.Write(fields(item)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRecords[T any](data []byte, width int, parse func([]string) (T, error)) ([]T, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = width

	var out []T
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		item, err := parse(rec)
		if err != nil {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, item)
	}
}
