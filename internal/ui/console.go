package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"clinic/internal/model"
	"clinic/internal/service"
)

const menu = `
 1) List patients            8) Remove appointment
 2) Add patient              9) Patients with disease
 3) Update patient          10) Patients with name suffix
 4) Remove patient          11) Email of patient
 5) List appointments       12) Appointments of patient
 6) Add appointment         13) Appointments before date
 7) Update appointment       0) Exit
`

// Console is a line-oriented menu over a ClinicService.
type Console struct {
	svc     service.ClinicService
	in      *bufio.Scanner
	out     io.Writer
	actions map[string]func(context.Context) error
}

// NewConsole reads commands from in and writes prompts and results to out.
func NewConsole(svc service.ClinicService, in io.Reader, out io.Writer) *Console {
	c := &Console{svc: svc, in: bufio.NewScanner(in), out: out}
	c.actions = map[string]func(context.Context) error{
		"1":  c.listPatients,
		"2":  c.addPatient,
		"3":  c.updatePatient,
		"4":  c.removePatient,
		"5":  c.listAppointments,
		"6":  c.addAppointment,
		"7":  c.updateAppointment,
		"8":  c.removeAppointment,
		"9":  c.patientsWithDisease,
		"10": c.patientsWithNameSuffix,
		"11": c.emailByID,
		"12": c.appointmentsOfPatient,
		"13": c.appointmentsBefore,
	}
	return c
}

// Run loops until the user picks 0 or input ends. Operation errors are printed
// and the loop continues; only a failure reading input is returned.
func (c *Console) Run(ctx context.Context) error {
	for {
		fmt.Fprint(c.out, menu)
		choice, err := c.prompt("Choice: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}
		action, ok := c.actions[choice]
		if !ok {
			fmt.Fprintf(c.out, "unknown option %q\n", choice)
			continue
		}
		switch err := action(ctx); {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, errReadInput):
			return err
		default:
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

var errReadInput = errors.New("read input")

func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", errReadInput, err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) promptInt(label string) (int, error) {
	s, err := c.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return n, nil
}

func (c *Console) promptDate(label string) (model.Date, error) {
	s, err := c.prompt(label)
	if err != nil {
		return model.Date{}, err
	}
	return model.ParseDate(s)
}

func (c *Console) promptPatient() (model.Patient, error) {
	var p model.Patient
	var err error
	if p.ID, err = c.promptInt("Patient id: "); err != nil {
		return p, err
	}
	if p.Name, err = c.prompt("Name: "); err != nil {
		return p, err
	}
	if p.Email, err = c.prompt("Email: "); err != nil {
		return p, err
	}
	if p.Disease, err = c.prompt("Disease: "); err != nil {
		return p, err
	}
	return p, nil
}

func (c *Console) listPatients(ctx context.Context) error {
	ps, err := c.svc.ListPatients(ctx)
	if err != nil {
		return err
	}
	printAll(c.out, ps)
	return nil
}

func (c *Console) addPatient(ctx context.Context) error {
	p, err := c.promptPatient()
	if err != nil {
		return err
	}
	if err := c.svc.AddPatient(ctx, p); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "patient added")
	return nil
}

func (c *Console) updatePatient(ctx context.Context) error {
	p, err := c.promptPatient()
	if err != nil {
		return err
	}
	if err := c.svc.UpdatePatient(ctx, p); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "patient updated")
	return nil
}

func (c *Console) removePatient(ctx context.Context) error {
	id, err := c.promptInt("Patient id: ")
	if err != nil {
		return err
	}
	if err := c.svc.RemovePatient(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "patient removed")
	return nil
}

func (c *Console) listAppointments(ctx context.Context) error {
	as, err := c.svc.ListAppointments(ctx)
	if err != nil {
		return err
	}
	printAll(c.out, as)
	return nil
}

func (c *Console) promptBooking() (id, patientID int, date model.Date, err error) {
	if id, err = c.promptInt("Appointment id: "); err != nil {
		return
	}
	if patientID, err = c.promptInt("Patient id: "); err != nil {
		return
	}
	date, err = c.promptDate("Date (YYYY-MM-DD): ")
	return
}

func (c *Console) addAppointment(ctx context.Context) error {
	id, patientID, date, err := c.promptBooking()
	if err != nil {
		return err
	}
	if err := c.svc.AddAppointment(ctx, id, patientID, date); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "appointment added")
	return nil
}

func (c *Console) updateAppointment(ctx context.Context) error {
	id, patientID, date, err := c.promptBooking()
	if err != nil {
		return err
	}
	p, err := c.svc.GetPatient(ctx, patientID)
	if err != nil {
		return err
	}
	if err := c.svc.UpdateAppointment(ctx, model.Appointment{ID: id, Patient: p, Date: date}); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "appointment updated")
	return nil
}

func (c *Console) removeAppointment(ctx context.Context) error {
	id, err := c.promptInt("Appointment id: ")
	if err != nil {
		return err
	}
	if err := c.svc.RemoveAppointment(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "appointment removed")
	return nil
}

func (c *Console) patientsWithDisease(ctx context.Context) error {
	disease, err := c.prompt("Disease: ")
	if err != nil {
		return err
	}
	ps, err := c.svc.PatientsWithDisease(ctx, disease)
	if err != nil {
		return err
	}
	printAll(c.out, ps)
	return nil
}

func (c *Console) patientsWithNameSuffix(ctx context.Context) error {
	suffix, err := c.prompt("Suffix: ")
	if err != nil {
		return err
	}
	ps, err := c.svc.PatientsWithNameSuffix(ctx, suffix)
	if err != nil {
		return err
	}
	printAll(c.out, ps)
	return nil
}

func (c *Console) emailByID(ctx context.Context) error {
	id, err := c.promptInt("Patient id: ")
	if err != nil {
		return err
	}
	email, err := c.svc.EmailByID(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, email)
	return nil
}

func (c *Console) appointmentsOfPatient(ctx context.Context) error {
	id, err := c.promptInt("Patient id: ")
	if err != nil {
		return err
	}
	as, err := c.svc.AppointmentsOfPatient(ctx, id)
	if err != nil {
		return err
	}
	printAll(c.out, as)
	return nil
}

func (c *Console) appointmentsBefore(ctx context.Context) error {
	date, err := c.promptDate("Date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	as, err := c.svc.AppointmentsBefore(ctx, date)
	if err != nil {
		return err
	}
	printAll(c.out, as)
	return nil
}

func printAll[T fmt.Stringer](w io.Writer, items []T) {
	if len(items) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	for _, item := range items {
		fmt.Fprintln(w, item)
	}
}
