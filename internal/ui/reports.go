package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"clinic/internal/model"
	"clinic/internal/service"
)

// PrintReports writes the fixed end-of-session reports. A failing report is
// printed in place and does not stop the remaining ones.
func PrintReports(ctx context.Context, svc service.ClinicService, w io.Writer) {
	fmt.Fprintln(w, "Patients with Cold:")
	if ps, err := svc.PatientsWithDisease(ctx, "Cold"); err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
	} else {
		printAll(w, ps)
	}

	fmt.Fprintln(w, "Patients whose name ends with \"e\":")
	if ps, err := svc.PatientsWithNameSuffix(ctx, "e"); err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
	} else {
		printAll(w, ps)
	}

	fmt.Fprintln(w, "Email of patient 1:")
	if email, err := svc.EmailByID(ctx, 1); err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
	} else {
		fmt.Fprintln(w, email)
	}

	fmt.Fprintln(w, "Appointments of patient 2:")
	if as, err := svc.AppointmentsOfPatient(ctx, 2); err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
	} else {
		printAll(w, as)
	}

	cutoff := model.NewDate(2024, time.January, 1)
	fmt.Fprintf(w, "Appointments before %s:\n", cutoff)
	if as, err := svc.AppointmentsBefore(ctx, cutoff); err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
	} else {
		printAll(w, as)
	}
}
