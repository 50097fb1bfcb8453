package model

import "fmt"

// Patient is a person registered with the clinic. Identity is the ID.
type Patient struct {
	ID      int    `json:"id" xml:"id"`
	Name    string `json:"name" xml:"name"`
	Email   string `json:"email" xml:"email"`
	Disease string `json:"disease" xml:"disease"`
}

// Key returns the patient id.
func (p Patient) Key() int { return p.ID }

// Equal reports whether every field of p and o matches.
func (p Patient) Equal(o Patient) bool { return p == o }

// String renders the patient for console output.
func (p Patient) String() string {
	return fmt.Sprintf("Patient{id=%d, name=%s, email=%s, disease=%s}", p.ID, p.Name, p.Email, p.Disease)
}
