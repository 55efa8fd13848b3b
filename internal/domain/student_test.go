package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestStudentProfileValidate(t *testing.T) {
	t.Parallel()

	gpa := 3.8
	sat := 1450
	act := 33
	year := 2027

	base := StudentProfile{
		Email:          "student@example.com",
		FirstName:      "Ada",
		LastName:       "Jones",
		GPA:            &gpa,
		SATScore:       &sat,
		ACTScore:       &act,
		GraduationYear: &year,
	}

	tests := []struct {
		name    string
		mutate  func(*StudentProfile)
		wantErr bool
	}{
		{
			name: "valid profile",
			mutate: func(p *StudentProfile) {
				// keep base
			},
		},
		{
			name: "missing email",
			mutate: func(p *StudentProfile) {
				p.Email = " "
			},
			wantErr: true,
		},
		{
			name: "malformed email",
			mutate: func(p *StudentProfile) {
				p.Email = "not-an-email"
			},
			wantErr: true,
		},
		{
			name: "missing first name",
			mutate: func(p *StudentProfile) {
				p.FirstName = ""
			},
			wantErr: true,
		},
		{
			name: "last name too long",
			mutate: func(p *StudentProfile) {
				p.LastName = strings.Repeat("a", MaxNameLength+1)
			},
			wantErr: true,
		},
		{
			name: "gpa out of range",
			mutate: func(p *StudentProfile) {
				bad := 4.5
				p.GPA = &bad
			},
			wantErr: true,
		},
		{
			name: "sat below minimum",
			mutate: func(p *StudentProfile) {
				bad := 350
				p.SATScore = &bad
			},
			wantErr: true,
		},
		{
			name: "act above maximum",
			mutate: func(p *StudentProfile) {
				bad := 37
				p.ACTScore = &bad
			},
			wantErr: true,
		},
		{
			name: "graduation year out of range",
			mutate: func(p *StudentProfile) {
				bad := 2019
				p.GraduationYear = &bad
			},
			wantErr: true,
		},
		{
			name: "optional academics absent",
			mutate: func(p *StudentProfile) {
				p.GPA = nil
				p.SATScore = nil
				p.ACTScore = nil
				p.GraduationYear = nil
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := base
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("Validate() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error = %v", err)
			}
		})
	}
}
