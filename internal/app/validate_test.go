package app

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeAndValidateAddPayeeInput(t *testing.T) {
	tests := []struct {
		name    string
		input   AddPayeeInput
		want    AddPayeeInput
		wantErr bool
	}{
		{
			name: "trims fields and uppercases ifsc",
			input: AddPayeeInput{
				UserID:          "u1",
				BeneficiaryName: "  Rajesh Kumar ",
				AccountNumber:   " 123456789012 ",
				IfscCode:        " sbin0000001 ",
				AccountType:     "Current",
			},
			want: AddPayeeInput{
				UserID:          "u1",
				BeneficiaryName: "Rajesh Kumar",
				AccountNumber:   "123456789012",
				IfscCode:        "SBIN0000001",
				AccountType:     "Current",
			},
		},
		{
			name: "defaults blank account type to Savings",
			input: AddPayeeInput{
				UserID:          "u1",
				BeneficiaryName: "Priya Sharma",
				AccountNumber:   "987654321098",
				IfscCode:        "HDFC0000001",
				AccountType:     "  ",
			},
			want: AddPayeeInput{
				UserID:          "u1",
				BeneficiaryName: "Priya Sharma",
				AccountNumber:   "987654321098",
				IfscCode:        "HDFC0000001",
				AccountType:     "Savings",
			},
		},
		{
			name: "rejects single character name",
			input: AddPayeeInput{
				BeneficiaryName: "R",
				AccountNumber:   "123456789012",
				IfscCode:        "SBIN0000001",
			},
			wantErr: true,
		},
		{
			name: "rejects name of only whitespace",
			input: AddPayeeInput{
				BeneficiaryName: "    ",
				AccountNumber:   "123456789012",
				IfscCode:        "SBIN0000001",
			},
			wantErr: true,
		},
		{
			name: "rejects name over 100 characters",
			input: AddPayeeInput{
				BeneficiaryName: strings.Repeat("a", 101),
				AccountNumber:   "123456789012",
				IfscCode:        "SBIN0000001",
			},
			wantErr: true,
		},
		{
			name: "rejects short account number",
			input: AddPayeeInput{
				BeneficiaryName: "Rajesh Kumar",
				AccountNumber:   "1234567",
				IfscCode:        "SBIN0000001",
			},
			wantErr: true,
		},
		{
			name: "rejects account number over 50 characters",
			input: AddPayeeInput{
				BeneficiaryName: "Rajesh Kumar",
				AccountNumber:   strings.Repeat("1", 51),
				IfscCode:        "SBIN0000001",
			},
			wantErr: true,
		},
		{
			name: "rejects malformed ifsc code",
			input: AddPayeeInput{
				BeneficiaryName: "Rajesh Kumar",
				AccountNumber:   "123456789012",
				IfscCode:        "ABC123",
			},
			wantErr: true,
		},
		{
			name: "rejects ifsc without literal zero at fifth position",
			input: AddPayeeInput{
				BeneficiaryName: "Rajesh Kumar",
				AccountNumber:   "123456789012",
				IfscCode:        "SBIN1000001",
			},
			wantErr: true,
		},
		{
			name: "rejects account type over 20 characters",
			input: AddPayeeInput{
				BeneficiaryName: "Rajesh Kumar",
				AccountNumber:   "123456789012",
				IfscCode:        "SBIN0000001",
				AccountType:     strings.Repeat("x", 21),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeAndValidateAddPayeeInput(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got success with %+v", got)
				}
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected ValidationError, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
