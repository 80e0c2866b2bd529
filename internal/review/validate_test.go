package review

import (
	"testing"

	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/errors"
)

func TestValidateSubmission(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name    string
		kind    docservice.SubmitKind
		in      FormInput
		wantErr error
		field   string
	}{
		{"valid publish", docservice.KindPublish, FormInput{Title: "T", Date: "1975-03-01"}, nil, ""},
		{"missing title", docservice.KindPublish, FormInput{Date: "1975-03-01"}, errors.ErrTitleRequired, "title"},
		{"missing date", docservice.KindDraft, FormInput{Title: "T"}, errors.ErrDateRequired, "date"},
		{"missing title beats bad date", docservice.KindDraft, FormInput{Date: "soon"}, errors.ErrTitleRequired, "title"},
		{"bad date", docservice.KindPublish, FormInput{Title: "T", Date: "1975-3-1"}, errors.ErrDateFormat, "date"},
		{"skip ignores everything", docservice.KindSkip, FormInput{}, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSubmission(v, tt.kind, tt.in)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var verr *errors.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("field = %v, want %q", verr, tt.field)
			}
		})
	}
}

func TestNewValidatorRegistersISODate(t *testing.T) {
	v := newValidator()
	tests := []struct {
		date    string
		wantErr bool
	}{
		{"2023-05-01", false},
		{"2024-02-29", false},
		{"2023-02-29", true},
		{"05/01/2023", true},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			err := v.Var(tt.date, "isodate")
			if (err != nil) != tt.wantErr {
				t.Errorf("isodate(%q) err = %v, wantErr %v", tt.date, err, tt.wantErr)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := normalize(FormInput{Title: "  Spaced  ", Date: " 1975-03-01\n", Content: "  keep  "})
	want := FormInput{Title: "Spaced", Date: "1975-03-01", Content: "  keep  "}
	if got != want {
		t.Errorf("normalize() = %+v, want %+v", got, want)
	}
}

func TestHumanDate(t *testing.T) {
	tests := map[string]string{
		"1975-03-01": "Mar 1, 1975",
		"2024-12-25": "Dec 25, 2024",
		"":           "",
		"not a date": "",
	}
	for in, want := range tests {
		if got := HumanDate(in); got != want {
			t.Errorf("HumanDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePreviewMode(t *testing.T) {
	tests := []struct {
		in      string
		want    PreviewMode
		wantErr bool
	}{
		{"pdf", PreviewPDF, false},
		{"DOCX", PreviewDOCX, false},
		{" docx ", PreviewDOCX, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePreviewMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePreviewMode(%q) = %q, %v", tt.in, got, err)
		}
	}

	if PreviewPDF.Other() != PreviewDOCX || PreviewDOCX.Other() != PreviewPDF {
		t.Error("Other() should swap modes")
	}
}
