package review

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/errors"
)

// DateLayout is the only date format the service accepts.
const DateLayout = "2006-01-02"

// Alert texts shown when a submission is rejected locally.
const (
	MsgTitleDateRequired = "Title and Date are required."
	MsgDateFormat        = "Date must be in YYYY-MM-DD format."
	MsgNoPDF             = "No PDF available to OCR."
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		panic("review: registering isodate validation: " + err.Error())
	}
	return v
}

// isoDate accepts a calendar date in DateLayout.
func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// normalize trims what the operator is unlikely to mean literally.
func normalize(in FormInput) FormInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Date = strings.TrimSpace(in.Date)
	return in
}

// validateSubmission checks in for kind. Skip always passes.
func validateSubmission(v *validator.Validate, kind docservice.SubmitKind, in FormInput) error {
	if !kind.RequiresMetadata() {
		return nil
	}

	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.NewValidationError(MsgTitleDateRequired).WithCause(err)
	}

	// A missing field wins over a malformed one.
	var formatErr error
	for _, fe := range fieldErrs {
		switch {
		case fe.Tag() == "required" && fe.Field() == "Title":
			return errors.NewValidationError(MsgTitleDateRequired).WithField("title").WithCause(errors.ErrTitleRequired)
		case fe.Tag() == "required" && fe.Field() == "Date":
			return errors.NewValidationError(MsgTitleDateRequired).WithField("date").WithCause(errors.ErrDateRequired)
		case fe.Tag() == "isodate":
			formatErr = errors.NewValidationError(MsgDateFormat).WithField("date").WithCause(errors.ErrDateFormat)
		}
	}
	if formatErr != nil {
		return formatErr
	}
	return errors.NewValidationError(MsgTitleDateRequired).WithCause(err)
}

// HumanDate renders an ISO date as "Jan 2, 2006". Anything unparsable
// yields "".
func HumanDate(iso string) string {
	t, err := time.Parse(DateLayout, strings.TrimSpace(iso))
	if err != nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
