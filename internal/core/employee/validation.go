package employee

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^[0-9]{6,15}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// ValidatePersonal は個人情報を正規化して検証します。
// 必須項目の欠落は ErrIncompleteFields、電話番号の形式不正は ErrInvalidPhone を返します。
func ValidatePersonal(in Personal) (Personal, error) {
	out := Personal{
		FullName: strings.TrimSpace(in.FullName),
		DOB:      strings.TrimSpace(in.DOB),
		Gender:   strings.TrimSpace(in.Gender),
		Phone:    strings.TrimSpace(in.Phone),
		Email:    strings.TrimSpace(in.Email),
		Address:  strings.TrimSpace(in.Address),
		Avatar:   in.Avatar,
	}
	if err := fieldValidator().Struct(out); err != nil {
		return in, toValidationError(StepPersonal, err)
	}
	return out, nil
}

// ValidateOfficial は所属情報を正規化して検証します。給与は任意項目です。
func ValidateOfficial(in Official) (Official, error) {
	out := Official{
		EmployeeID:  strings.TrimSpace(in.EmployeeID),
		Department:  strings.TrimSpace(in.Department),
		Designation: strings.TrimSpace(in.Designation),
		JoinDate:    strings.TrimSpace(in.JoinDate),
		Location:    strings.TrimSpace(in.Location),
		Salary:      strings.TrimSpace(in.Salary),
	}
	if err := fieldValidator().Struct(out); err != nil {
		return in, toValidationError(StepOfficial, err)
	}
	return out, nil
}

// 必須項目の欠落を形式不正より優先して報告します。
func toValidationError(step Step, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var missing, malformed []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		malformed = append(malformed, fe.Field())
	}

	if len(missing) > 0 {
		return &ValidationError{Step: step, Fields: missing, Err: ErrIncompleteFields}
	}
	return &ValidationError{Step: step, Fields: malformed, Err: ErrInvalidPhone}
}
