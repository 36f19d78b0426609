package core

import "strings"

// Form field names used as FieldErrors keys.
const (
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldDate        = "date"
	FieldKind        = "kind"
)

const (
	MsgAmountRequired      = "amount is required"
	MsgAmountInvalid       = "amount must be a positive number"
	MsgDescriptionRequired = "description is required"
	MsgDateRequired        = "date is required"
	MsgCategoryRequired    = "category is required"
	MsgKindInvalid         = "kind must be income or expense"
	MsgCategoryUnknown     = "category is not valid for this kind"
)

// FieldErrors maps a form field name to its error message.
type FieldErrors map[string]string

// OK reports whether no field failed.
func (fe FieldErrors) OK() bool {
	return len(fe) == 0
}

// IsRequired reports whether v has content once surrounding whitespace is removed.
func IsRequired(v string) bool {
	return len(strings.TrimSpace(v)) > 0
}

// ValidateForm checks every field of in and returns one message per failing
// field. The amount is checked for being numeric only after it passed the
// required rule.
func ValidateForm(in FormInput) FieldErrors {
	errs := FieldErrors{}

	if !IsRequired(in.Amount) {
		errs[FieldAmount] = MsgAmountRequired
	} else if !IsPositiveAmount(in.Amount) {
		errs[FieldAmount] = MsgAmountInvalid
	}
	if !IsRequired(in.Description) {
		errs[FieldDescription] = MsgDescriptionRequired
	}
	if !IsRequired(in.Date) {
		errs[FieldDate] = MsgDateRequired
	}
	if !IsRequired(in.Category) {
		errs[FieldCategory] = MsgCategoryRequired
	}
	if !in.Kind.IsValid() {
		errs[FieldKind] = MsgKindInvalid
	}

	return errs
}
