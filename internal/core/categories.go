package core

// CategoryOption is one selectable category.
type CategoryOption struct {
	Value string
	Label string
}

// Catalog is the category vocabulary per kind.
type Catalog map[Kind][]CategoryOption

// DefaultCatalog returns the built-in vocabulary. Callers get a fresh copy.
func DefaultCatalog() Catalog {
	return Catalog{
		Income: {
			{Value: "salary", Label: "Salary"},
			{Value: "bonus", Label: "Bonus"},
			{Value: "investment", Label: "Investment"},
			{Value: "other-income", Label: "Other income"},
		},
		Expense: {
			{Value: "food", Label: "Food"},
			{Value: "transport", Label: "Transport"},
			{Value: "shopping", Label: "Shopping"},
			{Value: "entertainment", Label: "Entertainment"},
			{Value: "healthcare", Label: "Healthcare"},
			{Value: "education", Label: "Education"},
			{Value: "other-expense", Label: "Other expense"},
		},
	}
}

// Options returns the categories for kind.
func (c Catalog) Options(kind Kind) []CategoryOption {
	return append([]CategoryOption(nil), c[kind]...)
}

// Contains reports whether category belongs to the vocabulary of kind.
func (c Catalog) Contains(kind Kind, category string) bool {
	for _, opt := range c[kind] {
		if opt.Value == category {
			return true
		}
	}
	return false
}

// Label returns the display label of category, or the raw value when unknown.
func (c Catalog) Label(kind Kind, category string) string {
	for _, opt := range c[kind] {
		if opt.Value == category {
			return opt.Label
		}
	}
	return category
}

// ValidateCategory adds a category error to errs when the category is present
// but outside the vocabulary of kind. Missing categories are left to ValidateForm.
func (c Catalog) ValidateCategory(in FormInput, errs FieldErrors) FieldErrors {
	if errs == nil {
		errs = FieldErrors{}
	}
	if _, failed := errs[FieldCategory]; failed || !in.Kind.IsValid() {
		return errs
	}
	if !c.Contains(in.Kind, in.Category) {
		errs[FieldCategory] = MsgCategoryUnknown
	}
	return errs
}
