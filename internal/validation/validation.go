package validation

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// TagName matches gin's binding tag so request structs validate the same way
// at the HTTP boundary and inside services.
const TagName = "binding"

func New() *validator.Validate {
	v := validator.New()
	v.SetTagName(TagName)
	Register(v)

	return v
}

// Register installs the custom rules used by request structs.
func Register(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", validators.NotBlank)
}
