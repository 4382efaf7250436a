package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every Config; rules are registered once in init().
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report json names so messages match the config file
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("thumbstyle", func(fl validator.FieldLevel) bool {
		return ThumbStyle(fl.Field().String()).Valid()
	})
	validate.RegisterStructValidation(validateLayout, Config{})
}

// Validate checks field ranges, enum membership and the cross-field layout rules.
// Failures wrap ErrInvalid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s %q must be one of [%s]", field, fmt.Sprint(fe.Value()), fe.Param())
	case "thumbstyle":
		return fmt.Sprintf("%s %q is not a thumb style", field, fmt.Sprint(fe.Value()))
	case "layout":
		return field + ": " + fe.Param()
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s=%v fails %s=%s", field, fe.Value(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s=%v fails %s", field, fe.Value(), fe.Tag())
}

// validateLayout enforces the rules that span several fields.
func validateLayout(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	fail := func(v any, field, msg string) {
		sl.ReportError(v, field, field, "layout", msg)
	}
	if c.CenterCol >= c.Columns {
		fail(c.CenterCol, "centercol", fmt.Sprintf("must be below ncols (%d)", c.Columns))
	}
	if c.ReducedInnerCols+c.ReducedOuterCols >= c.Columns {
		fail(c.ReducedInnerCols, "reduced_inner_cols", "reduced columns must leave at least one full column")
	}
	if len(c.ColumnOffsets) < c.Columns {
		fail(len(c.ColumnOffsets), "column_offsets", fmt.Sprintf("needs %d entries, has %d", c.Columns, len(c.ColumnOffsets)))
	}
	if c.ColumnStyle == ColumnFixed || (c.Rows > 5 && c.ColumnStyleGT5 == ColumnFixed) {
		for name, n := range map[string]int{"fixed_angles": len(c.FixedAngles), "fixed_x": len(c.FixedX), "fixed_z": len(c.FixedZ)} {
			if n < c.Columns {
				fail(n, name, fmt.Sprintf("needs %d entries for fixed columns, has %d", c.Columns, n))
			}
		}
	}
	if c.ControllerMountType == ControllerPCBMount && len(c.PCBScrewXOffsets) == 0 {
		fail(0, "pcb_screw_x_offsets", "PCB_MOUNT needs at least one screw")
	}
}
