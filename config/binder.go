package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// moduleIDPattern keeps ids addressable from every source: env keys split on
// underscores and CLI flags split on dots.
var moduleIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Binder decodes map[string]any data into Go structs and validates the result.
//
// Fields are mapped with `config` tags and checked with `validate` tags.
// Decoding is weakly typed, so "8080" fills an int and "5s" a time.Duration;
// comma-separated strings fill string slices.
//
//	type ServerConfig struct {
//	    Port    int           `config:"port" validate:"required,min=1,max=65535"`
//	    Timeout time.Duration `config:"timeout"`
//	}
//
// Besides the stock validator rules, `moduleid` accepts lowercase letters,
// digits and dashes.
type Binder struct {
	validator *validator.Validate
}

// BindError says which stage of Bind failed: "decode" or "validate".
type BindError struct {
	Stage string
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("config %s error: %v", e.Stage, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func NewBinder() *Binder {
	v := validator.New()
	_ = v.RegisterValidation("moduleid", func(fl validator.FieldLevel) bool {
		return moduleIDPattern.MatchString(fl.Field().String())
	})
	return &Binder{validator: v}
}

// Bind decodes source into target, a pointer to a struct, then validates it.
// On a validate failure target is left decoded.
func (b *Binder) Bind(source map[string]any, target any) error {
	if err := b.decode(source, target); err != nil {
		return &BindError{Stage: "decode", Err: err}
	}
	if err := b.validator.Struct(target); err != nil {
		return &BindError{Stage: "validate", Err: err}
	}
	return nil
}

func (b *Binder) decode(source map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		TagName: "config",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(source)
}
