package server

import (
	"errors"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// browserEmail is the pattern browsers apply to <input type="email">.
// Single-label domains such as "localhost" are valid.
var browserEmail = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

var (
	registerOnce sync.Once
	registerErr  error
)

// registerValidators adds the "browseremail" binding rule to gin's validator.
func registerValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding validator is not go-playground/validator")
			return
		}
		registerErr = v.RegisterValidation("browseremail", func(fl validator.FieldLevel) bool {
			return browserEmail.MatchString(fl.Field().String())
		})
	})
	return registerErr
}
