package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks Config for problems that would break the bot at runtime.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	// Trimming for storage must never discard turns still needed for the
	// next call window.
	if c.Context.Retain < c.Context.Window {
		errs = append(errs, fmt.Sprintf("CONTEXT_RETAIN (%d) must be >= CONTEXT_WINDOW (%d)",
			c.Context.Retain, c.Context.Window))
	}

	if c.Bot.DelayMax < c.Bot.DelayMin {
		errs = append(errs, fmt.Sprintf("BOT_DELAY_MAX (%s) must be >= BOT_DELAY_MIN (%s)",
			c.Bot.DelayMax, c.Bot.DelayMin))
	}

	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	if c.Backend.Timeout < time.Second {
		errs = append(errs, "BACKEND_TIMEOUT must be at least 1s")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
