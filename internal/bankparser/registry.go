package bankparser

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedBank = errors.New("unsupported bank type")

// Registry holds the known statement formats in detection priority order.
// The first registered format doubles as the fallback for auto-detection.
type Registry struct {
	formats []*Format
}

// NewRegistry returns the built-in formats: TBC, then BOG.
func NewRegistry() *Registry {
	return NewRegistryWith(TBC(), BOG())
}

func NewRegistryWith(formats ...*Format) *Registry {
	return &Registry{formats: formats}
}

// Select returns the first format whose detector accepts content. When none
// does, the first registered format is returned instead of an error.
func (r *Registry) Select(content string) *Format {
	for _, f := range r.formats {
		if f.CanParse(content) {
			return f
		}
	}
	if len(r.formats) == 0 {
		return nil
	}
	return r.formats[0]
}

// ByCode looks a format up by bank code, ignoring case.
func (r *Registry) ByCode(code string) (*Format, error) {
	for _, f := range r.formats {
		if strings.EqualFold(string(f.Code), code) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedBank, code)
}

func (r *Registry) Supported() []BankCode {
	codes := make([]BankCode, len(r.formats))
	for i, f := range r.formats {
		codes[i] = f.Code
	}
	return codes
}
