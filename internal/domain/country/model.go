package country

import "fmt"

// Country is a reference-data row keyed by ISO 3166-1 alpha-2 code.
type Country struct {
	Code string
	Name string
}

func (c Country) Validate() error {
	if len(c.Code) != 2 {
		return fmt.Errorf("country code must be a two-letter ISO code")
	}
	if c.Name == "" {
		return fmt.Errorf("country name is required")
	}

	return nil
}
