package league

import "fmt"

// League is a competition covered by the content API.
type League struct {
	ID            string
	Name          string
	CountryCode   string
	CurrentSeason string
	IsDefault     bool
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.CountryCode == "" {
		return fmt.Errorf("league country code is required")
	}
	if l.CurrentSeason == "" {
		return fmt.Errorf("league current season is required")
	}

	return nil
}
