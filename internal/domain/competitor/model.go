package competitor

import "fmt"

// Competitor is one driver eligible to appear in predictions and results.
type Competitor struct {
	ID          int64
	Code        string
	FirstName   string
	LastName    string
	Number      int
	CountryCode string
	Active      bool
}

func (c Competitor) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	return c.FirstName + " " + c.LastName
}

func (c Competitor) Validate() error {
	if c.Code == "" {
		return fmt.Errorf("competitor code is required")
	}
	if c.LastName == "" {
		return fmt.Errorf("competitor last name is required")
	}

	return nil
}
