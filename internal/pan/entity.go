package pan

import "fmt"

// EntityType is the kind of taxpayer a PAN belongs to.
type EntityType int

const (
	Other EntityType = iota
	Individual
	Company
)

func (e EntityType) String() string {
	switch e {
	case Individual:
		return "Individual"
	case Company:
		return "Company"
	default:
		return "Other"
	}
}

// ParseEntityType maps the String form back to an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	switch s {
	case "Individual":
		return Individual, nil
	case "Company":
		return Company, nil
	case "Other":
		return Other, nil
	}
	return Other, fmt.Errorf("unknown entity type %q", s)
}

func (e EntityType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EntityType) UnmarshalText(text []byte) error {
	v, err := ParseEntityType(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
