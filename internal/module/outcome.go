package module

import "fmt"

type Status int

const (
	NotFound Status = iota
	OutOfDate
	UpToDate
)

func (s Status) String() string {
	switch s {
	case UpToDate:
		return "up_to_date"
	case OutOfDate:
		return "out_of_date"
	default:
		return "not_found"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "up_to_date":
		*s = UpToDate
	case "out_of_date":
		*s = OutOfDate
	case "not_found":
		*s = NotFound
	default:
		return fmt.Errorf("module: unknown status %q", text)
	}
	return nil
}

// Outcome is the result of locating and version-checking one module.
//
// Version holds the expected version when Status is UpToDate and the
// version the binary reported when Status is OutOfDate. An OutOfDate
// outcome with an empty Version means the binary reported nothing readable.
type Outcome struct {
	Module  string `json:"module" yaml:"module"`
	Status  Status `json:"status" yaml:"status"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

func (o Outcome) Matches() bool {
	return o.Status == UpToDate
}

func (o Outcome) Found() bool {
	return o.Status != NotFound
}

// Reported returns the version string the binary printed, if any.
func (o Outcome) Reported() (string, bool) {
	if o.Status == NotFound || o.Version == "" {
		return "", false
	}
	return o.Version, true
}

// Binary returns the decorated module name, as in MFEKmetadata.
func (o Outcome) Binary() string {
	return Prefix + o.Module
}
