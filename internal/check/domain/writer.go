package domain

// CommandWriter appends validated submissions to the Nagios external
// command file.
type CommandWriter interface {
	// IsWritable is a best-effort pre-check of the command file. A true
	// result does not guarantee the next write succeeds.
	IsWritable() bool

	// Path reports the configured command file location.
	Path() string

	WriteServiceCheck(check ServiceCheck) error
	WriteHostCheck(check HostCheck) error
}
